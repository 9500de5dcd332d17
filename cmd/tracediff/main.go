// Command tracediff compares two event traces and reports the first record
// where they diverge. It exits 1 when the traces differ.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/Rodrun/sugarscape/trace"
)

func main() {
	contextLines := flag.Int("context", 3, "Records to show before the first difference")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-context n] a.trace b.trace\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	a, err := trace.ReadFile(flag.Arg(0))
	if err != nil {
		slog.Error("failed to read trace", "path", flag.Arg(0), "error", err)
		os.Exit(2)
	}
	b, err := trace.ReadFile(flag.Arg(1))
	if err != nil {
		slog.Error("failed to read trace", "path", flag.Arg(1), "error", err)
		os.Exit(2)
	}

	if !report(os.Stdout, a, b, *contextLines) {
		os.Exit(1)
	}
}

// report writes the comparison of a and b to w and reports whether they
// are identical.
func report(w io.Writer, a, b []trace.Record, contextLines int) bool {
	i, same := trace.Diff(a, b)
	if same {
		fmt.Fprintf(w, "traces identical: %s records\n", humanize.Comma(int64(len(a))))
		return true
	}

	fmt.Fprintf(w, "traces differ at record %s (%s vs %s records)\n",
		humanize.Comma(int64(i)), humanize.Comma(int64(len(a))), humanize.Comma(int64(len(b))))
	for j := max(0, i-contextLines); j < i; j++ {
		fmt.Fprintf(w, "  = %s\n", a[j])
	}
	fmt.Fprintf(w, "  a %s\n", recordAt(a, i))
	fmt.Fprintf(w, "  b %s\n", recordAt(b, i))
	return false
}

func recordAt(rs []trace.Record, i int) string {
	if i >= len(rs) {
		return "<end of trace>"
	}
	return rs[i].String()
}
