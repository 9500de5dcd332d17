package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Rodrun/sugarscape/trace"
)

func records(n int) []trace.Record {
	rs := make([]trace.Record, n)
	for i := range rs {
		rs[i] = trace.Record{Index: uint64(i), Seq: uint64(i), Time: float64(i) / 10, Type: "move", Agent: uint64(i % 3), Population: 5}
	}
	return rs
}

func TestReportIdentical(t *testing.T) {
	var out bytes.Buffer
	if !report(&out, records(1200), records(1200), 3) {
		t.Fatal("identical traces reported as different")
	}
	if got := out.String(); got != "traces identical: 1,200 records\n" {
		t.Errorf("output = %q", got)
	}
}

func TestReportDifference(t *testing.T) {
	a, b := records(10), records(10)
	b[6].Agent = 99

	var out bytes.Buffer
	if report(&out, a, b, 2) {
		t.Fatal("different traces reported as identical")
	}
	text := out.String()
	if !strings.HasPrefix(text, "traces differ at record 6 (10 vs 10 records)\n") {
		t.Errorf("header = %q", text)
	}
	if n := strings.Count(text, "  = "); n != 2 {
		t.Errorf("context lines = %d, want 2", n)
	}
	if !strings.Contains(text, "agent=99") {
		t.Error("diverging record not shown")
	}
}

func TestReportPrefix(t *testing.T) {
	var out bytes.Buffer
	if report(&out, records(4), records(6), 0) {
		t.Fatal("prefix reported as identical")
	}
	if !strings.Contains(out.String(), "  a <end of trace>\n") {
		t.Errorf("output = %q", out.String())
	}
}
