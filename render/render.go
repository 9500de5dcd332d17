// Package render formats simulation state as plain text.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/Rodrun/sugarscape/config"
	"github.com/Rodrun/sugarscape/sim"
)

// Glyphs maps cell buckets to the strings drawn for them.
type Glyphs struct {
	AgentHealthy  string
	AgentCritical string
	Empty         string
	Sugar         [4]string // quartiles, lowest first
	Terrain       [4]string
}

// GlyphsFrom reads glyphs from the render config. Missing quartile glyphs
// fall back to Empty.
func GlyphsFrom(cfg config.RenderConfig) Glyphs {
	g := Glyphs{
		AgentHealthy:  cfg.AgentHealthy,
		AgentCritical: cfg.AgentCritical,
		Empty:         cfg.Empty,
	}
	for i := range g.Sugar {
		g.Sugar[i], g.Terrain[i] = g.Empty, g.Empty
		if i < len(cfg.Sugar) {
			g.Sugar[i] = cfg.Sugar[i]
		}
		if i < len(cfg.Terrain) {
			g.Terrain[i] = cfg.Terrain[i]
		}
	}
	return g
}

// For returns the glyph of b.
func (g Glyphs) For(b sim.Bucket) string {
	switch {
	case b == sim.AgentHealthy:
		return g.AgentHealthy
	case b == sim.AgentCritical:
		return g.AgentCritical
	case b >= sim.Sugar0 && b <= sim.Sugar3:
		return g.Sugar[b-sim.Sugar0]
	case b >= sim.Terrain0 && b <= sim.Terrain3:
		return g.Terrain[b-sim.Terrain0]
	}
	return g.Empty
}

// lastDigit returns the final decimal digit of n.
func lastDigit(n int) byte {
	s := strconv.Itoa(n)
	return s[len(s)-1]
}

// Map draws grid one row per line. With numberLines each row ends with the
// last digit of its index and a footer gives the last digit of each column.
func Map(grid sim.Grid, glyphs Glyphs, numberLines bool) string {
	var b strings.Builder
	for y := 0; y < grid.Rows; y++ {
		for x := 0; x < grid.Cols; x++ {
			b.WriteString(glyphs.For(grid.At(x, y)))
		}
		if numberLines {
			b.WriteByte(lastDigit(y))
		}
		b.WriteByte('\n')
	}
	if numberLines {
		for x := 0; x < grid.Cols; x++ {
			b.WriteByte(lastDigit(x))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Compare places two maps side by side, line by line.
func Compare(left, right string) string {
	l := strings.Split(strings.TrimSuffix(left, "\n"), "\n")
	r := strings.Split(strings.TrimSuffix(right, "\n"), "\n")

	width := 0
	for _, line := range l {
		width = max(width, utf8.RuneCountInString(line))
	}

	var b strings.Builder
	for i := 0; i < max(len(l), len(r)); i++ {
		var a, c string
		if i < len(l) {
			a = l[i]
		}
		if i < len(r) {
			c = r[i]
		}
		b.WriteString(a)
		b.WriteString(strings.Repeat(" ", width-utf8.RuneCountInString(a)))
		b.WriteString("  ")
		b.WriteString(c)
		b.WriteByte('\n')
	}
	return b.String()
}

func median(v float64, ok bool) string {
	if !ok {
		return "undefined"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Statistics formats population statistics.
func Statistics(st sim.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=====Agent statistics at t = %g=====\n", st.Time)
	fmt.Fprintf(&b, "Population: %d\n", st.Population)
	rows := []struct {
		name      string
		mean, med float64
	}{
		{"sugar", st.MeanSugar, st.MedianSugar},
		{"metabolism", st.MeanMetabolism, st.MedianMetabolism},
		{"vision", st.MeanVision, st.MedianVision},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "Average %s: %g\n", r.name, r.mean)
		fmt.Fprintf(&b, "Median %s: %s\n", r.name, median(r.med, st.MedianDefined))
	}
	return b.String()
}

// Cell formats a cell dump.
func Cell(c sim.CellInfo) string {
	occupant := "none"
	if c.Occupied {
		occupant = fmt.Sprintf("agent %d", c.AgentID)
	}
	return fmt.Sprintf("Cell (%d, %d)\n  sugar: %g / %g\n  level: %d\n  occupant: %s\n",
		c.X, c.Y, c.Sugar, c.Capacity, c.Level, occupant)
}

// Agent formats an agent dump.
func Agent(a sim.AgentInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Agent %d at (%d, %d)\n", a.ID, a.X, a.Y)
	fmt.Fprintf(&b, "  sugar: %g\n", a.Sugar)
	fmt.Fprintf(&b, "  metabolism: %g\n", a.Metabolism)
	fmt.Fprintf(&b, "  vision: %d\n", a.Vision)
	fmt.Fprintf(&b, "  mother: %t\n", a.Mother)
	fmt.Fprintf(&b, "  born: %g (age %g of %g)\n", a.Birthdate, a.Age, a.MaxAge)
	fmt.Fprintf(&b, "  children: %d\n", a.Children)
	if a.HasMate {
		fmt.Fprintf(&b, "  mate: %d\n", a.MateID)
	}
	fmt.Fprintf(&b, "  gestating: %t\n", a.Gestating)
	if a.HasNext {
		fmt.Fprintf(&b, "  next: %s at %g\n", a.NextType, a.NextTime)
	} else {
		b.WriteString("  next: none\n")
	}
	return b.String()
}

// Summary is a one-line account of a finished run.
func Summary(s *sim.Simulation, events int, elapsed time.Duration) string {
	rate := ""
	if secs := elapsed.Seconds(); secs > 0 {
		rate = fmt.Sprintf(" (%s/s)", humanize.Comma(int64(float64(events)/secs)))
	}
	return fmt.Sprintf("%s events to t = %s in %s%s; %s of %s seeded agents alive",
		humanize.Comma(int64(events)), humanize.Ftoa(s.Now()), elapsed.Round(time.Millisecond), rate,
		humanize.Comma(int64(s.Population().Len())), humanize.Comma(int64(s.Seeded())))
}
