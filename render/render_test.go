package render

import (
	"strings"
	"testing"
	"time"

	"github.com/Rodrun/sugarscape/config"
	"github.com/Rodrun/sugarscape/event"
	"github.com/Rodrun/sugarscape/sim"
)

func testGlyphs() Glyphs {
	return Glyphs{
		AgentHealthy:  "O",
		AgentCritical: "o",
		Empty:         ".",
		Sugar:         [4]string{"a", "b", "c", "d"},
		Terrain:       [4]string{"1", "2", "3", "4"},
	}
}

func TestGlyphsFrom(t *testing.T) {
	g := GlyphsFrom(config.Default().Render)
	if g.AgentHealthy != "O" || g.AgentCritical != "o" {
		t.Errorf("agent glyphs = %q %q", g.AgentHealthy, g.AgentCritical)
	}
	if g.Terrain[3] != "▇" {
		t.Errorf("terrain[3] = %q", g.Terrain[3])
	}

	short := GlyphsFrom(config.RenderConfig{Empty: "_", Sugar: []string{"x"}})
	if short.Sugar[0] != "x" || short.Sugar[3] != "_" || short.Terrain[0] != "_" {
		t.Errorf("short glyphs = %+v", short)
	}
}

func TestGlyphFor(t *testing.T) {
	g := testGlyphs()
	tests := []struct {
		b    sim.Bucket
		want string
	}{
		{sim.Empty, "."},
		{sim.AgentHealthy, "O"},
		{sim.AgentCritical, "o"},
		{sim.Sugar0, "a"},
		{sim.Sugar3, "d"},
		{sim.Terrain1, "2"},
		{sim.Terrain3, "4"},
	}
	for _, tt := range tests {
		if got := g.For(tt.b); got != tt.want {
			t.Errorf("For(%d) = %q, want %q", tt.b, got, tt.want)
		}
	}
}

func grid() sim.Grid {
	// 3 rows x 12 cols so column digits wrap past 9
	g := sim.Grid{Rows: 3, Cols: 12, Cells: make([]sim.Bucket, 36)}
	g.Cells[0] = sim.AgentHealthy
	g.Cells[12+1] = sim.AgentCritical
	g.Cells[24+11] = sim.Sugar2
	return g
}

func TestMap(t *testing.T) {
	got := Map(grid(), testGlyphs(), true)
	want := "" +
		"O...........0\n" +
		".o..........1\n" +
		"...........c2\n" +
		"012345678901\n"
	if got != want {
		t.Errorf("Map =\n%s\nwant\n%s", got, want)
	}

	plain := Map(grid(), testGlyphs(), false)
	if strings.Count(plain, "\n") != 3 || strings.ContainsAny(plain, "0123456789") {
		t.Errorf("unnumbered map =\n%s", plain)
	}
}

func TestCompare(t *testing.T) {
	got := Compare("ab\ncd\n", "⁞x\n⁞y\nzz\n")
	want := "ab  ⁞x\ncd  ⁞y\n    zz\n"
	if got != want {
		t.Errorf("Compare = %q, want %q", got, want)
	}

	// multi-byte glyphs on the left still line up
	got = Compare("▁▁\n▇\n", "r\ns\n")
	if want := "▁▁  r\n▇   s\n"; got != want {
		t.Errorf("Compare = %q, want %q", got, want)
	}
}

func TestStatistics(t *testing.T) {
	out := Statistics(sim.Stats{
		Time: 12.5, Population: 3,
		MeanSugar: 2, MedianSugar: 2.5,
		MeanMetabolism: 1.5, MedianMetabolism: 1.25,
		MeanVision: 4, MedianVision: 3.5,
		MedianDefined: true,
	})
	for _, want := range []string{
		"=====Agent statistics at t = 12.5=====",
		"Population: 3",
		"Average sugar: 2",
		"Median sugar: 2.5",
		"Median metabolism: 1.25",
		"Average vision: 4",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}

	small := Statistics(sim.Stats{Population: 2})
	if !strings.Contains(small, "Median sugar: undefined") {
		t.Errorf("undefined median not reported:\n%s", small)
	}
}

func TestCellAndAgent(t *testing.T) {
	c := Cell(sim.CellInfo{X: 3, Y: 4, Capacity: 5, Sugar: 2.5, Level: 2, Occupied: true, AgentID: 9})
	if !strings.Contains(c, "Cell (3, 4)") || !strings.Contains(c, "2.5 / 5") || !strings.Contains(c, "agent 9") {
		t.Errorf("Cell =\n%s", c)
	}

	a := Agent(sim.AgentInfo{ID: 7, X: 1, Y: 2, Sugar: 3, Vision: 4, HasNext: true, NextType: event.Die, NextTime: 8})
	if !strings.Contains(a, "Agent 7 at (1, 2)") || !strings.Contains(a, "next: die at 8") {
		t.Errorf("Agent =\n%s", a)
	}
	if strings.Contains(a, "mate:") {
		t.Error("mate printed without one")
	}
}

func TestSummary(t *testing.T) {
	cfg := config.Default()
	cfg.Landscape.Rows, cfg.Landscape.Cols = 10, 10
	cfg.Agents.Initial = 20
	s, err := sim.New(sim.Options{Config: cfg})
	if err != nil {
		t.Fatal(err)
	}
	out := Summary(s, 12345, 2*time.Second)
	if !strings.HasPrefix(out, "12,345 events") || !strings.Contains(out, "6,172/s") {
		t.Errorf("Summary = %q", out)
	}
}
