package game

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Rodrun/sugarscape/archive"
	"github.com/Rodrun/sugarscape/config"
	"github.com/Rodrun/sugarscape/trace"
	"github.com/Rodrun/sugarscape/ui"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Landscape.Rows = 12
	cfg.Landscape.Cols = 12
	cfg.Agents.Initial = 30
	cfg.Simulation.Horizon = 15
	cfg.Telemetry.StatsWindow = 5
	cfg.Landscape.MaxSugar = 10
	cfg.Landscape.Alpha = 1
	cfg.Reproduction.Rate = 0.5
	return cfg
}

func newGame(t *testing.T, opts Options) (*Game, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	if opts.Config == nil {
		opts.Config = testConfig()
	}
	opts.Out = &out
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	return g, &out
}

func TestRunHeadlessReport(t *testing.T) {
	g, out := newGame(t, Options{Headless: true, Compare: true, Terrain: true})
	if err := g.RunHeadless(context.Background()); err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if err := g.Unload(); err != nil {
		t.Fatalf("Unload: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"Seed: 1234567890\n",
		"=====Agent statistics at t = 0=====",
		"Comparison of initial (t=0) and final maps",
		"Terrain:\n",
		"seeded agents alive",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if n := strings.Count(text, "=====Agent statistics"); n != 2 {
		t.Errorf("statistics blocks = %d, want 2", n)
	}
	if g.Events() == 0 {
		t.Error("no events handled")
	}
	if next, ok := g.Sim().Calendar().PeekNextTime(); ok && next <= g.Until() {
		t.Errorf("next event at %v is not past the stop time %v", next, g.Until())
	}
}

func TestUntilOverridesHorizon(t *testing.T) {
	g, _ := newGame(t, Options{Headless: true, Until: 3})
	defer g.Unload()
	if err := g.RunHeadless(context.Background()); err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if g.Sim().Now() > 3 {
		t.Errorf("Now() = %v, want at most 3", g.Sim().Now())
	}
}

func TestArtifacts(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		Headless:    true,
		OutputDir:   filepath.Join(dir, "out"),
		TracePath:   filepath.Join(dir, "run.trace"),
		ArchivePath: filepath.Join(dir, "runs.db"),
	}
	g, _ := newGame(t, opts)
	if err := g.RunHeadless(context.Background()); err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if err := g.Unload(); err != nil {
		t.Fatalf("Unload: %v", err)
	}

	for _, name := range []string{"config.yaml", "telemetry.csv", "hall_of_fame.json"} {
		if _, err := os.Stat(filepath.Join(opts.OutputDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	records, err := trace.ReadFile(opts.TracePath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(records) != g.Events() {
		t.Errorf("trace has %d records, want %d", len(records), g.Events())
	}

	db, err := archive.Open(opts.ArchivePath)
	if err != nil {
		t.Fatalf("Open archive: %v", err)
	}
	defer db.Close()
	run, err := db.Run(g.RunID())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !run.Events.Valid || int(run.Events.Int64) != g.Events() {
		t.Errorf("archived events = %v, want %d", run.Events, g.Events())
	}
	if int(run.Population.Int64) != g.Sim().Population().Len() {
		t.Errorf("archived population = %d, want %d", run.Population.Int64, g.Sim().Population().Len())
	}
	samples, err := db.Samples(g.RunID())
	if err != nil {
		t.Fatalf("Samples: %v", err)
	}
	if len(samples) != g.Recorder().Windows() {
		t.Errorf("archived %d samples, recorder flushed %d windows", len(samples), g.Recorder().Windows())
	}
}

func TestSameSeedSameTrace(t *testing.T) {
	dir := t.TempDir()
	run := func(name string) []trace.Record {
		path := filepath.Join(dir, name)
		g, _ := newGame(t, Options{Headless: true, Seed: 99, TracePath: path})
		if err := g.RunHeadless(context.Background()); err != nil {
			t.Fatalf("RunHeadless: %v", err)
		}
		if err := g.Unload(); err != nil {
			t.Fatalf("Unload: %v", err)
		}
		records, err := trace.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		return records
	}
	if i, same := trace.Diff(run("a.trace"), run("b.trace")); !same {
		t.Errorf("traces differ at record %d", i)
	}
}

func TestConsoleQuitStopsRun(t *testing.T) {
	in := strings.NewReader("stats\n\nquit\n")
	g, out := newGame(t, Options{Headless: true, Pause: true, In: in})
	defer g.Unload()

	if err := g.RunHeadless(context.Background()); err != nil {
		t.Fatalf("RunHeadless after quit: %v", err)
	}
	if g.Events() != 2 {
		t.Errorf("events = %d, want 2", g.Events())
	}
	if !strings.Contains(out.String(), "seeded agents alive") {
		t.Error("closing report not printed after quit")
	}
}

func TestCanceledContext(t *testing.T) {
	g, _ := newGame(t, Options{Headless: true})
	defer g.Unload()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := g.RunHeadless(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("RunHeadless = %v, want context.Canceled", err)
	}
	if g.Events() != 0 {
		t.Errorf("events = %d, want 0", g.Events())
	}
}

func TestAnimatePrintsEveryEvent(t *testing.T) {
	g, out := newGame(t, Options{Headless: true, Animate: true, Until: 1})
	defer g.Unload()
	if err := g.RunHeadless(context.Background()); err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if n := strings.Count(out.String(), ", alive = "); n != g.Events() {
		t.Errorf("animation frames = %d, events = %d", n, g.Events())
	}
}

func TestControls(t *testing.T) {
	g, _ := newGame(t, Options{})
	defer g.Unload()
	start := g.speed

	g.apply(ui.ActionFaster)
	if g.speed != start*2 {
		t.Errorf("speed = %d, want %d", g.speed, start*2)
	}
	g.apply(ui.ActionSlower | ui.ActionSlower)
	if g.speed != start {
		t.Errorf("two slowers in one frame: speed = %d, want %d", g.speed, start)
	}
	for i := 0; i < 40; i++ {
		g.apply(ui.ActionSlower)
	}
	if g.speed != minSpeed {
		t.Errorf("speed = %d, want %d", g.speed, minSpeed)
	}

	g.apply(ui.ActionStep)
	if g.Events() != 0 {
		t.Error("step while running should be ignored")
	}
	g.apply(ui.ActionPause | ui.ActionStep)
	if !g.paused || g.Events() != 1 {
		t.Errorf("paused = %v, events = %d; want true, 1", g.paused, g.Events())
	}

	g.apply(ui.ActionTerrain)
	if !g.ui.overlays.IsEnabled(ui.OverlayTerrain) {
		t.Error("terrain overlay not enabled")
	}
	g.apply(ui.ActionSugar)
	if g.ui.overlays.IsEnabled(ui.OverlayTerrain) || !g.ui.overlays.IsEnabled(ui.OverlaySugar) {
		t.Error("sugar should replace terrain")
	}
}

func TestSelectAt(t *testing.T) {
	g, _ := newGame(t, Options{})
	defer g.Unload()
	cell := float32(g.cfg.Screen.CellSize)
	hud := float32(g.cfg.Screen.HUDHeight)

	if g.selectAt(5, hud/2) {
		t.Error("click on the HUD selected a cell")
	}
	if !g.selectAt(3*cell+1, hud+5*cell+1) {
		t.Fatal("click on the grid selected nothing")
	}
	if x, y, ok := g.ui.inspector.Selected(); !ok || x != 3 || y != 5 {
		t.Errorf("Selected() = %d, %d, %v; want 3, 5, true", x, y, ok)
	}
}

func TestProgressFor(t *testing.T) {
	tests := []struct {
		now, until float64
		want       int
	}{
		{0, 10, 0},
		{5, 10, progressSteps / 2},
		{12, 10, progressSteps},
		{3, 0, 0},
	}
	for _, tc := range tests {
		if got := progressFor(tc.now, tc.until); got != tc.want {
			t.Errorf("progressFor(%v, %v) = %d, want %d", tc.now, tc.until, got, tc.want)
		}
	}
}
