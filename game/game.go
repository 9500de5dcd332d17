// Package game wires a simulation to its telemetry, trace, archive and
// text or graphical front ends, and drives it headless or frame by frame.
package game

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Rodrun/sugarscape/agent"
	"github.com/Rodrun/sugarscape/archive"
	"github.com/Rodrun/sugarscape/config"
	"github.com/Rodrun/sugarscape/console"
	"github.com/Rodrun/sugarscape/render"
	"github.com/Rodrun/sugarscape/sim"
	"github.com/Rodrun/sugarscape/telemetry"
	"github.com/Rodrun/sugarscape/trace"
)

// Game holds one run and everything attached to it.
type Game struct {
	opts  Options
	cfg   *config.Config
	until float64
	out   io.Writer

	sim      *sim.Simulation
	perf     *telemetry.PerfCollector
	recorder *telemetry.Recorder
	output   *telemetry.OutputManager
	tracer   *trace.Writer
	archive  *archive.DB
	runID    string
	console  *console.Console

	glyphs     render.Glyphs
	initialMap string

	counts   counts
	events   int
	started  time.Time
	elapsed  time.Duration
	stop     func()
	quit     bool
	errs     []error
	unloaded bool

	// Graphical state
	paused   bool
	finished bool
	speed    int
	ui       *view
}

// counts tallies lifecycle notifications for the archive summary.
type counts struct {
	agent.NopHooks
	births, deaths int
}

func (c *counts) Born(*agent.Agent, *agent.Agent, *agent.Agent) { c.births++ }
func (c *counts) Died(*agent.Agent)                             { c.deaths++ }

// NewGameWithOptions builds the simulation and attaches what opts asks for.
func NewGameWithOptions(opts Options) (_ *Game, err error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	g := &Game{
		opts:   opts,
		cfg:    cfg,
		until:  opts.Until,
		out:    opts.Out,
		glyphs: render.GlyphsFrom(cfg.Render),
		speed:  max(cfg.Screen.EventsPerFrame, 1),
	}
	if g.until <= 0 {
		g.until = cfg.Simulation.Horizon
	}
	if g.out == nil {
		g.out = os.Stdout
	}
	defer func() {
		if err != nil {
			g.Unload()
		}
	}()

	g.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	g.sim, err = sim.New(sim.Options{
		Config: cfg,
		Seed:   opts.Seed,
		Hooks:  []agent.Hooks{&g.counts},
		Timer:  g.perf,
	})
	if err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}

	if g.output, err = telemetry.NewOutputManager(opts.OutputDir); err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	if err = g.output.WriteConfig(cfg); err != nil {
		return nil, err
	}

	if opts.ArchivePath != "" {
		if err = g.openArchive(opts.ArchivePath); err != nil {
			return nil, err
		}
	}

	g.recorder = telemetry.NewRecorder(g.sim, telemetry.RecorderOptions{
		Output:            g.output,
		Perf:              g.perf,
		LogStats:          opts.LogStats,
		SnapshotBookmarks: opts.OutputDir != "",
		OnWindow:          g.archiveWindow,
		OnDeath:           g.archiveDeath,
	})

	if opts.TracePath != "" {
		if g.tracer, err = trace.Create(opts.TracePath, cfg.Telemetry.TraceBatch); err != nil {
			return nil, fmt.Errorf("creating trace: %w", err)
		}
		g.sim.AddObserver(g.tracer)
	}

	if opts.Animate {
		g.sim.AddObserver(sim.ObserverFunc(g.animate))
	}

	if opts.Pause && opts.Headless {
		in := opts.In
		if in == nil {
			in = os.Stdin
		}
		g.console = console.New(in, g.out, g.glyphs, cfg.Render.NumberLines)
		g.console.OnQuit = g.requestQuit
		g.sim.AddObserver(g.console)
	}

	g.initialMap = g.textMap()

	if !opts.Headless {
		g.ui = newView(cfg)
	}

	slog.Info("game created",
		"seed", g.sim.Seed(),
		"agents", g.sim.Seeded(),
		"until", g.until,
		"headless", opts.Headless,
	)
	return g, nil
}

func (g *Game) openArchive(path string) error {
	db, err := archive.Open(path)
	if err != nil {
		return err
	}
	g.archive = db

	doc, err := yaml.Marshal(g.cfg)
	if err != nil {
		return fmt.Errorf("marshaling config for archive: %w", err)
	}
	g.runID, err = db.BeginRun(archive.RunMeta{
		Seed:       g.sim.Seed(),
		Rows:       g.cfg.Landscape.Rows,
		Cols:       g.cfg.Landscape.Cols,
		Initial:    g.sim.Seeded(),
		Horizon:    g.until,
		ConfigYAML: string(doc),
	})
	return err
}

// requestQuit ends the run at the next event boundary.
func (g *Game) requestQuit() {
	g.quit = true
	if g.stop != nil {
		g.stop()
	}
}

func (g *Game) check(err error) {
	if err == nil {
		return
	}
	if len(g.errs) == 0 {
		slog.Warn("run output failed", "error", err)
	}
	g.errs = append(g.errs, err)
}

// Unload flushes telemetry, finishes the archive run and closes every file.
func (g *Game) Unload() error {
	if g.unloaded {
		return nil
	}
	g.unloaded = true

	if g.recorder != nil {
		g.check(g.recorder.Finish())
	}
	if g.archive != nil && g.runID != "" && g.sim != nil {
		g.check(g.archive.FinishRun(g.runID, archive.Summary{
			FinalTime:  g.sim.Now(),
			Events:     g.events,
			Population: g.sim.Population().Len(),
			Births:     g.counts.births,
			Deaths:     g.counts.deaths,
		}))
	}
	if g.tracer != nil {
		g.check(g.tracer.Close())
	}
	if g.archive != nil {
		g.check(g.archive.Close())
	}
	g.check(g.output.Close())
	return errors.Join(g.errs...)
}

// Sim returns the simulation.
func (g *Game) Sim() *sim.Simulation { return g.sim }

// Recorder returns the telemetry recorder.
func (g *Game) Recorder() *telemetry.Recorder { return g.recorder }

// Events returns the number of events handled so far.
func (g *Game) Events() int { return g.events }

// RunID returns the archive id of this run, or "" without an archive.
func (g *Game) RunID() string { return g.runID }

// Until returns the time the run stops at.
func (g *Game) Until() float64 { return g.until }
