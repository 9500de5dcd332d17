package telemetry

import (
	"errors"
	"log/slog"

	"github.com/Rodrun/sugarscape/agent"
	"github.com/Rodrun/sugarscape/event"
	"github.com/Rodrun/sugarscape/sim"
)

// RecorderOptions configures a Recorder. Every field is optional.
type RecorderOptions struct {
	Output   *OutputManager
	Perf     *PerfCollector
	LogStats bool // log every window at info level

	// SnapshotBookmarks saves a snapshot whenever a bookmark triggers.
	SnapshotBookmarks bool

	// OnWindow and OnDeath see each flushed window and each finished lifetime.
	OnWindow func(WindowStats)
	OnDeath  func(*LifetimeStats)
}

// Recorder feeds lifecycle notifications and dispatched events into a
// Collector, BookmarkDetector, LifetimeTracker and HallOfFame, and writes
// what they produce.
type Recorder struct {
	sim  *sim.Simulation
	opts RecorderOptions

	collector *Collector
	detector  *BookmarkDetector
	lifetimes *LifetimeTracker
	hof       *HallOfFame

	windows   int
	bookmarks []Bookmark
	last      WindowStats
	errs      []error
}

// NewRecorder attaches a recorder to s. Agents already placed are
// registered as generation 0.
func NewRecorder(s *sim.Simulation, opts RecorderOptions) *Recorder {
	cfg := s.Config()
	r := &Recorder{
		sim:       s,
		opts:      opts,
		collector: NewCollector(cfg.Telemetry.StatsWindow, s.Now()),
		lifetimes: NewLifetimeTracker(),
		hof:       NewHallOfFame(cfg.Telemetry.HallOfFameSize),
	}
	if cfg.Bookmarks.Enabled {
		r.detector = NewBookmarkDetector(cfg.Bookmarks)
	}
	s.Population().Each(func(a *agent.Agent) { r.lifetimes.Register(a, 0) })
	s.AddHooks(r)
	s.AddObserver(r)
	return r
}

// Born implements agent.Hooks.
func (r *Recorder) Born(child, mother, father *agent.Agent) {
	r.collector.RecordBirth()
	gen := max(r.lifetimes.Generation(mother.ID()), r.lifetimes.Generation(father.ID())) + 1
	r.lifetimes.Register(child, gen)
	r.lifetimes.RecordChild(mother.ID())
	r.lifetimes.RecordChild(father.ID())
}

// Died implements agent.Hooks.
func (r *Recorder) Died(a *agent.Agent) {
	r.collector.RecordDeath(a.DeathCause())
	ls := r.lifetimes.Remove(a)
	if ls == nil {
		return
	}
	r.hof.Consider(ls)
	if r.opts.OnDeath != nil {
		r.opts.OnDeath(ls)
	}
}

// Moved implements agent.Hooks.
func (r *Recorder) Moved(a *agent.Agent, _ agent.Position, harvested float64) {
	r.collector.RecordMove(harvested)
	r.lifetimes.RecordMove(a.ID(), harvested, a.Sugar())
}

// Mated implements agent.Hooks.
func (r *Recorder) Mated(mother, mate *agent.Agent, _ float64) {
	r.collector.RecordMating()
	r.lifetimes.RecordMating(mother.ID())
	r.lifetimes.RecordMating(mate.ID())
}

// BirthForfeited implements agent.Hooks.
func (r *Recorder) BirthForfeited(*agent.Agent) { r.collector.RecordForfeit() }

// Observe implements sim.Observer.
func (r *Recorder) Observe(s *sim.Simulation, ev event.Event) {
	r.collector.RecordEvent()
	if r.collector.ShouldFlush(ev.Time) {
		r.flush(ev.Time)
	}
}

func (r *Recorder) flush(now float64) {
	stats := r.collector.Flush(now, r.sim.Population(), r.sim.Landscape())
	r.windows++
	r.last = stats
	r.check(r.opts.Output.WriteTelemetry(stats))
	if r.opts.LogStats {
		stats.LogStats()
	}

	if r.detector != nil {
		for _, b := range r.detector.Check(stats) {
			b.LogBookmark()
			r.bookmarks = append(r.bookmarks, b)
			r.check(r.opts.Output.WriteBookmark(b))
			if r.opts.SnapshotBookmarks {
				_, err := r.opts.Output.WriteSnapshot(Capture(r.sim, r.lifetimes, &b))
				r.check(err)
			}
		}
	}

	if r.opts.Perf != nil {
		perf := r.opts.Perf.Stats()
		r.check(r.opts.Output.WritePerf(perf, now))
		if r.opts.LogStats {
			perf.LogStats()
		}
	}

	if r.opts.OnWindow != nil {
		r.opts.OnWindow(stats)
	}
}

func (r *Recorder) check(err error) {
	if err == nil {
		return
	}
	if len(r.errs) == 0 {
		slog.Warn("telemetry output failed", "error", err)
	}
	r.errs = append(r.errs, err)
}

// Finish flushes the partial window, writes the hall of fame and a final
// snapshot, and returns every output error seen during the run.
func (r *Recorder) Finish() error {
	now := r.sim.Now()
	if r.collector.events > 0 {
		r.flush(now)
	}
	r.check(r.opts.Output.WriteHallOfFame(r.hof))
	if _, err := r.opts.Output.WriteSnapshot(Capture(r.sim, r.lifetimes, nil)); err != nil {
		r.check(err)
	}
	return errors.Join(r.errs...)
}

func (r *Recorder) Windows() int                { return r.windows }
func (r *Recorder) Last() WindowStats           { return r.last }
func (r *Recorder) Bookmarks() []Bookmark       { return r.bookmarks }
func (r *Recorder) Lifetimes() *LifetimeTracker { return r.lifetimes }
func (r *Recorder) HallOfFame() *HallOfFame     { return r.hof }
