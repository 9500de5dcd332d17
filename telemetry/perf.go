package telemetry

import (
	"log/slog"
	"time"

	"github.com/Rodrun/sugarscape/event"
	"github.com/Rodrun/sugarscape/sim"
)

// phases lists the event-handling phases in reporting order.
var phases = []string{sim.PhaseResources, sim.PhaseBehavior, sim.PhaseObserve}

// eventTypes lists the event types in reporting order.
var eventTypes = []event.Type{event.Move, event.Reproduce, event.Birth, event.Die}

// PerfSample is the wall time spent handling one event.
type PerfSample struct {
	Type     event.Type
	Duration time.Duration
	Phases   map[string]time.Duration
}

// PerfCollector keeps the last windowSize event samples in a ring and
// reports their timing by phase and by event type. It satisfies
// sim.PhaseTimer.
type PerfCollector struct {
	ring []PerfSample
	next int
	full bool

	cur        PerfSample
	eventStart time.Time
	phaseStart time.Time
	phase      string

	// Frame timing (for graphics mode)
	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector over the last windowSize events.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 1000
	}
	return &PerfCollector{ring: make([]PerfSample, windowSize)}
}

// StartEvent begins timing an event of type typ.
func (p *PerfCollector) StartEvent(typ event.Type) {
	p.eventStart = time.Now()
	p.cur = PerfSample{Type: typ, Phases: make(map[string]time.Duration, len(phases))}
	p.phase = ""
}

// StartPhase closes the running phase, if any, and opens phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.cur.Phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndEvent stores the sample for the event being timed.
func (p *PerfCollector) EndEvent() {
	now := time.Now()
	p.closePhase(now)
	p.phase = ""
	p.cur.Duration = now.Sub(p.eventStart)
	p.record(p.cur)
}

func (p *PerfCollector) record(s PerfSample) {
	p.ring[p.next] = s
	p.next++
	if p.next == len(p.ring) {
		p.next, p.full = 0, true
	}
}

// samples returns the filled part of the ring.
func (p *PerfCollector) samples() []PerfSample {
	if p.full {
		return p.ring
	}
	return p.ring[:p.next]
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// TypeTiming summarizes the handling time of one event type.
type TypeTiming struct {
	Count int
	Avg   time.Duration
	Max   time.Duration
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgEventDuration time.Duration
	MinEventDuration time.Duration
	MaxEventDuration time.Duration
	EventsPerSecond  float64

	// Phase breakdown (average durations and share of event time)
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	// Per event type; types absent from the window are missing
	ByType map[event.Type]TypeTiming

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the samples in the window.
func (p *PerfCollector) Stats() PerfStats {
	st := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		ByType:        make(map[event.Type]TypeTiming),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		st.FPS = float64(time.Second) / float64(p.frame)
	}

	samples := p.samples()
	if len(samples) == 0 {
		return st
	}

	var total time.Duration
	phaseSum := make(map[string]time.Duration)
	typeSum := make(map[event.Type]time.Duration)
	for i, s := range samples {
		total += s.Duration
		if i == 0 || s.Duration < st.MinEventDuration {
			st.MinEventDuration = s.Duration
		}
		st.MaxEventDuration = max(st.MaxEventDuration, s.Duration)

		for phase, d := range s.Phases {
			phaseSum[phase] += d
		}

		tt := st.ByType[s.Type]
		tt.Count++
		tt.Max = max(tt.Max, s.Duration)
		st.ByType[s.Type] = tt
		typeSum[s.Type] += s.Duration
	}

	n := time.Duration(len(samples))
	st.AvgEventDuration = total / n
	if st.AvgEventDuration > 0 {
		st.EventsPerSecond = float64(time.Second) / float64(st.AvgEventDuration)
	}
	for phase, sum := range phaseSum {
		st.PhaseAvg[phase] = sum / n
		if total > 0 {
			st.PhasePct[phase] = float64(sum) / float64(total) * 100
		}
	}
	for typ, tt := range st.ByType {
		tt.Avg = typeSum[typ] / time.Duration(tt.Count)
		st.ByType[typ] = tt
	}
	return st
}

// typeAvg returns the average handling time of typ, zero when absent.
func (s PerfStats) typeAvg(typ event.Type) time.Duration { return s.ByType[typ].Avg }

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_event_us", s.AvgEventDuration.Microseconds()),
		slog.Int64("min_event_us", s.MinEventDuration.Microseconds()),
		slog.Int64("max_event_us", s.MaxEventDuration.Microseconds()),
		slog.Int("events_per_sec", int(s.EventsPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}
	for _, typ := range eventTypes {
		if tt, ok := s.ByType[typ]; ok {
			attrs = append(attrs, slog.Int64(typ.String()+"_us", tt.Avg.Microseconds()))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Time         float64 `csv:"time"`
	AvgEventUS   int64   `csv:"avg_event_us"`
	MinEventUS   int64   `csv:"min_event_us"`
	MaxEventUS   int64   `csv:"max_event_us"`
	EventsPerSec float64 `csv:"events_per_sec"`
	FPS          float64 `csv:"fps"`
	ResourcesPct float64 `csv:"resources_pct"`
	BehaviorPct  float64 `csv:"behavior_pct"`
	ObservePct   float64 `csv:"observe_pct"`
	MoveUS       int64   `csv:"move_us"`
	ReproduceUS  int64   `csv:"reproduce_us"`
	BirthUS      int64   `csv:"birth_us"`
	DieUS        int64   `csv:"die_us"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(now float64) PerfStatsCSV {
	return PerfStatsCSV{
		Time:         now,
		AvgEventUS:   s.AvgEventDuration.Microseconds(),
		MinEventUS:   s.MinEventDuration.Microseconds(),
		MaxEventUS:   s.MaxEventDuration.Microseconds(),
		EventsPerSec: s.EventsPerSecond,
		FPS:          s.FPS,
		ResourcesPct: s.PhasePct[sim.PhaseResources],
		BehaviorPct:  s.PhasePct[sim.PhaseBehavior],
		ObservePct:   s.PhasePct[sim.PhaseObserve],
		MoveUS:       s.typeAvg(event.Move).Microseconds(),
		ReproduceUS:  s.typeAvg(event.Reproduce).Microseconds(),
		BirthUS:      s.typeAvg(event.Birth).Microseconds(),
		DieUS:        s.typeAvg(event.Die).Microseconds(),
	}
}
