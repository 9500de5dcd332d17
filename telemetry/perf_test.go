package telemetry

import (
	"testing"
	"time"

	"github.com/Rodrun/sugarscape/event"
	"github.com/Rodrun/sugarscape/sim"
)

var _ sim.PhaseTimer = (*PerfCollector)(nil)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartEvent(event.Move)
		pc.StartPhase(sim.PhaseResources)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(sim.PhaseBehavior)
		time.Sleep(200 * time.Microsecond)
		pc.EndEvent()
	}

	stats := pc.Stats()

	if stats.AvgEventDuration <= 0 {
		t.Error("expected positive average event duration")
	}
	if stats.MinEventDuration > stats.MaxEventDuration {
		t.Errorf("min %v > max %v", stats.MinEventDuration, stats.MaxEventDuration)
	}
	if _, ok := stats.PhaseAvg[sim.PhaseResources]; !ok {
		t.Error("expected resources phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[sim.PhaseBehavior]; !ok {
		t.Error("expected behavior phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[sim.PhaseObserve]; ok {
		t.Error("observe phase was never started")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartEvent(event.Move)
		pc.StartPhase(sim.PhaseBehavior)
		pc.EndEvent()
	}

	if n := len(pc.samples()); n != 5 {
		t.Errorf("samples = %d, want 5", n)
	}
	if pc.Stats().EventsPerSecond < 0 {
		t.Error("expected non-negative events per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartEvent(event.Move)
		pc.StartPhase("fast")
		time.Sleep(20 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(2 * time.Millisecond)
		pc.EndEvent()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgEventDuration != 0 {
		t.Error("expected zero avg event duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS in (0, 70] with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgEventDuration: 3 * time.Microsecond,
		PhasePct: map[string]float64{
			sim.PhaseResources: 20,
			sim.PhaseBehavior:  70,
			sim.PhaseObserve:   10,
		},
	}
	row := s.ToCSV(12.5)
	if row.Time != 12.5 || row.AvgEventUS != 3 {
		t.Errorf("row = %+v", row)
	}
	if row.ResourcesPct != 20 || row.BehaviorPct != 70 || row.ObservePct != 10 {
		t.Errorf("phase columns = %+v", row)
	}
}

func TestPerfCollector_ByType(t *testing.T) {
	pc := NewPerfCollector(10)

	timed := func(typ event.Type, d time.Duration) {
		pc.StartEvent(typ)
		pc.StartPhase(sim.PhaseBehavior)
		time.Sleep(d)
		pc.EndEvent()
	}
	timed(event.Move, 0)
	timed(event.Move, 0)
	timed(event.Birth, 2*time.Millisecond)

	stats := pc.Stats()

	if got := stats.ByType[event.Move].Count; got != 2 {
		t.Errorf("move count = %d, want 2", got)
	}
	birth, ok := stats.ByType[event.Birth]
	if !ok || birth.Count != 1 {
		t.Fatalf("birth timing = %+v, %v", birth, ok)
	}
	if birth.Avg < 2*time.Millisecond || birth.Max != birth.Avg {
		t.Errorf("birth avg %v max %v, want equal and >= 2ms", birth.Avg, birth.Max)
	}
	if stats.ByType[event.Move].Avg >= birth.Avg {
		t.Errorf("move avg %v not below birth avg %v", stats.ByType[event.Move].Avg, birth.Avg)
	}
	if _, ok := stats.ByType[event.Die]; ok {
		t.Error("die timing reported without die events")
	}

	row := stats.ToCSV(1)
	if row.BirthUS < 2000 || row.DieUS != 0 {
		t.Errorf("type columns = %+v", row)
	}
}

func TestPerfCollector_RingKeepsNewest(t *testing.T) {
	pc := NewPerfCollector(3)

	for _, typ := range []event.Type{event.Die, event.Die, event.Move, event.Move, event.Move} {
		pc.StartEvent(typ)
		pc.EndEvent()
	}

	stats := pc.Stats()
	if _, ok := stats.ByType[event.Die]; ok {
		t.Error("evicted die samples still reported")
	}
	if got := stats.ByType[event.Move].Count; got != 3 {
		t.Errorf("move count = %d, want 3", got)
	}
}
