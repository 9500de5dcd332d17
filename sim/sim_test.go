package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Rodrun/sugarscape/agent"
	"github.com/Rodrun/sugarscape/config"
	"github.com/Rodrun/sugarscape/event"
)

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Landscape.Rows = 20
	cfg.Landscape.Cols = 20
	cfg.Agents.Initial = 60
	cfg.Simulation.Horizon = 40
	return cfg
}

func newSim(t *testing.T, cfg *config.Config, seed uint64) *Simulation {
	t.Helper()
	s, err := New(Options{Config: cfg, Seed: seed})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

type trace struct {
	events []event.Event
	ids    []uint64
}

func (tr *trace) Observe(s *Simulation, ev event.Event) {
	tr.events = append(tr.events, ev)
	tr.ids = append(tr.ids, ev.Owner.ID())
}

func TestDeterminism(t *testing.T) {
	run := func() (*Simulation, *trace) {
		s := newSim(t, smallConfig(), 0)
		tr := &trace{}
		s.AddObserver(tr)
		if _, err := s.RunToHorizon(context.Background()); err != nil {
			t.Fatalf("Run: %v", err)
		}
		return s, tr
	}
	s1, tr1 := run()
	s2, tr2 := run()

	if len(tr1.events) == 0 {
		t.Fatal("no events dispatched")
	}
	if len(tr1.events) != len(tr2.events) {
		t.Fatalf("event counts differ: %d vs %d", len(tr1.events), len(tr2.events))
	}
	for i := range tr1.events {
		a, b := tr1.events[i], tr2.events[i]
		if a.Time != b.Time || a.Type != b.Type || tr1.ids[i] != tr2.ids[i] {
			t.Fatalf("event %d differs: %+v/%d vs %+v/%d", i, a, tr1.ids[i], b, tr2.ids[i])
		}
	}
	if s1.Stats() != s2.Stats() {
		t.Errorf("final stats differ:\n%+v\n%+v", s1.Stats(), s2.Stats())
	}
	ids1, ids2 := s1.AliveIDs(), s2.AliveIDs()
	if len(ids1) != len(ids2) {
		t.Fatalf("survivor counts differ: %d vs %d", len(ids1), len(ids2))
	}
	for i := range ids1 {
		if ids1[i] != ids2[i] {
			t.Fatalf("survivor %d differs: %d vs %d", i, ids1[i], ids2[i])
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := newSim(t, smallConfig(), 1)
	b := newSim(t, smallConfig(), 2)
	a.Run(context.Background(), 5)
	b.Run(context.Background(), 5)
	if a.Stats() == b.Stats() {
		t.Error("different seeds produced identical statistics")
	}
}

func TestInvariantsHoldThroughoutRun(t *testing.T) {
	s := newSim(t, smallConfig(), 77)
	var failure error
	s.AddObserver(ObserverFunc(func(s *Simulation, ev event.Event) {
		if failure == nil {
			failure = s.CheckInvariants()
		}
	}))
	if _, err := s.RunToHorizon(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if failure != nil {
		t.Fatalf("invariant broken: %v", failure)
	}
	if s.Now() > s.Config().Simulation.Horizon {
		t.Errorf("clock %v past horizon", s.Now())
	}
}

type birthLog struct {
	agent.NopHooks
	ids []uint64
}

func (b *birthLog) Born(child, mother, father *agent.Agent) {
	b.ids = append(b.ids, child.ID())
}

func TestIdentityLaw(t *testing.T) {
	s := newSim(t, smallConfig(), 5)
	initial := s.AliveIDs()
	for i, id := range initial {
		if id != uint64(i) {
			t.Fatalf("seeded ids not 0..n-1: %v", initial)
		}
	}
	log := &birthLog{}
	s.AddHooks(log)
	s.RunToHorizon(context.Background())

	prev := initial[len(initial)-1]
	for _, id := range log.ids {
		if id <= prev {
			t.Fatalf("birth id %d not above %d", id, prev)
		}
		prev = id
	}
}

func TestEmptyPopulationStats(t *testing.T) {
	cfg := smallConfig()
	cfg.Agents.Initial = 0
	s := newSim(t, cfg, 0)
	st := s.Stats()
	if st.Population != 0 || st.MeanSugar != 0 || st.MedianSugar != 0 || st.MeanVision != 0 || st.MedianMetabolism != 0 {
		t.Errorf("empty stats = %+v", st)
	}
	if !st.MedianDefined {
		t.Error("median on empty population should be defined and 0")
	}
	if n, _ := s.Run(context.Background(), 100); n != 0 {
		t.Errorf("dispatched %d events with no agents", n)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s := newSim(t, smallConfig(), 0)
	ctx, cancel := context.WithCancel(context.Background())
	count := 0
	s.AddObserver(ObserverFunc(func(*Simulation, event.Event) {
		count++
		if count == 10 {
			cancel()
		}
	}))
	n, err := s.RunToHorizon(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if n != 10 {
		t.Errorf("dispatched %d, want 10", n)
	}
}

func TestSnapshotBuckets(t *testing.T) {
	s := newSim(t, smallConfig(), 3)
	agents := s.Snapshot(ViewAgents)
	if got := agents.Count(AgentHealthy) + agents.Count(AgentCritical); got != s.Population().Len() {
		t.Errorf("agent buckets %d, population %d", got, s.Population().Len())
	}
	if agents.Count(Sugar3) != 0 {
		t.Error("agent view shows sugar")
	}

	sugar := s.Snapshot(ViewSugar)
	if sugar.Count(Sugar3) == 0 {
		t.Error("sugar view shows no full cells on a fresh landscape")
	}

	terrain := s.Snapshot(ViewTerrain)
	for _, b := range terrain.Cells {
		if b < Terrain0 || b > Terrain3 {
			t.Fatalf("terrain view has bucket %d", b)
		}
	}
}

func TestQuartile(t *testing.T) {
	tests := []struct {
		ratio float64
		want  int
	}{
		{0, 0}, {0.24, 0}, {0.25, 1}, {0.49, 1}, {0.5, 2}, {0.74, 2}, {0.75, 3}, {1, 3},
	}
	for _, tt := range tests {
		if got := quartile(tt.ratio); got != tt.want {
			t.Errorf("quartile(%v) = %d, want %d", tt.ratio, got, tt.want)
		}
	}
}

func TestInfoDumps(t *testing.T) {
	s := newSim(t, smallConfig(), 11)
	s.Run(context.Background(), 2)
	ids := s.AliveIDs()
	if len(ids) == 0 {
		t.Fatal("no survivors")
	}
	info, ok := s.AgentInfo(ids[0])
	if !ok {
		t.Fatal("AgentInfo missing live agent")
	}
	if !info.HasNext {
		t.Error("live agent has no next event")
	}
	if info.Sugar < 0 || math.IsNaN(info.Sugar) {
		t.Errorf("sugar = %v", info.Sugar)
	}
	cell := s.CellInfo(info.X, info.Y)
	if !cell.Occupied || cell.AgentID != info.ID {
		t.Errorf("cell %+v does not report agent %d", cell, info.ID)
	}
	if _, ok := s.AgentInfo(1 << 40); ok {
		t.Error("AgentInfo found an unknown id")
	}
}
