package main

import (
	"math"
	"testing"

	"github.com/Rodrun/sugarscape/config"
	"github.com/Rodrun/sugarscape/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-12 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestClampAndApply(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	pv.ApplyToConfig(cfg, []float64{-1, 0.5, 100, 60})
	got := pv.ExtractFromConfig(cfg)
	want := []float64{pv.Specs[0].Min, 0.5, pv.Specs[2].Max, 60}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()
	defaults := pv.DefaultVector()
	for i, v := range pv.ExtractFromConfig(cfg) {
		if v != defaults[i] {
			t.Errorf("%s default %v, config has %v", pv.Specs[i].Name, defaults[i], v)
		}
	}
}

func windowsWithPopulation(pops ...int) []telemetry.WindowStats {
	ws := make([]telemetry.WindowStats, len(pops))
	for i, p := range pops {
		ws[i] = telemetry.WindowStats{WindowEnd: float64(i + 1), Population: p}
	}
	return ws
}

func TestComputeFitness(t *testing.T) {
	fe := NewFitnessEvaluator(NewParamVector(), nil, config.Default(), 100)

	onTarget := &runResult{windows: windowsWithPopulation(10, 50, 80, 100, 100, 100), horizon: 6}
	if f := fe.computeFitness(onTarget); f != 0 {
		t.Errorf("steady run on target: fitness %v, want 0", f)
	}

	off := &runResult{windows: windowsWithPopulation(10, 50, 80, 50, 50, 50), horizon: 6}
	if f := fe.computeFitness(off); math.Abs(f-0.25) > 1e-12 {
		t.Errorf("steady run at half target: fitness %v, want 0.25", f)
	}

	noisy := &runResult{windows: windowsWithPopulation(10, 50, 80, 50, 150, 100), horizon: 6}
	if fe.computeFitness(noisy) <= fe.computeFitness(onTarget) {
		t.Error("fluctuating run should score worse than a steady one")
	}

	early := &runResult{extinctAt: 1, horizon: 10}
	late := &runResult{extinctAt: 9, horizon: 10}
	if fe.computeFitness(early) <= fe.computeFitness(late) {
		t.Error("early extinction should score worse than late extinction")
	}
	if fe.computeFitness(late) <= fe.computeFitness(off) {
		t.Error("extinction should score worse than any surviving run")
	}
}

func TestSettledPopulation(t *testing.T) {
	if got := settledPopulation(windowsWithPopulation(1, 2, 3)); got != 0 {
		t.Errorf("warmup only: %v, want 0", got)
	}
	if got := settledPopulation(windowsWithPopulation(1, 2, 3, 10, 20)); got != 15 {
		t.Errorf("settled = %v, want 15", got)
	}
}

func TestEvaluateSmallWorld(t *testing.T) {
	cfg := config.Default()
	cfg.Landscape.Rows = 10
	cfg.Landscape.Cols = 10
	cfg.Agents.Initial = 20
	cfg.Simulation.Horizon = 20
	cfg.Telemetry.StatsWindow = 2

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, []uint64{1, 2}, cfg, 20)
	x := pv.ExtractFromConfig(cfg)

	f := fe.Evaluate(x)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		t.Fatalf("Evaluate = %v", f)
	}
	if again := fe.Evaluate(x); again != f {
		t.Errorf("same parameters scored %v then %v", f, again)
	}
	if fe.BestHallOfFame() == nil {
		t.Error("no hall of fame kept for the best evaluation")
	}
}
