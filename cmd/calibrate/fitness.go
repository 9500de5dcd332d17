package main

import (
	"context"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/Rodrun/sugarscape/config"
	"github.com/Rodrun/sugarscape/sim"
	"github.com/Rodrun/sugarscape/telemetry"
)

// FitnessEvaluator runs headless simulations and scores how close their
// population settles to a target.
type FitnessEvaluator struct {
	params     *ParamVector
	seeds      []uint64
	baseConfig *config.Config
	target     float64

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	lastMeanPop    float64 // mean settled population from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, seeds []uint64, baseCfg *config.Config, target float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		seeds:       seeds,
		baseConfig:  baseCfg,
		target:      target,
		bestFitness: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// LastMeanPopulation returns the settled population of the most recent evaluation.
func (fe *FitnessEvaluator) LastMeanPopulation() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMeanPop
}

// Scoring constants.
const (
	warmupWindows   = 3   // windows skipped before the population is judged
	stabilityWeight = 0.5 // weight of the squared coefficient of variation
)

// runResult holds the results from a single simulation run.
type runResult struct {
	windows    []telemetry.WindowStats
	extinctAt  float64 // time the last agent died; 0 if the run survived
	horizon    float64
	hallOfFame *telemetry.HallOfFame
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness    float64
	meanPop    float64
	hallOfFame *telemetry.HallOfFame
	err        error
}

// Evaluate computes fitness for raw parameter values (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Run all seeds in parallel; each simulation owns its state.
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			r, err := fe.runSimulation(x, s)
			if err != nil {
				results[idx] = seedResult{fitness: math.Inf(1), err: err}
				return
			}
			results[idx] = seedResult{
				fitness:    fe.computeFitness(r),
				meanPop:    settledPopulation(r.windows),
				hallOfFame: r.hallOfFame,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalPop float64
	bestSeedFitness := math.Inf(1)
	var bestSeedHallOfFame *telemetry.HallOfFame
	for _, r := range results {
		if r.err != nil {
			return math.Inf(1)
		}
		totalFitness += r.fitness
		totalPop += r.meanPop
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedHallOfFame = r.hallOfFame
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestHallOfFame = bestSeedHallOfFame
	}
	fe.lastMeanPop = totalPop / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes one run to the configured horizon.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed uint64) (*runResult, error) {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	s, err := sim.New(sim.Options{Config: cfg, Seed: seed})
	if err != nil {
		return nil, fmt.Errorf("seed %d: %w", seed, err)
	}

	result := &runResult{horizon: cfg.Simulation.Horizon}
	rec := telemetry.NewRecorder(s, telemetry.RecorderOptions{
		OnWindow: func(w telemetry.WindowStats) {
			result.windows = append(result.windows, w)
			if w.Population == 0 && result.extinctAt == 0 {
				result.extinctAt = w.WindowEnd
			}
		},
	})
	if _, err := s.RunToHorizon(context.Background()); err != nil {
		return nil, fmt.Errorf("seed %d: %w", seed, err)
	}
	if err := rec.Finish(); err != nil {
		return nil, fmt.Errorf("seed %d: %w", seed, err)
	}
	if s.Population().Len() == 0 && result.extinctAt == 0 {
		result.extinctAt = s.Now()
	}
	result.hallOfFame = rec.HallOfFame()
	return result, nil
}

// computeFitness scores a run: squared relative distance of the settled
// population from the target, plus a stability term. Extinct runs score
// above every surviving run and earlier extinction scores worse.
func (fe *FitnessEvaluator) computeFitness(r *runResult) float64 {
	if r.extinctAt > 0 {
		early := 1.0
		if r.horizon > 0 {
			early = 1 - math.Min(r.extinctAt/r.horizon, 1)
		}
		return 10 + early
	}
	pops := populations(r.windows)
	if len(pops) == 0 {
		return 10
	}
	mean, std := stat.PopMeanStdDev(pops, nil)
	rel := (mean - fe.target) / fe.target
	fitness := rel * rel
	if mean > 0 {
		cv := std / mean
		fitness += stabilityWeight * cv * cv
	}
	return fitness
}

// populations returns the window populations after warmup.
func populations(windows []telemetry.WindowStats) []float64 {
	if len(windows) <= warmupWindows {
		return nil
	}
	pops := make([]float64, 0, len(windows)-warmupWindows)
	for _, w := range windows[warmupWindows:] {
		pops = append(pops, float64(w.Population))
	}
	return pops
}

// settledPopulation is the mean population after warmup.
func settledPopulation(windows []telemetry.WindowStats) float64 {
	pops := populations(windows)
	if len(pops) == 0 {
		return 0
	}
	return stat.Mean(pops, nil)
}
