package agent

import (
	"errors"
	"log/slog"

	"github.com/Rodrun/sugarscape/landscape"
	"github.com/Rodrun/sugarscape/population"
)

// Seed spawns up to n agents on random open cells at time zero. It stops
// early, without error, once the landscape is saturated, and returns how
// many were placed.
func Seed(w *World, n int) (int, error) {
	for i := 0; i < n; i++ {
		if _, err := Spawn(w, 0, nil, nil, 0); err != nil {
			if errors.Is(err, landscape.ErrSaturated) {
				slog.Warn("landscape saturated during seeding", "placed", i, "requested", n)
				return i, nil
			}
			return i, err
		}
	}
	return n, nil
}

// Registry statistics.
var (
	SugarStat      population.Selector[*Agent] = (*Agent).Sugar
	MetabolismStat population.Selector[*Agent] = func(a *Agent) float64 { return a.traits.Metabolism }
	VisionStat     population.Selector[*Agent] = func(a *Agent) float64 { return float64(a.traits.Vision) }
)

// SugarAtStat selects each agent's sugar projected to time t.
func SugarAtStat(t float64) population.Selector[*Agent] {
	return func(a *Agent) float64 { return a.SugarAt(t) }
}

// AgeStat selects each agent's age at time t.
func AgeStat(t float64) population.Selector[*Agent] {
	return func(a *Agent) float64 { return a.Age(t) }
}
