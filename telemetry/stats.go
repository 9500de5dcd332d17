// Package telemetry turns a running simulation into windowed statistics,
// bookmarks, lifetime records and run artifacts.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of simulated time.
type WindowStats struct {
	WindowStart float64 `csv:"window_start"`
	WindowEnd   float64 `csv:"window_end"`
	Events      int     `csv:"events"`

	// Population at window end
	Population int `csv:"population"`
	Mothers    int `csv:"mothers"`
	Gestating  int `csv:"gestating"`

	// Events during window
	Births    int `csv:"births"`
	Forfeited int `csv:"forfeited"`
	Matings   int `csv:"matings"`
	Moves     int `csv:"moves"`
	Starved   int `csv:"starved"`
	Aged      int `csv:"aged"`

	// Sugar held by agents, projected to window end
	SugarMean   float64 `csv:"sugar_mean"`
	SugarStd    float64 `csv:"sugar_std"`
	SugarP10    float64 `csv:"sugar_p10"`
	SugarP50    float64 `csv:"sugar_p50"`
	SugarP90    float64 `csv:"sugar_p90"`
	SugarMedian float64 `csv:"sugar_median"` // registry median; 0 when undefined

	MetabolismMean float64 `csv:"metabolism_mean"`
	MetabolismStd  float64 `csv:"metabolism_std"`
	MetabolismP50  float64 `csv:"metabolism_p50"`

	VisionMean float64 `csv:"vision_mean"`
	VisionStd  float64 `csv:"vision_std"`
	VisionP50  float64 `csv:"vision_p50"`

	AgeMean float64 `csv:"age_mean"`

	// Landscape
	Harvested float64 `csv:"harvested"` // sugar taken by moves during the window
	LandSugar float64 `csv:"land_sugar"`
	Occupied  int     `csv:"occupied"`
}

// Distribution summarises a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates the population mean and standard
// deviation plus the 10th, 50th and 90th percentiles of values.
func ComputeDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	var d Distribution
	d.Mean, d.Std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	d.P10 = Percentile(sorted, 0.10)
	d.P50 = Percentile(sorted, 0.50)
	d.P90 = Percentile(sorted, 0.90)
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("window_start", s.WindowStart),
		slog.Float64("window_end", s.WindowEnd),
		slog.Int("events", s.Events),
		slog.Int("population", s.Population),
		slog.Int("mothers", s.Mothers),
		slog.Int("gestating", s.Gestating),
		slog.Int("births", s.Births),
		slog.Int("forfeited", s.Forfeited),
		slog.Int("matings", s.Matings),
		slog.Int("moves", s.Moves),
		slog.Int("starved", s.Starved),
		slog.Int("aged", s.Aged),
		slog.Float64("sugar_mean", s.SugarMean),
		slog.Float64("sugar_std", s.SugarStd),
		slog.Float64("sugar_p10", s.SugarP10),
		slog.Float64("sugar_p50", s.SugarP50),
		slog.Float64("sugar_p90", s.SugarP90),
		slog.Float64("sugar_median", s.SugarMedian),
		slog.Float64("metabolism_mean", s.MetabolismMean),
		slog.Float64("metabolism_std", s.MetabolismStd),
		slog.Float64("metabolism_p50", s.MetabolismP50),
		slog.Float64("vision_mean", s.VisionMean),
		slog.Float64("vision_std", s.VisionStd),
		slog.Float64("vision_p50", s.VisionP50),
		slog.Float64("age_mean", s.AgeMean),
		slog.Float64("harvested", s.Harvested),
		slog.Float64("land_sugar", s.LandSugar),
		slog.Int("occupied", s.Occupied),
	)
}

// LogStats logs the headline numbers of the window.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEnd,
		"events", s.Events,
		"population", s.Population,
		"births", s.Births,
		"starved", s.Starved,
		"aged", s.Aged,
		"forfeited", s.Forfeited,
		"sugar_mean", s.SugarMean,
		"sugar_median", s.SugarMedian,
		"metabolism_mean", s.MetabolismMean,
		"vision_mean", s.VisionMean,
		"land_sugar", s.LandSugar,
	)
}
