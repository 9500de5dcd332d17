package telemetry

import (
	"math"

	"github.com/Rodrun/sugarscape/agent"
	"github.com/Rodrun/sugarscape/landscape"
	"github.com/Rodrun/sugarscape/population"
)

// Collector accumulates events within windows of simulated time and
// produces WindowStats.
type Collector struct {
	window      float64
	windowStart float64

	// Event counters for current window
	events    int
	births    int
	forfeited int
	matings   int
	moves     int
	starved   int
	aged      int
	harvested float64
}

// NewCollector creates a collector whose windows last window units of
// simulated time. Non-positive windows fall back to 1.
func NewCollector(window, start float64) *Collector {
	if window <= 0 {
		window = 1
	}
	return &Collector{window: window, windowStart: start}
}

// RecordEvent counts one dispatched event.
func (c *Collector) RecordEvent() { c.events++ }

// RecordBirth records a birth.
func (c *Collector) RecordBirth() { c.births++ }

// RecordForfeit records a birth lost for lack of space or a living mate.
func (c *Collector) RecordForfeit() { c.forfeited++ }

// RecordMating records a successful courtship.
func (c *Collector) RecordMating() { c.matings++ }

// RecordMove records a relocation and the sugar harvested on arrival.
func (c *Collector) RecordMove(harvested float64) {
	c.moves++
	c.harvested += harvested
}

// RecordDeath records a death by cause.
func (c *Collector) RecordDeath(cause agent.DeathCause) {
	if cause == agent.Senescence {
		c.aged++
	} else {
		c.starved++
	}
}

// ShouldFlush reports whether the current window has ended by now.
func (c *Collector) ShouldFlush(now float64) bool {
	return now-c.windowStart >= c.window
}

// Window returns the window length.
func (c *Collector) Window() float64 { return c.window }

// boundary returns the last window boundary at or before now, or now
// itself when no full window has passed.
func (c *Collector) boundary(now float64) float64 {
	n := math.Floor((now - c.windowStart) / c.window)
	if n < 1 {
		return now
	}
	return c.windowStart + n*c.window
}

// Flush produces a WindowStats and resets counters for the next window.
// The window closes on the last multiple of the window length at or before
// now, so boundaries stay aligned however late the triggering event falls.
// Distributions are sampled at now.
func (c *Collector) Flush(now float64, pop *population.Registry[*agent.Agent], land *landscape.Landscape) WindowStats {
	end := c.boundary(now)
	stats := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   end,
		Events:      c.events,
		Births:      c.births,
		Forfeited:   c.forfeited,
		Matings:     c.matings,
		Moves:       c.moves,
		Starved:     c.starved,
		Aged:        c.aged,
		Harvested:   c.harvested,
	}

	if pop != nil {
		stats.Population = pop.Len()
		pop.Each(func(a *agent.Agent) {
			if a.Traits().Mother {
				stats.Mothers++
			}
			if a.Gestating() {
				stats.Gestating++
			}
		})

		sugarAt := agent.SugarAtStat(now)
		sugar := ComputeDistribution(pop.Values(sugarAt))
		stats.SugarMean, stats.SugarStd = sugar.Mean, sugar.Std
		stats.SugarP10, stats.SugarP50, stats.SugarP90 = sugar.P10, sugar.P50, sugar.P90
		if median, ok := pop.Median(sugarAt); ok {
			stats.SugarMedian = median
		}

		metab := ComputeDistribution(pop.Values(agent.MetabolismStat))
		stats.MetabolismMean, stats.MetabolismStd, stats.MetabolismP50 = metab.Mean, metab.Std, metab.P50

		vision := ComputeDistribution(pop.Values(agent.VisionStat))
		stats.VisionMean, stats.VisionStd, stats.VisionP50 = vision.Mean, vision.Std, vision.P50

		stats.AgeMean = pop.Average(agent.AgeStat(now))
	}

	if land != nil {
		stats.LandSugar = land.TotalSugar()
		stats.Occupied = land.Occupied()
	}

	// Reset for next window
	c.windowStart = end
	c.events = 0
	c.births = 0
	c.forfeited = 0
	c.matings = 0
	c.moves = 0
	c.starved = 0
	c.aged = 0
	c.harvested = 0

	return stats
}
