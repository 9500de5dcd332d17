// Package agent implements the sugarscape organism and its event-driven
// lifecycle: move, reproduce, birth and die.
package agent

import (
	"github.com/Rodrun/sugarscape/event"
	"github.com/Rodrun/sugarscape/landscape"
	"github.com/Rodrun/sugarscape/population"
	"github.com/Rodrun/sugarscape/rng"
)

// Params holds the genetic and demographic parameters for agents.
type Params struct {
	MinMetabolism    float64
	MaxMetabolism    float64
	MinVision        float64
	MaxVision        float64
	MoveRate         float64 // rate of the exponential between moves
	ReproductionRate float64 // lambda of the exponential between mating attempts
	FertileAge       float64
	GestationMean    float64
	GestationStdDev  float64
	SenescenceMean   float64
	SenescenceStdDev float64
}

// Hooks receives lifecycle notifications. Implementations must only read
// simulation state.
type Hooks interface {
	Born(child, mother, father *Agent)
	Died(a *Agent)
	Moved(a *Agent, from Position, harvested float64)
	Mated(mother, mate *Agent, birthAt float64)
	BirthForfeited(mother *Agent)
}

// NopHooks ignores every notification.
type NopHooks struct{}

func (NopHooks) Born(child, mother, father *Agent)          {}
func (NopHooks) Died(*Agent)                                {}
func (NopHooks) Moved(*Agent, Position, float64)            {}
func (NopHooks) Mated(mother, mate *Agent, birthAt float64) {}
func (NopHooks) BirthForfeited(*Agent)                      {}

// World is everything an agent reads or mutates while it behaves.
type World struct {
	Land       *landscape.Landscape
	Calendar   event.Engine
	Population *population.Registry[*Agent]
	Streams    *rng.Manager
	Params     Params
	Hooks      Hooks
}

func (w *World) hooks() Hooks {
	if w.Hooks == nil {
		return NopHooks{}
	}
	return w.Hooks
}

func (w *World) genetics() *rng.Stream { return w.Streams.Get(rng.Genetics) }
func (w *World) timing() *rng.Stream   { return w.Streams.Get(rng.Timing) }
func (w *World) scan() *rng.Stream     { return w.Streams.Get(rng.Scan) }
