// Package sim wires the landscape, calendar, registry and agents into one
// runnable simulation and exposes read-only views of its state.
package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Rodrun/sugarscape/agent"
	"github.com/Rodrun/sugarscape/config"
	"github.com/Rodrun/sugarscape/event"
	"github.com/Rodrun/sugarscape/landscape"
	"github.com/Rodrun/sugarscape/population"
	"github.com/Rodrun/sugarscape/rng"
)

// Observer sees every event after it has been handled.
type Observer interface {
	Observe(s *Simulation, ev event.Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s *Simulation, ev event.Event)

func (f ObserverFunc) Observe(s *Simulation, ev event.Event) { f(s, ev) }

// PhaseTimer is told when each part of event handling starts.
type PhaseTimer interface {
	StartEvent(typ event.Type)
	StartPhase(name string)
	EndEvent()
}

// Phase names reported to a PhaseTimer.
const (
	PhaseResources = "resources"
	PhaseBehavior  = "behavior"
	PhaseObserve   = "observe"
)

// Options configures a simulation.
type Options struct {
	Config    *config.Config // nil uses the embedded defaults
	Seed      uint64         // 0 uses Config.Simulation.Seed
	Hooks     []agent.Hooks
	Observers []Observer
	Timer     PhaseTimer
}

// Simulation is one run.
type Simulation struct {
	cfg      *config.Config
	seed     uint64
	streams  *rng.Manager
	land     *landscape.Landscape
	calendar *event.Calendar
	pop      *population.Registry[*agent.Agent]
	world    *agent.World

	hooks     hookSet
	observers []Observer
	timer     PhaseTimer
	seeded    int
}

// New builds the landscape and the initial population.
func New(opts Options) (*Simulation, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Simulation.Seed
	}

	streams := rng.New(seed)
	land, err := landscape.New(cfg.LandscapeParams(), streams)
	if err != nil {
		return nil, fmt.Errorf("creating landscape: %w", err)
	}

	s := &Simulation{
		cfg:       cfg,
		seed:      seed,
		streams:   streams,
		land:      land,
		calendar:  event.NewCalendar(),
		pop:       population.NewRegistry[*agent.Agent](),
		hooks:     append(hookSet(nil), opts.Hooks...),
		observers: append([]Observer(nil), opts.Observers...),
		timer:     opts.Timer,
	}
	s.world = &agent.World{
		Land:       land,
		Calendar:   s.calendar,
		Population: s.pop,
		Streams:    streams,
		Params:     cfg.AgentParams(),
		Hooks:      &s.hooks,
	}
	s.calendar.SetHooks(s.preEvent, s.postEvent)

	placed, err := agent.Seed(s.world, cfg.Agents.Initial)
	if err != nil {
		return nil, fmt.Errorf("seeding population: %w", err)
	}
	s.seeded = placed
	slog.Debug("simulation created", "seed", seed, "agents", placed, "rows", land.Rows(), "cols", land.Cols())
	return s, nil
}

func (s *Simulation) preEvent(ev event.Event) {
	if s.timer != nil {
		s.timer.StartEvent(ev.Type)
		s.timer.StartPhase(PhaseResources)
	}
	s.land.AdvanceResources(ev.Time)
	if s.timer != nil {
		s.timer.StartPhase(PhaseBehavior)
	}
}

func (s *Simulation) postEvent(ev event.Event) {
	if s.timer != nil {
		s.timer.StartPhase(PhaseObserve)
	}
	for _, o := range s.observers {
		o.Observe(s, ev)
	}
	if s.timer != nil {
		s.timer.EndEvent()
	}
}

// AddObserver appends an observer; observers run in the order added.
func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// AddHooks subscribes h to agent lifecycle notifications.
func (s *Simulation) AddHooks(h agent.Hooks) { s.hooks = append(s.hooks, h) }

// Step handles the next event. It returns false when none is pending.
func (s *Simulation) Step() bool { return s.calendar.Advance() }

// Run handles events until the next one is later than until, no events
// remain, or ctx is done. It returns the number handled.
func (s *Simulation) Run(ctx context.Context, until float64) (int, error) {
	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		next, ok := s.calendar.PeekNextTime()
		if !ok || next > until {
			return n, nil
		}
		s.calendar.Advance()
		n++
	}
}

// RunToHorizon runs until the configured horizon.
func (s *Simulation) RunToHorizon(ctx context.Context) (int, error) {
	return s.Run(ctx, s.cfg.Simulation.Horizon)
}

func (s *Simulation) Now() float64                                   { return s.calendar.Now() }
func (s *Simulation) Seed() uint64                                   { return s.seed }
func (s *Simulation) Seeded() int                                    { return s.seeded }
func (s *Simulation) Config() *config.Config                         { return s.cfg }
func (s *Simulation) Landscape() *landscape.Landscape                { return s.land }
func (s *Simulation) Calendar() event.Engine                         { return s.calendar }
func (s *Simulation) Population() *population.Registry[*agent.Agent] { return s.pop }
func (s *Simulation) Streams() *rng.Manager                          { return s.streams }
func (s *Simulation) World() *agent.World                            { return s.world }

// hookSet fans lifecycle notifications out to every subscriber.
type hookSet []agent.Hooks

func (hs *hookSet) Born(child, mother, father *agent.Agent) {
	for _, h := range *hs {
		h.Born(child, mother, father)
	}
}

func (hs *hookSet) Died(a *agent.Agent) {
	for _, h := range *hs {
		h.Died(a)
	}
}

func (hs *hookSet) Moved(a *agent.Agent, from agent.Position, harvested float64) {
	for _, h := range *hs {
		h.Moved(a, from, harvested)
	}
}

func (hs *hookSet) Mated(mother, mate *agent.Agent, birthAt float64) {
	for _, h := range *hs {
		h.Mated(mother, mate, birthAt)
	}
}

func (hs *hookSet) BirthForfeited(mother *agent.Agent) {
	for _, h := range *hs {
		h.BirthForfeited(mother)
	}
}
