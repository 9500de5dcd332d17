package agent

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/Rodrun/sugarscape/event"
	"github.com/Rodrun/sugarscape/landscape"
)

// Position is a grid coordinate.
type Position struct{ X, Y int }

// Traits are fixed at birth.
type Traits struct {
	Metabolism float64
	Vision     int
	Mother     bool // only mothers initiate reproduction
	MaxAge     float64
}

// DeathCause says which limit ended, or will end, an agent's life.
type DeathCause uint8

const (
	Starvation DeathCause = iota
	Senescence
)

func (c DeathCause) String() string {
	if c == Senescence {
		return "senescence"
	}
	return "starvation"
}

// Agent is one organism. Its sugar is stored as the value at lastUpdate and
// decays linearly at its metabolism between behaviors.
type Agent struct {
	world *World

	id         uint64
	pos        Position
	sugar      float64
	lastUpdate float64
	traits     Traits
	birthdate  float64
	mate       *Agent
	alive      bool
	cause      DeathCause
	diedAt     float64

	move, reproduce, birth, die *event.Handle

	children int
	foraged  float64
}

func (a *Agent) ID() uint64             { return a.id }
func (a *Agent) SetID(id uint64)        { a.id = id }
func (a *Agent) PlaceAt(x, y int)       { a.pos = Position{x, y} }
func (a *Agent) Pos() Position          { return a.pos }
func (a *Agent) Traits() Traits         { return a.traits }
func (a *Agent) Birthdate() float64     { return a.birthdate }
func (a *Agent) Alive() bool            { return a.alive }
func (a *Agent) Mate() *Agent           { return a.mate }
func (a *Agent) Children() int          { return a.children }
func (a *Agent) Foraged() float64       { return a.foraged }
func (a *Agent) DiedAt() float64        { return a.diedAt }
func (a *Agent) DeathCause() DeathCause { return a.cause }

// Sugar returns the holding as of the agent's last behavior.
func (a *Agent) Sugar() float64 { return a.sugar }

// LastUpdate returns the time Sugar was last brought current.
func (a *Agent) LastUpdate() float64 { return a.lastUpdate }

// SugarAt projects the holding to time t.
func (a *Agent) SugarAt(t float64) float64 {
	return math.Max(0, a.sugar-a.traits.Metabolism*(t-a.lastUpdate))
}

// Critical reports whether the agent holds no more than one unit of
// metabolism at time t.
func (a *Agent) Critical(t float64) bool {
	return a.SugarAt(t) <= a.traits.Metabolism
}

// Gestating reports whether a birth is pending.
func (a *Agent) Gestating() bool { return a.birth.Pending() }

// Age returns the agent's age at time t.
func (a *Agent) Age(t float64) float64 { return t - a.birthdate }

// NextEvent returns the earliest of the agent's pending events.
func (a *Agent) NextEvent() (event.Event, bool) {
	var next event.Event
	found := false
	for _, h := range []*event.Handle{a.move, a.reproduce, a.birth, a.die} {
		if !h.Pending() {
			continue
		}
		ev := h.Event()
		if !found || ev.Time < next.Time || (ev.Time == next.Time && ev.Seq < next.Seq) {
			next, found = ev, true
		}
	}
	return next, found
}

// Pending returns the number of live scheduler handles the agent holds.
func (a *Agent) Pending() int {
	n := 0
	for _, h := range []*event.Handle{a.move, a.reproduce, a.birth, a.die} {
		if h.Pending() {
			n++
		}
	}
	return n
}

func (a *Agent) String() string {
	return fmt.Sprintf("agent %d at (%d,%d)", a.id, a.pos.X, a.pos.Y)
}

// Spawn creates an agent at time now. With at nil the agent is placed on a
// random open cell, and ErrSaturated is returned when none is found. With
// traits nil they are drawn from the genetics stream. The agent starts with
// endowment plus all the sugar on its cell.
func Spawn(w *World, now float64, at *Position, traits *Traits, endowment float64) (*Agent, error) {
	var pos Position
	if at != nil {
		pos = *at
	} else {
		x, y, err := w.Land.NextOpen()
		if err != nil {
			return nil, fmt.Errorf("placing agent: %w", err)
		}
		pos = Position{x, y}
	}

	a := &Agent{world: w, alive: true, birthdate: now, lastUpdate: now}
	w.Population.Add(a)
	if !w.Land.Put(a, pos.X, pos.Y) {
		panic(fmt.Sprintf("agent: placement conflict spawning %d at (%d,%d)", a.id, pos.X, pos.Y))
	}

	if traits != nil {
		a.traits = *traits
	} else {
		a.traits = drawTraits(w)
	}

	a.sugar = endowment + w.Land.Harvest(a.pos.X, a.pos.Y)
	dies := a.scheduleDeath(now)
	if dies > now {
		a.move = w.Calendar.Schedule(now+w.timing().Exponential(w.Params.MoveRate), event.Move, a, a.Move)
		if a.traits.Mother {
			first := now + w.Params.FertileAge + w.timing().Exponential(w.Params.ReproductionRate)
			a.reproduce = w.Calendar.Schedule(first, event.Reproduce, a, a.Reproduce)
		}
	}
	return a, nil
}

func drawTraits(w *World) Traits {
	g := w.genetics()
	p := w.Params
	return Traits{
		Metabolism: g.Uniform(p.MinMetabolism, p.MaxMetabolism),
		Vision:     int(math.Ceil(g.Uniform(p.MinVision, p.MaxVision))),
		Mother:     g.Coin(),
		MaxAge:     g.AbsNormal(p.SenescenceMean, p.SenescenceStdDev),
	}
}

// sync brings the stored sugar current to now.
func (a *Agent) sync(now float64) {
	a.sugar = a.SugarAt(now)
	a.lastUpdate = now
}

// deathTime is the earlier of starvation and senescence, never before now.
func (a *Agent) deathTime(now float64) (float64, DeathCause) {
	starve := math.Inf(1)
	if a.traits.Metabolism > 0 {
		starve = now + a.sugar/a.traits.Metabolism
	}
	t, cause := starve, Starvation
	if old := a.birthdate + a.traits.MaxAge; old < starve {
		t, cause = old, Senescence
	}
	if t < now {
		t = now
	}
	return t, cause
}

// scheduleDeath places or moves the die event to the current projection
// and returns its time. Sugar must already be current.
func (a *Agent) scheduleDeath(now float64) float64 {
	t, cause := a.deathTime(now)
	a.cause = cause
	if a.die.Pending() {
		a.world.Calendar.Reschedule(a.die, t)
	} else {
		a.die = a.world.Calendar.Schedule(t, event.Die, a, a.Die)
	}
	return t
}

func (a *Agent) visibleDirections() []landscape.Direction {
	dirs := landscape.Cardinals
	a.world.scan().Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
	return dirs[:]
}

type moveChoice struct {
	cell *landscape.Cell
	dist int
}

// Move goes to the empty visible cell with the most sugar, nearest first on
// ties and then first seen, and eats everything there.
func (a *Agent) Move(now float64) {
	w := a.world
	w.Calendar.Cancel(a.move)
	a.sync(now)

	best, err := landscape.FoldView(w.Land, a.pos.X, a.pos.Y, a.traits.Vision, a.visibleDirections(), moveChoice{},
		func(acc moveChoice, c *landscape.Cell, dist int) moveChoice {
			if !c.Empty() {
				return acc
			}
			if acc.cell == nil || c.Sugar > acc.cell.Sugar || (c.Sugar == acc.cell.Sugar && dist < acc.dist) {
				return moveChoice{cell: c, dist: dist}
			}
			return acc
		})
	if err != nil {
		panic(err)
	}

	if best.cell != nil {
		from := a.pos
		w.Land.Move(a.pos.X, a.pos.Y, best.cell.X, best.cell.Y)
		got := w.Land.Harvest(a.pos.X, a.pos.Y)
		a.sugar += got
		a.foraged += got
		w.hooks().Moved(a, from, got)
	}

	a.move = w.Calendar.Schedule(now+w.timing().Exponential(w.Params.MoveRate), event.Move, a, a.Move)
	a.scheduleDeath(now)
}

// Reproduce looks for a mate: the living, non-gestating agent in view
// standing on the richest cell. On success a birth is scheduled after a
// gestation period and mating attempts stop until the birth.
func (a *Agent) Reproduce(now float64) {
	w := a.world
	w.Calendar.Cancel(a.reproduce)
	a.sync(now)
	a.reproduce = nil

	type courtship struct {
		mate  *Agent
		sugar float64
	}
	best, err := landscape.FoldView(w.Land, a.pos.X, a.pos.Y, a.traits.Vision, a.visibleDirections(), courtship{},
		func(acc courtship, c *landscape.Cell, _ int) courtship {
			cand, ok := c.Occupant().(*Agent)
			if !ok || cand == a || !cand.alive || cand.Gestating() {
				return acc
			}
			if acc.mate == nil || c.Sugar > acc.sugar {
				return courtship{mate: cand, sugar: c.Sugar}
			}
			return acc
		})
	if err != nil {
		panic(err)
	}

	mate := best.mate
	if mate != nil {
		a.mate = mate
		at := now + w.timing().AbsNormal(w.Params.GestationMean, w.Params.GestationStdDev)
		a.birth = w.Calendar.Schedule(at, event.Birth, a, a.Birth)
		w.hooks().Mated(a, mate, at)
	} else {
		a.reproduce = w.Calendar.Schedule(now+w.timing().Exponential(w.Params.ReproductionRate), event.Reproduce, a, a.Reproduce)
	}
	a.scheduleDeath(now)
}

// bestBirthCell returns the empty neighbouring cell with the most sugar.
func (a *Agent) bestBirthCell() *landscape.Cell {
	best, err := landscape.FoldMoore(a.world.Land, a.pos.X, a.pos.Y, (*landscape.Cell)(nil),
		func(acc *landscape.Cell, c *landscape.Cell) *landscape.Cell {
			if c.Empty() && (acc == nil || c.Sugar > acc.Sugar) {
				return c
			}
			return acc
		})
	if err != nil {
		panic(err)
	}
	return best
}

// Birth places a child on the richer of the two parents' best empty
// neighbouring cells, preferring the mother's on ties. Each trait comes from
// one parent at random and the child takes half of each parent's sugar.
// Without a living mate or a free cell the birth is forfeited. Either way
// the mating cycle resumes.
func (a *Agent) Birth(now float64) {
	w := a.world
	w.Calendar.Cancel(a.birth)
	a.sync(now)
	a.birth = nil
	mate := a.mate
	a.mate = nil

	var cell *landscape.Cell
	if mate != nil && mate.alive {
		mine, theirs := a.bestBirthCell(), mate.bestBirthCell()
		switch {
		case mine != nil && (theirs == nil || mine.Sugar >= theirs.Sugar):
			cell = mine
		default:
			cell = theirs
		}
	}

	if cell != nil {
		mate.sync(now)
		g := w.genetics()
		traits := Traits{
			Metabolism: g.Pick(a.traits.Metabolism, mate.traits.Metabolism),
			Vision:     int(g.Pick(float64(a.traits.Vision), float64(mate.traits.Vision))),
			Mother:     g.Coin(),
			MaxAge:     g.Pick(a.traits.MaxAge, mate.traits.MaxAge),
		}
		fromMother, fromMate := a.sugar/2, mate.sugar/2
		a.sugar -= fromMother
		mate.sugar -= fromMate

		child, err := Spawn(w, now, &Position{cell.X, cell.Y}, &traits, fromMother+fromMate)
		if err != nil {
			panic(err)
		}
		a.children++
		mate.children++
		mate.scheduleDeath(now)
		slog.Debug("agent born", "id", child.id, "mother", a.id, "father", mate.id, "t", now)
		w.hooks().Born(child, a, mate)
	} else {
		w.hooks().BirthForfeited(a)
	}

	a.reproduce = w.Calendar.Schedule(now+w.timing().Exponential(w.Params.ReproductionRate), event.Reproduce, a, a.Reproduce)
	a.scheduleDeath(now)
}

// Die removes the agent from the grid and the registry and drops its
// pending events.
func (a *Agent) Die(now float64) {
	w := a.world
	w.Calendar.Cancel(a.die)
	a.sync(now)
	a.alive = false
	a.diedAt = now
	a.die = nil
	a.mate = nil
	w.Land.Remove(a.pos.X, a.pos.Y)
	w.Population.Remove(a)
	w.Calendar.CancelAll(a.move, a.reproduce, a.birth)
	a.move, a.reproduce, a.birth = nil, nil, nil
	slog.Debug("agent died", "id", a.id, "cause", a.cause.String(), "t", now)
	w.hooks().Died(a)
}
