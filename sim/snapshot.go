package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/Rodrun/sugarscape/agent"
	"github.com/Rodrun/sugarscape/event"
	"github.com/Rodrun/sugarscape/landscape"
)

// Bucket classifies one cell for a renderer.
type Bucket uint8

const (
	Empty Bucket = iota
	AgentHealthy
	AgentCritical
	Sugar0 // sugar below 25% of capacity
	Sugar1
	Sugar2
	Sugar3 // sugar at 75% of capacity or more
	Terrain0
	Terrain1
	Terrain2
	Terrain3
)

// View selects what a snapshot shows.
type View uint8

const (
	ViewAgents  View = iota // agents only
	ViewSugar               // agents over sugar levels
	ViewTerrain             // terrain levels only
)

// Grid is a bucketed copy of the landscape at one instant.
type Grid struct {
	Rows, Cols int
	Time       float64
	Cells      []Bucket
}

// At returns the bucket of (x, y).
func (g Grid) At(x, y int) Bucket { return g.Cells[y*g.Cols+x] }

// Count returns how many cells fall into b.
func (g Grid) Count(b Bucket) int {
	n := 0
	for _, c := range g.Cells {
		if c == b {
			n++
		}
	}
	return n
}

// quartile maps a ratio in [0, 1] onto 0..3 using the rounded-up percentage.
func quartile(ratio float64) int {
	pct := math.Ceil(100 * ratio)
	switch {
	case pct < 25:
		return 0
	case pct < 50:
		return 1
	case pct < 75:
		return 2
	default:
		return 3
	}
}

// Snapshot buckets every cell for the given view.
func (s *Simulation) Snapshot(view View) Grid {
	now := s.Now()
	g := Grid{Rows: s.land.Rows(), Cols: s.land.Cols(), Time: now, Cells: make([]Bucket, s.land.Rows()*s.land.Cols())}
	maxHeight := float64(s.land.MaxHeight())
	s.land.Each(func(c *landscape.Cell) {
		g.Cells[c.Y*g.Cols+c.X] = bucketFor(c, view, now, maxHeight)
	})
	return g
}

func bucketFor(c *landscape.Cell, view View, now, maxHeight float64) Bucket {
	if view == ViewTerrain {
		return Terrain0 + Bucket(quartile(float64(c.Level)/maxHeight))
	}
	if a, ok := c.Occupant().(*agent.Agent); ok {
		if a.Critical(now) {
			return AgentCritical
		}
		return AgentHealthy
	}
	if view == ViewSugar && c.Sugar > 0 && c.Capacity > 0 {
		return Sugar0 + Bucket(quartile(c.Sugar/c.Capacity))
	}
	return Empty
}

// CheckInvariants verifies sugar bounds and that occupied cells and live
// agents match one to one.
func (s *Simulation) CheckInvariants() error {
	var errs []error
	occupied := 0
	s.land.Each(func(c *landscape.Cell) {
		if c.Sugar < 0 || c.Sugar > c.Capacity {
			errs = append(errs, fmt.Errorf("cell (%d,%d) sugar %v outside [0,%v]", c.X, c.Y, c.Sugar, c.Capacity))
		}
		if c.Occupant() == nil {
			return
		}
		occupied++
		a, ok := c.Occupant().(*agent.Agent)
		if !ok {
			errs = append(errs, fmt.Errorf("cell (%d,%d) holds %T", c.X, c.Y, c.Occupant()))
			return
		}
		if p := a.Pos(); p.X != c.X || p.Y != c.Y {
			errs = append(errs, fmt.Errorf("agent %d on (%d,%d) reports (%d,%d)", a.ID(), c.X, c.Y, p.X, p.Y))
		}
		if reg, ok := s.pop.Get(a.ID()); !ok || reg != a {
			errs = append(errs, fmt.Errorf("agent %d on (%d,%d) is not registered", a.ID(), c.X, c.Y))
		}
	})
	s.pop.Each(func(a *agent.Agent) {
		p := a.Pos()
		if s.land.Cell(p.X, p.Y).Occupant() != a {
			errs = append(errs, fmt.Errorf("agent %d not found on its cell (%d,%d)", a.ID(), p.X, p.Y))
		}
	})
	if occupied != s.pop.Len() {
		errs = append(errs, fmt.Errorf("%d occupied cells but %d live agents", occupied, s.pop.Len()))
	}
	return errors.Join(errs...)
}

// Stats are aggregate population statistics at one instant.
type Stats struct {
	Time             float64
	Population       int
	MeanSugar        float64
	MedianSugar      float64
	MeanMetabolism   float64
	MedianMetabolism float64
	MeanVision       float64
	MedianVision     float64
	MedianDefined    bool // false when the population is too small for the median indices
}

// Stats computes population statistics, with sugar projected to now.
func (s *Simulation) Stats() Stats {
	now := s.Now()
	sugar := agent.SugarAtStat(now)
	st := Stats{
		Time:           now,
		Population:     s.pop.Len(),
		MeanSugar:      s.pop.Average(sugar),
		MeanMetabolism: s.pop.Average(agent.MetabolismStat),
		MeanVision:     s.pop.Average(agent.VisionStat),
	}
	st.MedianSugar, st.MedianDefined = s.pop.Median(sugar)
	st.MedianMetabolism, _ = s.pop.Median(agent.MetabolismStat)
	st.MedianVision, _ = s.pop.Median(agent.VisionStat)
	return st
}

// CellInfo is a field dump of one cell.
type CellInfo struct {
	X, Y     int
	Capacity float64
	Sugar    float64
	Level    int
	Occupied bool
	AgentID  uint64
}

// CellInfo dumps the cell at (x, y); coordinates wrap.
func (s *Simulation) CellInfo(x, y int) CellInfo {
	c := s.land.Cell(x, y)
	info := CellInfo{X: c.X, Y: c.Y, Capacity: c.Capacity, Sugar: c.Sugar, Level: c.Level}
	if a, ok := c.Occupant().(*agent.Agent); ok {
		info.Occupied = true
		info.AgentID = a.ID()
	}
	return info
}

// AgentInfo is a field dump of one agent.
type AgentInfo struct {
	ID         uint64
	X, Y       int
	Sugar      float64 // projected to the dump time
	Metabolism float64
	Vision     int
	Mother     bool
	MaxAge     float64
	Birthdate  float64
	Age        float64
	Gestating  bool
	HasMate    bool
	MateID     uint64
	Children   int
	HasNext    bool
	NextType   event.Type
	NextTime   float64
}

// AgentInfo dumps the live agent with the given id.
func (s *Simulation) AgentInfo(id uint64) (AgentInfo, bool) {
	a, ok := s.pop.Get(id)
	if !ok {
		return AgentInfo{}, false
	}
	now := s.Now()
	tr := a.Traits()
	p := a.Pos()
	info := AgentInfo{
		ID:         a.ID(),
		X:          p.X,
		Y:          p.Y,
		Sugar:      a.SugarAt(now),
		Metabolism: tr.Metabolism,
		Vision:     tr.Vision,
		Mother:     tr.Mother,
		MaxAge:     tr.MaxAge,
		Birthdate:  a.Birthdate(),
		Age:        a.Age(now),
		Gestating:  a.Gestating(),
		Children:   a.Children(),
	}
	if m := a.Mate(); m != nil {
		info.HasMate, info.MateID = true, m.ID()
	}
	if ev, ok := a.NextEvent(); ok {
		info.HasNext, info.NextType, info.NextTime = true, ev.Type, ev.Time
	}
	return info, true
}

// AliveIDs returns the ids of every live agent in increasing order.
func (s *Simulation) AliveIDs() []uint64 {
	ids := make([]uint64, 0, s.pop.Len())
	s.pop.Each(func(a *agent.Agent) { ids = append(ids, a.ID()) })
	return ids
}
