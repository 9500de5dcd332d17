package telemetry

import "github.com/Rodrun/sugarscape/agent"

// LifetimeStats tracks per-agent statistics over its lifetime.
type LifetimeStats struct {
	ID         uint64  `json:"id"`
	Birth      float64 `json:"birth"`
	Death      float64 `json:"death,omitempty"`
	Lifespan   float64 `json:"lifespan"`
	Generation int     `json:"generation"` // founders are generation 0
	Cause      string  `json:"cause,omitempty"`

	// Traits
	Metabolism float64 `json:"metabolism"`
	Vision     int     `json:"vision"`
	Mother     bool    `json:"mother"`
	MaxAge     float64 `json:"max_age"`

	// Reproduction
	Children int `json:"children"`
	Matings  int `json:"matings"`

	// Foraging
	Moves     int     `json:"moves"`
	Foraged   float64 `json:"foraged"`
	PeakSugar float64 `json:"peak_sugar"`
}

// LifetimeTracker manages per-agent lifetime statistics.
type LifetimeTracker struct {
	stats map[uint64]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint64]*LifetimeStats),
	}
}

// Register creates lifetime stats for a newly placed agent.
func (lt *LifetimeTracker) Register(a *agent.Agent, generation int) *LifetimeStats {
	tr := a.Traits()
	s := &LifetimeStats{
		ID:         a.ID(),
		Birth:      a.Birthdate(),
		Generation: generation,
		Metabolism: tr.Metabolism,
		Vision:     tr.Vision,
		Mother:     tr.Mother,
		MaxAge:     tr.MaxAge,
		PeakSugar:  a.Sugar(),
	}
	lt.stats[a.ID()] = s
	return s
}

// Get returns the lifetime stats for an agent, or nil if not found.
func (lt *LifetimeTracker) Get(id uint64) *LifetimeStats {
	return lt.stats[id]
}

// Generation returns the generation of a tracked agent, or 0.
func (lt *LifetimeTracker) Generation(id uint64) int {
	if s := lt.stats[id]; s != nil {
		return s.Generation
	}
	return 0
}

// Remove finalizes an agent's stats at death and stops tracking it.
func (lt *LifetimeTracker) Remove(a *agent.Agent) *LifetimeStats {
	s := lt.stats[a.ID()]
	if s == nil {
		return nil
	}
	delete(lt.stats, a.ID())
	s.Death = a.DiedAt()
	s.Lifespan = s.Death - s.Birth
	s.Cause = a.DeathCause().String()
	s.Children = a.Children()
	return s
}

// RecordChild increments children count.
func (lt *LifetimeTracker) RecordChild(parentID uint64) {
	if s := lt.stats[parentID]; s != nil {
		s.Children++
	}
}

// RecordMating increments the mating count.
func (lt *LifetimeTracker) RecordMating(id uint64) {
	if s := lt.stats[id]; s != nil {
		s.Matings++
	}
}

// RecordMove adds a move and its harvest, tracking peak sugar.
func (lt *LifetimeTracker) RecordMove(id uint64, harvested, sugar float64) {
	if s := lt.stats[id]; s != nil {
		s.Moves++
		s.Foraged += harvested
		if sugar > s.PeakSugar {
			s.PeakSugar = sugar
		}
	}
}

// All returns all tracked stats.
func (lt *LifetimeTracker) All() map[uint64]*LifetimeStats {
	return lt.stats
}

// Count returns the number of tracked agents.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// MaxGeneration returns the deepest generation among living agents.
func (lt *LifetimeTracker) MaxGeneration() int {
	best := 0
	for _, s := range lt.stats {
		if s.Generation > best {
			best = s.Generation
		}
	}
	return best
}
