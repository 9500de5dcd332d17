package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// HallOfFame keeps the most prolific agents seen at death, ranked by
// children and then by lifespan.
type HallOfFame struct {
	entries []LifetimeStats
	maxSize int
}

// NewHallOfFame creates a hall holding at most maxSize entries.
func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		entries: make([]LifetimeStats, 0, maxSize),
		maxSize: maxSize,
	}
}

// outranks reports whether a belongs ahead of b.
func outranks(a, b LifetimeStats) bool {
	if a.Children != b.Children {
		return a.Children > b.Children
	}
	return a.Lifespan > b.Lifespan
}

// Consider evaluates a finished lifetime for entry.
// Returns true if it was added to the hall.
func (hof *HallOfFame) Consider(stats *LifetimeStats) bool {
	if stats == nil {
		return false
	}
	entry := *stats

	// Find insertion point; equal entries keep arrival order
	idx := sort.Search(len(hof.entries), func(i int) bool {
		return outranks(entry, hof.entries[i])
	})

	// If hall is full and entry would be last (lowest), skip it
	if len(hof.entries) >= hof.maxSize && idx >= hof.maxSize {
		return false
	}

	hof.entries = append(hof.entries, LifetimeStats{})
	copy(hof.entries[idx+1:], hof.entries[idx:])
	hof.entries[idx] = entry

	// Trim if over capacity
	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}

	return true
}

// Entries returns the hall, best first.
func (hof *HallOfFame) Entries() []LifetimeStats {
	out := make([]LifetimeStats, len(hof.entries))
	copy(out, hof.entries)
	return out
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int { return len(hof.entries) }

// Best returns the top entry.
func (hof *HallOfFame) Best() (LifetimeStats, bool) {
	if len(hof.entries) == 0 {
		return LifetimeStats{}, false
	}
	return hof.entries[0], true
}

// MarshalJSON serializes the hall of fame to JSON.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(struct {
		MaxSize int             `json:"max_size"`
		Entries []LifetimeStats `json:"entries"`
	}{hof.maxSize, hof.entries}, "", "  ")
}

// LoadHallOfFameFromFile reads a hall of fame written by OutputManager.
func LoadHallOfFameFromFile(path string) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var raw struct {
		MaxSize int             `json:"max_size"`
		Entries []LifetimeStats `json:"entries"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing hall of fame JSON: %w", err)
	}

	hof := NewHallOfFame(max(raw.MaxSize, len(raw.Entries)))
	for i := range raw.Entries {
		hof.Consider(&raw.Entries[i])
	}
	return hof, nil
}
