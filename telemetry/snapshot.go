package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rodrun/sugarscape/sim"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot is a read-only dump of the landscape and population at one
// instant. It cannot be used to resume a run.
type Snapshot struct {
	Version int     `json:"version"`
	Seed    uint64  `json:"seed"`
	Time    float64 `json:"time"`

	Rows      int     `json:"rows"`
	Cols      int     `json:"cols"`
	Alpha     float64 `json:"alpha"`
	MaxSugar  int     `json:"max_sugar"`
	MaxHeight int     `json:"max_height"`

	Cells  []CellState  `json:"cells"`
	Agents []AgentState `json:"agents"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// CellState holds one cell, in row-major order.
type CellState struct {
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Capacity float64 `json:"capacity"`
	Sugar    float64 `json:"sugar"`
	Level    int     `json:"level"`
}

// AgentState holds one live agent.
type AgentState struct {
	ID         uint64  `json:"id"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Sugar      float64 `json:"sugar"`
	Metabolism float64 `json:"metabolism"`
	Vision     int     `json:"vision"`
	Mother     bool    `json:"mother"`
	MaxAge     float64 `json:"max_age"`
	Birthdate  float64 `json:"birthdate"`
	Gestating  bool    `json:"gestating"`
	Children   int     `json:"children"`
	NextEvent  string  `json:"next_event,omitempty"`
	NextTime   float64 `json:"next_time,omitempty"`

	Lifetime *LifetimeStats `json:"lifetime,omitempty"`
}

// Capture builds a snapshot of s. Lifetimes and bookmark are optional.
func Capture(s *sim.Simulation, lifetimes *LifetimeTracker, b *Bookmark) *Snapshot {
	land := s.Landscape()
	snap := &Snapshot{
		Version:   SnapshotVersion,
		Seed:      s.Seed(),
		Time:      s.Now(),
		Rows:      land.Rows(),
		Cols:      land.Cols(),
		Alpha:     land.Alpha(),
		MaxSugar:  land.MaxSugar(),
		MaxHeight: land.MaxHeight(),
		Cells:     make([]CellState, 0, land.Rows()*land.Cols()),
		Bookmark:  b,
	}

	for y := 0; y < land.Rows(); y++ {
		for x := 0; x < land.Cols(); x++ {
			c := s.CellInfo(x, y)
			snap.Cells = append(snap.Cells, CellState{X: c.X, Y: c.Y, Capacity: c.Capacity, Sugar: c.Sugar, Level: c.Level})
		}
	}

	for _, id := range s.AliveIDs() {
		info, ok := s.AgentInfo(id)
		if !ok {
			continue
		}
		st := AgentState{
			ID:         info.ID,
			X:          info.X,
			Y:          info.Y,
			Sugar:      info.Sugar,
			Metabolism: info.Metabolism,
			Vision:     info.Vision,
			Mother:     info.Mother,
			MaxAge:     info.MaxAge,
			Birthdate:  info.Birthdate,
			Gestating:  info.Gestating,
			Children:   info.Children,
		}
		if info.HasNext {
			st.NextEvent, st.NextTime = info.NextType.String(), info.NextTime
		}
		if lifetimes != nil {
			if ls := lifetimes.Get(id); ls != nil {
				cp := *ls
				st.Lifetime = &cp
			}
		}
		snap.Agents = append(snap.Agents, st)
	}

	return snap
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%.2f", snapshot.Time)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name += "_" + sanitized
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
