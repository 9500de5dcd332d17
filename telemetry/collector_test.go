package telemetry

import (
	"testing"

	"github.com/Rodrun/sugarscape/agent"
)

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(10, 0)

	if c.ShouldFlush(9.99) {
		t.Error("flush before window end")
	}
	if !c.ShouldFlush(10) {
		t.Error("no flush at window end")
	}

	c.RecordEvent()
	c.RecordEvent()
	c.RecordBirth()
	c.RecordMating()
	c.RecordForfeit()
	c.RecordMove(1.5)
	c.RecordMove(2)
	c.RecordDeath(agent.Starvation)
	c.RecordDeath(agent.Senescence)
	c.RecordDeath(agent.Senescence)

	s := c.Flush(12, nil, nil)
	if s.WindowStart != 0 || s.WindowEnd != 10 {
		t.Errorf("window = [%v, %v], want [0, 10]", s.WindowStart, s.WindowEnd)
	}
	if s.Events != 2 || s.Births != 1 || s.Matings != 1 || s.Forfeited != 1 {
		t.Errorf("counts = %+v", s)
	}
	if s.Moves != 2 || s.Harvested != 3.5 {
		t.Errorf("moves = %d harvested = %v", s.Moves, s.Harvested)
	}
	if s.Starved != 1 || s.Aged != 2 {
		t.Errorf("deaths starved=%d aged=%d", s.Starved, s.Aged)
	}

	if c.ShouldFlush(19.9) || !c.ShouldFlush(20) {
		t.Error("next window does not end on the next multiple of the window")
	}
	next := c.Flush(20.5, nil, nil)
	if next.WindowStart != 10 || next.WindowEnd != 20 {
		t.Errorf("window = [%v, %v], want [10, 20]", next.WindowStart, next.WindowEnd)
	}
	if next.Events != 0 || next.Moves != 0 || next.Harvested != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestCollectorBoundariesStayAligned(t *testing.T) {
	tests := []struct {
		name       string
		start, now float64
		wantEnd    float64
	}{
		{"exact boundary", 0, 10, 10},
		{"late event", 0, 13.7, 10},
		{"skipped windows", 20, 47, 40},
		{"partial final window", 40, 43, 43},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector(10, tt.start)
			s := c.Flush(tt.now, nil, nil)
			if s.WindowStart != tt.start || s.WindowEnd != tt.wantEnd {
				t.Errorf("window = [%v, %v], want [%v, %v]", s.WindowStart, s.WindowEnd, tt.start, tt.wantEnd)
			}
			if c.windowStart != tt.wantEnd {
				t.Errorf("next window starts at %v, want %v", c.windowStart, tt.wantEnd)
			}
		})
	}
}

func TestCollectorDefaultWindow(t *testing.T) {
	if w := NewCollector(0, 0).Window(); w != 1 {
		t.Errorf("Window() = %v, want 1", w)
	}
}
