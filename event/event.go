// Package event provides the time-ordered calendar that drives the
// simulation.
package event

import "fmt"

// Type identifies the behavior an event triggers.
type Type uint8

const (
	Move Type = iota
	Reproduce
	Birth
	Die
)

var typeNames = [...]string{"move", "reproduce", "birth", "die"}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// Owner is the agent an event belongs to.
type Owner interface {
	ID() uint64
}

// Callback runs when an event fires, with the clock already at the event time.
type Callback func(now float64)

// Hook observes an event immediately before or after its callback.
type Hook func(Event)

// Event is the value record of one scheduled occurrence.
type Event struct {
	Time  float64
	Type  Type
	Owner Owner
	Seq   uint64 // scheduling order, breaks ties between equal times
}

// Handle refers to a scheduled event. A handle whose event has fired or
// been cancelled is stale; operations on it are no-ops.
type Handle struct {
	ev    Event
	fn    Callback
	index int
}

// Event returns a copy of the scheduled event.
func (h *Handle) Event() Event { return h.ev }

// Time returns the scheduled time.
func (h *Handle) Time() float64 { return h.ev.Time }

// Type returns the event type.
func (h *Handle) Type() Type { return h.ev.Type }

// Pending reports whether the event is still waiting to fire.
func (h *Handle) Pending() bool { return h != nil && h.index >= 0 }

// Engine is the scheduling capability the agents are written against.
type Engine interface {
	// Now returns the current simulated time.
	Now() float64
	// Schedule queues fn for time t.
	Schedule(t float64, typ Type, owner Owner, fn Callback) *Handle
	// Reschedule moves a pending event to a new time.
	Reschedule(h *Handle, t float64) *Handle
	// Cancel drops a pending event.
	Cancel(h *Handle)
	// CancelAll drops every given pending event.
	CancelAll(hs ...*Handle)
	// Advance fires the earliest pending event. It returns false when
	// nothing is pending.
	Advance() bool
	// Run fires events while the next one is due at or before until, and
	// returns how many fired.
	Run(until float64) int
	// PeekNextTime returns the time of the earliest pending event.
	PeekNextTime() (float64, bool)
	// Len returns the number of pending events.
	Len() int
	// SetHooks installs the pre- and post-event hooks.
	SetHooks(pre, post Hook)
	// Dispatched returns how many events have fired.
	Dispatched() uint64
}
