package event

import (
	"container/heap"
	"fmt"
	"math"
)

// eventQueue orders handles by (time, seq).
type eventQueue []*Handle

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].ev.Time != q[j].ev.Time {
		return q[i].ev.Time < q[j].ev.Time
	}
	return q[i].ev.Seq < q[j].ev.Seq
}

func (q eventQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *eventQueue) Push(x any) {
	h := x.(*Handle)
	h.index = len(*q)
	*q = append(*q, h)
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	h := old[n-1]
	old[n-1] = nil
	h.index = -1
	*q = old[:n-1]
	return h
}

// Calendar is a heap-backed Engine. Events with equal times fire in the
// order they were scheduled; a reschedule counts as a fresh scheduling.
type Calendar struct {
	now        float64
	queue      eventQueue
	seq        uint64
	pre, post  Hook
	dispatched uint64
}

var _ Engine = (*Calendar)(nil)

// NewCalendar returns an empty calendar at time zero.
func NewCalendar() *Calendar {
	return &Calendar{}
}

// Engine accessors.
func (c *Calendar) Now() float64       { return c.now }
func (c *Calendar) Len() int           { return len(c.queue) }
func (c *Calendar) Dispatched() uint64 { return c.dispatched }

// SetHooks installs the hooks run around every event. Either may be nil.
func (c *Calendar) SetHooks(pre, post Hook) {
	c.pre, c.post = pre, post
}

func (c *Calendar) checkTime(t float64) {
	if math.IsNaN(t) {
		panic("event: scheduling at NaN time")
	}
	if t < c.now {
		panic(fmt.Sprintf("event: scheduling at %v, before current time %v", t, c.now))
	}
}

func (c *Calendar) nextSeq() uint64 {
	s := c.seq
	c.seq++
	return s
}

// Schedule queues fn to run at time t. It panics if t is NaN or in the past.
func (c *Calendar) Schedule(t float64, typ Type, owner Owner, fn Callback) *Handle {
	c.checkTime(t)
	h := &Handle{
		ev: Event{Time: t, Type: typ, Owner: owner, Seq: c.nextSeq()},
		fn: fn,
	}
	heap.Push(&c.queue, h)
	return h
}

// Reschedule moves a pending event to time t and returns its handle. A nil
// or stale handle is returned unchanged.
func (c *Calendar) Reschedule(h *Handle, t float64) *Handle {
	if !h.Pending() {
		return h
	}
	c.checkTime(t)
	h.ev.Time = t
	h.ev.Seq = c.nextSeq()
	heap.Fix(&c.queue, h.index)
	return h
}

// Cancel removes a pending event. Nil and stale handles are ignored.
func (c *Calendar) Cancel(h *Handle) {
	if !h.Pending() {
		return
	}
	heap.Remove(&c.queue, h.index)
}

// CancelAll cancels each handle in turn.
func (c *Calendar) CancelAll(hs ...*Handle) {
	for _, h := range hs {
		c.Cancel(h)
	}
}

// PeekNextTime returns the earliest pending time, or +Inf and false when
// the calendar is empty.
func (c *Calendar) PeekNextTime() (float64, bool) {
	if len(c.queue) == 0 {
		return math.Inf(1), false
	}
	return c.queue[0].ev.Time, true
}

// Advance fires the earliest event: the clock moves to its time, then the
// pre-hook, the callback and the post-hook run in that order.
func (c *Calendar) Advance() bool {
	if len(c.queue) == 0 {
		return false
	}
	h := heap.Pop(&c.queue).(*Handle)
	c.now = h.ev.Time
	c.dispatched++
	if c.pre != nil {
		c.pre(h.ev)
	}
	if h.fn != nil {
		h.fn(c.now)
	}
	if c.post != nil {
		c.post(h.ev)
	}
	return true
}

// Run fires events while the next pending time is at or before until.
func (c *Calendar) Run(until float64) int {
	n := 0
	for len(c.queue) > 0 && c.queue[0].ev.Time <= until {
		c.Advance()
		n++
	}
	return n
}
