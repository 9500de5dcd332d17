// Package population keeps the set of live agents and computes their
// statistics.
package population

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Member is anything the registry can hold.
type Member interface {
	ID() uint64
	SetID(id uint64)
}

// Selector extracts one statistic from a member.
type Selector[T Member] func(T) float64

// Registry owns the live members, kept in id order.
type Registry[T Member] struct {
	nextID  uint64
	members []T
	byID    map[uint64]int
}

// NewRegistry returns an empty registry; the first id handed out is 0.
func NewRegistry[T Member]() *Registry[T] {
	return &Registry[T]{byID: make(map[uint64]int)}
}

// Add assigns m the next id and stores it.
func (r *Registry[T]) Add(m T) uint64 {
	id := r.nextID
	r.nextID++
	m.SetID(id)
	r.byID[id] = len(r.members)
	r.members = append(r.members, m)
	return id
}

// NextID returns the id the next Add will assign.
func (r *Registry[T]) NextID() uint64 { return r.nextID }

// Remove drops m. Removing an absent member logs a warning and does nothing.
func (r *Registry[T]) Remove(m T) {
	id := m.ID()
	idx, ok := r.byID[id]
	if !ok {
		slog.Warn("removing unregistered agent", "id", id)
		return
	}
	copy(r.members[idx:], r.members[idx+1:])
	var zero T
	r.members[len(r.members)-1] = zero
	r.members = r.members[:len(r.members)-1]
	delete(r.byID, id)
	for i := idx; i < len(r.members); i++ {
		r.byID[r.members[i].ID()] = i
	}
}

// Get returns the member with the given id.
func (r *Registry[T]) Get(id uint64) (T, bool) {
	idx, ok := r.byID[id]
	if !ok {
		var zero T
		return zero, false
	}
	return r.members[idx], true
}

// Len returns the number of live members.
func (r *Registry[T]) Len() int { return len(r.members) }

// All returns a copy of the members in id order.
func (r *Registry[T]) All() []T {
	out := make([]T, len(r.members))
	copy(out, r.members)
	return out
}

// Each calls fn for every member in id order. fn must not add or remove
// members.
func (r *Registry[T]) Each(fn func(T)) {
	for _, m := range r.members {
		fn(m)
	}
}

// Values applies sel to every member, in id order.
func (r *Registry[T]) Values(sel Selector[T]) []float64 {
	out := make([]float64, len(r.members))
	for i, m := range r.members {
		out[i] = sel(m)
	}
	return out
}

// Average returns the mean of sel, or 0 for an empty registry.
func (r *Registry[T]) Average(sel Selector[T]) float64 {
	if len(r.members) == 0 {
		return 0
	}
	return stat.Mean(r.Values(sel), nil)
}

// OrderedBy returns the members sorted by sel, ascending unless descending
// is set. Equal values keep id order.
func (r *Registry[T]) OrderedBy(sel Selector[T], descending bool) []T {
	out := r.All()
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return sel(out[i]) > sel(out[j])
		}
		return sel(out[i]) < sel(out[j])
	})
	return out
}

// Median averages the elements at floor(n/2) and ceil((n+1)/2) of the
// ascending order. This is not the textbook median. It returns 0 for an
// empty registry and false when the upper index falls off the end.
func (r *Registry[T]) Median(sel Selector[T]) (float64, bool) {
	n := len(r.members)
	if n == 0 {
		return 0, true
	}
	lo := n / 2
	hi := int(math.Ceil(float64(n+1) / 2))
	if hi >= n {
		return 0, false
	}
	ordered := r.OrderedBy(sel, false)
	return (sel(ordered[lo]) + sel(ordered[hi])) / 2, true
}
