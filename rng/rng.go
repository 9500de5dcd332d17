// Package rng hands out named, independently seeded random streams derived
// from a single master seed.
//
// A stream's sequence depends only on the master seed and the stream name, so
// the order in which concerns first ask for their stream, and the interleaving
// of draws between streams, never changes what any one stream produces.
package rng

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Stream names used by the simulation.
const (
	Genetics  = "genetics"  // trait draws and inheritance picks
	Timing    = "timing"    // inter-event times and gestation lengths
	Scan      = "scan"      // field-of-view direction shuffling
	Resource  = "resource"  // cell capacity and terrain generation
	Placement = "placement" // initial placement sampling
)

// Manager owns the streams for one simulation run.
type Manager struct {
	seed    uint64
	streams map[string]*Stream
}

// New creates a manager for the given master seed.
func New(seed uint64) *Manager {
	return &Manager{seed: seed, streams: make(map[string]*Stream)}
}

// Seed returns the master seed.
func (m *Manager) Seed() uint64 { return m.seed }

// Get returns the stream bound to name, creating it on first use.
func (m *Manager) Get(name string) *Stream {
	if s, ok := m.streams[name]; ok {
		return s
	}
	s := newStream(name, m.seed)
	m.streams[name] = s
	return s
}

// Names returns the names of every stream created so far, sorted.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.streams))
	for name := range m.streams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// countingSource wraps a PCG generator and counts the values drawn from it.
type countingSource struct {
	pcg   *rand.PCG
	draws uint64
}

func (c *countingSource) Uint64() uint64 {
	c.draws++
	return c.pcg.Uint64()
}

// Stream is one named random sequence.
type Stream struct {
	name string
	src  *countingSource
	r    *rand.Rand
}

func newStream(name string, seed uint64) *Stream {
	h := fnv.New64a()
	h.Write([]byte(name))
	src := &countingSource{pcg: rand.NewPCG(seed, splitmix(seed^h.Sum64()))}
	return &Stream{name: name, src: src, r: rand.New(src)}
}

// splitmix scrambles the name-derived half of the PCG state so that names
// with similar hashes still land far apart.
func splitmix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Name returns the stream name.
func (s *Stream) Name() string { return s.name }

// Draws returns how many raw 64-bit values the stream has produced.
func (s *Stream) Draws() uint64 { return s.src.draws }

// Uint64 returns a raw 64-bit value.
func (s *Stream) Uint64() uint64 { return s.r.Uint64() }

// Float64 returns a value in [0, 1).
func (s *Stream) Float64() float64 { return s.r.Float64() }

// IntN returns a value in [0, n). It panics if n <= 0.
func (s *Stream) IntN(n int) int { return s.r.IntN(n) }

// IntRange returns a value in [lo, hi], both ends inclusive.
func (s *Stream) IntRange(lo, hi int) int { return lo + s.r.IntN(hi-lo+1) }

// Uniform returns a value drawn uniformly from [min, max).
func (s *Stream) Uniform(min, max float64) float64 {
	return distuv.Uniform{Min: min, Max: max, Src: s.src}.Rand()
}

// Exponential returns an exponentially distributed value with the given rate.
func (s *Stream) Exponential(rate float64) float64 {
	return distuv.Exponential{Rate: rate, Src: s.src}.Rand()
}

// Normal returns a normally distributed value.
func (s *Stream) Normal(mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: s.src}.Rand()
}

// AbsNormal returns |Normal(mu, sigma)|, a normal reflected at zero.
func (s *Stream) AbsNormal(mu, sigma float64) float64 {
	return math.Abs(s.Normal(mu, sigma))
}

// Coin returns true with probability one half.
func (s *Stream) Coin() bool { return s.r.Uint64()&1 == 1 }

// Pick returns a or b with equal probability.
func (s *Stream) Pick(a, b float64) float64 {
	if s.Coin() {
		return b
	}
	return a
}

// Shuffle permutes n elements using swap.
func (s *Stream) Shuffle(n int, swap func(i, j int)) { s.r.Shuffle(n, swap) }
