// Package landscape implements the torus grid of sugar cells that agents
// forage on.
package landscape

import (
	"errors"
	"fmt"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/Rodrun/sugarscape/rng"
)

// ErrSaturated is returned by NextOpen when no empty cell was found within
// the retry bound.
var ErrSaturated = errors.New("landscape saturated")

// Generators for cell capacity.
const (
	GeneratorUniform = "uniform"
	GeneratorSimplex = "simplex"
)

// Params configures a landscape.
type Params struct {
	Rows       int
	Cols       int
	Alpha      float64 // regrowth per unit of simulated time
	MaxSugar   int     // largest possible cell capacity
	MaxHeight  int     // largest possible terrain level
	Generator  string  // GeneratorUniform or GeneratorSimplex
	NoiseScale float64 // sampling frequency for the simplex generator
}

// Occupant is anything that can sit on a cell. The landscape tells the
// occupant where it now lives; it never owns it.
type Occupant interface {
	PlaceAt(x, y int)
}

// Cell is one grid square.
type Cell struct {
	X, Y     int
	Capacity float64
	Sugar    float64
	Level    int

	occupant Occupant
}

// Occupant returns the agent on the cell, or nil.
func (c *Cell) Occupant() Occupant { return c.occupant }

// Empty reports whether the cell has no occupant.
func (c *Cell) Empty() bool { return c.occupant == nil }

// Landscape is a rows x cols torus of cells.
type Landscape struct {
	params     Params
	cells      []Cell
	placement  *rng.Stream
	lastUpdate float64
	occupied   int
}

// New builds a landscape, drawing capacity and terrain from the resource
// stream. Every cell starts full.
func New(p Params, streams *rng.Manager) (*Landscape, error) {
	if p.Rows <= 0 || p.Cols <= 0 {
		return nil, fmt.Errorf("landscape: invalid size %dx%d", p.Rows, p.Cols)
	}
	if p.MaxHeight < 1 {
		return nil, fmt.Errorf("landscape: max height must be at least 1, got %d", p.MaxHeight)
	}
	l := &Landscape{
		params:    p,
		cells:     make([]Cell, p.Rows*p.Cols),
		placement: streams.Get(rng.Placement),
	}

	res := streams.Get(rng.Resource)
	var noise opensimplex.Noise
	if p.Generator == GeneratorSimplex {
		noise = opensimplex.NewNormalized(int64(res.Uint64() >> 1))
	}

	for y := 0; y < p.Rows; y++ {
		for x := 0; x < p.Cols; x++ {
			c := &l.cells[y*p.Cols+x]
			c.X, c.Y = x, y
			if noise != nil {
				n := octaveNoise(noise, float64(x), float64(y), 3, p.NoiseScale, 0.5)
				c.Capacity = math.Round(n * float64(p.MaxSugar))
			} else {
				c.Capacity = float64(res.IntRange(0, p.MaxSugar))
			}
			c.Level = res.IntRange(1, p.MaxHeight)
			c.Sugar = c.Capacity
		}
	}
	return l, nil
}

// octaveNoise layers several noise frequencies into a value in [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}

func (l *Landscape) Rows() int      { return l.params.Rows }
func (l *Landscape) Cols() int      { return l.params.Cols }
func (l *Landscape) MaxSugar() int  { return l.params.MaxSugar }
func (l *Landscape) MaxHeight() int { return l.params.MaxHeight }
func (l *Landscape) Alpha() float64 { return l.params.Alpha }

// LastUpdate returns the simulated time resources were last advanced to.
func (l *Landscape) LastUpdate() float64 { return l.lastUpdate }

// Occupied returns the number of occupied cells.
func (l *Landscape) Occupied() int { return l.occupied }

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Cell returns the cell at (x, y). Coordinates wrap in both axes.
func (l *Landscape) Cell(x, y int) *Cell {
	return &l.cells[wrap(y, l.params.Rows)*l.params.Cols+wrap(x, l.params.Cols)]
}

// IsEmpty reports whether nothing occupies (x, y).
func (l *Landscape) IsEmpty(x, y int) bool { return l.Cell(x, y).occupant == nil }

// Put places o at (x, y) if the cell is empty and tells o its new
// coordinates. It returns false without changing anything when the cell is
// taken.
func (l *Landscape) Put(o Occupant, x, y int) bool {
	c := l.Cell(x, y)
	if c.occupant != nil {
		return false
	}
	c.occupant = o
	l.occupied++
	o.PlaceAt(c.X, c.Y)
	return true
}

// Remove clears the occupant of (x, y), if any.
func (l *Landscape) Remove(x, y int) {
	c := l.Cell(x, y)
	if c.occupant != nil {
		c.occupant = nil
		l.occupied--
	}
}

// Move relocates the occupant of (x0, y0) to (x1, y1). It does nothing if
// the source is empty and panics if the target is occupied by someone else.
func (l *Landscape) Move(x0, y0, x1, y1 int) {
	src := l.Cell(x0, y0)
	o := src.occupant
	if o == nil {
		return
	}
	dst := l.Cell(x1, y1)
	if dst == src {
		return
	}
	l.Remove(x0, y0)
	if !l.Put(o, x1, y1) {
		panic(fmt.Sprintf("landscape: placement conflict moving (%d,%d) to occupied (%d,%d)", src.X, src.Y, dst.X, dst.Y))
	}
}

// Harvest empties the sugar at (x, y) and returns the amount taken.
func (l *Landscape) Harvest(x, y int) float64 {
	c := l.Cell(x, y)
	s := c.Sugar
	c.Sugar = 0
	return s
}

// SetSugar sets the sugar at (x, y), clamped to [0, capacity].
func (l *Landscape) SetSugar(x, y int, v float64) {
	c := l.Cell(x, y)
	c.Sugar = math.Max(0, math.Min(c.Capacity, v))
}

// NextOpen samples up to rows*cols random coordinates from the placement
// stream and returns the first empty one.
func (l *Landscape) NextOpen() (int, int, error) {
	tries := l.params.Rows * l.params.Cols
	for i := 0; i < tries; i++ {
		x := l.placement.IntN(l.params.Cols)
		y := l.placement.IntN(l.params.Rows)
		if l.IsEmpty(x, y) {
			return x, y, nil
		}
	}
	return 0, 0, ErrSaturated
}

// AdvanceResources regrows every cell linearly from the last update to t,
// capped at capacity. Cells with zero capacity never grow.
func (l *Landscape) AdvanceResources(t float64) {
	dt := t - l.lastUpdate
	if dt <= 0 {
		return
	}
	grow := l.params.Alpha * dt
	for i := range l.cells {
		c := &l.cells[i]
		if c.Capacity <= 0 || c.Sugar >= c.Capacity {
			continue
		}
		c.Sugar = math.Min(c.Capacity, c.Sugar+grow)
	}
	l.lastUpdate = t
}

// TotalSugar sums the sugar currently on the grid.
func (l *Landscape) TotalSugar() float64 {
	total := 0.0
	for i := range l.cells {
		total += l.cells[i].Sugar
	}
	return total
}

// Each calls fn for every cell in row-major order.
func (l *Landscape) Each(fn func(c *Cell)) {
	for i := range l.cells {
		fn(&l.cells[i])
	}
}
