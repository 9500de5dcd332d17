package landscape

import "errors"

// ErrInvalidVisitor is returned when a fold is given a nil visitor.
var ErrInvalidVisitor = errors.New("invalid visitor")

// Direction is a unit step on the grid.
type Direction struct{ DX, DY int }

// Cardinals are the four field-of-view rays: south, east, north, west.
var Cardinals = [4]Direction{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

// ViewVisitor folds one visible cell into the accumulator. dist is the
// number of steps from the origin, starting at 1.
type ViewVisitor[T any] func(acc T, c *Cell, dist int) T

// FoldView walks each ray in dirs outward from (x, y) up to vision cells.
// A ray stops at the first cell whose level exceeds vision plus the
// origin's level; that cell is not visited.
func FoldView[T any](l *Landscape, x, y, vision int, dirs []Direction, init T, visit ViewVisitor[T]) (T, error) {
	if visit == nil {
		return init, ErrInvalidVisitor
	}
	limit := vision + l.Cell(x, y).Level
	acc := init
	for _, d := range dirs {
		for dist := 1; dist <= vision; dist++ {
			c := l.Cell(x+d.DX*dist, y+d.DY*dist)
			if c.Level > limit {
				break
			}
			acc = visit(acc, c, dist)
		}
	}
	return acc, nil
}

// MooreVisitor folds one neighbouring cell into the accumulator.
type MooreVisitor[T any] func(acc T, c *Cell) T

// FoldMoore visits the eight cells around (x, y) in row-major order.
func FoldMoore[T any](l *Landscape, x, y int, init T, visit MooreVisitor[T]) (T, error) {
	if visit == nil {
		return init, ErrInvalidVisitor
	}
	acc := init
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			acc = visit(acc, l.Cell(x+dx, y+dy))
		}
	}
	return acc, nil
}
