// Package camera provides a pan and zoom viewport onto the toroidal grid.
package camera

import "math"

// Camera controls the viewport into the grid. World coordinates are in
// cells, so cell (x, y) covers [x, x+1) × [y, y+1).
type Camera struct {
	// Position is the camera center in cell coordinates
	X, Y float32

	// Zoom is the on-screen size of one cell in pixels
	Zoom float32

	// Viewport dimensions in pixels
	ViewportW, ViewportH float32

	// Grid dimensions in cells (for toroidal wrapping)
	Cols, Rows float32

	// Zoom constraints
	MinZoom, MaxZoom float32

	baseZoom float32
}

// maxZoomFactor bounds magnification relative to the starting cell size.
const maxZoomFactor = 8

// New creates a camera showing the whole grid at cellSize pixels per cell.
func New(viewportW, viewportH float32, cols, rows int, cellSize float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		Cols:      float32(cols),
		Rows:      float32(rows),
		baseZoom:  cellSize,
		MaxZoom:   cellSize * maxZoomFactor,
	}
	c.updateMinZoom()
	c.Reset()
	return c
}

// updateMinZoom keeps the visible area no larger than the grid, so no
// cell is shown twice.
func (c *Camera) updateMinZoom() {
	c.MinZoom = max(c.ViewportW/c.Cols, c.ViewportH/c.Rows)
	if c.MaxZoom < c.MinZoom {
		c.MaxZoom = c.MinZoom
	}
}

// WorldToScreen converts cell coordinates to viewport pixels along the
// shortest toroidal path from the camera center.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx := toroidalDelta(wx, c.X, c.Cols)
	dy := toroidalDelta(wy, c.Y, c.Rows)
	return c.ViewportW/2 + dx*c.Zoom, c.ViewportH/2 + dy*c.Zoom
}

// ScreenToWorld converts viewport pixels to wrapped cell coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	dx := (sx - c.ViewportW/2) / c.Zoom
	dy := (sy - c.ViewportH/2) / c.Zoom
	return mod(c.X+dx, c.Cols), mod(c.Y+dy, c.Rows)
}

// CellAt returns the cell under viewport pixel (sx, sy), and false when
// the pixel is outside the viewport.
func (c *Camera) CellAt(sx, sy float32) (x, y int, ok bool) {
	if sx < 0 || sy < 0 || sx >= c.ViewportW || sy >= c.ViewportH {
		return 0, 0, false
	}
	wx, wy := c.ScreenToWorld(sx, sy)
	x, y = int(wx), int(wy)
	// float rounding can land exactly on the far edge
	if x >= int(c.Cols) {
		x = 0
	}
	if y >= int(c.Rows) {
		y = 0
	}
	return x, y, true
}

// Span is a run of visible cells along one axis. First may be negative or
// past the grid; callers wrap it.
type Span struct {
	First, Count int
	Offset       float32 // screen position of the left or top edge of First
}

// Visible returns the cells that intersect the viewport.
func (c *Camera) Visible() (cols, rows Span) {
	return c.span(c.X, c.ViewportW), c.span(c.Y, c.ViewportH)
}

func (c *Camera) span(center, viewport float32) Span {
	half := viewport / (2 * c.Zoom)
	first := int(math.Floor(float64(center - half)))
	last := int(math.Ceil(float64(center + half)))
	return Span{
		First:  first,
		Count:  last - first,
		Offset: viewport/2 + (float32(first)-center)*c.Zoom,
	}
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.updateMinZoom()
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels.
// Automatically wraps around the grid.
func (c *Camera) Pan(dx, dy float32) {
	c.X = mod(c.X+dx/c.Zoom, c.Cols)
	c.Y = mod(c.Y+dy/c.Zoom, c.Rows)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centers the camera on the grid at the starting cell size.
func (c *Camera) Reset() {
	c.X = c.Cols / 2
	c.Y = c.Rows / 2
	c.SetZoom(c.baseZoom)
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// in a toroidal space of the given size.
func toroidalDelta(to, from, size float32) float32 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
