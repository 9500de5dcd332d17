package ui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/Rodrun/sugarscape/camera"
	"github.com/Rodrun/sugarscape/sim"
)

// GridView draws a snapshot as one square per cell, row 0 at the top,
// through a camera that wraps at the grid edges.
type GridView struct {
	X, Y      int32 // top-left corner on screen
	Palette   Palette
	GridLines bool
	Camera    *camera.Camera
	renderer  *Renderer
}

// NewGridView creates a view at (x, y) sized to show a cols×rows grid at
// cellSize pixels per cell.
func NewGridView(x, y, cellSize int32, cols, rows int) *GridView {
	w, h := float32(int32(cols)*cellSize), float32(int32(rows)*cellSize)
	return &GridView{
		X:        x,
		Y:        y,
		Palette:  DefaultPalette(),
		Camera:   camera.New(w, h, cols, rows, float32(cellSize)),
		renderer: NewRenderer(),
	}
}

// Draw renders the visible cells of g.
func (v *GridView) Draw(g sim.Grid) {
	cam := v.Camera
	cols, rows := cam.Visible()
	size := float32(math.Ceil(float64(cam.Zoom)))
	ox, oy := float32(v.X), float32(v.Y)

	rl.BeginScissorMode(v.X, v.Y, int32(cam.ViewportW), int32(cam.ViewportH))
	defer rl.EndScissorMode()

	for j := 0; j < rows.Count; j++ {
		py := oy + rows.Offset + float32(j)*cam.Zoom
		y := wrap(rows.First+j, g.Rows)
		for i := 0; i < cols.Count; i++ {
			px := ox + cols.Offset + float32(i)*cam.Zoom
			x := wrap(cols.First+i, g.Cols)
			rl.DrawRectangleV(rl.NewVector2(px, py), rl.NewVector2(size, size), v.Palette.Color(g.At(x, y)))
		}
	}
	if !v.GridLines || cam.Zoom < 4 {
		return
	}
	bottom, right := oy+cam.ViewportH, ox+cam.ViewportW
	for i := 0; i <= cols.Count; i++ {
		px := ox + cols.Offset + float32(i)*cam.Zoom
		rl.DrawLineV(rl.NewVector2(px, oy), rl.NewVector2(px, bottom), v.renderer.Theme.GridLine)
	}
	for j := 0; j <= rows.Count; j++ {
		py := oy + rows.Offset + float32(j)*cam.Zoom
		rl.DrawLineV(rl.NewVector2(ox, py), rl.NewVector2(right, py), v.renderer.Theme.GridLine)
	}
}

// Highlight outlines cell (x, y).
func (v *GridView) Highlight(x, y int) {
	sx, sy := v.Camera.WorldToScreen(float32(x), float32(y))
	size := v.Camera.Zoom
	rec := rl.NewRectangle(float32(v.X)+sx-1, float32(v.Y)+sy-1, size+2, size+2)
	rl.BeginScissorMode(v.X, v.Y, int32(v.Camera.ViewportW), int32(v.Camera.ViewportH))
	rl.DrawRectangleLinesEx(rec, 1, v.renderer.Theme.Selection)
	rl.EndScissorMode()
}

// CellAt maps a screen position to the cell under it.
func (v *GridView) CellAt(px, py float32) (x, y int, ok bool) {
	return v.Camera.CellAt(px-float32(v.X), py-float32(v.Y))
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
