package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// handleSelection picks the clicked cell for the inspector.
func (g *Game) handleSelection() {
	ins := g.ui.inspector

	// Right click or Escape to deselect
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
		return
	}

	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	mouse := rl.GetMousePosition()
	if ins.Contains(mouse.X, mouse.Y, g.ui.inspectorHeight) {
		return
	}
	g.selectAt(mouse.X, mouse.Y)
}

// selectAt selects the cell under the screen position (px, py).
func (g *Game) selectAt(px, py float32) bool {
	x, y, ok := g.ui.grid.CellAt(px, py)
	if !ok {
		return false
	}
	g.ui.inspector.Select(x, y)
	slog.Debug("cell selected", "x", x, "y", y)
	return true
}
