package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/Rodrun/sugarscape/ui"
)

// handleInput processes keyboard input and the buttons pressed last frame.
func (g *Game) handleInput() {
	act := g.ui.pending
	g.ui.pending = 0

	if rl.IsKeyPressed(rl.KeySpace) {
		act |= ui.ActionPause
	}
	if rl.IsKeyPressed(rl.KeyN) {
		act |= ui.ActionStep
	}

	// Speed control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		act |= ui.ActionSlower
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		act |= ui.ActionFaster
	}

	g.ui.overlays.HandleKeys()
	g.apply(act)
	g.handleCameraInput()
	g.handleSelection()
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	cam := g.ui.grid.Camera
	const panSpeed = 8 // pixels per frame

	// Arrow key panning
	if rl.IsKeyDown(rl.KeyRight) {
		cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		cam.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		cam.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		cam.Reset()
	}
}

// apply carries out control requests.
func (g *Game) apply(act ui.Action) {
	if act.Has(ui.ActionPause) {
		g.paused = !g.paused
	}
	if act.Has(ui.ActionStep) && g.paused {
		g.advance(1)
	}
	if act.Has(ui.ActionSugar) {
		g.ui.overlays.Toggle(ui.OverlaySugar)
	}
	if act.Has(ui.ActionTerrain) {
		g.ui.overlays.Toggle(ui.OverlayTerrain)
	}
	if act.Has(ui.ActionSlower) {
		g.speed = max(g.speed/2, minSpeed)
	}
	if act.Has(ui.ActionFaster) {
		g.speed = min(g.speed*2, maxSpeed)
	}
}
