package game

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/Rodrun/sugarscape/sim"
	"github.com/Rodrun/sugarscape/ui"
)

const controlsLegend = "SPACE: Pause | N: Step | < >: Speed | Click: Inspect | S: Sugar | T: Terrain\n" +
	"Arrows: Pan | +/-: Zoom | Home: Reset | G: Grid | W: Window | P: Perf"

// Update handles input and advances the simulation by one frame's worth of
// events.
func (g *Game) Update() {
	g.handleInput()

	if !g.paused && !g.finished {
		start := time.Now()
		g.advance(g.speed)
		g.elapsed += time.Since(start)
	}
	g.perf.RecordFrame()
}

// Finished reports whether the next event is past the stop time.
func (g *Game) Finished() bool { return g.finished }

// Draw renders the grid and the UI.
func (g *Game) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(rl.Black)

	v := g.ui
	mode := v.overlays.View()
	v.grid.GridLines = v.overlays.IsEnabled(ui.OverlayGridLines)
	v.grid.Draw(g.sim.Snapshot(mode))
	if x, y, ok := v.inspector.Selected(); ok {
		v.grid.Highlight(x, y)
	}

	g.drawUI(mode)
}

// drawUI draws the HUD, the control buttons and the optional panels.
func (g *Game) drawUI(mode sim.View) {
	v := g.ui
	st := g.sim.Stats()

	v.hud.Draw(ui.HUDData{
		Title:          "Sugarscape",
		Time:           st.Time,
		Horizon:        g.until,
		Population:     st.Population,
		MeanSugar:      st.MeanSugar,
		MeanMetabolism: st.MeanMetabolism,
		MeanVision:     st.MeanVision,
		Events:         g.events,
		FPS:            rl.GetFPS(),
		Paused:         g.paused,
		Finished:       g.finished,
		View:           ui.ViewName(mode),
	})

	v.pending |= v.controls.Draw(ui.ControlState{
		Paused:  g.paused,
		Terrain: mode == sim.ViewTerrain,
		Sugar:   mode == sim.ViewSugar,
		Speed:   g.speed,
	})

	y := v.hudHeight + 10
	if v.overlays.IsEnabled(ui.OverlayQuickStats) {
		y = v.quickStats.Draw(g.recorder.Last()) + 20
	}
	if v.overlays.IsEnabled(ui.OverlayPerf) {
		v.perfPanel.SetPosition(10, y)
		v.perfPanel.Draw(g.perf.Stats())
	}

	v.inspectorHeight = v.inspector.Draw(g.sim)
	v.hud.DrawControls(v.height, controlsLegend)
}
