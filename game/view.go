package game

import (
	"github.com/Rodrun/sugarscape/config"
	"github.com/Rodrun/sugarscape/ui"
)

// Speed bounds in events per frame.
const (
	minSpeed = 1
	maxSpeed = 10000
)

// view holds the widgets of the graphical front end.
type view struct {
	hud        *ui.HUD
	grid       *ui.GridView
	controls   *ui.ControlsPanel
	inspector  *ui.Inspector
	perfPanel  *ui.PerfPanel
	quickStats *ui.QuickStatsPanel
	overlays   *ui.OverlayRegistry

	height          int32
	hudHeight       int32
	inspectorHeight int32
	pending         ui.Action // buttons pressed during the last Draw
}

func newView(cfg *config.Config) *view {
	width := int32(cfg.Derived.ScreenWidth)
	hudHeight := int32(cfg.Screen.HUDHeight)
	v := &view{
		hud:        ui.NewHUD(),
		grid:       ui.NewGridView(0, hudHeight, int32(cfg.Screen.CellSize), cfg.Landscape.Cols, cfg.Landscape.Rows),
		controls:   ui.NewControlsPanel(float32(width)-10, 10),
		inspector:  ui.NewInspector(width-ui.InspectorWidth-10, hudHeight+10),
		perfPanel:  ui.NewPerfPanel(10, hudHeight+10),
		quickStats: ui.NewQuickStatsPanel(10, hudHeight+10, 220),
		overlays:   ui.NewOverlayRegistry(),
		height:     int32(cfg.Derived.ScreenHeight),
		hudHeight:  hudHeight,
	}
	if cfg.Render.ShowSugar {
		v.overlays.SetEnabled(ui.OverlaySugar, true)
	}
	return v
}
