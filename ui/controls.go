package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/Rodrun/sugarscape/telemetry"
)

// Action is a set of requests made through the control buttons.
type Action uint8

const (
	ActionPause Action = 1 << iota
	ActionStep
	ActionTerrain
	ActionSugar
	ActionSlower
	ActionFaster
)

// Has reports whether a includes b.
func (a Action) Has(b Action) bool { return a&b != 0 }

// ControlState is what the buttons display.
type ControlState struct {
	Paused  bool
	Terrain bool
	Sugar   bool
	Speed   int
}

// ControlsPanel draws the raygui buttons in the HUD strip.
type ControlsPanel struct {
	x, y float32
}

// NewControlsPanel creates buttons whose top-right corner is at (right, y).
func NewControlsPanel(right, y float32) *ControlsPanel {
	return &ControlsPanel{x: right - 4*(buttonWidth+buttonGap), y: y}
}

const (
	buttonWidth  = 64
	buttonHeight = 24
	buttonGap    = 6
)

// Draw renders the buttons and returns the ones pressed this frame.
func (c *ControlsPanel) Draw(st ControlState) Action {
	var act Action
	x, y := c.x, c.y
	button := func(col int, row int, text string) bool {
		return gui.Button(rl.Rectangle{
			X:      x + float32(col)*(buttonWidth+buttonGap),
			Y:      y + float32(row)*(buttonHeight+buttonGap),
			Width:  buttonWidth,
			Height: buttonHeight,
		}, text)
	}

	if button(0, 0, toggleText(st.Paused, "Resume", "Pause")) {
		act |= ActionPause
	}
	if button(1, 0, "Step") {
		act |= ActionStep
	}
	if button(2, 0, toggleText(st.Sugar, "Agents", "Sugar")) {
		act |= ActionSugar
	}
	if button(3, 0, toggleText(st.Terrain, "Agents", "Terrain")) {
		act |= ActionTerrain
	}
	if button(0, 1, "Slower") {
		act |= ActionSlower
	}
	if button(1, 1, "Faster") {
		act |= ActionFaster
	}
	rl.DrawText(fmt.Sprintf("%d events/frame", st.Speed), int32(x+2*(buttonWidth+buttonGap)), int32(y+buttonHeight+buttonGap+6), 12, rl.LightGray)
	return act
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}

// QuickStatsPanel renders counts from the last telemetry window.
type QuickStatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewQuickStatsPanel creates a new quick stats panel.
func NewQuickStatsPanel(x, y, width int32) *QuickStatsPanel {
	return &QuickStatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the quick stats panel and returns the Y below it.
func (q *QuickStatsPanel) Draw(w telemetry.WindowStats) int32 {
	r := q.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	r.DrawPanel(q.x, q.y, q.width, lineHeight*7+padding*2+2)

	x := q.x + padding
	y := q.y + padding
	rl.DrawText(fmt.Sprintf("Window %.1f-%.1f", w.WindowStart, w.WindowEnd), x, y, 14, rl.White)
	y += lineHeight + 2

	y = r.DrawLabelValue(x, y, "Births", fmt.Sprintf("%d (%d forfeited)", w.Births, w.Forfeited))
	y = r.DrawLabelValue(x, y, "Deaths", fmt.Sprintf("%d starved, %d aged", w.Starved, w.Aged))
	y = r.DrawLabelValue(x, y, "Matings", fmt.Sprintf("%d", w.Matings))
	y = r.DrawLabelValue(x, y, "Moves", fmt.Sprintf("%d", w.Moves))
	y = r.DrawLabelValue(x, y, "Harvested", fmt.Sprintf("%.1f", w.Harvested))
	y = r.DrawLabelValue(x, y, "Land sugar", fmt.Sprintf("%.1f", w.LandSugar))
	return y
}
