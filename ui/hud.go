package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/Rodrun/sugarscape/event"
	"github.com/Rodrun/sugarscape/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title          string
	Time           float64
	Horizon        float64
	Population     int
	MeanSugar      float64
	MeanMetabolism float64
	MeanVision     float64
	Events         int
	FPS            int32
	Paused         bool
	Finished       bool
	View           string
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("t = %.2f / %g | Population: %d | Events: %d", data.Time, data.Horizon, data.Population, data.Events),
		10, 35, 14, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Sugar %.2f | Metabolism %.2f | Vision %.2f", data.MeanSugar, data.MeanMetabolism, data.MeanVision),
		10, 55, 12, rl.LightGray,
	)

	status := "Running"
	switch {
	case data.Finished:
		status = "FINISHED"
	case data.Paused:
		status = "PAUSED"
	}
	rl.DrawText(fmt.Sprintf("%s | view: %s | FPS: %d", status, data.View, data.FPS), 10, 72, 12, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	lines := strings.Split(controls, "\n")
	y := screenHeight - 18*int32(len(lines))
	for _, line := range lines {
		rl.DrawText(line, 10, y, 12, rl.Gray)
		y += 18
	}
}

// PerfPanel renders event handling timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	width := int32(230)
	height := r.Theme.LineHeight*int32(4+len(stats.PhaseAvg)+len(stats.ByType)) + r.Theme.Padding*2
	r.DrawPanel(p.x, p.y, width, height)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding
	rl.DrawText("Event Performance", x, y, 14, rl.White)
	y += r.Theme.LineHeight + 2

	y = r.DrawLabelValue(x, y, "Avg event", stats.AvgEventDuration.Round(time.Microsecond).String())
	y = r.DrawLabelValue(x, y, "Events/s", fmt.Sprintf("%.0f", stats.EventsPerSecond))

	phases := make([]string, 0, len(stats.PhaseAvg))
	for name := range stats.PhaseAvg {
		phases = append(phases, name)
	}
	sort.Strings(phases)
	for _, name := range phases {
		pct := stats.PhasePct[name]
		color := rl.LightGray
		if pct > 60 {
			color = rl.Red
		} else if pct > 30 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += r.Theme.LineHeight
	}

	types := make([]event.Type, 0, len(stats.ByType))
	for typ := range stats.ByType {
		types = append(types, typ)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, typ := range types {
		tt := stats.ByType[typ]
		rl.DrawText(
			fmt.Sprintf("%-10s %8s x%d", typ, tt.Avg.Round(time.Microsecond), tt.Count),
			x, y, 12, rl.LightGray,
		)
		y += r.Theme.LineHeight
	}
}
