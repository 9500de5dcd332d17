// Package ui draws the sugarscape grid, its HUD and inspection panels with
// raylib. Inspector panels are declared through field descriptors so the
// layout follows the data they show.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/Rodrun/sugarscape/sim"
)

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText        WidgetType = iota // Plain text with format string
	WidgetBar                           // Progress bar [0, 1]
	WidgetSugarBar                      // Current over maximum with color thresholds
	WidgetColorSwatch                   // Color preview square
	WidgetSection                       // Section header
	WidgetSpacer                        // Vertical spacing
)

// FieldDescriptor defines how to display a single piece of data.
type FieldDescriptor struct {
	ID          string             // Unique identifier for the field
	Label       string             // Display label
	Widget      WidgetType         // How to render
	Format      string             // Printf format for text (e.g., "%.2f")
	Color       rl.Color           // Optional color override
	Visible     func(any) bool     // Optional visibility check (nil = always visible)
	Getter      func(any) float32  // Value extractor (for numeric fields)
	MaxGetter   func(any) float32  // Upper bound for WidgetSugarBar
	TextGetter  func(any) string   // Value extractor (for text fields)
	ColorGetter func(any) rl.Color // Color extractor (for color swatches)
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	ID      string            // Unique identifier
	Title   string            // Section header text
	Fields  []FieldDescriptor // Fields in this section
	Visible func(any) bool    // Optional visibility check for entire section
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	BarFillLow     rl.Color
	BarFillMedium  rl.Color
	BarFillHigh    rl.Color
	GridLine       rl.Color
	Selection      rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		BarFillLow:     rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillMedium:  rl.Color{R: 200, G: 180, B: 100, A: 255},
		BarFillHigh:    rl.Color{R: 100, G: 200, B: 100, A: 255},
		GridLine:       rl.Color{R: 45, G: 45, B: 45, A: 255},
		Selection:      rl.Color{R: 255, G: 255, B: 255, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     80,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// Palette maps snapshot buckets to cell colors.
type Palette [sim.Terrain3 + 1]rl.Color

// DefaultPalette colors agents red/orange, sugar in yellows and terrain in
// greys, all over a dark background.
func DefaultPalette() Palette {
	var p Palette
	p[sim.Empty] = rl.Color{R: 18, G: 18, B: 18, A: 255}
	p[sim.AgentHealthy] = rl.Color{R: 220, G: 60, B: 60, A: 255}
	p[sim.AgentCritical] = rl.Color{R: 255, G: 160, B: 40, A: 255}
	p[sim.Sugar0] = rl.Color{R: 60, G: 52, B: 20, A: 255}
	p[sim.Sugar1] = rl.Color{R: 110, G: 95, B: 30, A: 255}
	p[sim.Sugar2] = rl.Color{R: 170, G: 145, B: 40, A: 255}
	p[sim.Sugar3] = rl.Color{R: 235, G: 200, B: 60, A: 255}
	p[sim.Terrain0] = rl.Color{R: 40, G: 40, B: 40, A: 255}
	p[sim.Terrain1] = rl.Color{R: 90, G: 90, B: 90, A: 255}
	p[sim.Terrain2] = rl.Color{R: 150, G: 150, B: 150, A: 255}
	p[sim.Terrain3] = rl.Color{R: 215, G: 215, B: 215, A: 255}
	return p
}

// Color returns the color for b, or the empty color for unknown buckets.
func (p Palette) Color(b sim.Bucket) rl.Color {
	if int(b) >= len(p) {
		return p[sim.Empty]
	}
	return p[b]
}
