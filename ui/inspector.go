package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/Rodrun/sugarscape/sim"
)

// InspectorWidth is the width of the inspector panel.
const InspectorWidth int32 = 230

// cellSections describe a sim.CellInfo.
var cellSections = []SectionDescriptor{
	{
		ID:    "cell",
		Title: "Cell",
		Fields: []FieldDescriptor{
			{ID: "pos", Label: "Position", Widget: WidgetText, TextGetter: func(d any) string {
				c := d.(sim.CellInfo)
				return fmt.Sprintf("(%d, %d)", c.X, c.Y)
			}},
			{ID: "sugar", Label: "Sugar", Widget: WidgetSugarBar,
				Getter:    func(d any) float32 { return float32(d.(sim.CellInfo).Sugar) },
				MaxGetter: func(d any) float32 { return float32(d.(sim.CellInfo).Capacity) },
			},
			{ID: "level", Label: "Terrain", Widget: WidgetText, Format: "%.0f",
				Getter: func(d any) float32 { return float32(d.(sim.CellInfo).Level) },
			},
			{ID: "occupant", Label: "Occupant", Widget: WidgetText, TextGetter: func(d any) string {
				c := d.(sim.CellInfo)
				if !c.Occupied {
					return "none"
				}
				return fmt.Sprintf("agent %d", c.AgentID)
			}},
		},
	},
}

// agentSections describe a sim.AgentInfo.
var agentSections = []SectionDescriptor{
	{
		ID:    "agent",
		Title: "Agent",
		Fields: []FieldDescriptor{
			{ID: "id", Label: "ID", Widget: WidgetText, TextGetter: func(d any) string {
				return fmt.Sprintf("%d", d.(sim.AgentInfo).ID)
			}},
			{ID: "mother", Label: "Mother", Widget: WidgetText, TextGetter: func(d any) string {
				if d.(sim.AgentInfo).Mother {
					return "yes"
				}
				return "no"
			}},
			{ID: "sugar", Label: "Sugar", Widget: WidgetText, Format: "%.2f",
				Getter: func(d any) float32 { return float32(d.(sim.AgentInfo).Sugar) },
			},
			{ID: "metabolism", Label: "Metabolism", Widget: WidgetText, Format: "%.2f",
				Getter: func(d any) float32 { return float32(d.(sim.AgentInfo).Metabolism) },
			},
			{ID: "vision", Label: "Vision", Widget: WidgetText, Format: "%.0f",
				Getter: func(d any) float32 { return float32(d.(sim.AgentInfo).Vision) },
			},
		},
	},
	{
		ID:    "life",
		Title: "Life",
		Fields: []FieldDescriptor{
			{ID: "age", Label: "Age", Widget: WidgetBar,
				Getter: func(d any) float32 {
					a := d.(sim.AgentInfo)
					if a.MaxAge <= 0 {
						return 0
					}
					return float32(a.Age / a.MaxAge)
				},
			},
			{ID: "born", Label: "Born", Widget: WidgetText, Format: "%.2f",
				Getter: func(d any) float32 { return float32(d.(sim.AgentInfo).Birthdate) },
			},
			{ID: "children", Label: "Children", Widget: WidgetText, Format: "%.0f",
				Getter: func(d any) float32 { return float32(d.(sim.AgentInfo).Children) },
			},
			{ID: "mate", Label: "Mate", Widget: WidgetText,
				Visible: func(d any) bool { return d.(sim.AgentInfo).HasMate },
				TextGetter: func(d any) string {
					return fmt.Sprintf("%d", d.(sim.AgentInfo).MateID)
				},
			},
			{ID: "gestating", Label: "Gestating", Widget: WidgetColorSwatch,
				Visible: func(d any) bool { return d.(sim.AgentInfo).Mother },
				ColorGetter: func(d any) rl.Color {
					if d.(sim.AgentInfo).Gestating {
						return rl.Green
					}
					return rl.DarkGray
				},
			},
		},
	},
	{
		ID:      "next",
		Title:   "Next event",
		Visible: func(d any) bool { return d.(sim.AgentInfo).HasNext },
		Fields: []FieldDescriptor{
			{ID: "type", Label: "Type", Widget: WidgetText, TextGetter: func(d any) string {
				return d.(sim.AgentInfo).NextType.String()
			}},
			{ID: "time", Label: "At", Widget: WidgetText, Format: "%.3f",
				Getter: func(d any) float32 { return float32(d.(sim.AgentInfo).NextTime) },
			},
		},
	},
}

// Inspector shows the cell picked with the mouse and its occupant.
type Inspector struct {
	renderer *Renderer
	x, y     int32

	selected bool
	cx, cy   int
}

// NewInspector creates an inspector anchored at (x, y).
func NewInspector(x, y int32) *Inspector {
	return &Inspector{renderer: NewRenderer(), x: x, y: y}
}

// Select picks cell (x, y).
func (ins *Inspector) Select(x, y int) {
	ins.selected = true
	ins.cx, ins.cy = x, y
}

// Deselect clears the selection.
func (ins *Inspector) Deselect() { ins.selected = false }

// Selected returns the picked cell.
func (ins *Inspector) Selected() (x, y int, ok bool) { return ins.cx, ins.cy, ins.selected }

// Contains reports whether (px, py) falls on the open panel.
func (ins *Inspector) Contains(px, py float32, height int32) bool {
	return ins.selected &&
		int32(px) >= ins.x && int32(px) <= ins.x+InspectorWidth &&
		int32(py) >= ins.y && int32(py) <= ins.y+height
}

// Draw renders the panel for the selected cell. It returns the panel height,
// or 0 when nothing is selected.
func (ins *Inspector) Draw(s *sim.Simulation) int32 {
	if !ins.selected {
		return 0
	}
	r := ins.renderer
	cell := s.CellInfo(ins.cx, ins.cy)
	agentInfo, hasAgent := sim.AgentInfo{}, false
	if cell.Occupied {
		agentInfo, hasAgent = s.AgentInfo(cell.AgentID)
	}

	height := r.Theme.Padding * 2
	for _, sd := range cellSections {
		height += r.SectionHeight(sd, cell)
	}
	if hasAgent {
		for _, sd := range agentSections {
			height += r.SectionHeight(sd, agentInfo)
		}
	}
	r.DrawPanel(ins.x, ins.y, InspectorWidth, height)

	x := ins.x + r.Theme.Padding
	y := ins.y + r.Theme.Padding
	width := InspectorWidth - r.Theme.Padding*2
	for _, sd := range cellSections {
		y = r.DrawSection(x, y, sd, cell, width)
	}
	if hasAgent {
		for _, sd := range agentSections {
			y = r.DrawSection(x, y, sd, agentInfo, width)
		}
	}
	return height
}
