package camera

import "testing"

// 50x50 grid at 10px per cell fills a 500x500 viewport exactly.
func newTestCamera() *Camera {
	return New(500, 500, 50, 50, 10)
}

func TestNewShowsWholeGrid(t *testing.T) {
	cam := newTestCamera()

	if cam.X != 25 || cam.Y != 25 {
		t.Errorf("expected center (25, 25), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 10 || cam.MinZoom != 10 {
		t.Errorf("expected zoom and min zoom 10, got %f and %f", cam.Zoom, cam.MinZoom)
	}

	cols, rows := cam.Visible()
	want := Span{First: 0, Count: 50, Offset: 0}
	if cols != want || rows != want {
		t.Errorf("expected spans %+v, got %+v and %+v", want, cols, rows)
	}
}

func TestCellAt(t *testing.T) {
	cam := newTestCamera()

	tests := []struct {
		name   string
		sx, sy float32
		x, y   int
		ok     bool
	}{
		{"origin", 0, 0, 0, 0, true},
		{"interior", 135, 55, 13, 5, true},
		{"far edge", 499, 499, 49, 49, true},
		{"left of viewport", -1, 0, 0, 0, false},
		{"right of viewport", 500, 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := cam.CellAt(tt.sx, tt.sy)
			if ok != tt.ok || (ok && (x != tt.x || y != tt.y)) {
				t.Errorf("CellAt(%g, %g) = (%d, %d, %v), want (%d, %d, %v)",
					tt.sx, tt.sy, x, y, ok, tt.x, tt.y, tt.ok)
			}
		})
	}
}

func TestPanWraps(t *testing.T) {
	cam := newTestCamera()

	// 300px left is 30 cells, past the left edge
	cam.Pan(-300, 0)

	if cam.X != 45 {
		t.Errorf("expected X to wrap to 45, got %f", cam.X)
	}
	if x, _, _ := cam.CellAt(0, 0); x != 20 {
		t.Errorf("expected leftmost column 20 after pan, got %d", x)
	}
}

func TestWorldToScreenShortestPath(t *testing.T) {
	cam := newTestCamera()

	if sx, _ := cam.WorldToScreen(49, 25); sx != 490 {
		t.Errorf("expected column 49 at x=490, got %f", sx)
	}

	cam.X = 45
	// column 0 is 5.5 cells right of center across the seam
	if sx, _ := cam.WorldToScreen(0.5, 25); sx != 305 {
		t.Errorf("expected wrapped column at x=305, got %f", sx)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := newTestCamera()

	cam.SetZoom(1)
	if cam.Zoom != 10 {
		t.Errorf("expected zoom clamped to 10, got %f", cam.Zoom)
	}

	cam.SetZoom(1000)
	if cam.Zoom != 80 {
		t.Errorf("expected zoom clamped to 80, got %f", cam.Zoom)
	}
}

func TestVisibleWhenZoomed(t *testing.T) {
	cam := newTestCamera()
	cam.ZoomBy(2)

	cols, _ := cam.Visible()
	want := Span{First: 12, Count: 26, Offset: -10}
	if cols != want {
		t.Errorf("expected %+v, got %+v", want, cols)
	}
}

func TestResizeRaisesMinZoom(t *testing.T) {
	cam := newTestCamera()
	cam.Resize(1000, 500)

	if cam.MinZoom != 20 {
		t.Errorf("expected MinZoom 20, got %f", cam.MinZoom)
	}
	if cam.Zoom != 20 {
		t.Errorf("expected zoom raised to 20, got %f", cam.Zoom)
	}
}

func TestReset(t *testing.T) {
	cam := newTestCamera()
	cam.X = 3
	cam.Y = 7
	cam.ZoomBy(3)

	cam.Reset()

	if cam.X != 25 || cam.Y != 25 {
		t.Errorf("expected position (25, 25), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 10 {
		t.Errorf("expected zoom 10, got %f", cam.Zoom)
	}
}
