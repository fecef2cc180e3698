package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}

func TestCanvas(t *testing.T) {
	cam := New(16, 48, 96, 48)
	w, h := cam.Canvas()
	if w != 96*16+96 || h != 48*16+96 {
		t.Errorf("expected canvas 1632x864, got %dx%d", w, h)
	}
}

func TestWorldToScreen(t *testing.T) {
	cam := New(16, 48, 96, 48)

	tests := []struct {
		wx, wy float32
		sx, sy float32
	}{
		{0, 0, 48, 48},
		{96, 48, 48 + 1536, 48 + 768},
		{8, 40, 48 + 128, 48 + 640},
	}
	for _, tc := range tests {
		sx, sy := cam.WorldToScreen(tc.wx, tc.wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("WorldToScreen(%v, %v) = (%v, %v), want (%v, %v)", tc.wx, tc.wy, sx, sy, tc.sx, tc.sy)
		}
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(16, 48, 96, 48)
	cam.Pan(13, -7)
	cam.Zoom = 1.5

	for _, p := range []struct{ sx, sy float32 }{{0, 0}, {100, 100}, {1200, 600}} {
		wx, wy := cam.ScreenToWorld(p.sx, p.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, p.sx) || !near(sy, p.sy) {
			t.Errorf("roundtrip failed: (%v,%v) -> (%v,%v) -> (%v,%v)", p.sx, p.sy, wx, wy, sx, sy)
		}
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	cam := New(16, 48, 96, 48)
	wx, wy := cam.ScreenToWorld(400, 300)

	cam.ZoomAt(2, 400, 300)
	if cam.Zoom != 2 {
		t.Fatalf("expected zoom 2, got %v", cam.Zoom)
	}
	sx, sy := cam.WorldToScreen(wx, wy)
	if !near(sx, 400) || !near(sy, 300) {
		t.Errorf("anchor moved to (%v, %v)", sx, sy)
	}
	if !near(cam.Length(1), 32) {
		t.Errorf("expected 32 px per inch, got %v", cam.Length(1))
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(16, 48, 96, 48)
	cam.ZoomAt(100, 0, 0)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %v, got %v", cam.MaxZoom, cam.Zoom)
	}
	cam.ZoomAt(0.001, 0, 0)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %v, got %v", cam.MinZoom, cam.Zoom)
	}

	cam.Reset()
	if cam.Zoom != 1 || cam.PanX != 0 || cam.PanY != 0 {
		t.Errorf("reset left zoom %v pan (%v, %v)", cam.Zoom, cam.PanX, cam.PanY)
	}
}
