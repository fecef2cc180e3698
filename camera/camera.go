// Package camera maps maze inches to screen pixels.
package camera

// Camera places the maze on screen: a fixed pixels-per-inch scale, a border
// around the maze, and an observer-controlled pan and zoom on top.
type Camera struct {
	PPI    float32 // pixels per inch at zoom 1
	Border float32 // pixels between the window edge and the maze origin

	// Maze extent in inches
	WorldW, WorldH float32

	// Pan offset in screen pixels, applied after zoom
	PanX, PanY float32

	Zoom             float32
	MinZoom, MaxZoom float32
}

// New creates a camera showing the whole maze at zoom 1.
func New(ppi, border, worldW, worldH float32) *Camera {
	return &Camera{
		PPI:     ppi,
		Border:  border,
		WorldW:  worldW,
		WorldH:  worldH,
		Zoom:    1,
		MinZoom: 0.5,
		MaxZoom: 4,
	}
}

// Canvas returns the window size needed to show the maze and its border at
// zoom 1.
func (c *Camera) Canvas() (w, h int32) {
	return int32(c.WorldW*c.PPI + 2*c.Border), int32(c.WorldH*c.PPI + 2*c.Border)
}

// Scale returns the current pixels per inch.
func (c *Camera) Scale() float32 { return c.PPI * c.Zoom }

// WorldToScreen converts maze inches to screen pixels.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	s := c.Scale()
	return c.Border + wx*s + c.PanX, c.Border + wy*s + c.PanY
}

// ScreenToWorld converts screen pixels to maze inches.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	s := c.Scale()
	return (sx - c.Border - c.PanX) / s, (sy - c.Border - c.PanY) / s
}

// Length converts a distance in inches to pixels.
func (c *Camera) Length(inches float32) float32 { return inches * c.Scale() }

// Pan moves the view by a screen-pixel delta.
func (c *Camera) Pan(dx, dy float32) {
	c.PanX += dx
	c.PanY += dy
}

// ZoomAt multiplies the zoom, keeping the maze point under (sx, sy) fixed.
func (c *Camera) ZoomAt(factor, sx, sy float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.Zoom = clamp(c.Zoom*factor, c.MinZoom, c.MaxZoom)
	nx, ny := c.WorldToScreen(wx, wy)
	c.PanX += sx - nx
	c.PanY += sy - ny
}

// Reset returns to zoom 1 with no pan.
func (c *Camera) Reset() {
	c.PanX, c.PanY = 0, 0
	c.Zoom = 1
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
