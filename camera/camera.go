// Package camera maps tank coordinates (metres, y up) onto the screen.
package camera

// Camera controls the viewport into the tank.
// Supports pan and zoom; the tank is fitted to the viewport at zoom 1.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = whole tank visible, 2.0 = 2x magnification)
	Zoom float32

	// Scale is pixels per metre at zoom 1
	Scale float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Tank dimensions in metres
	WorldW, WorldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the tank with the whole tank in view.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		X:         worldW / 2,
		Y:         worldH / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MinZoom:   1.0,
		MaxZoom:   8.0,
	}
	c.Scale = fitScale(viewportW, viewportH, worldW, worldH)
	return c
}

func fitScale(viewportW, viewportH, worldW, worldH float32) float32 {
	return min(viewportW/worldW, viewportH/worldH)
}

// PixelsPerMetre returns the current screen scale.
func (c *Camera) PixelsPerMetre() float32 {
	return c.Scale * c.Zoom
}

// WorldToScreen converts tank coordinates to screen coordinates.
// Screen y grows downward, tank y grows upward.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	s := c.PixelsPerMetre()
	sx = c.ViewportW/2 + (wx-c.X)*s
	sy = c.ViewportH/2 - (wy-c.Y)*s
	return sx, sy
}

// ScreenToWorld converts screen coordinates to tank coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	s := c.PixelsPerMetre()
	wx = c.X + (sx-c.ViewportW/2)/s
	wy = c.Y - (sy-c.ViewportH/2)/s
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	s := c.PixelsPerMetre()
	halfW := c.ViewportW/(2*s) + radius
	halfH := c.ViewportH/(2*s) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions and refits the tank.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.Scale = fitScale(viewportW, viewportH, c.WorldW, c.WorldH)
}

// Pan moves the camera by the given delta in screen pixels. The centre stays
// inside the tank.
func (c *Camera) Pan(dx, dy float32) {
	s := c.PixelsPerMetre()
	c.X = clamp(c.X+dx/s, 0, c.WorldW)
	c.Y = clamp(c.Y-dy/s, 0, c.WorldH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the tank-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	s := c.PixelsPerMetre()
	halfW := c.ViewportW / (2 * s)
	halfH := c.ViewportH / (2 * s)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
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
