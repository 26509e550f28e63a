// Package camera maps between board coordinates and screen pixels.
package camera

import "gonum.org/v1/gonum/spatial/r2"

// Camera controls the viewport onto the board. The board origin sits at the
// viewport center when the camera is at rest.
type Camera struct {
	// Center is the board point shown at the viewport center
	Center r2.Vec

	// Zoom in pixels per board unit
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// Board dimensions in board units
	BoardW, BoardH float64

	// Zoom at rest and the allowed range around it
	BaseZoom, MinZoom, MaxZoom float64
}

// New creates a camera at rest: board origin centered, scale pixels per unit.
func New(viewportW, viewportH, boardW, boardH, scale float64) *Camera {
	return &Camera{
		Zoom:      scale,
		ViewportW: viewportW,
		ViewportH: viewportH,
		BoardW:    boardW,
		BoardH:    boardH,
		BaseZoom:  scale,
		MinZoom:   scale / 4,
		MaxZoom:   scale * 4,
	}
}

// WorldToScreen converts a board point to screen coordinates.
func (c *Camera) WorldToScreen(p r2.Vec) (sx, sy float32) {
	sx = float32(c.ViewportW/2 + (p.X-c.Center.X)*c.Zoom)
	sy = float32(c.ViewportH/2 + (p.Y-c.Center.Y)*c.Zoom)
	return sx, sy
}

// ScreenToWorld converts screen coordinates to a board point.
func (c *Camera) ScreenToWorld(sx, sy float32) r2.Vec {
	return r2.Vec{
		X: c.Center.X + (float64(sx)-c.ViewportW/2)/c.Zoom,
		Y: c.Center.Y + (float64(sy)-c.ViewportH/2)/c.Zoom,
	}
}

// Pixels converts a board length to screen pixels.
func (c *Camera) Pixels(length float64) float32 {
	return float32(length * c.Zoom)
}

// IsVisible returns true if a disc at p with the given radius could be on
// screen (conservative check for culling).
func (c *Camera) IsVisible(p r2.Vec, radius float64) bool {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	return p.X+radius >= minX && p.X-radius <= maxX &&
		p.Y+radius >= minY && p.Y-radius <= maxY
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels, keeping the
// center on the board.
func (c *Camera) Pan(dx, dy float64) {
	c.Center.X = clamp(c.Center.X+dx/c.Zoom, -c.BoardW/2, c.BoardW/2)
	c.Center.Y = clamp(c.Center.Y+dy/c.Zoom, -c.BoardH/2, c.BoardH/2)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to rest.
func (c *Camera) Reset() {
	c.Center = r2.Vec{}
	c.Zoom = c.BaseZoom
}

// VisibleWorldBounds returns the board-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float64) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.Center.X - halfW, c.Center.Y - halfH, c.Center.X + halfW, c.Center.Y + halfH
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
