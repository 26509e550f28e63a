package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/fireflies/camera"
)

// BackgroundRenderer clears the screen and draws the unit rule grid.
type BackgroundRenderer struct {
	cam *camera.Camera
}

// NewBackgroundRenderer creates a background renderer for the camera.
func NewBackgroundRenderer(cam *camera.Camera) *BackgroundRenderer {
	return &BackgroundRenderer{cam: cam}
}

// Draw renders the background.
func (b *BackgroundRenderer) Draw() {
	rl.ClearBackground(backgroundColor)

	minX, minY, maxX, maxY := b.cam.VisibleWorldBounds()
	w := float32(b.cam.ViewportW)
	h := float32(b.cam.ViewportH)

	for i := math.Floor(minX); i <= math.Ceil(maxX); i++ {
		x, _ := b.cam.WorldToScreen(r2.Vec{X: i})
		rl.DrawLineV(rl.NewVector2(x, 0), rl.NewVector2(x, h), gridColor)
	}
	for i := math.Floor(minY); i <= math.Ceil(maxY); i++ {
		_, y := b.cam.WorldToScreen(r2.Vec{Y: i})
		rl.DrawLineV(rl.NewVector2(0, y), rl.NewVector2(w, y), gridColor)
	}
}
