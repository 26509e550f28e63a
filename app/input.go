package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fireflies/game"
)

const wheelZoomStep = 1.1

// handleInput samples the keyboard and mouse, forwards pointer events to the
// game and returns the frame's controls.
func (a *App) handleInput() game.Controls {
	a.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		a.perfPanel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyI) {
		a.inspector.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.showHelp = !a.showHelp
	}

	a.handleCameraInput()
	a.handlePointer()

	// A HUD click counts as one press of the run key.
	runKey := rl.IsKeyDown(rl.KeySpace) || a.hudRun
	a.hudRun = false

	speed := a.speed
	switch {
	case rl.IsKeyDown(rl.KeyGrave):
		speed = game.SpeedSlow
	case rl.IsKeyDown(rl.KeyOne):
		speed = game.SpeedFast
	}
	return game.Controls{RunKey: runKey, Speed: speed}
}

// handleResize propagates window size changes to the camera.
func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	if w == a.screenWidth && h == a.screenHeight {
		return
	}
	a.screenWidth, a.screenHeight = w, h
	a.camera.Resize(float64(w), float64(h))
	a.inspector.Resize(h)
}

// handleCameraInput pans with the right mouse button and zooms with the wheel.
func (a *App) handleCameraInput() {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		a.panning = true
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonRight) {
		a.panning = false
	}
	if a.panning {
		d := rl.GetMouseDelta()
		a.camera.Pan(-float64(d.X), -float64(d.Y))
	}

	if wheel := rl.GetMouseWheelMove(); wheel > 0 {
		a.camera.ZoomBy(wheelZoomStep)
	} else if wheel < 0 {
		a.camera.ZoomBy(1 / wheelZoomStep)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		a.camera.Reset()
	}
}

// handlePointer turns left mouse button activity into board-space pointer
// events.
func (a *App) handlePointer() {
	m := rl.GetMousePosition()
	p := a.camera.ScreenToWorld(m.X, m.Y)
	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		if a.overHUD(m) {
			return
		}
		a.game.PointerDown(p)
	case rl.IsMouseButtonReleased(rl.MouseButtonLeft):
		a.game.PointerUp(p)
	case rl.IsMouseButtonDown(rl.MouseButtonLeft):
		a.game.PointerMove(p)
	}
}

// overHUD reports whether a screen point lies on the button strip.
func (a *App) overHUD(m rl.Vector2) bool {
	return m.Y < 44 && m.X > float32(a.screenWidth)-310
}
