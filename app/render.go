package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fireflies/game"
	"github.com/pthm-cable/fireflies/systems"
	"github.com/pthm-cable/fireflies/ui"
)

const controlsHelp = "[Space] Run/Stop  [`] Slow  [1] Fast  [LMB] Drag  [RMB] Pan  [Wheel] Zoom  [Home] Reset view  [I] Inspect  [P] Perf  [H] Help"

var hudSpeeds = [...]game.Speed{
	ui.SpeedButtonSlow:   game.SpeedSlow,
	ui.SpeedButtonNormal: game.SpeedNormal,
	ui.SpeedButtonFast:   game.SpeedFast,
}

// draw renders one frame.
func (a *App) draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	g := a.game
	a.background.Draw()
	a.scene.DrawTracks(g.Tracks(), g.Tick())
	a.scene.DrawBellflowers(g.Bellflowers())
	a.scene.DrawFireflies(g.Fireflies(), g.Tracks(), g.TrailPointer())

	speed := ui.SpeedButtonNormal
	for i, s := range hudSpeeds {
		if s == g.Speed() {
			speed = i
		}
	}
	actions := a.hud.Draw(ui.HUDData{
		Title:        g.Title(),
		Tick:         g.Tick(),
		Speed:        speed,
		FPS:          rl.GetFPS(),
		Running:      g.Running(),
		Cleared:      g.Cleared(),
		Stats:        g.Stats(),
		Bellflowers:  g.Bellflowers(),
		ScreenWidth:  a.screenWidth,
		ScreenHeight: a.screenHeight,
	})
	if actions.ToggleRun {
		a.hudRun = true
	}
	if actions.Speed >= 0 {
		a.speed = hudSpeeds[actions.Speed]
	}

	a.inspector.Draw(a.inspected(), g.Fireflies(), g.Tracks())
	a.perfPanel.Draw(g.Perf().Stats(), a.screenHeight)
	if a.showHelp {
		a.hud.DrawControls(a.screenHeight, controlsHelp)
	}
}

// inspected returns the object being dragged, or else the one under the
// mouse.
func (a *App) inspected() systems.Pick {
	if sel := a.game.Selection(); sel.Kind != systems.PickNone {
		return sel
	}
	m := rl.GetMousePosition()
	return a.game.FindNearest(a.camera.ScreenToWorld(m.X, m.Y))
}
