// Package app hosts a game in a raylib window: it samples input, drives the
// fixed-step game once per frame and draws the scene with the HUD on top.
package app

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fireflies/camera"
	"github.com/pthm-cable/fireflies/config"
	"github.com/pthm-cable/fireflies/game"
	"github.com/pthm-cable/fireflies/inspector"
	"github.com/pthm-cable/fireflies/renderer"
	"github.com/pthm-cable/fireflies/ui"
)

const windowTitle = "Fireflies"

// App owns the window-side state around a game.
type App struct {
	cfg  *config.Config
	game *game.Game

	camera     *camera.Camera
	background *renderer.BackgroundRenderer
	scene      *renderer.SceneRenderer
	hud        *ui.HUD
	perfPanel  *ui.PerfPanel
	inspector  *inspector.Inspector

	screenWidth, screenHeight int32

	speed    game.Speed // speed picked with the HUD buttons
	hudRun   bool       // HUD run button clicked last frame
	panning  bool
	showHelp bool
}

// New creates an app for g. The window must not be open yet.
func New(cfg *config.Config, g *game.Game) *App {
	w, h := int32(cfg.Screen.Width), int32(cfg.Screen.Height)
	cam := camera.New(float64(w), float64(h), cfg.Board.Width, cfg.Board.Height, cfg.Board.Scale)
	return &App{
		cfg:          cfg,
		game:         g,
		camera:       cam,
		background:   renderer.NewBackgroundRenderer(cam),
		scene:        renderer.NewSceneRenderer(cam),
		hud:          ui.NewHUD(),
		perfPanel:    ui.NewPerfPanel(),
		inspector:    inspector.NewInspector(cam, h),
		screenWidth:  w,
		screenHeight: h,
		speed:        game.SpeedNormal,
		showHelp:     true,
	}
}

// Run opens the window and loops until it is closed or maxTicks host frames
// have elapsed (0 = unlimited).
func (a *App) Run(maxTicks int64) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(a.screenWidth, a.screenHeight, windowTitle+" - "+a.game.Title())
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(a.cfg.Screen.TargetFPS))

	slog.Info("window opened", "width", a.screenWidth, "height", a.screenHeight)

	for !rl.WindowShouldClose() {
		a.game.Update(a.handleInput())
		a.game.Perf().RecordFrame()
		a.draw()

		if maxTicks > 0 && a.game.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", a.game.Tick())
			break
		}
	}
	if a.game.Running() {
		a.game.StopRun()
	}
}
