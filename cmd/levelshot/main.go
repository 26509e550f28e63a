// Level screenshot tool - renders a level to a PNG file for inspection.
//
// Usage: go run ./cmd/levelshot -level echo -steps 480 -out echo.png
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fireflies/camera"
	"github.com/pthm-cable/fireflies/config"
	"github.com/pthm-cable/fireflies/game"
	"github.com/pthm-cable/fireflies/puzzle"
	"github.com/pthm-cable/fireflies/renderer"
)

func main() {
	levelName := flag.String("level", "first-light", "Embedded level to render")
	outPath := flag.String("out", "level.png", "Output PNG path")
	steps := flag.Int("steps", 0, "Simulation steps to run before rendering (0 = edit view)")
	flag.Parse()

	cfg := config.Default()
	def, err := puzzle.Load(*levelName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load level: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	g, err := game.NewGame(cfg, def, game.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build level: %v\n", err)
		os.Exit(1)
	}
	if *steps > 0 {
		g.StartRun()
		for i := 0; i < *steps; i++ {
			g.Step()
		}
	}

	width, height := int32(cfg.Screen.Width), int32(cfg.Screen.Height)

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(width, height, "Level Shot")
	defer rl.CloseWindow()

	cam := camera.New(float64(width), float64(height), cfg.Board.Width, cfg.Board.Height, cfg.Board.Scale)
	background := renderer.NewBackgroundRenderer(cam)
	scene := renderer.NewSceneRenderer(cam)

	target := rl.LoadRenderTexture(width, height)
	defer rl.UnloadRenderTexture(target)

	rl.BeginTextureMode(target)
	background.Draw()
	scene.DrawTracks(g.Tracks(), g.Tick())
	scene.DrawBellflowers(g.Bellflowers())
	scene.DrawFireflies(g.Fireflies(), g.Tracks(), g.TrailPointer())
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)

	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if success {
		fmt.Printf("Level %s rendered to: %s (%dx%d)\n", def.Name, *outPath, width, height)
	} else {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
}
