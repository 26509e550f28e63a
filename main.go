package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pthm-cable/fireflies/app"
	"github.com/pthm-cable/fireflies/config"
	"github.com/pthm-cable/fireflies/game"
	"github.com/pthm-cable/fireflies/puzzle"
	"github.com/pthm-cable/fireflies/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	levelName := flag.String("level", "first-light", "Embedded level to load")
	levelFile := flag.String("level-file", "", "Path to a level YAML file (overrides -level)")
	listLevels := flag.Bool("list-levels", false, "Print the embedded levels and exit")
	headless := flag.Bool("headless", false, "Run the level without graphics")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N frames (0 = unlimited; headless defaults to 10 seconds)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV traces and config snapshot")
	speed := flag.String("speed", "normal", "Headless speed: slow, normal or fast")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error")
	logEvents := flag.Bool("log-events", false, "Log every transfer and bounce at debug level")

	flag.Parse()

	if *listLevels {
		for _, name := range puzzle.Names() {
			fmt.Println(name)
		}
		return
	}

	// Set up slog (JSON to stdout for structured logging)
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q\n", *logLevel)
		os.Exit(2)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	def, err := loadLevel(*levelName, *levelFile)
	if err != nil {
		slog.Error("failed to load level", "error", err)
		os.Exit(1)
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	g, err := game.NewGame(cfg, def, game.Options{Output: output, LogEvents: *logEvents})
	if err != nil {
		slog.Error("failed to build level", "level", def.Name, "error", err)
		os.Exit(1)
	}

	if !*headless {
		app.New(cfg, g).Run(*maxTicks)
		return
	}

	s, err := parseSpeed(*speed)
	if err != nil {
		slog.Error("invalid speed", "error", err)
		os.Exit(2)
	}
	ticks := *maxTicks
	if ticks <= 0 {
		ticks = int64(10 * cfg.Screen.TargetFPS)
	}

	slog.Info("starting headless run",
		"level", def.Name,
		"max_ticks", ticks,
		"speed", s.String(),
		"output_dir", output.Dir(),
	)

	// Headless mode: press the run key on the first frame and hold speed
	g.Update(game.Controls{RunKey: true, Speed: s})
	for g.Tick() < ticks {
		g.Update(game.Controls{Speed: s})
	}
	g.StopRun()
	slog.Info("max ticks reached", "tick", g.Tick(), "cleared", g.Cleared())
}

func loadLevel(name, path string) (*puzzle.Definition, error) {
	if path != "" {
		return puzzle.LoadFile(path)
	}
	def, err := puzzle.Load(name)
	if errors.Is(err, puzzle.ErrUnknownLevel) {
		return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(puzzle.Names(), ", "))
	}
	return def, err
}

func parseSpeed(s string) (game.Speed, error) {
	switch strings.ToLower(s) {
	case "slow":
		return game.SpeedSlow, nil
	case "normal":
		return game.SpeedNormal, nil
	case "fast":
		return game.SpeedFast, nil
	}
	return game.SpeedNormal, fmt.Errorf("unknown speed %q", s)
}
