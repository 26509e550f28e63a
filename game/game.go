// Package game owns a loaded puzzle scene: its tracks, fireflies and
// bellflowers, the run/pause state machine and the interactive drag path.
// It has no graphics dependency; hosts drive it through Update and the
// pointer methods and read it through the accessors.
package game

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fireflies/components"
	"github.com/pthm-cable/fireflies/config"
	"github.com/pthm-cable/fireflies/puzzle"
	"github.com/pthm-cable/fireflies/systems"
	"github.com/pthm-cable/fireflies/telemetry"
)

// Speed selects how many simulation steps run per host frame.
type Speed uint8

const (
	SpeedNormal Speed = iota
	SpeedSlow
	SpeedFast
)

func (s Speed) String() string {
	switch s {
	case SpeedSlow:
		return "slow"
	case SpeedFast:
		return "fast"
	}
	return "normal"
}

// Controls is the host input sampled once per frame.
type Controls struct {
	RunKey bool // held state of the run/pause key; toggles on press
	Speed  Speed
}

// Options configures optional game behavior.
type Options struct {
	Output    *telemetry.OutputManager // trace sink; nil disables tracing
	LogEvents bool                     // log every transfer and bounce at debug level
}

// Game holds the complete scene state.
type Game struct {
	cfg  *config.Config
	name string

	title     string
	tracks    []components.Track
	fireflies []components.Firefly
	saved     []components.Firefly

	world  *ecs.World
	bells  *systems.BellflowerSystem
	motion *systems.MotionSystem
	trails *systems.TrailManager
	links  *systems.LinkTable

	// Scratch buffers reused across steps
	events      []systems.MotionEvent
	ffSamples   []telemetry.FireflySample
	bellSamples []telemetry.BellflowerSample
	records     []telemetry.EventRecord

	// State
	tick       int64 // host frames since load
	running    bool
	runKeyHeld bool
	speed      Speed
	sel        selection
	runs       int
	stats      telemetry.RunStats
	cleared    bool

	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	logEvents bool
}

// NewGame builds a scene from a level definition. It fails if the level
// does not describe valid geometry.
func NewGame(cfg *config.Config, def *puzzle.Definition, opts Options) (*Game, error) {
	a, err := def.Build(cfg)
	if err != nil {
		return nil, fmt.Errorf("building level %s: %w", def.Name, err)
	}
	links, err := systems.BuildLinkTable(a.Fireflies, a.Links)
	if err != nil {
		return nil, fmt.Errorf("building level %s: %w", def.Name, err)
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:       cfg,
		name:      def.Name,
		title:     a.Title,
		tracks:    a.Tracks,
		fireflies: a.Fireflies,
		world:     world,
		bells:     systems.NewBellflowerSystem(world),
		motion:    systems.NewMotionSystem(cfg.Collision),
		trails:    systems.NewTrailManager(cfg.Trail.Length, cfg.Trail.Interval, float64(cfg.Simulation.StepsPerSecond)),
		links:     links,
		perf:      telemetry.NewPerfCollector(cfg.Simulation.StepsPerSecond),
		output:    opts.Output,
		logEvents: opts.LogEvents,
	}
	for _, b := range a.Bellflowers {
		if b.DelaySteps > 0 {
			g.bells.AddDelayed(b.Sensor, b.Count, b.DelaySteps)
		} else {
			g.bells.AddImmediate(b.Sensor, b.Count)
		}
	}
	g.trails.RecalcInit(g.fireflies, g.tracks)

	slog.Info("level loaded",
		"level", g.name,
		"title", g.title,
		"tracks", len(g.tracks),
		"fireflies", len(g.fireflies),
		"bellflowers", g.bells.Len(),
		"links", len(a.Links),
	)
	return g, nil
}

// Update advances the host frame. A run key press toggles the run unless a
// track is being dragged; while running, the speed picks the sub-step count.
func (g *Game) Update(c Controls) {
	g.tick++

	if c.RunKey && !g.runKeyHeld && g.sel.kind != systems.PickTrack {
		g.ToggleRun()
	}
	g.runKeyHeld = c.RunKey
	g.speed = c.Speed

	if !g.running {
		return
	}
	for i := 0; i < g.StepsPerFrame(); i++ {
		g.Step()
	}
}

// StepsPerFrame returns the sub-step count for the current speed.
func (g *Game) StepsPerFrame() int {
	spf := g.cfg.Simulation.StepsPerFrame
	switch g.speed {
	case SpeedSlow:
		return spf.Slow
	case SpeedFast:
		return spf.Fast
	}
	return spf.Normal
}

// Step advances a running scene by one simulation step: motion, then
// bellflowers, then trails.
func (g *Game) Step() {
	if !g.running {
		return
	}
	ctx := systems.StepContext{
		Tick:           g.stats.Steps,
		StepsPerSecond: float64(g.cfg.Simulation.StepsPerSecond),
	}

	g.perf.StartStep()

	g.perf.StartPhase(telemetry.PhaseMotion)
	g.events = g.motion.Update(ctx, g.fireflies, g.tracks, g.events[:0])

	g.perf.StartPhase(telemetry.PhaseBellflowers)
	chimes := g.bells.Update(g.fireflies, g.tracks)

	g.perf.StartPhase(telemetry.PhaseTrails)
	g.trails.Step(g.fireflies, g.tracks)

	g.perf.StartPhase(telemetry.PhaseTrace)
	cleared := g.bells.Cleared()
	g.stats.RecordEvents(g.events)
	g.stats.RecordStep(g.cfg.Derived.StepDT, chimes, cleared)
	g.logStep(ctx, chimes, cleared)
	g.recordTrace(ctx.Tick)

	g.perf.EndStep()
}

// Title returns the level title.
func (g *Game) Title() string { return g.title }

// Name returns the level name.
func (g *Game) Name() string { return g.name }

// Tick returns the number of host frames since load.
func (g *Game) Tick() int64 { return g.tick }

// Running reports whether an autonomous run is in progress.
func (g *Game) Running() bool { return g.running }

// Speed returns the speed of the last frame.
func (g *Game) Speed() Speed { return g.speed }

// Stats returns the statistics of the current or last run.
func (g *Game) Stats() telemetry.RunStats { return g.stats }

// Perf returns the step timing collector.
func (g *Game) Perf() *telemetry.PerfCollector { return g.perf }

// Tracks returns the scene's tracks. Callers must not modify them.
func (g *Game) Tracks() []components.Track { return g.tracks }

// Fireflies returns the scene's fireflies. Callers must not modify them.
func (g *Game) Fireflies() []components.Firefly { return g.fireflies }

// Bellflowers returns a read-only view of every bellflower.
func (g *Game) Bellflowers() []systems.BellflowerView { return g.bells.Views() }

// TrailPointer returns the shared trail write pointer.
func (g *Game) TrailPointer() int { return g.trails.Pointer() }

// Cleared reports whether every bellflower has been satisfied in this run.
func (g *Game) Cleared() bool { return g.cleared }
