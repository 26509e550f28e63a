package game

import (
	"log/slog"

	"github.com/pthm-cable/fireflies/components"
	"github.com/pthm-cable/fireflies/telemetry"
)

// ToggleRun starts a paused scene or stops a running one.
func (g *Game) ToggleRun() {
	if g.running {
		g.StopRun()
	} else {
		g.StartRun()
	}
}

// StartRun checkpoints every firefly and begins autonomous simulation.
// Any drag in progress ends.
func (g *Game) StartRun() {
	if g.running {
		return
	}
	g.clearSelection()
	g.saved = cloneFireflies(g.saved[:0], g.fireflies)
	g.runs++
	g.stats = telemetry.NewRunStats(g.runs, g.name, g.tick)
	g.cleared = false
	g.running = true

	slog.Info("run started", "level", g.name, "run", g.runs, "tick", g.tick)
}

// StopRun ends the run and restores the scene to its state at StartRun:
// fireflies from the checkpoint, bellflower counters and trail cadence from
// their initial values.
func (g *Game) StopRun() {
	if !g.running {
		return
	}
	g.running = false
	g.fireflies = cloneFireflies(g.fireflies[:0], g.saved)
	g.bells.Reset()
	g.trails.Reset()
	g.trails.RecalcInit(g.fireflies, g.tracks)

	if err := g.output.WriteRun(g.stats); err != nil {
		slog.Error("failed to write run", "error", err)
	}
	slog.Info("run stopped", "stats", g.stats, "perf", g.perf.Stats())
}

// cloneFireflies deep-copies src into dst, reusing dst's storage.
func cloneFireflies(dst, src []components.Firefly) []components.Firefly {
	for _, f := range src {
		dst = append(dst, f.Clone())
	}
	return dst
}
