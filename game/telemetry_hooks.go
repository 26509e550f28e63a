package game

import (
	"log/slog"

	"github.com/pthm-cable/fireflies/systems"
	"github.com/pthm-cable/fireflies/telemetry"
)

// logStep reports crossings and the first time the level is cleared.
func (g *Game) logStep(ctx systems.StepContext, chimes int, cleared bool) {
	if g.logEvents {
		for _, ev := range g.events {
			slog.Debug("crossing",
				"step", ev.Tick,
				"firefly", ev.Firefly,
				"outcome", ev.Outcome.String(),
				"from_track", ev.FromTrack,
				"to_track", ev.ToTrack,
				"phase", ev.Phase,
				"velocity", ev.Velocity,
			)
		}
		if chimes > 0 {
			slog.Debug("bellflower chime", "step", ctx.Tick, "count", chimes)
		}
	}
	if cleared && !g.cleared {
		g.cleared = true
		slog.Info("level cleared", "level", g.name, "run", g.runs, "step", g.stats.ClearedAt)
	}
}

// recordTrace writes crossings every step and state samples every
// telemetry sample interval.
func (g *Game) recordTrace(step int64) {
	if g.output == nil {
		return
	}
	if len(g.events) > 0 {
		g.records = telemetry.EventRecords(g.records[:0], g.runs, step, g.events)
		if err := g.output.WriteEvents(g.records); err != nil {
			slog.Error("failed to write events", "error", err)
		}
	}
	if step%int64(g.cfg.Telemetry.SampleInterval) != 0 {
		return
	}
	g.ffSamples = telemetry.SampleFireflies(g.ffSamples[:0], g.runs, step, g.fireflies, g.tracks)
	if err := g.output.WriteFireflies(g.ffSamples); err != nil {
		slog.Error("failed to write firefly samples", "error", err)
	}
	g.bellSamples = telemetry.SampleBellflowers(g.bellSamples[:0], g.runs, step, g.bells.Views())
	if err := g.output.WriteBellflowers(g.bellSamples); err != nil {
		slog.Error("failed to write bellflower samples", "error", err)
	}
}
