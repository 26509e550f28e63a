package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/fireflies/systems"
)

// RunStats summarizes one autonomous run, from start to stop.
type RunStats struct {
	Run        int     `csv:"run"`
	Level      string  `csv:"level"`
	StartTick  int64   `csv:"start_tick"` // host frame tick when the run started
	Steps      int64   `csv:"steps"`
	SimTimeSec float64 `csv:"sim_time"`

	Transfers int `csv:"transfers"`
	Bounces   int `csv:"bounces"`
	Chimes    int `csv:"chimes"` // bellflower counter decrements

	// Step at which every bellflower counter first reached zero, or -1
	ClearedAt int64 `csv:"cleared_at"`
}

// NewRunStats starts statistics for a run.
func NewRunStats(run int, level string, startTick int64) RunStats {
	return RunStats{Run: run, Level: level, StartTick: startTick, ClearedAt: -1}
}

// RecordEvents counts transfers and bounces.
func (s *RunStats) RecordEvents(events []systems.MotionEvent) {
	for _, ev := range events {
		switch ev.Outcome {
		case systems.OutcomeTransfer:
			s.Transfers++
		case systems.OutcomeBounce:
			s.Bounces++
		}
	}
}

// RecordStep accounts one completed step.
func (s *RunStats) RecordStep(stepDT float64, chimes int, cleared bool) {
	s.Steps++
	s.SimTimeSec = float64(s.Steps) * stepDT
	s.Chimes += chimes
	if cleared && s.ClearedAt < 0 {
		s.ClearedAt = s.Steps
	}
}

// Cleared reports whether every bellflower was satisfied during the run.
func (s RunStats) Cleared() bool {
	return s.ClearedAt >= 0
}

// LogValue implements slog.LogValuer for structured logging.
func (s RunStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("run", s.Run),
		slog.String("level", s.Level),
		slog.Int64("start_tick", s.StartTick),
		slog.Int64("steps", s.Steps),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("transfers", s.Transfers),
		slog.Int("bounces", s.Bounces),
		slog.Int("chimes", s.Chimes),
		slog.Int64("cleared_at", s.ClearedAt),
	)
}
