package systems

import (
	"github.com/pthm-cable/fireflies/components"
	"github.com/pthm-cable/fireflies/config"
)

// StepContext carries the per-tick values owned by the host loop.
type StepContext struct {
	Tick           int64
	StepsPerSecond float64
}

// Outcome is what happened to a firefly during one step.
type Outcome uint8

const (
	OutcomeMoved    Outcome = iota // advanced along its own track
	OutcomeTransfer                // switched onto an attracting track
	OutcomeBounce                  // reversed off a returning track
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTransfer:
		return "transfer"
	case OutcomeBounce:
		return "bounce"
	}
	return "moved"
}

// MotionEvent records a transfer or bounce.
type MotionEvent struct {
	Tick      int64
	Firefly   int
	Outcome   Outcome
	FromTrack int
	ToTrack   int // the crossed track
	Phase     float64
	Velocity  float64
}

// MotionSystem advances fireflies along their tracks and resolves crossings.
type MotionSystem struct {
	test CrossingTest
}

// NewMotionSystem creates a motion system with the given tolerances.
func NewMotionSystem(cfg config.CollisionConfig) *MotionSystem {
	return &MotionSystem{test: CrossingTest{Gate: cfg.GateDistance, Epsilon: cfg.PhaseEpsilon}}
}

// Update steps every firefly in index order and appends transfers and
// bounces to events.
func (s *MotionSystem) Update(ctx StepContext, fireflies []components.Firefly, tracks []components.Track, events []MotionEvent) []MotionEvent {
	for i := range fireflies {
		ev := s.Step(ctx, &fireflies[i], tracks)
		if ev.Outcome != OutcomeMoved {
			events = append(events, ev)
		}
	}
	return events
}

// Step advances one firefly by one step. At most one crossing is resolved.
func (s *MotionSystem) Step(ctx StepContext, f *components.Firefly, tracks []components.Track) MotionEvent {
	cur := &tracks[f.Track]
	prev := f.Phase
	p1 := cur.At(prev)
	f.Phase = cur.Wrap(prev + f.Velocity/ctx.StepsPerSecond)
	p2 := cur.At(f.Phase)

	ev := MotionEvent{Tick: ctx.Tick, Firefly: f.Index, FromTrack: f.Track, ToTrack: f.Track}

	hit, ok := s.test.First(tracks, f.Track, p1, p2)
	if !ok {
		ev.Phase, ev.Velocity = f.Phase, f.Velocity
		return ev
	}

	target := &tracks[hit.Track]
	ev.ToTrack = hit.Track
	switch {
	case target.Flags.Has(components.FlagAttract):
		f.Track = hit.Track
		// The later parameter keeps the same crossing from firing again.
		f.Phase = target.Seat(hit.To)
		if f.Velocity*(hit.To-hit.From) < 0 {
			f.Velocity = -f.Velocity
		}
		ev.Outcome = OutcomeTransfer
	case target.Flags.Has(components.FlagReturn):
		f.Phase = prev
		f.Velocity = -f.Velocity
		ev.Outcome = OutcomeBounce
	}
	ev.Phase, ev.Velocity = f.Phase, f.Velocity
	return ev
}
