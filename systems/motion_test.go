package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/fireflies/components"
	"github.com/pthm-cable/fireflies/config"
)

const testSteps = 480

func testContext(tick int64) StepContext {
	return StepContext{Tick: tick, StepsPerSecond: testSteps}
}

func newTestMotion() *MotionSystem {
	return NewMotionSystem(config.Default().Collision)
}

func circle(t *testing.T, origin r2.Vec, r float64, flags components.TrackFlags) components.Track {
	t.Helper()
	tr, err := components.NewCircle(origin, r, flags, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func segment(t *testing.T, origin, ext r2.Vec, flags components.TrackFlags) components.Track {
	t.Helper()
	tr, err := components.NewSegment(origin, ext, flags)
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestSegmentsCrossSymmetry(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c, d r2.Vec
		want       bool
	}{
		{"x shape", r2.Vec{X: -1}, r2.Vec{X: 1}, r2.Vec{Y: -1}, r2.Vec{Y: 1}, true},
		{"parallel", r2.Vec{}, r2.Vec{X: 1}, r2.Vec{Y: 1}, r2.Vec{X: 1, Y: 1}, false},
		{"disjoint", r2.Vec{}, r2.Vec{X: 1}, r2.Vec{X: 2, Y: -1}, r2.Vec{X: 2, Y: 1}, false},
		{"line hits but segment short", r2.Vec{}, r2.Vec{X: 1}, r2.Vec{X: 0.5, Y: 0.2}, r2.Vec{X: 0.5, Y: 1}, false},
		{"oblique", r2.Vec{X: 0.1, Y: 0.3}, r2.Vec{X: 0.9, Y: -0.4}, r2.Vec{X: 0.2, Y: -0.5}, r2.Vec{X: 0.7, Y: 0.6}, true},
		{"touching endpoint", r2.Vec{}, r2.Vec{X: 1}, r2.Vec{X: 1}, r2.Vec{X: 1, Y: 1}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			variants := []bool{
				SegmentsCross(tc.a, tc.b, tc.c, tc.d),
				SegmentsCross(tc.b, tc.a, tc.c, tc.d),
				SegmentsCross(tc.a, tc.b, tc.d, tc.c),
				SegmentsCross(tc.b, tc.a, tc.d, tc.c),
				SegmentsCross(tc.c, tc.d, tc.a, tc.b),
			}
			for i, got := range variants {
				if got != tc.want {
					t.Errorf("variant %d = %v, want %v", i, got, tc.want)
				}
			}
		})
	}
}

func TestCrossingGate(t *testing.T) {
	test := CrossingTest{Gate: 0.01, Epsilon: 1e-6}
	tr := circle(t, r2.Vec{}, 1, components.FlagAttract)

	// Displacement crossing the circle from outside
	if _, _, ok := test.Cross(&tr, r2.Vec{X: 1.005}, r2.Vec{X: 0.995}); !ok {
		t.Error("expected crossing near the curve")
	}
	// Same direction but starting too far away
	if _, _, ok := test.Cross(&tr, r2.Vec{X: 1.5}, r2.Vec{X: 0.995}); ok {
		t.Error("expected the gate to reject a far pre-step point")
	}
	// Close but not crossing
	if _, _, ok := test.Cross(&tr, r2.Vec{X: 1.005}, r2.Vec{X: 1.008}); ok {
		t.Error("expected no crossing when moving away")
	}
}

func TestCrossingDegenerateChordIsNudged(t *testing.T) {
	test := CrossingTest{Gate: 0.01, Epsilon: 1e-6}
	tr := segment(t, r2.Vec{X: 0.5}, r2.Vec{Y: 1}, components.FlagReturn)

	// Both points project to the segment midpoint
	from, to, ok := test.Cross(&tr, r2.Vec{X: 0.499}, r2.Vec{X: 0.501})
	if !ok {
		t.Fatal("expected crossing through a degenerate chord")
	}
	if !(from < to) || to-from > 1e-5 {
		t.Errorf("expected a tiny nudged chord, got [%g, %g]", from, to)
	}
}

// tangentScene has a firefly riding a line that just clips an attracting unit circle.
func tangentScene(t *testing.T) ([]components.Track, components.Firefly) {
	tracks := []components.Track{
		circle(t, r2.Vec{}, 1, components.FlagAttract),
		segment(t, r2.Vec{Y: 0.999}, r2.Vec{X: 2}, 0),
	}
	f := components.Firefly{Index: 0, Track: 1, Phase: 1, Velocity: 1}
	return tracks, f
}

func TestAttractTransfer(t *testing.T) {
	tracks, f := tangentScene(t)
	motion := newTestMotion()

	for tick := int64(0); tick < 2000; tick++ {
		before := f
		ev := motion.Step(testContext(tick), &f, tracks)
		if ev.Outcome == OutcomeMoved {
			if f.Track != 1 {
				t.Fatalf("track changed without a transfer event")
			}
			continue
		}
		if ev.Outcome != OutcomeTransfer {
			t.Fatalf("unexpected outcome %v", ev.Outcome)
		}

		if f.Track != 0 {
			t.Fatalf("track = %d, want 0", f.Track)
		}
		// Phase is the projection of the post-step point on the new track
		p2 := tracks[1].At(tracks[1].Wrap(before.Phase + before.Velocity/testSteps))
		want, _ := tracks[0].Project(p2)
		if f.Phase != want {
			t.Errorf("phase = %g, want %g", f.Phase, want)
		}
		// Moving +x across the top of the circle runs clockwise
		if f.Velocity != -1 {
			t.Errorf("velocity = %g, want -1", f.Velocity)
		}

		// Same pre-crossing state gives the same result
		again := before
		ev2 := motion.Step(testContext(tick), &again, tracks)
		if again.Track != f.Track || again.Phase != f.Phase || again.Velocity != f.Velocity || ev2 != ev {
			t.Errorf("non-deterministic transfer: %+v vs %+v", again, f)
		}
		return
	}
	t.Fatal("firefly never transferred onto the circle")
}

func TestPhaseStaysWrappedAfterTransfer(t *testing.T) {
	tracks, f := tangentScene(t)
	fireflies := []components.Firefly{f}
	motion := newTestMotion()

	var events []MotionEvent
	for tick := int64(0); tick < 6000; tick++ {
		events = motion.Update(testContext(tick), fireflies, tracks, events)
		ff := fireflies[0]
		if ff.Phase < 0 || ff.Phase >= tracks[ff.Track].Length {
			t.Fatalf("tick %d: phase %g outside [0, %g)", tick, ff.Phase, tracks[ff.Track].Length)
		}
	}
	if fireflies[0].Track != 0 {
		t.Errorf("expected firefly on the circle, got track %d", fireflies[0].Track)
	}
	if len(events) != 1 || events[0].Outcome != OutcomeTransfer {
		t.Errorf("expected exactly one transfer, got %+v", events)
	}
}

func TestReturnBounce(t *testing.T) {
	tracks := []components.Track{
		segment(t, r2.Vec{}, r2.Vec{X: 2}, 0),
		segment(t, r2.Vec{X: 0.5}, r2.Vec{Y: 1}, components.FlagReturn),
	}
	f := components.Firefly{Track: 0, Phase: 2, Velocity: 1}
	motion := newTestMotion()

	for tick := int64(0); tick < 1000; tick++ {
		prev := f.Phase
		ev := motion.Step(testContext(tick), &f, tracks)
		if ev.Outcome == OutcomeMoved {
			continue
		}
		if ev.Outcome != OutcomeBounce {
			t.Fatalf("unexpected outcome %v", ev.Outcome)
		}
		if f.Phase != prev {
			t.Errorf("phase = %g, want pre-step %g", f.Phase, prev)
		}
		if f.Velocity != -1 {
			t.Errorf("velocity = %g, want -1", f.Velocity)
		}
		if f.Track != 0 {
			t.Errorf("bounce must not change track, got %d", f.Track)
		}

		// Moving away does not bounce again
		for i := 0; i < 100; i++ {
			if ev := motion.Step(testContext(tick), &f, tracks); ev.Outcome != OutcomeMoved {
				t.Fatalf("unexpected second %v", ev.Outcome)
			}
		}
		return
	}
	t.Fatal("firefly never bounced")
}

func TestAttractWinsOverReturn(t *testing.T) {
	tracks := []components.Track{
		segment(t, r2.Vec{}, r2.Vec{X: 2}, 0),
		segment(t, r2.Vec{X: 0.5}, r2.Vec{Y: 1}, components.FlagAttract|components.FlagReturn),
	}
	f := components.Firefly{Track: 0, Phase: 2.49, Velocity: 1}
	motion := newTestMotion()

	for tick := int64(0); tick < 100; tick++ {
		if ev := motion.Step(testContext(tick), &f, tracks); ev.Outcome != OutcomeMoved {
			if ev.Outcome != OutcomeTransfer || f.Track != 1 {
				t.Fatalf("expected transfer, got %v on track %d", ev.Outcome, f.Track)
			}
			return
		}
	}
	t.Fatal("no crossing")
}

func TestNonCollidableTracksIgnored(t *testing.T) {
	tracks := []components.Track{
		segment(t, r2.Vec{}, r2.Vec{X: 2}, 0),
		segment(t, r2.Vec{X: 0.5}, r2.Vec{Y: 1}, components.FlagFixed),
	}
	f := components.Firefly{Track: 0, Phase: 2, Velocity: 1}
	motion := newTestMotion()

	for tick := int64(0); tick < 1000; tick++ {
		if ev := motion.Step(testContext(tick), &f, tracks); ev.Outcome != OutcomeMoved {
			t.Fatalf("unexpected %v against a non-collidable track", ev.Outcome)
		}
	}
}

func TestStepWrapsOpenSegment(t *testing.T) {
	tracks := []components.Track{segment(t, r2.Vec{}, r2.Vec{X: 1}, 0)}
	f := components.Firefly{Track: 0, Phase: 0.001, Velocity: -4.8}
	newTestMotion().Step(testContext(0), &f, tracks)

	want := tracks[0].Length + 0.001 - 0.01
	if math.Abs(f.Phase-want) > 1e-12 {
		t.Errorf("phase = %g, want %g", f.Phase, want)
	}
}
