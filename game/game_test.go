package game

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/fireflies/config"
	"github.com/pthm-cable/fireflies/puzzle"
	"github.com/pthm-cable/fireflies/systems"
	"github.com/pthm-cable/fireflies/telemetry"
)

const orbitLevel = `
title: Orbit
tracks:
  - circle: {origin: [0, 0], radius: 1}
fireflies:
  - {track: 0, phase: 0, velocity: 2}
bellflowers:
  - {origin: [1, 0], radius: 0.3, count: 5}
  - {origin: [-1, 0], radius: 0.3, count: 2, delay: 0.01}
`

const tangentLevel = `
tracks:
  - circle: {origin: [0, 0], radius: 1}
    flags: [attract]
  - segment: {origin: [0, 0.999], ext: [2, 0]}
fireflies:
  - {track: 1, phase: 0.25, velocity: 1}
`

const chimeLevel = `
tracks:
  - circle: {origin: [0, 0], radius: 1}
fireflies:
  - {track: 0, phase: 0, velocity: 2}
bellflowers:
  - {origin: [1, 0], radius: 0.3, count: 1}
`

func newTestGame(t *testing.T, src string, opts Options) *Game {
	t.Helper()
	def, err := puzzle.Parse("test", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	g, err := NewGame(config.Default(), def, opts)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

func loadGame(t *testing.T, name string) *Game {
	t.Helper()
	def, err := puzzle.Load(name)
	if err != nil {
		t.Fatal(err)
	}
	g, err := NewGame(config.Default(), def, Options{})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func runSteps(g *Game, n int) {
	for i := 0; i < n; i++ {
		g.Step()
	}
}

func TestSnapshotRestore(t *testing.T) {
	g := newTestGame(t, orbitLevel, Options{})

	type state struct {
		track           int
		phase, velocity float64
	}
	capture := func() []state {
		var out []state
		for _, f := range g.Fireflies() {
			out = append(out, state{f.Track, f.Phase, f.Velocity})
		}
		return out
	}
	beforeFF := capture()
	beforeBells := g.Bellflowers()

	g.StartRun()
	runSteps(g, 3000)

	after := g.Bellflowers()
	if after[0].Count == beforeBells[0].Count || after[1].Count == beforeBells[1].Count {
		t.Fatalf("bellflowers did not count: %+v", after)
	}
	if g.Fireflies()[0].Phase == beforeFF[0].phase {
		t.Fatal("firefly did not move")
	}

	g.StopRun()
	if g.Running() {
		t.Fatal("still running")
	}
	gotFF := capture()
	for i := range beforeFF {
		if gotFF[i] != beforeFF[i] {
			t.Errorf("firefly %d = %+v, want %+v", i, gotFF[i], beforeFF[i])
		}
	}
	gotBells := g.Bellflowers()
	for i := range beforeBells {
		if gotBells[i] != beforeBells[i] {
			t.Errorf("bellflower %d = %+v, want %+v", i, gotBells[i], beforeBells[i])
		}
	}
	if g.TrailPointer() != 0 {
		t.Errorf("trail pointer = %d after stop", g.TrailPointer())
	}
}

func TestRestoreIsolatedFromRun(t *testing.T) {
	g := newTestGame(t, orbitLevel, Options{})
	g.StartRun()
	runSteps(g, 10)
	g.StopRun()
	first := g.Fireflies()[0]

	// A second run must start from the same checkpointed state
	g.StartRun()
	runSteps(g, 500)
	g.StopRun()
	if got := g.Fireflies()[0]; got.Phase != first.Phase || got.Velocity != first.Velocity || got.Track != first.Track {
		t.Errorf("second restore = %+v, want %+v", got, first)
	}
}

func TestTangentScenario(t *testing.T) {
	g := newTestGame(t, tangentLevel, Options{})
	g.StartRun()
	runSteps(g, 2000)

	f := g.Fireflies()[0]
	if f.Track != 0 {
		t.Fatalf("firefly on track %d, want the circle", f.Track)
	}
	if f.Phase < 0 || f.Phase >= g.Tracks()[0].Length {
		t.Errorf("phase %g outside the circle's range", f.Phase)
	}
	if s := g.Stats(); s.Transfers != 1 || s.Bounces != 0 || s.Steps != 2000 {
		t.Errorf("stats = %+v", s)
	}
}

func TestDeterministicRuns(t *testing.T) {
	a := loadGame(t, "twin-orbits")
	b := loadGame(t, "twin-orbits")
	a.StartRun()
	b.StartRun()
	runSteps(a, 5000)
	runSteps(b, 5000)

	for i := range a.Fireflies() {
		fa, fb := a.Fireflies()[i], b.Fireflies()[i]
		if fa.Track != fb.Track || fa.Phase != fb.Phase || fa.Velocity != fb.Velocity {
			t.Errorf("firefly %d diverged: %+v vs %+v", i, fa, fb)
		}
	}
	if a.Stats() != b.Stats() {
		t.Errorf("stats diverged: %+v vs %+v", a.Stats(), b.Stats())
	}
}

func TestRunKeyRisingEdge(t *testing.T) {
	g := newTestGame(t, orbitLevel, Options{})
	spf := config.Default().Simulation.StepsPerFrame

	g.Update(Controls{RunKey: true})
	if !g.Running() {
		t.Fatal("press should start the run")
	}
	if got := g.Stats().Steps; got != int64(spf.Normal) {
		t.Errorf("steps = %d, want %d", got, spf.Normal)
	}

	g.Update(Controls{RunKey: true, Speed: SpeedFast})
	if !g.Running() {
		t.Fatal("holding the key must not toggle")
	}
	if got := g.Stats().Steps; got != int64(spf.Normal+spf.Fast) {
		t.Errorf("steps = %d, want %d", got, spf.Normal+spf.Fast)
	}

	g.Update(Controls{Speed: SpeedSlow})
	g.Update(Controls{RunKey: true})
	if g.Running() {
		t.Fatal("second press should stop the run")
	}
	if g.Tick() != 4 {
		t.Errorf("tick = %d, want 4", g.Tick())
	}
}

func TestToggleIgnoredWhileDraggingTrack(t *testing.T) {
	g := loadGame(t, "first-light")

	g.PointerDown(r2.Vec{X: 3, Y: 2.2})
	if sel := g.Selection(); sel.Kind != systems.PickTrack || sel.Index != 0 {
		t.Fatalf("selection = %+v, want track 0", sel)
	}
	g.Update(Controls{RunKey: true})
	if g.Running() {
		t.Fatal("run toggled while dragging a track")
	}

	g.PointerUp(r2.Vec{})
	g.Update(Controls{})
	g.Update(Controls{RunKey: true})
	if !g.Running() {
		t.Fatal("run did not start after the drag ended")
	}
}

func TestPointerIgnoredWhileRunning(t *testing.T) {
	g := loadGame(t, "first-light")
	g.StartRun()
	g.PointerDown(r2.Vec{X: 3, Y: 2.2})
	if g.Selection().Kind != systems.PickNone {
		t.Error("pointer down picked while running")
	}
}

func TestDragTrack(t *testing.T) {
	g := loadGame(t, "first-light")

	g.PointerDown(r2.Vec{X: 3, Y: 2.2})
	if !g.Tracks()[0].Selected {
		t.Error("track not marked selected")
	}
	g.PointerMove(r2.Vec{X: 4, Y: 3.2})

	o := g.Tracks()[0].Origin
	if !scalar.EqualWithinAbs(o.X, 4, 1e-12) || !scalar.EqualWithinAbs(o.Y, 1, 1e-12) {
		t.Errorf("origin = %v, want (4, 1)", o)
	}

	g.PointerUp(r2.Vec{X: 4, Y: 3.2})
	if g.Tracks()[0].Selected || g.Selection().Kind != systems.PickNone {
		t.Error("selection not cleared on pointer up")
	}
	g.PointerMove(r2.Vec{X: 9, Y: 9})
	if g.Tracks()[0].Origin != o {
		t.Error("moved without a selection")
	}
}

func TestDragFireflyPropagatesLinks(t *testing.T) {
	g := loadGame(t, "twin-orbits")

	g.PointerDown(r2.Vec{X: -2, Y: 0})
	if sel := g.Selection(); sel.Kind != systems.PickFirefly || sel.Index != 0 {
		t.Fatalf("selection = %+v, want firefly 0", sel)
	}
	if !g.Fireflies()[0].Selected {
		t.Error("firefly not marked selected")
	}

	g.PointerMove(r2.Vec{X: -4, Y: 2.5})

	ff := g.Fireflies()
	if !scalar.EqualWithinAbs(ff[0].Phase, math.Pi, 1e-9) {
		t.Errorf("dragged phase = %g, want pi", ff[0].Phase)
	}
	// Follower keeps its load-time offset of half its own circle
	if !scalar.EqualWithinAbs(ff[1].Phase, 3*math.Pi, 1e-9) {
		t.Errorf("follower phase = %g, want 3pi", ff[1].Phase)
	}
	// Trails were rebuilt for the new positions
	if got, want := ff[0].Trail.At(0, g.TrailPointer()), ff[0].Position(g.Tracks()); r2.Norm(r2.Sub(got, want)) > 1e-9 {
		t.Errorf("trail head = %v, want %v", got, want)
	}

	g.PointerUp(r2.Vec{})
	if g.Fireflies()[0].Selected {
		t.Error("firefly still selected")
	}
}

func TestNewGameRejectsBadLevel(t *testing.T) {
	def := &puzzle.Definition{
		Name:      "bad",
		Tracks:    []puzzle.TrackDef{{Segment: &puzzle.SegmentDef{Ext: puzzle.Point{1, 0}}}},
		Fireflies: []puzzle.FireflyDef{{Track: 0, Velocity: 1}},
		Links:     [][]int{{0, 5}},
	}
	if _, err := NewGame(config.Default(), def, Options{}); !errors.Is(err, puzzle.ErrInvalidIndex) {
		t.Errorf("got %v, want ErrInvalidIndex", err)
	}
}

func TestTraceOutput(t *testing.T) {
	dir := t.TempDir()
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	g := newTestGame(t, tangentLevel, Options{Output: om, LogEvents: true})

	g.StartRun()
	runSteps(g, 1000)
	g.StopRun()
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	count := func(name string) int {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		return len(strings.Split(strings.TrimSpace(string(data)), "\n"))
	}
	// Header plus one sample every eighth step
	if got := count(telemetry.FirefliesFile); got != 1+125 {
		t.Errorf("fireflies.csv lines = %d, want 126", got)
	}
	if got := count(telemetry.EventsFile); got != 2 {
		t.Errorf("events.csv lines = %d, want 2", got)
	}
	if got := count(telemetry.RunsFile); got != 2 {
		t.Errorf("runs.csv lines = %d, want 2", got)
	}
}

func TestClearedLogMatchesRunStats(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	g := newTestGame(t, chimeLevel, Options{})
	g.StartRun()
	runSteps(g, 3)

	stats := g.Stats()
	if stats.ClearedAt != 1 {
		t.Fatalf("ClearedAt = %d, want 1 (the firefly starts inside the sensor)", stats.ClearedAt)
	}

	var logged []int64
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var rec struct {
			Msg  string `json:"msg"`
			Step int64  `json:"step"`
		}
		if err := json.Unmarshal(line, &rec); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		if rec.Msg == "level cleared" {
			logged = append(logged, rec.Step)
		}
	}
	if len(logged) != 1 {
		t.Fatalf("level cleared logged %d times, want 1", len(logged))
	}
	if logged[0] != stats.ClearedAt {
		t.Errorf("logged step %d, runs.csv cleared_at %d", logged[0], stats.ClearedAt)
	}
}
