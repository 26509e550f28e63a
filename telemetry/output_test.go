package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/fireflies/components"
	"github.com/pthm-cable/fireflies/config"
	"github.com/pthm-cable/fireflies/systems"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("got %v, %v; want nil output", om, err)
	}
	// Nil manager accepts writes
	if err := om.WriteRun(RunStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	seg, err := components.NewSegment(r2.Vec{}, r2.Vec{X: 2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	tracks := []components.Track{seg}
	fireflies := []components.Firefly{{Index: 0, Track: 0, Phase: 3, Velocity: 1}}

	for step := int64(0); step < 3; step++ {
		if err := om.WriteFireflies(SampleFireflies(nil, 1, step, fireflies, tracks)); err != nil {
			t.Fatal(err)
		}
	}
	views := []systems.BellflowerView{{Count: 2}, {Count: 1, Delayed: true, Charge: 0.5}}
	if err := om.WriteBellflowers(SampleBellflowers(nil, 1, 0, views)); err != nil {
		t.Fatal(err)
	}
	events := []systems.MotionEvent{{Firefly: 0, Outcome: systems.OutcomeBounce, FromTrack: 0, ToTrack: 1}}
	if err := om.WriteEvents(EventRecords(nil, 1, 7, events)); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteRun(NewRunStats(1, "echo", 0)); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	lines := readLines(t, filepath.Join(dir, FirefliesFile))
	if len(lines) != 4 {
		t.Fatalf("fireflies.csv has %d lines, want header + 3", len(lines))
	}
	if lines[0] != "run,step,firefly,track,phase,velocity,x,y" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "1,0,0,0,3,1,1,0" {
		t.Errorf("first row = %q", lines[1])
	}

	if lines := readLines(t, filepath.Join(dir, BellflowersFile)); len(lines) != 3 {
		t.Errorf("bellflowers.csv has %d lines, want 3", len(lines))
	}
	lines = readLines(t, filepath.Join(dir, EventsFile))
	if len(lines) != 2 || !strings.Contains(lines[1], "bounce") {
		t.Errorf("events.csv = %q", lines)
	}
	if lines := readLines(t, filepath.Join(dir, RunsFile)); len(lines) != 2 {
		t.Errorf("runs.csv has %d lines, want 2", len(lines))
	}

	if _, err := config.Load(filepath.Join(dir, ConfigFile)); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
}
