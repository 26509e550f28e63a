package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/fireflies/config"
)

// Output file names.
const (
	FirefliesFile   = "fireflies.csv"
	BellflowersFile = "bellflowers.csv"
	EventsFile      = "events.csv"
	RunsFile        = "runs.csv"
	ConfigFile      = "config.yaml"
)

// csvFile is an output CSV that writes its header once.
type csvFile struct {
	name          string
	f             *os.File
	headerWritten bool
}

func (c *csvFile) write(records any) error {
	if !c.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, c.f); err != nil {
			return fmt.Errorf("writing %s: %w", c.name, err)
		}
		c.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, c.f); err != nil {
		return fmt.Errorf("writing %s: %w", c.name, err)
	}
	return nil
}

// OutputManager handles trace output with CSV logging.
type OutputManager struct {
	dir         string
	fireflies   *csvFile
	bellflowers *csvFile
	events      *csvFile
	runs        *csvFile
}

// NewOutputManager creates the output directory and its files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	for _, slot := range []struct {
		dst  **csvFile
		name string
	}{
		{&om.fireflies, FirefliesFile},
		{&om.bellflowers, BellflowersFile},
		{&om.events, EventsFile},
		{&om.runs, RunsFile},
	} {
		f, err := os.Create(filepath.Join(dir, slot.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", slot.name, err)
		}
		*slot.dst = &csvFile{name: slot.name, f: f}
	}
	return om, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteFireflies appends firefly samples to fireflies.csv.
func (om *OutputManager) WriteFireflies(samples []FireflySample) error {
	if om == nil || len(samples) == 0 {
		return nil
	}
	return om.fireflies.write(samples)
}

// WriteBellflowers appends bellflower samples to bellflowers.csv.
func (om *OutputManager) WriteBellflowers(samples []BellflowerSample) error {
	if om == nil || len(samples) == 0 {
		return nil
	}
	return om.bellflowers.write(samples)
}

// WriteEvents appends transfer and bounce records to events.csv.
func (om *OutputManager) WriteEvents(records []EventRecord) error {
	if om == nil || len(records) == 0 {
		return nil
	}
	return om.events.write(records)
}

// WriteRun appends a run summary to runs.csv.
func (om *OutputManager) WriteRun(stats RunStats) error {
	if om == nil {
		return nil
	}
	return om.runs.write([]RunStats{stats})
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, c := range []*csvFile{om.fireflies, om.bellflowers, om.events, om.runs} {
		if c == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
