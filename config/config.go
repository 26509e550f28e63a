// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Board      BoardConfig      `yaml:"board"`
	Simulation SimulationConfig `yaml:"simulation"`
	Collision  CollisionConfig  `yaml:"collision"`
	Trail      TrailConfig      `yaml:"trail"`
	Picking    PickingConfig    `yaml:"picking"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// BoardConfig describes the visible board in world units.
type BoardConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Scale  float64 `yaml:"scale"` // pixels per world unit
}

// SimulationConfig holds the fixed-timestep parameters.
type SimulationConfig struct {
	StepsPerSecond int           `yaml:"steps_per_second"` // velocity is divided by this each step
	StepsPerFrame  StepsPerFrame `yaml:"steps_per_frame"`
}

// StepsPerFrame holds the sub-step counts for each host speed setting.
type StepsPerFrame struct {
	Slow   int `yaml:"slow"`
	Normal int `yaml:"normal"`
	Fast   int `yaml:"fast"`
}

// CollisionConfig holds the crossing test tolerances.
// These are tuned against the step rate; change them together.
type CollisionConfig struct {
	GateDistance float64 `yaml:"gate_distance"` // max pre-step distance to a track for a crossing to count
	PhaseEpsilon float64 `yaml:"phase_epsilon"` // chord degeneracy threshold and nudge
}

// TrailConfig holds trail ring buffer settings.
type TrailConfig struct {
	Length   int `yaml:"length"`   // slots per firefly
	Interval int `yaml:"interval"` // simulation steps between samples
}

// PickingConfig holds pointer hit-test radii in world units.
type PickingConfig struct {
	FireflyRadius float64 `yaml:"firefly_radius"`
	TrackDistance float64 `yaml:"track_distance"`
}

// TelemetryConfig holds trace output settings.
type TelemetryConfig struct {
	SampleInterval int `yaml:"sample_interval"` // ticks between trace samples
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	StepDT    float64 // seconds per simulation step
	TrailSpan float64 // seconds between trail samples
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate reports the first setting that would leave the simulation undefined.
func (c *Config) Validate() error {
	var errs []error
	if c.Simulation.StepsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("simulation.steps_per_second must be positive, got %d", c.Simulation.StepsPerSecond))
	}
	spf := c.Simulation.StepsPerFrame
	if spf.Slow <= 0 || spf.Normal <= 0 || spf.Fast <= 0 {
		errs = append(errs, fmt.Errorf("simulation.steps_per_frame must be positive, got %+v", spf))
	}
	if c.Collision.GateDistance <= 0 || c.Collision.PhaseEpsilon <= 0 {
		errs = append(errs, fmt.Errorf("collision tolerances must be positive, got %+v", c.Collision))
	}
	if c.Trail.Length <= 0 || c.Trail.Interval <= 0 {
		errs = append(errs, fmt.Errorf("trail length and interval must be positive, got %+v", c.Trail))
	}
	if c.Picking.FireflyRadius <= 0 || c.Picking.TrackDistance <= 0 {
		errs = append(errs, fmt.Errorf("picking radii must be positive, got %+v", c.Picking))
	}
	if c.Board.Scale <= 0 {
		errs = append(errs, fmt.Errorf("board.scale must be positive, got %g", c.Board.Scale))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	steps := float64(c.Simulation.StepsPerSecond)
	c.Derived.StepDT = 1 / steps
	c.Derived.TrailSpan = float64(c.Trail.Interval) / steps
	if c.Telemetry.SampleInterval <= 0 {
		c.Telemetry.SampleInterval = c.Trail.Interval
	}
}

// StepsFor converts a duration in seconds to a whole number of simulation steps.
func (c *Config) StepsFor(seconds float64) int {
	return int(seconds * float64(c.Simulation.StepsPerSecond))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
