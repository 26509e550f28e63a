package main

import (
	"fmt"
	"math"

	"github.com/pthm-cable/fireflies/puzzle"
)

// MaxVelocity bounds searched velocities in board units per second.
const MaxVelocity = 8.0

// ParamSpec defines a single searchable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Firefly int     // Index into the level's fireflies
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Authored value
	phase   bool
}

// ParamVector holds the start phase and velocity of every firefly.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the parameter set for def: two per firefly.
func NewParamVector(def *puzzle.Definition) *ParamVector {
	pv := &ParamVector{}
	for i, f := range def.Fireflies {
		pv.Specs = append(pv.Specs,
			ParamSpec{Name: fmt.Sprintf("firefly%d_phase", i), Firefly: i, Min: 0, Max: 1, Default: f.Phase, phase: true},
			ParamSpec{Name: fmt.Sprintf("firefly%d_velocity", i), Firefly: i, Min: -MaxVelocity, Max: MaxVelocity, Default: f.Velocity},
		)
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the authored values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to the [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp maps raw values into bounds. Phases wrap around the track instead of
// saturating.
func (pv *ParamVector) Clamp(raw []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		if spec.phase {
			clamped[i] = raw[i] - math.Floor(raw[i])
			continue
		}
		clamped[i] = math.Max(spec.Min, math.Min(spec.Max, raw[i]))
	}
	return clamped
}

// Apply returns a copy of def with the clamped values of raw.
func (pv *ParamVector) Apply(def *puzzle.Definition, raw []float64) *puzzle.Definition {
	out := *def
	out.Fireflies = append([]puzzle.FireflyDef(nil), def.Fireflies...)
	for i, v := range pv.Clamp(raw) {
		spec := pv.Specs[i]
		if spec.phase {
			out.Fireflies[spec.Firefly].Phase = v
		} else {
			out.Fireflies[spec.Firefly].Velocity = v
		}
	}
	return &out
}
