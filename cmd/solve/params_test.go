package main

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/pthm-cable/fireflies/config"
	"github.com/pthm-cable/fireflies/puzzle"
)

func TestParamVectorRoundTrip(t *testing.T) {
	level, err := puzzle.Load("twin-orbits")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector(level)
	if pv.Dim() != 2*len(level.Fireflies) {
		t.Fatalf("Dim() = %d", pv.Dim())
	}

	def := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if !scalar.EqualWithinAbs(back[i], def[i], 1e-12) {
			t.Errorf("param %s: %g != %g", pv.Specs[i].Name, back[i], def[i])
		}
	}
}

func TestParamVectorClamp(t *testing.T) {
	level := &puzzle.Definition{Fireflies: []puzzle.FireflyDef{{Phase: 0.5, Velocity: 1}}}
	pv := NewParamVector(level)

	got := pv.Clamp([]float64{1.25, 20})
	if !scalar.EqualWithinAbs(got[0], 0.25, 1e-12) {
		t.Errorf("phase = %g, want wrap to 0.25", got[0])
	}
	if got[1] != MaxVelocity {
		t.Errorf("velocity = %g, want %g", got[1], MaxVelocity)
	}

	got = pv.Clamp([]float64{-0.25, -20})
	if !scalar.EqualWithinAbs(got[0], 0.75, 1e-12) || got[1] != -MaxVelocity {
		t.Errorf("Clamp negative = %v", got)
	}
}

func TestApplyLeavesLevelUntouched(t *testing.T) {
	level := &puzzle.Definition{Fireflies: []puzzle.FireflyDef{{Phase: 0.5, Velocity: 1}}}
	pv := NewParamVector(level)

	out := pv.Apply(level, []float64{0.1, -3})
	if out.Fireflies[0].Phase != 0.1 || out.Fireflies[0].Velocity != -3 {
		t.Errorf("applied firefly = %+v", out.Fireflies[0])
	}
	if level.Fireflies[0].Phase != 0.5 || level.Fireflies[0].Velocity != 1 {
		t.Errorf("source level modified: %+v", level.Fireflies[0])
	}
}

func TestEvaluateScoresClearedRun(t *testing.T) {
	level, err := puzzle.Load("first-light")
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	pv := NewParamVector(level)
	fe := NewFitnessEvaluator(pv, level, cfg, 10)

	// Ten steps cannot clear a count of three.
	got := fe.Evaluate(pv.DefaultVector())
	if got < 10 {
		t.Errorf("fitness = %g, want an uncleared score of at least maxSteps", got)
	}
	if best, _ := fe.Best(); best != got {
		t.Errorf("Best() = %g, want %g", best, got)
	}
}
