package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/fireflies/config"
	"github.com/pthm-cable/fireflies/game"
	"github.com/pthm-cable/fireflies/puzzle"
	"github.com/pthm-cable/fireflies/telemetry"
)

// FitnessEvaluator runs headless scenes and scores how quickly they clear.
type FitnessEvaluator struct {
	params   *ParamVector
	level    *puzzle.Definition
	cfg      *config.Config
	maxSteps int64

	// Best run tracking
	mu        sync.Mutex
	best      float64
	bestStats telemetry.RunStats
	lastStats telemetry.RunStats
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, level *puzzle.Definition, cfg *config.Config, maxSteps int64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:   params,
		level:    level,
		cfg:      cfg,
		maxSteps: maxSteps,
		best:     math.Inf(1),
	}
}

// Evaluate computes fitness for raw parameter values (lower = better).
// A cleared run scores the step it cleared on. An uncleared run scores
// maxSteps plus maxSteps per outstanding bellflower count, so partial
// progress still ranks.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	stats, remaining, err := fe.run(fe.params.Apply(fe.level, raw))
	fitness := float64(fe.maxSteps) * float64(1+remaining)
	switch {
	case err != nil:
		fitness = math.Inf(1)
	case stats.Cleared():
		fitness = float64(stats.ClearedAt)
	}

	fe.mu.Lock()
	defer fe.mu.Unlock()
	fe.lastStats = stats
	if fitness < fe.best {
		fe.best = fitness
		fe.bestStats = stats
	}
	return fitness
}

// run plays one run of def until it clears or maxSteps elapse, and returns
// the run statistics and how far the bellflower counts are from zero.
func (fe *FitnessEvaluator) run(def *puzzle.Definition) (telemetry.RunStats, int, error) {
	g, err := game.NewGame(fe.cfg, def, game.Options{})
	if err != nil {
		return telemetry.RunStats{}, 0, err
	}
	g.StartRun()
	for i := int64(0); i < fe.maxSteps && !g.Stats().Cleared(); i++ {
		g.Step()
	}
	var remaining int
	for _, b := range g.Bellflowers() {
		if b.Count < 0 {
			remaining -= b.Count
		} else {
			remaining += b.Count
		}
	}
	return g.Stats(), remaining, nil
}

// LastStats returns the statistics of the most recent evaluation.
func (fe *FitnessEvaluator) LastStats() telemetry.RunStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastStats
}

// Best returns the best fitness seen and its run statistics.
func (fe *FitnessEvaluator) Best() (float64, telemetry.RunStats) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.best, fe.bestStats
}
