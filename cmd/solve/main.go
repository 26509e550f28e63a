// Package main searches firefly start phases and velocities that clear a
// level in as few steps as possible, using CMA-ES.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/fireflies/config"
	"github.com/pthm-cable/fireflies/puzzle"
)

// evalRecord is one row of solve_log.csv.
type evalRecord struct {
	Eval      int     `csv:"eval"`
	Fitness   float64 `csv:"fitness"`
	ClearedAt int64   `csv:"cleared_at"`
	Transfers int     `csv:"transfers"`
	Bounces   int     `csv:"bounces"`
	Params    string  `csv:"params"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	levelName := flag.String("level", "first-light", "Embedded level to solve")
	levelFile := flag.String("level-file", "", "Path to a level YAML file (overrides -level)")
	maxSeconds := flag.Float64("max-seconds", 30, "Simulated seconds per evaluation (cap)")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Each evaluation builds a scene; keep its info logs out of the progress output.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	var level *puzzle.Definition
	var err error
	if *levelFile != "" {
		level, err = puzzle.LoadFile(*levelFile)
	} else {
		level, err = puzzle.Load(*levelName)
	}
	if err != nil {
		log.Fatalf("failed to load level: %v", err)
	}

	params := NewParamVector(level)
	dim := params.Dim()
	if dim == 0 {
		log.Fatalf("level %s has no fireflies to tune", level.Name)
	}
	maxSteps := int64(cfg.StepsFor(*maxSeconds))
	evaluator := NewFitnessEvaluator(params, level, cfg, maxSteps)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return evaluator.Evaluate(params.Denormalize(x))
		},
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(*outputDir, "solve_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	var bestParams []float64
	bestFitness, _ := evaluator.Best()
	startTime := time.Now()

	// Wrap the function to log evaluations
	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		clamped := params.Clamp(params.Denormalize(x))
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = clamped
		}

		stats := evaluator.LastStats()
		rec := []evalRecord{{
			Eval:      evalCount,
			Fitness:   fitness,
			ClearedAt: stats.ClearedAt,
			Transfers: stats.Transfers,
			Bounces:   stats.Bounces,
			Params:    fmt.Sprint(clamped),
		}}
		if evalCount == 1 {
			err = gocsv.Marshal(rec, logFile)
		} else {
			err = gocsv.MarshalWithoutHeaders(rec, logFile)
		}
		if err != nil {
			log.Printf("failed to log evaluation: %v", err)
		}

		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval
		fmt.Printf("Eval %d/%d: cleared_at=%d (best=%.0f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, stats.ClearedAt, bestFitness,
			formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	fmt.Printf("Starting CMA-ES search over %d parameters of %q, population=%d, max_evals=%d\n",
		dim, level.Title, popSize, *maxEvals)
	fmt.Printf("Steps per run: %d\n", maxSteps)

	x0 := params.Normalize(params.DefaultVector())
	result, err := optimize.Minimize(problem, x0, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluation completed")
	}

	totalTime := time.Since(startTime)
	_, bestStats := evaluator.Best()
	fmt.Printf("\nSearch complete after %d evaluations in %s\n", evalCount, formatDuration(totalTime))
	if bestStats.Cleared() {
		fmt.Printf("Best run clears at step %d (%.2fs)\n", bestStats.ClearedAt, float64(bestStats.ClearedAt)*cfg.Derived.StepDT)
	} else {
		fmt.Printf("No run cleared the level; best fitness %.0f\n", bestFitness)
	}

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, bestParams[i])
	}

	solved := params.Apply(level, bestParams)
	data, err := yaml.Marshal(solved)
	if err != nil {
		log.Fatalf("failed to marshal level: %v", err)
	}
	levelOutPath := filepath.Join(*outputDir, level.Name+".solved.yaml")
	if err := os.WriteFile(levelOutPath, data, 0644); err != nil {
		log.Printf("failed to write level: %v", err)
	} else {
		fmt.Printf("\nSolved level saved to: %s\n", levelOutPath)
	}
}
