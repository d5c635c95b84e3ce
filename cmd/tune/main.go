// Package main tunes the pressure solver: a parallel coarse scan over
// over-relaxation and pressure iterations, refined with Nelder-Mead, scoring
// residual divergence on headless dam breaks plus a cost per iteration.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/flip/config"
)

// evalRecord is one row of tune_log.csv.
type evalRecord struct {
	Eval             int     `csv:"eval"`
	Stage            string  `csv:"stage"`
	Cost             float64 `csv:"cost"`
	Residual         float64 `csv:"residual"`
	OverRelaxation   float64 `csv:"over_relaxation"`
	NumPressureIters int     `csv:"num_pressure_iters"`
}

// evalLog appends records to a CSV writer, with the header on the first write.
type evalLog struct {
	w             io.Writer
	headerWritten bool
}

func (l *evalLog) write(rec evalRecord) error {
	records := []evalRecord{rec}
	if !l.headerWritten {
		l.headerWritten = true
		return gocsv.Marshal(records, l.w)
	}
	return gocsv.MarshalWithoutHeaders(records, l.w)
}

func newRecord(eval int, stage string, cost, residual float64, raw []float64) evalRecord {
	return evalRecord{
		Eval:             eval,
		Stage:            stage,
		Cost:             cost,
		Residual:         residual,
		OverRelaxation:   raw[0],
		NumPressureIters: int(raw[1]),
	}
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
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 600, "Ticks per dam break")
	seeds := flag.Int("seeds", 2, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 60, "Maximum number of Nelder-Mead evaluations")
	scanSteps := flag.Int("scan-steps", 4, "Coarse grid samples per parameter (0 = start from config)")
	workers := flag.Int("workers", 0, "Concurrent scan evaluations (0 = GOMAXPROCS)")
	iterCost := flag.Float64("iter-cost", 1e-4, "Cost added per pressure iteration")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Per-run game logs drown the progress output.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	params := NewParamVector()
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, int32(*maxTicks), evalSeeds, baseCfg, *iterCost)

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()
	evals := &evalLog{w: logFile}

	evalCount := 0
	bestCost := math.Inf(1)
	var bestParams []float64
	record := func(stage string, cost, residual float64, raw []float64) {
		evalCount++
		clamped := params.Clamp(raw)
		if cost < bestCost {
			bestCost = cost
			bestParams = clamped
		}
		if err := evals.write(newRecord(evalCount, stage, cost, residual, clamped)); err != nil {
			log.Printf("failed to write log row: %v", err)
		}
	}
	startTime := time.Now()

	// Coarse scan picks the Nelder-Mead start.
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))
	if *scanSteps > 0 {
		points := gridPoints(params.Dim(), *scanSteps)
		fmt.Printf("Scanning %d grid points on %d seeds\n", len(points), *seeds)
		results := scan(evaluator, points, *workers)
		best := -1
		for i, r := range results {
			record("scan", r.Cost, r.Residual, params.Denormalize(r.X))
			if best < 0 || r.Cost < results[best].Cost {
				best = i
			}
		}
		if best >= 0 {
			initX = results[best].X
		}
		fmt.Printf("Scan done in %s, best cost %.6g\n", formatDuration(time.Since(startTime)), bestCost)
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			cost := evaluator.Evaluate(raw)
			residual := evaluator.LastResidual()
			record("nelder_mead", cost, residual, raw)

			clamped := params.Clamp(raw)
			fmt.Printf("Eval %d: omega=%.3f iters=%.0f residual=%.3g cost=%.6g (best=%.6g) | elapsed: %s\n",
				evalCount, clamped[0], clamped[1], residual, cost, bestCost,
				formatDuration(time.Since(startTime)))
			return cost
		},
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0,
	}
	method := &optimize.NelderMead{SimplexSize: 0.15}

	fmt.Printf("Starting Nelder-Mead with %d parameters, max_evals=%d, ticks per run=%d\n",
		params.Dim(), *maxEvals, *maxTicks)
	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluation completed")
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best cost: %.6g\n", bestCost)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.4f\n", spec.Path, bestParams[i])
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)
	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
