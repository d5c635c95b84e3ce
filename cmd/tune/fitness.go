package main

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flip/config"
	"github.com/pthm-cable/flip/game"
	"github.com/pthm-cable/flip/telemetry"
)

// failedCost is returned for runs that blow up.
const failedCost = 1e6

// FitnessEvaluator runs headless dam breaks and scores solver settings.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64
	iterCost    float64 // cost added per pressure iteration

	mu           sync.Mutex
	lastResidual float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config, iterCost float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 0.25,
		iterCost:    iterCost,
	}
}

// LastResidual returns the mean divergence from the most recent evaluation.
func (fe *FitnessEvaluator) LastResidual() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastResidual
}

// runResult holds the results from a single dam break.
type runResult struct {
	residual float64
	failed   bool
}

// Evaluate scores a parameter vector (lower = better): the mean residual
// divergence over all seeds plus iterCost per pressure iteration.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cost, residual := fe.evaluate(x)
	fe.mu.Lock()
	fe.lastResidual = residual
	fe.mu.Unlock()
	return cost
}

// evaluate is Evaluate without touching shared state, for concurrent scans.
func (fe *FitnessEvaluator) evaluate(x []float64) (cost, residual float64) {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, r := range results {
		if r.failed {
			return failedCost, math.Inf(1)
		}
		total += r.residual
	}
	residual = total / float64(len(results))

	clamped := fe.params.Clamp(x)
	return residual + fe.iterCost*clamped[1], residual
}

// runSimulation executes one headless dam break and averages the
// end-of-window divergence.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	var windows []telemetry.FrameStats
	g, err := game.NewGameWithOptions(game.Options{
		Config:         cfg,
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		StatsCallback: func(stats telemetry.FrameStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		fmt.Printf("seed %d: %v\n", seed, err)
		return runResult{failed: true}
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}
	return residualOf(windows)
}

// residualOf averages MaxDivergence over the windows. Non-finite energy marks
// the run as failed.
func residualOf(windows []telemetry.FrameStats) runResult {
	if len(windows) == 0 {
		return runResult{failed: true}
	}
	divs := make([]float64, len(windows))
	for i, w := range windows {
		if math.IsNaN(w.KineticEnergy) || math.IsInf(w.KineticEnergy, 0) || math.IsNaN(w.MaxDivergence) {
			return runResult{failed: true}
		}
		divs[i] = w.MaxDivergence
	}
	return runResult{residual: stat.Mean(divs, nil)}
}

// copyConfig returns a deep copy of the base config with streaming off, since
// concurrent runs cannot share a listen address.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Obstacles = append([]config.ObstacleConfig(nil), fe.baseConfig.Obstacles...)
	cfg.Stream.Addr = ""
	return &cfg
}
