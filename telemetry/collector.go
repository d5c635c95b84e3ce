package telemetry

import (
	"math"

	"github.com/pthm-cable/flip/bvh"
	"github.com/pthm-cable/flip/fluid"
)

// Collector accumulates per-tick solver measurements within time windows and
// produces FrameStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	windowStartTick int32

	// Peaks for the current window
	peakKE      float64
	peakDiv     float64
	bvhRebuilds int

	densities []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordStep folds one tick's energy and divergence into the window peaks.
func (c *Collector) RecordStep(kineticEnergy, maxDivergence float64) {
	c.peakKE = math.Max(c.peakKE, kineticEnergy)
	c.peakDiv = math.Max(c.peakDiv, maxDivergence)
}

// RecordBVHRebuild counts a hierarchy rebuild.
func (c *Collector) RecordBVHRebuild() {
	c.bvhRebuilds++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush samples the solver, produces a FrameStats and resets the window.
func (c *Collector) Flush(currentTick int32, f *fluid.FlipFluid, tree bvh.Stats) FrameStats {
	ke := f.KineticEnergy()
	div := f.MaxDivergence()
	rest, _ := f.RestDensity()

	c.densities = f.FluidDensities(c.densities)
	fluidCells := len(c.densities)
	mean, std, p10, p50, p90 := ComputeDensityStats(c.densities)

	stats := FrameStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      f.SimTime(),

		Particles:  f.NumParticles(),
		FluidCells: fluidCells,
		Obstacles:  len(f.Obstacles()),

		KineticEnergy:     ke,
		KineticEnergyPeak: math.Max(c.peakKE, ke),
		MaxDivergence:     div,
		MaxDivergencePeak: math.Max(c.peakDiv, div),

		RestDensity: rest,
		DensityMean: mean,
		DensityStd:  std,
		DensityP10:  p10,
		DensityP50:  p50,
		DensityP90:  p90,

		BVHNodes:    tree.Nodes,
		BVHLeaves:   tree.Leaves,
		BVHDepth:    tree.Depth,
		BVHRebuilds: c.bvhRebuilds,
	}

	c.windowStartTick = currentTick
	c.peakKE = 0
	c.peakDiv = 0
	c.bvhRebuilds = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
