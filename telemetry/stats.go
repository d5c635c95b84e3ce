package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FrameStats holds aggregated statistics for a window of solver ticks.
type FrameStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	Particles  int `csv:"particles"`
	FluidCells int `csv:"fluid_cells"`
	Obstacles  int `csv:"obstacles"`

	// Sampled at window end, plus the peak seen during the window
	KineticEnergy     float64 `csv:"kinetic_energy"`
	KineticEnergyPeak float64 `csv:"kinetic_energy_peak"`
	MaxDivergence     float64 `csv:"max_divergence"`
	MaxDivergencePeak float64 `csv:"max_divergence_peak"`

	// Relative density over fluid cells
	RestDensity float64 `csv:"rest_density"`
	DensityMean float64 `csv:"density_mean"`
	DensityStd  float64 `csv:"density_std"`
	DensityP10  float64 `csv:"density_p10"`
	DensityP50  float64 `csv:"density_p50"`
	DensityP90  float64 `csv:"density_p90"`

	BVHNodes    int `csv:"bvh_nodes"`
	BVHLeaves   int `csv:"bvh_leaves"`
	BVHDepth    int `csv:"bvh_depth"`
	BVHRebuilds int `csv:"bvh_rebuilds"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDensityStats returns mean, sample standard deviation and the 10th,
// 50th and 90th percentiles. values is sorted in place.
func ComputeDensityStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}
	if len(values) == 1 {
		return values[0], 0, values[0], values[0], values[0]
	}

	mean, std = stat.MeanStdDev(values, nil)

	sort.Float64s(values)
	p10 = Percentile(values, 0.10)
	p50 = Percentile(values, 0.50)
	p90 = Percentile(values, 0.90)
	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("fluid_cells", s.FluidCells),
		slog.Int("obstacles", s.Obstacles),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("kinetic_energy_peak", s.KineticEnergyPeak),
		slog.Float64("max_divergence", s.MaxDivergence),
		slog.Float64("max_divergence_peak", s.MaxDivergencePeak),
		slog.Float64("rest_density", s.RestDensity),
		slog.Float64("density_mean", s.DensityMean),
		slog.Float64("density_std", s.DensityStd),
		slog.Float64("density_p10", s.DensityP10),
		slog.Float64("density_p50", s.DensityP50),
		slog.Float64("density_p90", s.DensityP90),
		slog.Int("bvh_nodes", s.BVHNodes),
		slog.Int("bvh_leaves", s.BVHLeaves),
		slog.Int("bvh_depth", s.BVHDepth),
		slog.Int("bvh_rebuilds", s.BVHRebuilds),
	)
}

// LogStats logs the window stats using slog.
func (s FrameStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"particles", s.Particles,
		"fluid_cells", s.FluidCells,
		"kinetic_energy", s.KineticEnergy,
		"max_divergence", s.MaxDivergence,
		"max_divergence_peak", s.MaxDivergencePeak,
		"rest_density", s.RestDensity,
		"density_mean", s.DensityMean,
		"density_p10", s.DensityP10,
		"density_p90", s.DensityP90,
		"bvh_leaves", s.BVHLeaves,
		"bvh_depth", s.BVHDepth,
	)
}
