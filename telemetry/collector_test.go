package telemetry

import (
	"testing"

	"github.com/pthm-cable/flip/bvh"
	"github.com/pthm-cable/flip/fluid"
)

func testTank(t *testing.T) *fluid.FlipFluid {
	t.Helper()
	f, err := fluid.NewTank(fluid.Tank{
		Width: 1, Height: 1, Resolution: 20, Density: 1000,
		RelWaterWidth: 0.5, RelWaterHeight: 0.5, ParticleRadiusScale: 0.3,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(0.05, 0.01)
	if c.WindowDurationTicks() != 5 {
		t.Fatalf("window = %d ticks, want 5", c.WindowDurationTicks())
	}
	if c.ShouldFlush(4) {
		t.Error("flushed before window end")
	}
	if !c.ShouldFlush(5) {
		t.Error("expected flush at window end")
	}
}

func TestCollectorFlush(t *testing.T) {
	f := testTank(t)
	c := NewCollector(1, f.Scene.DT)

	for tick := 0; tick < 5; tick++ {
		f.Simulate(f.Scene.DT)
		c.RecordStep(f.KineticEnergy(), f.MaxDivergence())
	}
	c.RecordStep(1e9, 0)
	c.RecordBVHRebuild()
	c.RecordBVHRebuild()

	stats := c.Flush(5, f, bvh.Stats{Nodes: 7, Leaves: 4, Depth: 2})

	if stats.Particles != f.NumParticles() {
		t.Errorf("particles = %d, want %d", stats.Particles, f.NumParticles())
	}
	if stats.FluidCells != f.FluidCellCount() || stats.FluidCells == 0 {
		t.Errorf("fluid cells = %d, want %d", stats.FluidCells, f.FluidCellCount())
	}
	if stats.KineticEnergyPeak != 1e9 {
		t.Errorf("peak KE = %v, want 1e9", stats.KineticEnergyPeak)
	}
	if stats.RestDensity <= 0 || stats.DensityMean <= 0 {
		t.Errorf("rest density %v, mean %v, want positive", stats.RestDensity, stats.DensityMean)
	}
	if stats.BVHRebuilds != 2 || stats.BVHLeaves != 4 {
		t.Errorf("bvh rebuilds %d leaves %d", stats.BVHRebuilds, stats.BVHLeaves)
	}
	if stats.WindowStartTick != 0 || stats.WindowEndTick != 5 {
		t.Errorf("window = [%d, %d], want [0, 5]", stats.WindowStartTick, stats.WindowEndTick)
	}

	next := c.Flush(10, f, bvh.Stats{})
	if next.WindowStartTick != 5 || next.BVHRebuilds != 0 {
		t.Errorf("window not reset: %+v", next)
	}
	if next.KineticEnergyPeak == 1e9 {
		t.Error("peak not reset")
	}
}
