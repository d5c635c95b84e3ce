package fluid

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// KineticEnergy returns ½Σ|v|² over all particles, with unit particle mass.
func (f *FlipFluid) KineticEnergy() float64 {
	ps := f.Particles
	n := ps.Num
	if n == 0 {
		return 0
	}
	vx := ps.VelX[:n]
	vy := ps.VelY[:n]
	return 0.5 * (floats.Dot(vx, vx) + floats.Dot(vy, vy))
}

// Divergence returns the net outflow of the grid velocity from cell (i, j).
func (f *FlipFluid) Divergence(i, j int) float64 {
	g := f.Grid
	n := g.NumY
	c := i*n + j
	return g.U.Data[c+n] - g.U.Data[c] + g.V.Data[c+1] - g.V.Data[c]
}

// MaxDivergence returns the largest absolute divergence over interior fluid
// cells that have at least one open neighbour.
func (f *FlipFluid) MaxDivergence() float64 {
	g := f.Grid
	n := g.NumY
	s := g.S.Data
	divs := make([]float64, 0, 64)

	for i := 1; i < g.NumX-1; i++ {
		for j := 1; j < g.NumY-1; j++ {
			c := i*n + j
			if g.CellType[c] != FluidCell {
				continue
			}
			if s[c-n]+s[c+n]+s[c-1]+s[c+1] == 0.0 {
				continue
			}
			divs = append(divs, math.Abs(f.Divergence(i, j)))
		}
	}
	if len(divs) == 0 {
		return 0
	}
	return floats.Max(divs)
}

// FluidCellCount returns the number of cells classified fluid in the last
// transfer.
func (f *FlipFluid) FluidCellCount() int {
	count := 0
	for _, ct := range f.Grid.CellType {
		if ct == FluidCell {
			count++
		}
	}
	return count
}

// FluidDensities returns the relative density of every fluid cell. When the
// rest density is unknown the raw splatted density is returned.
func (f *FlipFluid) FluidDensities(dst []float64) []float64 {
	dst = dst[:0]
	scale := 1.0
	if f.hasRest && f.restDensity > 0.0 {
		scale = 1.0 / f.restDensity
	}
	for i, ct := range f.Grid.CellType {
		if ct == FluidCell {
			dst = append(dst, f.CellDensity.Data[i]*scale)
		}
	}
	return dst
}

// Snapshot is a copy of the solver state for readers outside the step loop.
type Snapshot struct {
	Step    int
	SimTime float64

	NumX, NumY     int
	H              float64
	ParticleRadius float64

	PosX, PosY []float64
	VelX, VelY []float64
	Color      []RGB

	CellType  []CellType
	CellColor []RGB
	Obstacles []Obstacle
}

// Snapshot returns a fresh copy of the current state.
func (f *FlipFluid) Snapshot() Snapshot {
	var s Snapshot
	f.SnapshotInto(&s)
	return s
}

// SnapshotInto copies the current state into dst, reusing its buffers.
func (f *FlipFluid) SnapshotInto(dst *Snapshot) {
	g := f.Grid
	ps := f.Particles
	n := ps.Num

	dst.Step = f.steps
	dst.SimTime = f.simTime
	dst.NumX = g.NumX
	dst.NumY = g.NumY
	dst.H = g.H
	dst.ParticleRadius = ps.Radius

	dst.PosX = append(dst.PosX[:0], ps.PosX[:n]...)
	dst.PosY = append(dst.PosY[:0], ps.PosY[:n]...)
	dst.VelX = append(dst.VelX[:0], ps.VelX[:n]...)
	dst.VelY = append(dst.VelY[:0], ps.VelY[:n]...)
	dst.Color = append(dst.Color[:0], ps.Color[:n]...)
	dst.CellType = append(dst.CellType[:0], g.CellType...)
	dst.CellColor = append(dst.CellColor[:0], g.CellColor...)
	dst.Obstacles = append(dst.Obstacles[:0], f.obstacles...)
}

// NumParticles returns the particle count of the snapshot.
func (s *Snapshot) NumParticles() int {
	return len(s.PosX)
}
