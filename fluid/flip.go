// Package fluid implements a 2D FLIP/PIC water solver on a staggered MAC grid.
//
// Particles carry velocity; each step splats it onto the grid, projects the
// grid velocity to be divergence free with Gauss-Seidel over-relaxation, and
// blends the projected change back onto the particles. A spatial hash keeps
// particles from overlapping.
package fluid

import (
	"errors"
	"fmt"
)

// Phase names reported to a PhaseTimer during Simulate.
const (
	PhaseIntegrate = "integrate"
	PhaseSeparate  = "separate"
	PhaseCollide   = "collide"
	PhaseToGrid    = "to_grid"
	PhaseDensity   = "density"
	PhasePressure  = "pressure"
	PhaseFromGrid  = "from_grid"
	PhaseColors    = "colors"
)

// PhaseTimer receives phase boundaries from Simulate. Each call ends the
// previous phase.
type PhaseTimer interface {
	StartPhase(name string)
}

// Scene holds the per-step simulation parameters. It may be edited between
// Simulate calls.
type Scene struct {
	Gravity           float64
	DT                float64
	FlipRatio         float64
	NumPressureIters  int
	NumParticleIters  int
	NumSubSteps       int
	OverRelaxation    float64
	CompensateDrift   bool
	SeparateParticles bool

	Paused        bool
	ShowObstacle  bool
	ShowParticles bool
	ShowGrid      bool
}

// DefaultScene returns the dam-break defaults.
func DefaultScene() Scene {
	return Scene{
		Gravity:           -9.81,
		DT:                1.0 / 120.0,
		FlipRatio:         0.9,
		NumPressureIters:  50,
		NumParticleIters:  2,
		NumSubSteps:       1,
		OverRelaxation:    1.9,
		CompensateDrift:   true,
		SeparateParticles: true,
		Paused:            true,
		ShowObstacle:      true,
		ShowParticles:     true,
		ShowGrid:          false,
	}
}

// Params sizes a solver.
type Params struct {
	Density        float64 // fluid density, scales the diagnostic pressure
	Width, Height  float64 // tank extent in world units
	Spacing        float64 // requested grid cell size
	ParticleRadius float64
	MaxParticles   int
}

// FlipFluid owns the grid, the particles and the neighbour hash.
// It is not safe for concurrent use.
type FlipFluid struct {
	Scene   Scene
	Density float64

	Grid      *Grid
	Particles *Particles

	// CellDensity is the particle count splatted per cell at half-cell offset.
	CellDensity Field

	hash        *SpatialHash
	obstacles   []Obstacle
	restDensity float64
	hasRest     bool
	timer       PhaseTimer
	simTime     float64
	steps       int
}

// NewFlipFluid allocates a solver. The tank has solid left, right and bottom
// walls and an open top.
func NewFlipFluid(p Params) (*FlipFluid, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("tank size must be positive, got %gx%g", p.Width, p.Height)
	}
	if p.Spacing <= 0 {
		return nil, fmt.Errorf("grid spacing must be positive, got %g", p.Spacing)
	}
	if p.ParticleRadius <= 0 {
		return nil, fmt.Errorf("particle radius must be positive, got %g", p.ParticleRadius)
	}
	if p.MaxParticles < 0 {
		return nil, errors.New("max particles must not be negative")
	}

	g := newGrid(p.Width, p.Height, p.Spacing)
	if g.NumX < 3 || g.NumY < 3 {
		return nil, fmt.Errorf("grid %dx%d too small, need at least 3x3 cells", g.NumX, g.NumY)
	}

	return &FlipFluid{
		Scene:       DefaultScene(),
		Density:     p.Density,
		Grid:        g,
		Particles:   newParticles(p.MaxParticles, p.ParticleRadius),
		CellDensity: NewField(g.NumX, g.NumY),
		hash:        NewSpatialHash(p.Width, p.Height, 2.2*p.ParticleRadius, p.MaxParticles),
	}, nil
}

// SetPhaseTimer installs t to receive phase boundaries. Pass nil to disable.
func (f *FlipFluid) SetPhaseTimer(t PhaseTimer) {
	f.timer = t
}

func (f *FlipFluid) phase(name string) {
	if f.timer != nil {
		f.timer.StartPhase(name)
	}
}

// AddParticle places a particle at rest. Returns false when capacity is reached.
func (f *FlipFluid) AddParticle(x, y float64) bool {
	return f.Particles.Add(x, y)
}

// NumParticles returns the live particle count.
func (f *FlipFluid) NumParticles() int {
	return f.Particles.Num
}

// RestDensity returns the reference density and whether it has been computed.
func (f *FlipFluid) RestDensity() (float64, bool) {
	return f.restDensity, f.hasRest
}

// ResetRestDensity forgets the reference density; the next density update
// with fluid cells recomputes it.
func (f *FlipFluid) ResetRestDensity() {
	f.restDensity = 0
	f.hasRest = false
}

// SimTime returns the simulated time accumulated by Simulate.
func (f *FlipFluid) SimTime() float64 {
	return f.simTime
}

// Steps returns the number of Simulate calls.
func (f *FlipFluid) Steps() int {
	return f.steps
}

// Simulate advances the fluid by dt using the current Scene.
func (f *FlipFluid) Simulate(dt float64) {
	sc := f.Scene
	numSubSteps := max(sc.NumSubSteps, 1)
	sdt := dt / float64(numSubSteps)

	for step := 0; step < numSubSteps; step++ {
		f.phase(PhaseIntegrate)
		f.IntegrateParticles(sdt, sc.Gravity)

		if sc.SeparateParticles {
			f.phase(PhaseSeparate)
			f.PushParticlesApart(sc.NumParticleIters)
		}

		f.phase(PhaseCollide)
		f.HandleParticleCollisions()

		f.phase(PhaseToGrid)
		f.TransferVelocities(true, sc.FlipRatio)

		f.phase(PhaseDensity)
		f.UpdateParticleDensity()

		f.phase(PhasePressure)
		f.SolveIncompressibility(sc.NumPressureIters, sdt, sc.OverRelaxation, sc.CompensateDrift)

		f.phase(PhaseFromGrid)
		f.TransferVelocities(false, sc.FlipRatio)
	}

	f.phase(PhaseColors)
	f.UpdateParticleColors()
	f.UpdateCellColors()

	f.simTime += dt
	f.steps++
}

// IntegrateParticles applies gravity to the vertical velocity and advects
// positions with symplectic Euler.
func (f *FlipFluid) IntegrateParticles(dt, gravity float64) {
	ps := f.Particles
	for i := 0; i < ps.Num; i++ {
		ps.VelY[i] += dt * gravity
		ps.PosX[i] += ps.VelX[i] * dt
		ps.PosY[i] += ps.VelY[i] * dt
	}
}

// HandleParticleCollisions resolves obstacle contact and clamps particles to
// the tank interior, zeroing the velocity component normal to a wall.
func (f *FlipFluid) HandleParticleCollisions() {
	ps := f.Particles
	g := f.Grid
	r := ps.Radius

	minX := g.H + r
	maxX := float64(g.NumX-1)*g.H - r
	minY := g.H + r
	maxY := float64(g.NumY-1)*g.H - r

	for i := 0; i < ps.Num; i++ {
		x, y := ps.PosX[i], ps.PosY[i]

		for _, o := range f.obstacles {
			dx := x - o.X
			dy := y - o.Y
			minDist := o.Radius + r
			if dx*dx+dy*dy < minDist*minDist {
				ps.VelX[i] = o.VelX
				ps.VelY[i] = o.VelY
			}
		}

		if !(x >= minX) {
			x = minX
			ps.VelX[i] = 0
		}
		if x > maxX {
			x = maxX
			ps.VelX[i] = 0
		}
		if !(y >= minY) {
			y = minY
			ps.VelY[i] = 0
		}
		if y > maxY {
			y = maxY
			ps.VelY[i] = 0
		}
		ps.PosX[i] = x
		ps.PosY[i] = y
	}
}
