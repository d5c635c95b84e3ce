package fluid

import (
	"math"
	"math/rand"
	"testing"
)

func newTestFluid(t *testing.T, maxParticles int, radius float64) *FlipFluid {
	t.Helper()
	f, err := NewFlipFluid(Params{
		Density:        1000,
		Width:          1,
		Height:         1,
		Spacing:        0.1,
		ParticleRadius: radius,
		MaxParticles:   maxParticles,
	})
	if err != nil {
		t.Fatalf("NewFlipFluid: %v", err)
	}
	return f
}

func smallTank() Tank {
	return Tank{
		Width:               1,
		Height:              1,
		Resolution:          20,
		Density:             1000,
		RelWaterWidth:       0.5,
		RelWaterHeight:      0.5,
		ParticleRadiusScale: 0.3,
	}
}

func TestNewFlipFluidValidation(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"zero width", Params{Width: 0, Height: 1, Spacing: 0.1, ParticleRadius: 0.01}},
		{"negative height", Params{Width: 1, Height: -1, Spacing: 0.1, ParticleRadius: 0.01}},
		{"zero spacing", Params{Width: 1, Height: 1, Spacing: 0, ParticleRadius: 0.01}},
		{"zero radius", Params{Width: 1, Height: 1, Spacing: 0.1, ParticleRadius: 0}},
		{"negative capacity", Params{Width: 1, Height: 1, Spacing: 0.1, ParticleRadius: 0.01, MaxParticles: -1}},
		{"grid too coarse", Params{Width: 1, Height: 1, Spacing: 0.6, ParticleRadius: 0.01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFlipFluid(tt.p); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGridWalls(t *testing.T) {
	f := newTestFluid(t, 0, 0.01)
	g := f.Grid

	if g.NumX != 11 || g.NumY != 11 {
		t.Fatalf("grid = %dx%d, want 11x11", g.NumX, g.NumY)
	}
	for i := 0; i < g.NumX; i++ {
		for j := 0; j < g.NumY; j++ {
			wall := i == 0 || i == g.NumX-1 || j == 0
			want := 1.0
			if wall {
				want = 0.0
			}
			if got := g.S.At(i, j); got != want {
				t.Errorf("S(%d,%d) = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestAddParticleCapacity(t *testing.T) {
	f := newTestFluid(t, 2, 0.01)
	if !f.AddParticle(0.5, 0.5) || !f.AddParticle(0.6, 0.5) {
		t.Fatal("expected first two particles to fit")
	}
	if f.AddParticle(0.7, 0.5) {
		t.Error("expected capacity to be enforced")
	}
	if f.NumParticles() != 2 {
		t.Errorf("particles = %d, want 2", f.NumParticles())
	}
}

func TestPushApartTwoParticles(t *testing.T) {
	f, err := NewFlipFluid(Params{Density: 1000, Width: 2, Height: 2, Spacing: 0.1, ParticleRadius: 0.1, MaxParticles: 2})
	if err != nil {
		t.Fatal(err)
	}
	f.AddParticle(1.0, 1.0)
	f.AddParticle(1.19, 1.0)

	f.PushParticlesApart(1)

	ps := f.Particles
	if math.Abs(ps.PosX[0]-0.995) > 1e-9 {
		t.Errorf("particle 0 x = %v, want 0.995", ps.PosX[0])
	}
	if math.Abs(ps.PosX[1]-1.195) > 1e-9 {
		t.Errorf("particle 1 x = %v, want 1.195", ps.PosX[1])
	}
	if ps.PosY[0] != 1.0 || ps.PosY[1] != 1.0 {
		t.Errorf("y moved: %v, %v", ps.PosY[0], ps.PosY[1])
	}
}

func TestPushApartSkipsCoincidentAndDistant(t *testing.T) {
	f := newTestFluid(t, 3, 0.02)
	f.AddParticle(0.5, 0.5)
	f.AddParticle(0.5, 0.5)
	f.AddParticle(0.8, 0.8)

	f.PushParticlesApart(3)

	ps := f.Particles
	for i, want := range [][2]float64{{0.5, 0.5}, {0.5, 0.5}, {0.8, 0.8}} {
		if ps.PosX[i] != want[0] || ps.PosY[i] != want[1] {
			t.Errorf("particle %d = (%v, %v), want %v", i, ps.PosX[i], ps.PosY[i], want)
		}
	}
}

func TestPushApartDiffusesColor(t *testing.T) {
	f := newTestFluid(t, 2, 0.05)
	f.AddParticle(0.5, 0.5)
	f.AddParticle(0.55, 0.5)
	f.Particles.Color[0] = RGB{R: 1, G: 0, B: 0}
	f.Particles.Color[1] = RGB{R: 0, G: 0, B: 1}

	f.PushParticlesApart(1)

	c0 := f.Particles.Color[0]
	c1 := f.Particles.Color[1]
	if !(c0.R < 1 && c0.B > 0) {
		t.Errorf("color 0 did not diffuse: %+v", c0)
	}
	if !(c1.B < 1 && c1.R > 0) {
		t.Errorf("color 1 did not diffuse: %+v", c1)
	}
	if math.Abs((c0.R+c1.R)-1) > 1e-12 {
		t.Errorf("red not conserved: %v", c0.R+c1.R)
	}
}

func pairOverlap(ps *Particles) (total, worst float64) {
	minDist := 2 * ps.Radius
	for i := 0; i < ps.Num; i++ {
		for j := i + 1; j < ps.Num; j++ {
			d := math.Hypot(ps.PosX[j]-ps.PosX[i], ps.PosY[j]-ps.PosY[i])
			if o := minDist - d; o > 0 {
				total += o
				worst = max(worst, o)
			}
		}
	}
	return total, worst
}

func TestPushApartConverges(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	f := newTestFluid(t, 16, 0.02)
	for i := 0; i < 8; i++ {
		x := 0.2 + 0.6*rng.Float64()
		y := 0.2 + 0.6*rng.Float64()
		f.AddParticle(x, y)
		// Each seed gets a close partner so the set always starts overlapped.
		f.AddParticle(x+0.01*rng.Float64()+0.001, y)
	}

	before, _ := pairOverlap(f.Particles)
	if before == 0 {
		t.Fatal("expected initial overlap")
	}

	f.PushParticlesApart(1)
	afterOne, _ := pairOverlap(f.Particles)
	f.PushParticlesApart(9)
	afterTen, _ := pairOverlap(f.Particles)

	if afterOne >= before {
		t.Errorf("overlap after 1 iteration = %v, want < %v", afterOne, before)
	}
	if afterTen > afterOne+1e-12 {
		t.Errorf("overlap after 10 iterations = %v, want <= %v", afterTen, afterOne)
	}

	for k := 0; k < 5; k++ {
		f.PushParticlesApart(10)
	}
	if _, worst := pairOverlap(f.Particles); worst > 1e-3 {
		t.Errorf("worst overlap = %v, want < 1e-3", worst)
	}
}

func TestHandleParticleCollisionsContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	f := newTestFluid(t, 200, 0.02)
	for i := 0; i < 200; i++ {
		f.AddParticle(rng.Float64()*10-5, rng.Float64()*10-5)
		f.Particles.VelX[i] = rng.Float64()*2 - 1
		f.Particles.VelY[i] = rng.Float64()*2 - 1
	}

	g := f.Grid
	r := f.Particles.Radius
	minX, maxX := g.H+r, float64(g.NumX-1)*g.H-r
	minY, maxY := g.H+r, float64(g.NumY-1)*g.H-r

	check := func(stage string) {
		ps := f.Particles
		for i := 0; i < ps.Num; i++ {
			x, y := ps.PosX[i], ps.PosY[i]
			if x < minX-1e-12 || x > maxX+1e-12 || y < minY-1e-12 || y > maxY+1e-12 {
				t.Fatalf("%s: particle %d at (%v, %v) outside [%v,%v]x[%v,%v]", stage, i, x, y, minX, maxX, minY, maxY)
			}
		}
	}

	f.HandleParticleCollisions()
	check("collisions")

	for step := 0; step < 10; step++ {
		f.Simulate(f.Scene.DT)
	}
	check("simulate")
}

func TestCollisionZeroesNormalVelocity(t *testing.T) {
	f := newTestFluid(t, 1, 0.02)
	f.AddParticle(-1, 0.5)
	f.Particles.VelX[0] = -3
	f.Particles.VelY[0] = 0.25

	f.HandleParticleCollisions()

	if f.Particles.VelX[0] != 0 {
		t.Errorf("vx = %v, want 0", f.Particles.VelX[0])
	}
	if f.Particles.VelY[0] != 0.25 {
		t.Errorf("vy = %v, want 0.25", f.Particles.VelY[0])
	}
	if want := f.Grid.H + 0.02; f.Particles.PosX[0] != want {
		t.Errorf("x = %v, want %v", f.Particles.PosX[0], want)
	}
}

func TestIntegrateGravityIsVertical(t *testing.T) {
	f := newTestFluid(t, 1, 0.02)
	f.AddParticle(0.5, 0.5)

	f.IntegrateParticles(0.1, -10)

	ps := f.Particles
	if ps.VelX[0] != 0 {
		t.Errorf("vx = %v, want 0", ps.VelX[0])
	}
	if math.Abs(ps.VelY[0]+1) > 1e-12 {
		t.Errorf("vy = %v, want -1", ps.VelY[0])
	}
	if math.Abs(ps.PosY[0]-0.4) > 1e-12 {
		t.Errorf("y = %v, want 0.4", ps.PosY[0])
	}
}

func TestTransferRoundTripPIC(t *testing.T) {
	f := newTestFluid(t, 1, 0.01)
	h := f.Grid.H
	f.AddParticle(5.5*h, 5.5*h)
	f.Particles.VelX[0] = 0.3
	f.Particles.VelY[0] = -0.2

	f.TransferVelocities(true, 0)
	f.TransferVelocities(false, 0)

	if math.Abs(f.Particles.VelX[0]-0.3) > 1e-9 {
		t.Errorf("vx = %v, want 0.3", f.Particles.VelX[0])
	}
	if math.Abs(f.Particles.VelY[0]+0.2) > 1e-9 {
		t.Errorf("vy = %v, want -0.2", f.Particles.VelY[0])
	}
}

func TestFlipDeltaIsProjectionChange(t *testing.T) {
	f := newTestFluid(t, 1, 0.01)
	h := f.Grid.H
	f.AddParticle(4.3*h, 6.7*h)
	f.Particles.VelX[0] = 0.5
	f.Particles.VelY[0] = 0.1

	f.TransferVelocities(true, 1)
	f.SolveIncompressibility(0, 0.01, 1.9, false)
	f.TransferVelocities(false, 1)

	if math.Abs(f.Particles.VelX[0]-0.5) > 1e-12 {
		t.Errorf("vx = %v, want unchanged 0.5", f.Particles.VelX[0])
	}
	if math.Abs(f.Particles.VelY[0]-0.1) > 1e-12 {
		t.Errorf("vy = %v, want unchanged 0.1", f.Particles.VelY[0])
	}
}

func TestTransferMarksFluidCells(t *testing.T) {
	f := newTestFluid(t, 2, 0.01)
	h := f.Grid.H
	f.AddParticle(3.5*h, 4.5*h)
	f.AddParticle(3.6*h, 4.4*h)

	f.TransferVelocities(true, 0.9)

	g := f.Grid
	if got := g.CellType[g.Index(3, 4)]; got != FluidCell {
		t.Errorf("cell (3,4) = %v, want fluid", got)
	}
	if got := g.CellType[g.Index(0, 4)]; got != SolidCell {
		t.Errorf("cell (0,4) = %v, want solid", got)
	}
	if got := g.CellType[g.Index(7, 7)]; got != AirCell {
		t.Errorf("cell (7,7) = %v, want air", got)
	}
	if n := f.FluidCellCount(); n != 1 {
		t.Errorf("fluid cells = %d, want 1", n)
	}
}

func TestSolveIncompressibilityConverges(t *testing.T) {
	f := newTestFluid(t, 0, 0.01)
	g := f.Grid
	rng := rand.New(rand.NewSource(3))

	g.classifyCells()
	for i := 1; i < g.NumX-1; i++ {
		for j := 1; j <= 5; j++ {
			g.CellType[g.Index(i, j)] = FluidCell
		}
	}
	for i := range g.U.Data {
		g.U.Data[i] = rng.Float64()*2 - 1
		g.V.Data[i] = rng.Float64()*2 - 1
	}
	// Wall faces carry no flow.
	for j := 0; j < g.NumY; j++ {
		g.U.Set(1, j, 0)
		g.U.Set(g.NumX-1, j, 0)
	}
	for i := 0; i < g.NumX; i++ {
		g.V.Set(i, 1, 0)
	}

	before := f.MaxDivergence()
	f.SolveIncompressibility(2000, 1.0/120.0, 1.9, false)
	after := f.MaxDivergence()

	if before < 1e-3 {
		t.Fatalf("initial divergence %v too small for a meaningful test", before)
	}
	if after > 1e-6 {
		t.Errorf("max divergence = %v, want < 1e-6", after)
	}
}

func TestKineticEnergyAtRestStaysZero(t *testing.T) {
	f, err := NewTank(smallTank(), nil)
	if err != nil {
		t.Fatal(err)
	}
	f.Scene.Gravity = 0
	f.Scene.CompensateDrift = false

	for step := 0; step < 20; step++ {
		f.Simulate(f.Scene.DT)
		if ke := f.KineticEnergy(); ke > 1e-12 {
			t.Fatalf("step %d: kinetic energy = %v, want 0", step, ke)
		}
	}
}

func TestDamBreakRuns(t *testing.T) {
	f, err := NewTank(smallTank(), nil)
	if err != nil {
		t.Fatal(err)
	}

	for step := 0; step < 30; step++ {
		f.Simulate(f.Scene.DT)
	}

	if rest, ok := f.RestDensity(); !ok || rest <= 0 {
		t.Errorf("rest density = %v (known %v), want positive", rest, ok)
	}
	if f.FluidCellCount() == 0 {
		t.Error("expected fluid cells")
	}
	if ke := f.KineticEnergy(); math.IsNaN(ke) || ke <= 0 {
		t.Errorf("kinetic energy = %v, want positive after falling", ke)
	}
	if d := f.MaxDivergence(); math.IsNaN(d) || math.IsInf(d, 0) {
		t.Errorf("max divergence = %v", d)
	}
	if f.Steps() != 30 {
		t.Errorf("steps = %d, want 30", f.Steps())
	}

	ps := f.Particles
	for i := 0; i < ps.Num; i++ {
		c := ps.Color[i]
		for _, v := range []float64{c.R, c.G, c.B} {
			if v < 0 || v > 1 {
				t.Fatalf("particle %d color %+v out of range", i, c)
			}
		}
	}
}

func TestRestDensityComputedOnce(t *testing.T) {
	f, err := NewTank(smallTank(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := f.RestDensity(); ok {
		t.Fatal("rest density known before any step")
	}

	f.TransferVelocities(true, 0.9)
	f.UpdateParticleDensity()
	first, ok := f.RestDensity()
	if !ok {
		t.Fatal("rest density not computed")
	}

	for i := 0; i < f.Particles.Num; i++ {
		f.Particles.PosX[i] += 0.01
	}
	f.TransferVelocities(true, 0.9)
	f.UpdateParticleDensity()
	if again, _ := f.RestDensity(); again != first {
		t.Errorf("rest density changed from %v to %v", first, again)
	}

	f.ResetRestDensity()
	if _, ok := f.RestDensity(); ok {
		t.Error("expected reset to clear rest density")
	}
}

func TestRestDensityWithoutFluid(t *testing.T) {
	f := newTestFluid(t, 0, 0.01)
	f.TransferVelocities(true, 0.9)
	f.UpdateParticleDensity()
	if _, ok := f.RestDensity(); ok {
		t.Error("rest density should stay unset without fluid cells")
	}
}

func TestNewTankLayout(t *testing.T) {
	tank := smallTank()
	f, err := NewTank(tank, nil)
	if err != nil {
		t.Fatal(err)
	}

	if f.NumParticles() != 12*14 {
		t.Fatalf("particles = %d, want %d", f.NumParticles(), 12*14)
	}

	h := tank.Spacing()
	r := tank.ParticleRadiusScale * h
	ps := f.Particles
	if math.Abs(ps.PosX[0]-(h+r)) > 1e-12 || math.Abs(ps.PosY[0]-(h+r)) > 1e-12 {
		t.Errorf("first particle at (%v, %v), want (%v, %v)", ps.PosX[0], ps.PosY[0], h+r, h+r)
	}
	// Odd rows are shifted by one radius.
	if math.Abs(ps.PosX[1]-(h+2*r)) > 1e-12 {
		t.Errorf("second row x = %v, want %v", ps.PosX[1], h+2*r)
	}
}

func TestNewTankJitter(t *testing.T) {
	tank := smallTank()
	plain, err := NewTank(tank, nil)
	if err != nil {
		t.Fatal(err)
	}
	tank.Jitter = 0.5
	jittered, err := NewTank(tank, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}

	r := tank.ParticleRadiusScale * tank.Spacing()
	moved := 0
	for i := 0; i < plain.NumParticles(); i++ {
		dx := jittered.Particles.PosX[i] - plain.Particles.PosX[i]
		dy := jittered.Particles.PosY[i] - plain.Particles.PosY[i]
		if math.Abs(dx) > 0.25*r+1e-12 || math.Abs(dy) > 0.25*r+1e-12 {
			t.Fatalf("particle %d jitter (%v, %v) exceeds %v", i, dx, dy, 0.25*r)
		}
		if dx != 0 || dy != 0 {
			moved++
		}
	}
	if moved == 0 {
		t.Error("expected jitter to move particles")
	}
}

func TestNewTankValidation(t *testing.T) {
	tank := smallTank()
	tank.Resolution = 2
	if _, err := NewTank(tank, nil); err == nil {
		t.Error("expected error for resolution 2")
	}
	tank = smallTank()
	tank.ParticleRadiusScale = 0
	if _, err := NewTank(tank, nil); err == nil {
		t.Error("expected error for zero radius scale")
	}
}

type phaseRecorder struct {
	phases []string
}

func (p *phaseRecorder) StartPhase(name string) {
	p.phases = append(p.phases, name)
}

func TestSimulateReportsPhases(t *testing.T) {
	f := newTestFluid(t, 1, 0.01)
	f.AddParticle(0.5, 0.5)
	f.Scene.NumSubSteps = 2

	rec := &phaseRecorder{}
	f.SetPhaseTimer(rec)
	f.Simulate(0.01)

	sub := []string{PhaseIntegrate, PhaseSeparate, PhaseCollide, PhaseToGrid, PhaseDensity, PhasePressure, PhaseFromGrid}
	want := append(append(append([]string{}, sub...), sub...), PhaseColors)
	if len(rec.phases) != len(want) {
		t.Fatalf("phases = %v, want %v", rec.phases, want)
	}
	for i := range want {
		if rec.phases[i] != want[i] {
			t.Errorf("phase %d = %q, want %q", i, rec.phases[i], want[i])
		}
	}
	if math.Abs(f.SimTime()-0.01) > 1e-15 {
		t.Errorf("sim time = %v, want 0.01", f.SimTime())
	}
}

func TestSciColor(t *testing.T) {
	tests := []struct {
		val  float64
		want RGB
	}{
		{0, RGB{0, 0, 1}},
		{0.25, RGB{0, 0.5, 1}},
		{0.5, RGB{0, 1, 1}},
		{1, RGB{0, 1, 0}},
		{1.5, RGB{1, 1, 0}},
		{5, RGB{1, 0, 0}},
		{-3, RGB{0, 0, 1}},
	}

	for _, tt := range tests {
		got := SciColor(tt.val, 0, 2)
		if math.Abs(got.R-tt.want.R) > 1e-3 || math.Abs(got.G-tt.want.G) > 1e-3 || math.Abs(got.B-tt.want.B) > 1e-3 {
			t.Errorf("SciColor(%v) = %+v, want %+v", tt.val, got, tt.want)
		}
	}
}

func TestCellColors(t *testing.T) {
	f, err := NewTank(smallTank(), nil)
	if err != nil {
		t.Fatal(err)
	}
	f.Simulate(f.Scene.DT)

	g := f.Grid
	if c := g.CellColor[g.Index(0, 3)]; c != (RGB{0.5, 0.5, 0.5}) {
		t.Errorf("solid cell color = %+v, want grey", c)
	}
	if c := g.CellColor[g.Index(g.NumX-2, g.NumY-2)]; c != (RGB{}) {
		t.Errorf("air cell color = %+v, want black", c)
	}
}

func TestParticleColorsFade(t *testing.T) {
	f := newTestFluid(t, 1, 0.01)
	f.AddParticle(0.5, 0.5)

	f.UpdateParticleColors()

	c := f.Particles.Color[0]
	if math.Abs(c.R-0.99) > 1e-12 || math.Abs(c.G-0.99) > 1e-12 || c.B != 1 {
		t.Errorf("color = %+v, want (0.99, 0.99, 1)", c)
	}
}

func TestObstacles(t *testing.T) {
	f := newTestFluid(t, 1, 0.01)
	g := f.Grid
	h := g.H

	o := Obstacle{X: 5.5 * h, Y: 5.5 * h, Radius: 1.2 * h, VelX: 0.4, VelY: -0.3}
	f.AddObstacle(o)

	if s := g.S.At(5, 5); s != 0 {
		t.Errorf("centre cell S = %v, want 0", s)
	}
	if s := g.S.At(2, 2); s != 1 {
		t.Errorf("distant cell S = %v, want 1", s)
	}
	if u := g.U.At(6, 5); u != 0.4 {
		t.Errorf("obstacle face u = %v, want 0.4", u)
	}
	if v := g.V.At(5, 6); v != -0.3 {
		t.Errorf("obstacle face v = %v, want -0.3", v)
	}

	f.AddParticle(5.5*h+0.5*h, 5.5*h)
	f.HandleParticleCollisions()
	if f.Particles.VelX[0] != 0.4 || f.Particles.VelY[0] != -0.3 {
		t.Errorf("particle velocity = (%v, %v), want obstacle velocity", f.Particles.VelX[0], f.Particles.VelY[0])
	}

	f.ClearObstacles()
	if s := g.S.At(5, 5); s != 1 {
		t.Errorf("after clear S = %v, want 1", s)
	}
	if s := g.S.At(0, 5); s != 0 {
		t.Errorf("wall cleared: S = %v", s)
	}
	if len(f.Obstacles()) != 0 {
		t.Errorf("obstacles = %d, want 0", len(f.Obstacles()))
	}
}

func TestSpatialHashBuckets(t *testing.T) {
	h := NewSpatialHash(1, 1, 0.1, 4)
	xs := []float64{0.05, 0.05, 0.95, 50}
	ys := []float64{0.05, 0.06, 0.95, -50}
	h.Build(xs, ys, len(xs))

	if got := h.Cell(h.CellIndex(0.05, 0.05)); len(got) != 2 {
		t.Errorf("cell (0,0) ids = %v, want 2 entries", got)
	}
	// Far-away particles clamp to the border bucket.
	corner := (h.NumX-1)*h.NumY + 0
	found := false
	for _, id := range h.Cell(corner) {
		if id == 3 {
			found = true
		}
	}
	if !found {
		t.Errorf("particle 3 not in clamped corner cell %d", corner)
	}

	total := 0
	for c := 0; c < h.NumCells; c++ {
		total += len(h.Cell(c))
	}
	if total != len(xs) {
		t.Errorf("bucketed %d particles, want %d", total, len(xs))
	}
}

func TestKineticEnergyValue(t *testing.T) {
	f := newTestFluid(t, 2, 0.01)
	f.AddParticle(0.3, 0.3)
	f.AddParticle(0.6, 0.6)
	f.Particles.VelX[0] = 3
	f.Particles.VelY[1] = 4

	if ke := f.KineticEnergy(); math.Abs(ke-12.5) > 1e-12 {
		t.Errorf("kinetic energy = %v, want 12.5", ke)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	f, err := NewTank(smallTank(), nil)
	if err != nil {
		t.Fatal(err)
	}
	f.Simulate(f.Scene.DT)

	snap := f.Snapshot()
	if snap.NumParticles() != f.NumParticles() {
		t.Fatalf("snapshot particles = %d, want %d", snap.NumParticles(), f.NumParticles())
	}
	x0 := snap.PosX[0]
	f.Particles.PosX[0] += 1
	if snap.PosX[0] != x0 {
		t.Error("snapshot aliases particle storage")
	}
	if snap.Step != 1 || len(snap.CellType) != f.Grid.NumCells {
		t.Errorf("snapshot step %d cells %d", snap.Step, len(snap.CellType))
	}
}
