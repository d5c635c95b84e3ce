package game

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/flip/config"
	"github.com/pthm-cable/flip/telemetry"
	"github.com/pthm-cable/flip/terminal"
)

var _ terminal.Simulation = (*Game)(nil)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Tank.Resolution = 20
	cfg.Scene.NumPressureIters = 20
	cfg.Telemetry.StatsWindow = 6 * cfg.Scene.DT
	return cfg
}

func newHeadless(t *testing.T, opts Options) *Game {
	t.Helper()
	if opts.Config == nil {
		opts.Config = testConfig(t)
	}
	opts.Headless = true
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestHeadlessRun(t *testing.T) {
	dir := t.TempDir()
	var flushed []telemetry.FrameStats
	g := newHeadless(t, Options{
		Seed:           1,
		OutputDir:      dir,
		StepsPerUpdate: 3,
		StatsCallback:  func(s telemetry.FrameStats) { flushed = append(flushed, s) },
	})

	for i := 0; i < 4; i++ {
		g.UpdateHeadless()
	}

	if got := g.Tick(); got != 12 {
		t.Fatalf("Tick() = %d, want 12", got)
	}
	s := g.Snapshot()
	if s.NumParticles() == 0 || s.NumParticles() != g.Fluid().NumParticles() {
		t.Errorf("snapshot holds %d particles, solver %d", s.NumParticles(), g.Fluid().NumParticles())
	}
	if len(g.Tree().Nodes) == 0 {
		t.Error("hierarchy not built")
	}
	if len(g.Tree().Order) != s.NumParticles() {
		t.Errorf("hierarchy covers %d particles, want %d", len(g.Tree().Order), s.NumParticles())
	}
	if len(flushed) != 2 {
		t.Fatalf("flushed %d windows, want 2", len(flushed))
	}
	if flushed[1].WindowEndTick != 12 || flushed[1].BVHRebuilds == 0 {
		t.Errorf("second window = %+v", flushed[1])
	}
	if len(g.Fluid().Obstacles()) != 1 {
		t.Errorf("solver has %d obstacles, want 1", len(g.Fluid().Obstacles()))
	}

	g.Unload()
	data, err := os.ReadFile(filepath.Join(dir, "frames.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "window_end") {
		t.Errorf("frames.csv = %q, want header and two rows", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}

func TestPausedDoesNotStep(t *testing.T) {
	g := newHeadless(t, Options{Paused: true})
	g.UpdateHeadless()
	if g.Tick() != 0 {
		t.Errorf("paused game advanced to tick %d", g.Tick())
	}
	g.TogglePause()
	g.UpdateHeadless()
	if g.Tick() != 1 {
		t.Errorf("unpaused game at tick %d, want 1", g.Tick())
	}
}

func TestResetKeepsScene(t *testing.T) {
	g := newHeadless(t, Options{})
	want := g.Fluid().NumParticles()
	g.Fluid().Scene.FlipRatio = 0.5

	for i := 0; i < 5; i++ {
		g.UpdateHeadless()
	}
	g.Reset()

	if g.Tick() != 0 {
		t.Errorf("Tick() after reset = %d", g.Tick())
	}
	if got := g.Fluid().NumParticles(); got != want {
		t.Errorf("particles after reset = %d, want %d", got, want)
	}
	if got := g.Fluid().Scene.FlipRatio; got != 0.5 {
		t.Errorf("flip ratio after reset = %v, want 0.5", got)
	}
	if g.Fluid().SimTime() != 0 {
		t.Errorf("sim time after reset = %v", g.Fluid().SimTime())
	}
}

func TestNearestParticle(t *testing.T) {
	g := newHeadless(t, Options{})
	s := g.Snapshot()

	for _, p := range []int{0, s.NumParticles() / 2, s.NumParticles() - 1} {
		x, y := s.PosX[p], s.PosY[p]
		got, ok := g.nearestParticle(x, y)
		if !ok {
			t.Fatalf("no particle found at particle %d", p)
		}
		d := math.Hypot(s.PosX[got]-x, s.PosY[got]-y)
		if d > 2*s.ParticleRadius {
			t.Errorf("particle %d is %v from probe at particle %d", got, d, p)
		}
	}

	if _, ok := g.nearestParticle(-5, -5); ok {
		t.Error("found a particle outside the tank")
	}
}

func TestProbeOutsideTank(t *testing.T) {
	g := newHeadless(t, Options{})
	g.probe(-1, 0.5)
	if g.hasHover {
		t.Error("probe outside the tank reported a cell")
	}
	g.probe(0.5, 0.5)
	if !g.hasHover || !g.hover.HasParticle {
		t.Errorf("probe inside the water = %+v", g.hover)
	}
}
