// Package game drives the tank: it owns the solver, the obstacle world, the
// per-tick hierarchy and the telemetry and stream outputs, and draws them with
// raylib when a window is open.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flip/bvh"
	"github.com/pthm-cable/flip/camera"
	"github.com/pthm-cable/flip/config"
	"github.com/pthm-cable/flip/fluid"
	"github.com/pthm-cable/flip/renderer"
	"github.com/pthm-cable/flip/stream"
	"github.com/pthm-cable/flip/systems"
	"github.com/pthm-cable/flip/telemetry"
	"github.com/pthm-cable/flip/ui"
)

// Options configures a game instance.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string
	Headless       bool // no raylib resources are created
	Paused         bool
	StepsPerUpdate int
	StreamAddr     string // overrides config when non-empty

	// StatsCallback receives every flushed window.
	StatsCallback func(telemetry.FrameStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg     *config.Config
	rng     *rand.Rand
	rngSeed int64

	fluid    *fluid.FlipFluid
	snapshot fluid.Snapshot
	tree     *bvh.Tree[int]
	treeStat bvh.Stats

	world     *ecs.World
	obstacles *systems.ObstacleSystem
	dragged   ecs.Entity
	dragging  bool

	// Telemetry
	collector     *telemetry.Collector
	statsWindow   float64
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.FrameStats)
	lastKE        float64
	lastDiv       float64

	// Streaming
	hub          *stream.Hub
	frame        stream.Frame
	streamCancel context.CancelFunc
	streamDone   chan struct{}

	// Rendering (nil when headless)
	camera           *camera.Camera
	overlays         *ui.OverlayRegistry
	controls         *ui.ControlsPanel
	hud              *ui.HUD
	perfPanel        *ui.PerfPanel
	inspector        *ui.Inspector
	gridRenderer     *renderer.GridRenderer
	particleRenderer *renderer.ParticleRenderer
	bvhRenderer      *renderer.BVHRenderer
	pressureColors   []fluid.RGB
	screenWidth      float32
	screenHeight     float32

	// Cursor probe
	hover    ui.CellInfo
	hasHover bool
	nearby   []int

	// State
	tick           int32
	paused         bool
	headless       bool
	stepsPerUpdate int
}

// NewGameWithOptions creates a game from the loaded configuration.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}
	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	g := &Game{
		cfg:            cfg,
		rng:            rand.New(rand.NewSource(opts.Seed)),
		rngSeed:        opts.Seed,
		statsWindow:    statsWindow,
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:       opts.LogStats,
		statsCallback:  opts.StatsCallback,
		paused:         opts.Paused,
		headless:       opts.Headless,
		stepsPerUpdate: stepsPerUpdate,
	}

	g.collector = g.newCollector()
	if err := g.buildFluid(); err != nil {
		return nil, err
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	addr := cfg.Stream.Addr
	if opts.StreamAddr != "" {
		addr = opts.StreamAddr
	}
	if addr != "" {
		g.startStream(addr)
	}

	if !g.headless {
		g.initRendering()
	}

	slog.Info("tank ready",
		"seed", opts.Seed,
		"particles", g.fluid.NumParticles(),
		"grid_x", g.fluid.Grid.NumX,
		"grid_y", g.fluid.Grid.NumY,
		"obstacles", g.obstacles.Count(),
	)
	return g, nil
}

// buildFluid creates the solver and the obstacle world from config.
func (g *Game) buildFluid() error {
	cfg := g.cfg
	tank := fluid.Tank{
		Width:               cfg.Tank.Width,
		Height:              cfg.Tank.Height,
		Resolution:          cfg.Tank.Resolution,
		Density:             cfg.Tank.Density,
		RelWaterWidth:       cfg.Tank.RelWaterWidth,
		RelWaterHeight:      cfg.Tank.RelWaterHeight,
		ParticleRadiusScale: cfg.Tank.ParticleRadiusScale,
		Jitter:              cfg.Tank.Jitter,
	}
	f, err := fluid.NewTank(tank, g.rng)
	if err != nil {
		return fmt.Errorf("building tank: %w", err)
	}
	f.Scene = sceneFromConfig(cfg.Scene)
	f.SetPhaseTimer(g.perfCollector)
	g.fluid = f

	g.world = ecs.NewWorld()
	g.obstacles = systems.NewObstacleSystem(g.world, systems.Bounds{
		Width:  cfg.Tank.Width,
		Height: cfg.Tank.Height,
		Wall:   f.Grid.H,
	})
	for _, oc := range cfg.Obstacles {
		g.obstacles.Spawn(oc)
	}
	g.dragging = false

	if f.Scene.ShowObstacle {
		g.obstacles.Apply(f)
	}
	f.SnapshotInto(&g.snapshot)
	g.rebuildBVH()
	return nil
}

func (g *Game) newCollector() *telemetry.Collector {
	return telemetry.NewCollector(g.statsWindow, g.cfg.Scene.DT)
}

func sceneFromConfig(sc config.SceneConfig) fluid.Scene {
	return fluid.Scene{
		Gravity:           sc.Gravity,
		DT:                sc.DT,
		FlipRatio:         sc.FlipRatio,
		NumPressureIters:  sc.NumPressureIters,
		NumParticleIters:  sc.NumParticleIters,
		NumSubSteps:       sc.NumSubSteps,
		OverRelaxation:    sc.OverRelaxation,
		CompensateDrift:   sc.CompensateDrift,
		SeparateParticles: sc.SeparateParticles,
		Paused:            sc.Paused,
		ShowObstacle:      sc.ShowObstacle,
		ShowParticles:     sc.ShowParticles,
		ShowGrid:          sc.ShowGrid,
	}
}

// Tick returns the number of completed simulation ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// Paused reports whether stepping is suspended.
func (g *Game) Paused() bool {
	return g.paused
}

// TogglePause flips the paused state.
func (g *Game) TogglePause() {
	g.paused = !g.paused
}

// Fluid exposes the solver.
func (g *Game) Fluid() *fluid.FlipFluid {
	return g.fluid
}

// Snapshot returns the state captured after the last tick. It is reused
// between ticks.
func (g *Game) Snapshot() *fluid.Snapshot {
	return &g.snapshot
}

// Tree returns the hierarchy from the last rebuild.
func (g *Game) Tree() *bvh.Tree[int] {
	return g.tree
}

// Stream returns the websocket hub, or nil when streaming is off.
func (g *Game) Stream() *stream.Hub {
	return g.hub
}
