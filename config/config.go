// Package config provides configuration loading and access for the fluid tank.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig     `yaml:"screen"`
	Tank      TankConfig       `yaml:"tank"`
	Scene     SceneConfig      `yaml:"scene"`
	BVH       BVHConfig        `yaml:"bvh"`
	Obstacles []ObstacleConfig `yaml:"obstacles"`
	Telemetry TelemetryConfig  `yaml:"telemetry"`
	Stream    StreamConfig     `yaml:"stream"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// TankConfig describes the container and the initial dam-break block.
type TankConfig struct {
	Width               float64 `yaml:"width"`                 // Tank width in world units
	Height              float64 `yaml:"height"`                // Tank height in world units
	Resolution          int     `yaml:"resolution"`            // Grid cells along the tank height
	Density             float64 `yaml:"density"`               // Fluid density (pressure display units)
	RelWaterWidth       float64 `yaml:"rel_water_width"`       // Initial block width as a fraction of the tank
	RelWaterHeight      float64 `yaml:"rel_water_height"`      // Initial block height as a fraction of the tank
	ParticleRadiusScale float64 `yaml:"particle_radius_scale"` // Particle radius relative to cell size
	Jitter              float64 `yaml:"jitter"`                // Random offset of initial particles, fraction of radius
}

// SceneConfig holds the solver parameters a caller may change between steps.
type SceneConfig struct {
	Gravity           float64 `yaml:"gravity"`
	DT                float64 `yaml:"dt"`
	FlipRatio         float64 `yaml:"flip_ratio"`
	NumPressureIters  int     `yaml:"num_pressure_iters"`
	NumParticleIters  int     `yaml:"num_particle_iters"`
	NumSubSteps       int     `yaml:"num_sub_steps"`
	OverRelaxation    float64 `yaml:"over_relaxation"`
	CompensateDrift   bool    `yaml:"compensate_drift"`
	SeparateParticles bool    `yaml:"separate_particles"`
	Paused            bool    `yaml:"paused"`
	ShowObstacle      bool    `yaml:"show_obstacle"`
	ShowParticles     bool    `yaml:"show_particles"`
	ShowGrid          bool    `yaml:"show_grid"`
}

// BVHConfig controls the per-frame particle hierarchy.
type BVHConfig struct {
	MaxDepth        int     `yaml:"max_depth"`
	RadiusScale     float64 `yaml:"radius_scale"`     // Leaf padding relative to particle radius
	RebuildInterval int     `yaml:"rebuild_interval"` // Ticks between rebuilds (0 = never)
}

// ObstacleConfig places a circular obstacle in the tank.
type ObstacleConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
	VelX   float64 `yaml:"vel_x"`
	VelY   float64 `yaml:"vel_y"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds of simulated time per stats record
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// StreamConfig holds websocket snapshot streaming parameters.
type StreamConfig struct {
	Addr          string `yaml:"addr"`           // Listen address (empty = disabled)
	IntervalTicks int    `yaml:"interval_ticks"` // Ticks between published frames
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Spacing        float64 // Tank.Height / Tank.Resolution
	ParticleRadius float64 // Tank.ParticleRadiusScale * Spacing
	DT32           float32 // Scene.DT as float32
	StatsTicks     int     // Telemetry.StatsWindow expressed in ticks
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects configurations the solver cannot be built from.
func (c *Config) validate() error {
	if c.Tank.Width <= 0 || c.Tank.Height <= 0 {
		return fmt.Errorf("tank size must be positive, got %gx%g", c.Tank.Width, c.Tank.Height)
	}
	if c.Tank.Resolution < 3 {
		return fmt.Errorf("tank resolution must be at least 3, got %d", c.Tank.Resolution)
	}
	if c.Tank.ParticleRadiusScale <= 0 {
		return fmt.Errorf("particle radius scale must be positive, got %g", c.Tank.ParticleRadiusScale)
	}
	if c.Scene.DT <= 0 {
		return fmt.Errorf("scene dt must be positive, got %g", c.Scene.DT)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Spacing = c.Tank.Height / float64(c.Tank.Resolution)
	c.Derived.ParticleRadius = c.Tank.ParticleRadiusScale * c.Derived.Spacing
	c.Derived.DT32 = float32(c.Scene.DT)

	if c.Scene.NumSubSteps < 1 {
		c.Scene.NumSubSteps = 1
	}
	if c.BVH.RadiusScale == 0 {
		c.BVH.RadiusScale = 1.0
	}

	c.Derived.StatsTicks = int(c.Telemetry.StatsWindow/c.Scene.DT + 0.5)
	if c.Derived.StatsTicks < 1 {
		c.Derived.StatsTicks = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
