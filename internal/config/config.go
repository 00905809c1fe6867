package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravswarm/internal/dynamo"
	"github.com/san-kum/gravswarm/internal/physics"
	"github.com/san-kum/gravswarm/internal/sim"
)

const (
	DefaultParticleCount       = 1000
	DefaultParticleCountMobile = 200
	DefaultFrameRate           = 60.0
	DefaultFixedUpdate         = 60.0
	DefaultSpawnRadius         = 1.0
	DefaultG                   = 1.0
	DefaultParticleMass        = 50.0
	DefaultAttractorMass       = 250.0
	DefaultFriction            = 0.99
	DefaultSoftening           = 10.0
	DefaultPixelsPerUnit       = 100.0
	DefaultMaxColorVelocity    = 5.0
	DefaultWidth               = 800.0
	DefaultHeight              = 600.0
	DefaultDuration            = 10.0
)

// Config is the swarm bundle fixed before a run starts.
type Config struct {
	ParticleCount       int     `yaml:"particle_count"`
	ParticleCountMobile int     `yaml:"particle_count_mobile"`
	FrameRate           float64 `yaml:"frame_rate"`
	FixedUpdate         float64 `yaml:"fixed_update"`
	SpawnRadius         float64 `yaml:"spawn_radius"`

	GravitationalConstant float64 `yaml:"gravitational_constant"`
	ParticleMass          float64 `yaml:"particle_mass"`
	AttractorMass         float64 `yaml:"attractor_mass"`
	Friction              float64 `yaml:"friction"`
	Softening             float64 `yaml:"softening"`
	InvertForce           bool    `yaml:"invert_force"`

	PixelsPerUnit    float64 `yaml:"pixels_per_unit"`
	InitialColor     Color   `yaml:"initial_color"`
	FinalColor       Color   `yaml:"final_color"`
	BackgroundColor  Color   `yaml:"background_color"`
	MaxColorVelocity float64 `yaml:"max_color_velocity"`

	// Width and Height are the viewport in pixels for headless runs.
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Duration float64 `yaml:"duration"`
	Seed     int64   `yaml:"seed"`
	Parallel int     `yaml:"parallel"`
}

func DefaultConfig() *Config {
	params := physics.DefaultParams()
	return &Config{
		ParticleCount:         DefaultParticleCount,
		ParticleCountMobile:   DefaultParticleCountMobile,
		FrameRate:             DefaultFrameRate,
		FixedUpdate:           DefaultFixedUpdate,
		SpawnRadius:           DefaultSpawnRadius,
		GravitationalConstant: DefaultG,
		ParticleMass:          DefaultParticleMass,
		AttractorMass:         DefaultAttractorMass,
		Friction:              DefaultFriction,
		Softening:             DefaultSoftening,
		PixelsPerUnit:         DefaultPixelsPerUnit,
		InitialColor:          Color(params.InitialColor),
		FinalColor:            Color(params.FinalColor),
		BackgroundColor:       Color{A: 255},
		MaxColorVelocity:      DefaultMaxColorVelocity,
		Width:                 DefaultWidth,
		Height:                DefaultHeight,
		Duration:              DefaultDuration,
	}
}

// Load reads a YAML file over DefaultConfig, so omitted keys keep defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects a bundle that would make the world step into NaN or Inf.
func (c *Config) Validate() error {
	if c.ParticleCount < 1 {
		return &dynamo.ConfigError{Field: "particle_count", Value: float64(c.ParticleCount), Reason: "must be at least 1"}
	}
	if c.ParticleCountMobile < 0 {
		return &dynamo.ConfigError{Field: "particle_count_mobile", Value: float64(c.ParticleCountMobile), Reason: "must be non-negative"}
	}
	if c.Parallel < 0 {
		return &dynamo.ConfigError{Field: "parallel", Value: float64(c.Parallel), Reason: "must be non-negative"}
	}

	positive := []struct {
		field string
		value float64
	}{
		{"frame_rate", c.FrameRate},
		{"fixed_update", c.FixedUpdate},
		{"gravitational_constant", c.GravitationalConstant},
		{"attractor_mass", c.AttractorMass},
		{"pixels_per_unit", c.PixelsPerUnit},
		{"width", c.Width},
		{"height", c.Height},
		{"duration", c.Duration},
	}
	for _, p := range positive {
		if math.IsNaN(p.value) || math.IsInf(p.value, 0) || p.value <= 0 {
			return &dynamo.ConfigError{Field: p.field, Value: p.value, Reason: "must be positive and finite"}
		}
	}
	if math.IsNaN(c.SpawnRadius) || math.IsInf(c.SpawnRadius, 0) || c.SpawnRadius < 0 {
		return &dynamo.ConfigError{Field: "spawn_radius", Value: c.SpawnRadius, Reason: "must be non-negative and finite"}
	}
	return c.Params().Validate()
}

// FixedDeltaTime is the physics step length in seconds.
func (c *Config) FixedDeltaTime() float64 { return 1 / c.FixedUpdate }

// FrameDelta is the nominal host frame length in seconds.
func (c *Config) FrameDelta() float64 { return 1 / c.FrameRate }

// ParticleCountFor picks the swarm size for the host class. A zero mobile
// count falls back to the desktop count.
func (c *Config) ParticleCountFor(mobile bool) int {
	if mobile && c.ParticleCountMobile > 0 {
		return c.ParticleCountMobile
	}
	return c.ParticleCount
}

func (c *Config) Params() physics.Params {
	return physics.Params{
		Mass:             c.ParticleMass,
		Friction:         c.Friction,
		Softening:        c.Softening,
		InitialColor:     physics.Color(c.InitialColor),
		FinalColor:       physics.Color(c.FinalColor),
		MaxColorVelocity: c.MaxColorVelocity,
	}
}

// Options builds world options for a viewport of widthPx by heightPx pixels.
// Zero dimensions fall back to the configured Width and Height. Particles
// spawn around the viewport center and the attractor starts there.
func (c *Config) Options(widthPx, heightPx float64, mobile bool) sim.Options {
	if widthPx <= 0 {
		widthPx = c.Width
	}
	if heightPx <= 0 {
		heightPx = c.Height
	}
	bounds := physics.Bounds{Width: widthPx / c.PixelsPerUnit, Height: heightPx / c.PixelsPerUnit}
	center := dynamo.V(bounds.Width/2, bounds.Height/2)

	return sim.Options{
		ParticleCount:  c.ParticleCountFor(mobile),
		SpawnRadius:    c.SpawnRadius,
		SpawnCenter:    center,
		AttractorStart: center,
		AttractorMass:  c.AttractorMass,
		InvertForce:    c.InvertForce,
		FixedDeltaTime: c.FixedDeltaTime(),
		G:              c.GravitationalConstant,
		PixelsPerUnit:  c.PixelsPerUnit,
		Bounds:         bounds,
		Params:         c.Params(),
		Seed:           c.Seed,
		ParallelMin:    c.Parallel,
	}
}

// NewWorld validates the bundle and builds a world for the given viewport.
func (c *Config) NewWorld(widthPx, heightPx float64, mobile bool) (*sim.World, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return sim.NewWorld(c.Options(widthPx, heightPx, mobile))
}
