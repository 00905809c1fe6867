package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"mobile": with(func(c *Config) {
		c.ParticleCount = DefaultParticleCountMobile
	}),
	"swarm": with(func(c *Config) {
		c.ParticleCount = 5000
		c.SpawnRadius = 0.5
		c.AttractorMass = 400
		c.Parallel = 512
	}),
	"repulsor": with(func(c *Config) {
		c.InvertForce = true
		c.SpawnRadius = 0.25
		c.Friction = 0.995
	}),
	"frictionless": with(func(c *Config) {
		c.Friction = 1
	}),
	"orbit": with(func(c *Config) {
		c.ParticleCount = 300
		c.SpawnRadius = 1.5
		c.Friction = 1
		c.Softening = 0.5
		c.Duration = 30
	}),
}

var presetNotes = map[string]string{
	"default":      "1000 particles, gentle friction",
	"mobile":       "reduced swarm for small hosts",
	"swarm":        "5000 particles with parallel updates",
	"repulsor":     "starts with the force inverted",
	"frictionless": "no damping; particles keep their energy",
	"orbit":        "low softening, no damping, long run",
}

func with(mod func(*Config)) *Config {
	c := DefaultConfig()
	mod(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func DescribePreset(name string) string {
	return presetNotes[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
