package physics

import (
	"math"

	"github.com/san-kum/gravswarm/internal/dynamo"
)

// Params holds the swarm-wide particle parameters. Every particle of a world
// integrates against the same Params; the value is read-only while stepping.
type Params struct {
	Mass             float64
	Friction         float64
	Softening        float64
	InitialColor     Color
	FinalColor       Color
	MaxColorVelocity float64
}

// DefaultParams mirrors the stock swarm tuning.
func DefaultParams() Params {
	return Params{
		Mass:             50,
		Friction:         0.99,
		Softening:        10,
		InitialColor:     Color{R: 0, G: 255, B: 255, A: 200},
		FinalColor:       Color{R: 255, G: 0, B: 255, A: 200},
		MaxColorVelocity: 5,
	}
}

// Validate rejects parameters that would produce NaN or Inf while stepping.
func (p Params) Validate() error {
	if !finite(p.Mass) || p.Mass <= 0 {
		return &dynamo.ConfigError{Field: "particle_mass", Value: p.Mass, Reason: "must be positive"}
	}
	if !finite(p.Friction) || p.Friction <= 0 || p.Friction > 1 {
		return &dynamo.ConfigError{Field: "friction", Value: p.Friction, Reason: "must be in (0, 1]"}
	}
	if !finite(p.Softening) || p.Softening < 0 {
		return &dynamo.ConfigError{Field: "softening", Value: p.Softening, Reason: "must be non-negative"}
	}
	if !finite(p.MaxColorVelocity) || p.MaxColorVelocity <= 0 {
		return &dynamo.ConfigError{Field: "max_color_velocity", Value: p.MaxColorVelocity, Reason: "must be positive"}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
