package physics

import (
	"math"

	"github.com/san-kum/gravswarm/internal/dynamo"
)

// KineticEnergy is 0.5*m*|v|^2.
func (p Particle) KineticEnergy(params Params) float64 {
	return 0.5 * params.Mass * p.Velocity.MagSq()
}

// Momentum is m*v.
func (p Particle) Momentum(params Params) dynamo.Vec2 {
	return p.Velocity.Scale(params.Mass)
}

// PotentialEnergy is the energy of a particle at pos in the attractor's
// softened field. It is the potential whose gradient yields the force used by
// Acceleration, zero at infinity and signed by the attractor's force direction.
func PotentialEnergy(target Attractor, pos dynamo.Vec2, g float64, params Params) float64 {
	k := g * target.Mass * params.Mass * target.ForceSign()
	r := target.Position.Dist(pos)
	if params.Softening > 0 {
		s := math.Sqrt(params.Softening)
		return -k / s * (math.Pi/2 - math.Atan(r/s))
	}
	if r > 0 {
		return -k / r
	}
	return 0
}
