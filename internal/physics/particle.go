package physics

import (
	"math"

	"github.com/san-kum/gravswarm/internal/dynamo"
)

// Bounds is the world rectangle [0, Width] x [0, Height] in simulation units.
type Bounds struct {
	Width, Height float64
}

// Particle is one member of the swarm. Its vectors are values owned by the
// particle alone.
type Particle struct {
	Position dynamo.Vec2
	Velocity dynamo.Vec2
	Color    Color
}

// NewParticle places a particle at rest with the gradient's initial color.
func NewParticle(pos dynamo.Vec2, params Params) Particle {
	return Particle{Position: pos, Color: params.InitialColor}
}

// Acceleration returns the acceleration the attractor imparts on a particle
// at pos. The softening term is added to the squared distance unsquared.
func Acceleration(target Attractor, pos dynamo.Vec2, g float64, params Params) dynamo.Vec2 {
	toTarget := target.Position.Sub(pos)
	distanceSquared := toTarget.MagSq() + params.Softening
	if distanceSquared == 0 {
		// On the attractor with no softening, or so close that d^2 underflows.
		return dynamo.Vec2{}
	}

	forceMagnitude := g * target.Mass * params.Mass / distanceSquared
	if math.IsInf(forceMagnitude, 0) {
		return dynamo.Vec2{}
	}
	force := toTarget.Normalize().Scale(forceMagnitude)

	return force.Div(params.Mass).Scale(target.ForceSign())
}

// Integrate advances the particle by one fixed step of length dt.
//
// Position uses the velocity from before this step plus half the acceleration
// term; velocity then absorbs the acceleration and is damped once by friction.
func (p *Particle) Integrate(target Attractor, dt, g float64, params Params) {
	acc := Acceleration(target, p.Position, g, params)

	p.Position = p.Position.
		Add(p.Velocity.Scale(dt)).
		Add(acc.Scale(dt * dt / 2))

	p.Velocity = p.Velocity.Add(acc.Scale(dt)).Scale(params.Friction)

	p.Color = params.InitialColor.Lerp(params.FinalColor, p.Velocity.Mag()/params.MaxColorVelocity)
}

// WrapToBounds teleports the particle to the opposite edge on each axis it
// has left. Points exactly on an edge are inside.
func (p *Particle) WrapToBounds(width, height float64) {
	if p.Position.X < 0 {
		p.Position.X = width
	} else if p.Position.X > width {
		p.Position.X = 0
	}

	if p.Position.Y < 0 {
		p.Position.Y = height
	} else if p.Position.Y > height {
		p.Position.Y = 0
	}
}
