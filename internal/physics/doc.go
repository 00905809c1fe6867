// Package physics implements the attractor/particle model of the swarm.
//
// A single [Attractor] exerts a softened inverse-square force on every
// [Particle]. Particles share one [Params] value (mass, friction, softening,
// color gradient) and never interact with each other:
//
//	acc := physics.Acceleration(attractor, p.Position, g, params)
//	p.Integrate(attractor, dt, g, params)
//	p.WrapToBounds(bounds.Width, bounds.Height)
//
// # Force Model
//
// The force magnitude is G*M*m / (d^2 + softening). The softening constant is
// added as-is rather than squared, which keeps the field finite at d = 0 and
// matches the tuning the stock parameters were chosen for.
//
// # Color
//
// Each step recolors a particle along the InitialColor -> FinalColor gradient
// by |v| / MaxColorVelocity, clamped to [0, 1].
package physics
