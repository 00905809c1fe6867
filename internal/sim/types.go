package sim

import (
	"github.com/san-kum/gravswarm/internal/dynamo"
	"github.com/san-kum/gravswarm/internal/input"
	"github.com/san-kum/gravswarm/internal/physics"
)

// PointerSource supplies the host's pointer position in screen pixels.
type PointerSource interface {
	Sample() dynamo.Vec2
}

// EventSource supplies discrete input events accumulated since the last tick.
type EventSource interface {
	Drain() []input.Event
}

// Frame is what observers see after every fixed step.
type Frame struct {
	Step      uint64
	Time      float64
	Attractor AttractorSnapshot
	Particles ParticleView
	Params    physics.Params
	G         float64
}

// ParticleView is read-only access to a particle population. Particles are
// handed out by value, so an observer cannot write back into the world.
type ParticleView struct {
	particles []physics.Particle
}

func NewParticleView(particles []physics.Particle) ParticleView {
	return ParticleView{particles: particles}
}

func (v ParticleView) Len() int { return len(v.particles) }

// At returns a copy of particle i.
func (v ParticleView) At(i int) physics.Particle { return v.particles[i] }

// Each calls fn with a copy of every particle in spawn order.
func (v ParticleView) Each(fn func(i int, p physics.Particle)) {
	for i, p := range v.particles {
		fn(i, p)
	}
}

type Observer interface {
	OnStep(f *Frame)
}

// Metric accumulates a scalar over the fixed steps of a run.
type Metric interface {
	Name() string
	Observe(f *Frame)
	// Value is the aggregate over all observed steps.
	Value() float64
	// Last is the value at the most recent step.
	Last() float64
	Reset()
}

// MetricObserver feeds a Metric from a world's step notifications, for hosts
// that track a metric without a Runner.
type MetricObserver struct {
	Metric
}

func (o MetricObserver) OnStep(f *Frame) { o.Observe(f) }

type AttractorSnapshot struct {
	Position  dynamo.Vec2
	Mass      float64
	ForceSign float64
}

// Body rebuilds the attractor the snapshot was taken from.
func (a AttractorSnapshot) Body() physics.Attractor {
	body := physics.NewAttractor(a.Position, a.Mass)
	if a.ForceSign < 0 {
		body.ToggleForceDirection()
	}
	return body
}

// Screen returns the attractor position in pixels.
func (a AttractorSnapshot) Screen(pixelsPerUnit float64) dynamo.Vec2 {
	return a.Position.Scale(pixelsPerUnit)
}

type ParticleSnapshot struct {
	Position dynamo.Vec2
	Velocity dynamo.Vec2
	Color    physics.Color
}

// Screen returns the particle position in pixels.
func (p ParticleSnapshot) Screen(pixelsPerUnit float64) dynamo.Vec2 {
	return p.Position.Scale(pixelsPerUnit)
}

// Speed is the particle's velocity magnitude.
func (p ParticleSnapshot) Speed() float64 {
	return p.Velocity.Mag()
}
