package metrics

import (
	"github.com/san-kum/gravswarm/internal/physics"
	"github.com/san-kum/gravswarm/internal/sim"
)

// Containment is the fraction of particles within radius of the attractor,
// averaged over the run. A bound swarm stays near 1; a repelled one decays
// toward the share of the world the radius covers.
type Containment struct {
	name    string
	radius  float64
	last    float64
	total   float64
	samples int
}

func NewContainment(radius float64) *Containment {
	return &Containment{
		name:   "containment",
		radius: radius,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(f *sim.Frame) {
	if f.Particles.Len() == 0 {
		return
	}
	r2 := c.radius * c.radius
	inside := 0
	f.Particles.Each(func(_ int, p physics.Particle) {
		if p.Position.Sub(f.Attractor.Position).MagSq() <= r2 {
			inside++
		}
	})
	c.last = float64(inside) / float64(f.Particles.Len())
	c.total += c.last
	c.samples++
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return c.total / float64(c.samples)
}

func (c *Containment) Last() float64 { return c.last }

func (c *Containment) Reset() {
	c.last = 0
	c.total = 0
	c.samples = 0
}
