package metrics

import (
	"github.com/san-kum/gravswarm/internal/physics"
	"github.com/san-kum/gravswarm/internal/sim"
)

// mean is the shared bookkeeping for metrics that average a per-step value.
type mean struct {
	name    string
	last    float64
	total   float64
	samples int
}

func (m *mean) Name() string  { return m.name }
func (m *mean) Last() float64 { return m.last }

func (m *mean) add(v float64) {
	m.last = v
	m.total += v
	m.samples++
}

func (m *mean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *mean) Reset() {
	m.last = 0
	m.total = 0
	m.samples = 0
}

// MeanSpeed is the average particle speed.
type MeanSpeed struct{ mean }

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{mean{name: "mean_speed"}}
}

func (m *MeanSpeed) Observe(f *sim.Frame) {
	if f.Particles.Len() == 0 {
		return
	}
	sum := 0.0
	f.Particles.Each(func(_ int, p physics.Particle) {
		sum += p.Velocity.Mag()
	})
	m.add(sum / float64(f.Particles.Len()))
}

// MeanDistance is the average particle distance to the attractor.
type MeanDistance struct{ mean }

func NewMeanDistance() *MeanDistance {
	return &MeanDistance{mean{name: "mean_distance"}}
}

func (m *MeanDistance) Observe(f *sim.Frame) {
	if f.Particles.Len() == 0 {
		return
	}
	sum := 0.0
	f.Particles.Each(func(_ int, p physics.Particle) {
		sum += p.Position.Dist(f.Attractor.Position)
	})
	m.add(sum / float64(f.Particles.Len()))
}

// ColorSaturation is the fraction of particles fast enough to have reached
// the final gradient color.
type ColorSaturation struct{ mean }

func NewColorSaturation() *ColorSaturation {
	return &ColorSaturation{mean{name: "color_saturation"}}
}

func (m *ColorSaturation) Observe(f *sim.Frame) {
	if f.Particles.Len() == 0 {
		return
	}
	limit := f.Params.MaxColorVelocity * f.Params.MaxColorVelocity
	saturated := 0
	f.Particles.Each(func(_ int, p physics.Particle) {
		if p.Velocity.MagSq() >= limit {
			saturated++
		}
	})
	m.add(float64(saturated) / float64(f.Particles.Len()))
}
