package metrics

import (
	"math"

	"github.com/san-kum/gravswarm/internal/dynamo"
	"github.com/san-kum/gravswarm/internal/physics"
	"github.com/san-kum/gravswarm/internal/sim"
)

func kineticEnergy(f *sim.Frame) float64 {
	ke := 0.0
	f.Particles.Each(func(_ int, p physics.Particle) {
		ke += p.KineticEnergy(f.Params)
	})
	return ke
}

// KineticEnergy averages the swarm's total kinetic energy over the run.
type KineticEnergy struct {
	name    string
	last    float64
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f *sim.Frame) {
	e.last = kineticEnergy(f)
	e.total += e.last
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *KineticEnergy) Last() float64 { return e.last }

func (e *KineticEnergy) Reset() {
	e.last = 0
	e.total = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative change of total energy (kinetic
// plus potential in the attractor's field) from the first observed step.
// It stays near zero only for a frictionless swarm under a still attractor.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	last          float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f *sim.Frame) {
	body := f.Attractor.Body()
	energy := kineticEnergy(f)
	f.Particles.Each(func(_ int, p physics.Particle) {
		energy += physics.PotentialEnergy(body, p.Position, f.G, f.Params)
	})

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		e.last = math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, e.last)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }
func (e *EnergyDrift) Last() float64  { return e.last }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.last = 0
	e.maxDrift = 0
	e.samples = 0
}

// Momentum is the magnitude of the swarm's total linear momentum, averaged
// over the run. Friction drains it and the attractor pulls it toward zero.
type Momentum struct{ mean }

func NewMomentum() *Momentum {
	return &Momentum{mean{name: "momentum"}}
}

func (m *Momentum) Observe(f *sim.Frame) {
	var total dynamo.Vec2
	f.Particles.Each(func(_ int, p physics.Particle) {
		total = total.Add(p.Momentum(f.Params))
	})
	m.add(total.Mag())
}
