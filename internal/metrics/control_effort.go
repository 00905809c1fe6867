package metrics

import (
	"github.com/san-kum/gravswarm/internal/dynamo"
	"github.com/san-kum/gravswarm/internal/sim"
)

// AttractorTravel is the mean distance the attractor moves per step, i.e.
// how hard the pointer is driving the swarm.
type AttractorTravel struct {
	name    string
	prev    dynamo.Vec2
	last    float64
	sum     float64
	samples int
}

func NewAttractorTravel() *AttractorTravel {
	return &AttractorTravel{
		name: "attractor_travel",
	}
}

func (a *AttractorTravel) Name() string {
	return a.name
}

func (a *AttractorTravel) Observe(f *sim.Frame) {
	if a.samples > 0 {
		a.last = f.Attractor.Position.Dist(a.prev)
		a.sum += a.last
	}
	a.prev = f.Attractor.Position
	a.samples++
}

func (a *AttractorTravel) Value() float64 {
	if a.samples < 2 {
		return 0
	}
	return a.sum / float64(a.samples-1)
}

func (a *AttractorTravel) Last() float64 { return a.last }

func (a *AttractorTravel) Reset() {
	a.prev = dynamo.Vec2{}
	a.last = 0
	a.sum = 0
	a.samples = 0
}
