package physics

import "github.com/san-kum/gravswarm/internal/dynamo"

// Attractor is the single massive body pulling (or pushing) the swarm.
type Attractor struct {
	Position dynamo.Vec2
	Mass     float64
	inverted bool
}

func NewAttractor(pos dynamo.Vec2, mass float64) Attractor {
	return Attractor{Position: pos, Mass: mass}
}

// ForceSign is +1 while attracting and -1 while repelling.
func (a Attractor) ForceSign() float64 {
	if a.inverted {
		return -1
	}
	return 1
}

// UpdateFromExternalPosition moves the attractor to a pointer sample given in
// screen pixels.
func (a *Attractor) UpdateFromExternalPosition(pointer dynamo.Vec2, pixelsPerUnit float64) {
	a.Position = pointer.Div(pixelsPerUnit)
}

// ToggleForceDirection flips between attraction and repulsion.
func (a *Attractor) ToggleForceDirection() {
	a.inverted = !a.inverted
}
