package experiment

import (
	"math"

	"github.com/san-kum/gravswarm/internal/dynamo"
)

// Path scripts the pointer for a headless run. At returns the pointer in
// screen pixels at simulated time t for a viewport of w by h pixels.
type Path interface {
	At(t, w, h float64) dynamo.Vec2
}

// Static holds the pointer at a fixed fraction of the viewport.
type Static struct {
	FX, FY float64
}

func (s Static) At(_, w, h float64) dynamo.Vec2 {
	return dynamo.V(s.FX*w, s.FY*h)
}

// Circle orbits the viewport center. Radius is a fraction of the shorter side.
type Circle struct {
	Radius float64
	Period float64
}

func (c Circle) At(t, w, h float64) dynamo.Vec2 {
	r := c.Radius * math.Min(w, h)
	a := 2 * math.Pi * t / c.Period
	return dynamo.V(w/2+r*math.Cos(a), h/2+r*math.Sin(a))
}

// Lissajous traces x = sin(A*wt + Phase), y = sin(B*wt) scaled to Amplitude
// of the half viewport.
type Lissajous struct {
	A, B      float64
	Phase     float64
	Period    float64
	Amplitude float64
}

func (l Lissajous) At(t, w, h float64) dynamo.Vec2 {
	wt := 2 * math.Pi * t / l.Period
	return dynamo.V(
		w/2+l.Amplitude*w/2*math.Sin(l.A*wt+l.Phase),
		h/2+l.Amplitude*h/2*math.Sin(l.B*wt),
	)
}

// Sweep moves the pointer across the viewport and back along the middle row,
// one full round trip per Period.
type Sweep struct {
	Period float64
}

func (s Sweep) At(t, w, h float64) dynamo.Vec2 {
	phase := math.Mod(t/s.Period, 1)
	if phase < 0 {
		phase++
	}
	x := 2 * phase
	if x > 1 {
		x = 2 - x
	}
	return dynamo.V(x*w, h/2)
}
