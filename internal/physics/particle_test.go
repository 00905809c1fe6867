package physics

import (
	"math"
	"testing"

	"github.com/san-kum/gravswarm/internal/dynamo"
)

func scenarioParams() Params {
	p := DefaultParams()
	p.Mass = 50
	p.Softening = 10
	p.Friction = 1
	return p
}

func TestIntegrate_ApproachesAttractorFromRest(t *testing.T) {
	tests := []struct {
		name     string
		friction float64
		start    dynamo.Vec2
	}{
		{"frictionless +x", 1, dynamo.V(10, 0)},
		{"damped +y", 0.99, dynamo.V(0, 10)},
		{"diagonal", 1, dynamo.V(-6, 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := scenarioParams()
			params.Friction = tt.friction
			att := NewAttractor(dynamo.V(0, 0), 250)
			p := NewParticle(tt.start, params)

			prev := p.Position.Dist(att.Position)
			for i := 0; i < 60; i++ {
				p.Integrate(att, 1.0/60, 1, params)
				d := p.Position.Dist(att.Position)
				if d >= prev {
					t.Fatalf("step %d: distance %v did not decrease from %v", i, d, prev)
				}
				prev = d
			}
			if p.Velocity.Mag() <= 0 {
				t.Error("expected non-zero velocity after one simulated second")
			}
		})
	}
}

func TestIntegrate_InvertedForceRepels(t *testing.T) {
	params := scenarioParams()
	att := NewAttractor(dynamo.V(0, 0), 250)
	att.ToggleForceDirection()
	p := NewParticle(dynamo.V(10, 0), params)

	p.Integrate(att, 1.0/60, 1, params)
	if p.Position.X <= 10 {
		t.Errorf("expected particle pushed away, got x=%v", p.Position.X)
	}
}

func TestIntegrate_SingleStepFormula(t *testing.T) {
	params := scenarioParams()
	params.Friction = 0.5
	att := NewAttractor(dynamo.V(0, 0), 250)
	p := NewParticle(dynamo.V(10, 0), params)
	p.Velocity = dynamo.V(0, 1)

	dt := 0.1
	a := 250.0 / (100 + 10) // G*M*m/(d^2+s)/m
	p.Integrate(att, dt, 1, params)

	wantX := 10 - a*dt*dt/2
	wantY := 1 * dt
	if math.Abs(p.Position.X-wantX) > 1e-12 || math.Abs(p.Position.Y-wantY) > 1e-12 {
		t.Errorf("position = %v, want (%v, %v)", p.Position, wantX, wantY)
	}

	wantVX := -a * dt * 0.5
	wantVY := 1 * 0.5
	if math.Abs(p.Velocity.X-wantVX) > 1e-12 || math.Abs(p.Velocity.Y-wantVY) > 1e-12 {
		t.Errorf("velocity = %v, want (%v, %v)", p.Velocity, wantVX, wantVY)
	}
}

func TestIntegrate_CoincidentWithAttractor(t *testing.T) {
	for _, softening := range []float64{0, 10} {
		params := scenarioParams()
		params.Softening = softening
		att := NewAttractor(dynamo.V(3, 3), 250)
		p := NewParticle(dynamo.V(3, 3), params)

		p.Integrate(att, 1.0/60, 1, params)
		if !p.Position.IsValid() || !p.Velocity.IsValid() {
			t.Fatalf("softening %v: non-finite state %v %v", softening, p.Position, p.Velocity)
		}
		if p.Position != dynamo.V(3, 3) {
			t.Errorf("softening %v: particle moved to %v", softening, p.Position)
		}
	}
}

func TestAcceleration_UnsoftenedNearMiss(t *testing.T) {
	params := scenarioParams()
	params.Softening = 0
	att := NewAttractor(dynamo.V(0, 0), 250)

	tests := []struct {
		name string
		x    float64
	}{
		{"d squared underflows to zero", 1e-170},
		{"d squared subnormal", 1e-160},
		{"force overflows", 1e-154},
		{"tiny but representable", 1e-120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if acc := Acceleration(att, dynamo.V(tt.x, 0), 1, params); !acc.IsValid() {
				t.Fatalf("acceleration = %v", acc)
			}
			p := NewParticle(dynamo.V(tt.x, 0), params)
			p.Integrate(att, 1.0/60, 1, params)
			if !p.Position.IsValid() || !p.Velocity.IsValid() {
				t.Errorf("non-finite state %v %v", p.Position, p.Velocity)
			}
		})
	}
}

func TestIntegrate_Deterministic(t *testing.T) {
	params := DefaultParams()
	att := NewAttractor(dynamo.V(1, 2), 250)
	a := NewParticle(dynamo.V(4, -1), params)
	b := a

	for i := 0; i < 100; i++ {
		a.Integrate(att, 1.0/60, 1, params)
		b.Integrate(att, 1.0/60, 1, params)
	}
	if a != b {
		t.Errorf("identical inputs diverged: %+v vs %+v", a, b)
	}
}

func TestIntegrate_Recolors(t *testing.T) {
	params := DefaultParams()
	att := NewAttractor(dynamo.V(0, 0), 250)
	p := NewParticle(dynamo.V(0, 0), params)

	p.Integrate(att, 1.0/60, 1, params)
	if p.Color != params.InitialColor {
		t.Errorf("at rest color = %+v, want %+v", p.Color, params.InitialColor)
	}

	p.Velocity = dynamo.V(100, 0)
	p.Integrate(att, 1.0/60, 1, params)
	if p.Color != params.FinalColor {
		t.Errorf("fast particle color = %+v, want %+v", p.Color, params.FinalColor)
	}
}

func TestWrapToBounds(t *testing.T) {
	const w, h = 8.0, 6.0
	tests := []struct {
		name string
		in   dynamo.Vec2
		want dynamo.Vec2
	}{
		{"left edge", dynamo.V(-0.01, 3), dynamo.V(w, 3)},
		{"right edge", dynamo.V(w+0.01, 3), dynamo.V(0, 3)},
		{"top edge", dynamo.V(4, -0.01), dynamo.V(4, h)},
		{"bottom edge", dynamo.V(4, h+0.01), dynamo.V(4, 0)},
		{"corner", dynamo.V(-1, h+1), dynamo.V(w, 0)},
		{"inside", dynamo.V(4, 3), dynamo.V(4, 3)},
		{"on boundary", dynamo.V(w, 0), dynamo.V(w, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Particle{Position: tt.in, Velocity: dynamo.V(1, -1)}
			p.WrapToBounds(w, h)
			if p.Position != tt.want {
				t.Errorf("WrapToBounds(%v) = %v, want %v", tt.in, p.Position, tt.want)
			}
			if p.Velocity != dynamo.V(1, -1) {
				t.Error("wrap must not touch velocity")
			}
		})
	}
}
