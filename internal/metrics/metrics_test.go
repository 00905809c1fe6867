package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/gravswarm/internal/dynamo"
	"github.com/san-kum/gravswarm/internal/physics"
	"github.com/san-kum/gravswarm/internal/sim"
)

func frame(attractor dynamo.Vec2, particles ...physics.Particle) *sim.Frame {
	return &sim.Frame{
		Attractor: sim.AttractorSnapshot{Position: attractor, Mass: 250, ForceSign: 1},
		Particles: sim.NewParticleView(particles),
		Params:    physics.DefaultParams(),
		G:         1,
	}
}

func moving(x, y, vx, vy float64) physics.Particle {
	return physics.Particle{Position: dynamo.V(x, y), Velocity: dynamo.V(vx, vy)}
}

func TestMeanSpeed(t *testing.T) {
	m := NewMeanSpeed()
	m.Observe(frame(dynamo.V(0, 0), moving(0, 0, 3, 4), moving(0, 0, 0, 0)))
	if m.Last() != 2.5 {
		t.Errorf("last = %v, want 2.5", m.Last())
	}
	m.Observe(frame(dynamo.V(0, 0), moving(0, 0, 1, 0), moving(0, 0, 0, 1)))
	if m.Value() != 1.75 {
		t.Errorf("value = %v, want 1.75", m.Value())
	}

	m.Reset()
	if m.Value() != 0 || m.Last() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestMeanDistance(t *testing.T) {
	m := NewMeanDistance()
	m.Observe(frame(dynamo.V(1, 1), moving(4, 5, 0, 0), moving(1, 1, 0, 0)))
	if m.Value() != 2.5 {
		t.Errorf("value = %v, want 2.5", m.Value())
	}
}

func TestColorSaturation(t *testing.T) {
	m := NewColorSaturation()
	m.Observe(frame(dynamo.V(0, 0),
		moving(0, 0, 5, 0),
		moving(0, 0, 3, 4),
		moving(0, 0, 1, 0),
		moving(0, 0, 0, 0),
	))
	if m.Value() != 0.5 {
		t.Errorf("value = %v, want 0.5", m.Value())
	}
}

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()
	m.Observe(frame(dynamo.V(0, 0), moving(0, 0, 1, 0)))
	// 0.5 * 50 * 1
	if m.Last() != 25 {
		t.Errorf("last = %v, want 25", m.Last())
	}
	m.Observe(frame(dynamo.V(0, 0), moving(0, 0, 0, 0)))
	if m.Value() != 12.5 {
		t.Errorf("value = %v, want 12.5", m.Value())
	}
}

func TestEnergyDriftFrictionless(t *testing.T) {
	opts := sim.Options{
		ParticleCount:  20,
		SpawnRadius:    1,
		SpawnCenter:    dynamo.V(5, 5),
		AttractorStart: dynamo.V(5, 5),
		AttractorMass:  250,
		FixedDeltaTime: 1.0 / 600,
		G:              1,
		PixelsPerUnit:  1,
		Bounds:         physics.Bounds{Width: 1000, Height: 1000},
		Params:         physics.DefaultParams(),
	}
	opts.Params.Friction = 1
	w, err := sim.NewWorld(opts)
	if err != nil {
		t.Fatal(err)
	}

	drift := NewEnergyDrift()
	w.AddObserver(sim.MetricObserver{Metric: drift})
	for i := 0; i < 300; i++ {
		w.Step(dynamo.V(5, 5))
	}

	if drift.Value() > 0.01 {
		t.Errorf("energy drift %v too large for a frictionless swarm", drift.Value())
	}

	drift.Reset()
	if drift.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestEnergyDriftWithFriction(t *testing.T) {
	drift := NewEnergyDrift()
	drift.Observe(frame(dynamo.V(0, 0), moving(3, 0, 0, 2)))
	drift.Observe(frame(dynamo.V(0, 0), moving(3, 0, 0, 1)))
	if drift.Value() <= 0 {
		t.Error("expected drift after losing kinetic energy")
	}
}

func TestContainment(t *testing.T) {
	c := NewContainment(1)
	if c.Value() != 1 {
		t.Errorf("empty containment = %v, want 1", c.Value())
	}
	c.Observe(frame(dynamo.V(0, 0), moving(0.5, 0, 0, 0), moving(0, 1, 0, 0), moving(2, 0, 0, 0), moving(0, -3, 0, 0)))
	if c.Value() != 0.5 {
		t.Errorf("value = %v, want 0.5", c.Value())
	}
}

func TestAttractorTravel(t *testing.T) {
	a := NewAttractorTravel()
	a.Observe(frame(dynamo.V(0, 0)))
	if a.Value() != 0 {
		t.Errorf("value after one sample = %v", a.Value())
	}
	a.Observe(frame(dynamo.V(3, 4)))
	a.Observe(frame(dynamo.V(3, 4)))
	if math.Abs(a.Value()-2.5) > 1e-12 {
		t.Errorf("value = %v, want 2.5", a.Value())
	}
	if a.Last() != 0 {
		t.Errorf("last = %v, want 0", a.Last())
	}
}

func TestMomentum(t *testing.T) {
	m := NewMomentum()
	mass := physics.DefaultParams().Mass

	// opposite velocities cancel
	m.Observe(frame(dynamo.V(0, 0), moving(0, 0, 1, 0), moving(1, 1, -1, 0)))
	if m.Last() != 0 {
		t.Errorf("last = %v, want 0", m.Last())
	}
	m.Observe(frame(dynamo.V(0, 0), moving(0, 0, 3, 0), moving(1, 1, 0, 4)))
	if math.Abs(m.Last()-5*mass) > 1e-9 {
		t.Errorf("last = %v, want %v", m.Last(), 5*mass)
	}
	if math.Abs(m.Value()-2.5*mass) > 1e-9 {
		t.Errorf("value = %v, want %v", m.Value(), 2.5*mass)
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range Names() {
		m, err := New(name)
		if err != nil {
			t.Fatal(err)
		}
		if m.Name() != name {
			t.Errorf("metric %q reports name %q", name, m.Name())
		}
	}

	if _, err := New("nope"); err == nil {
		t.Error("expected error for unknown metric")
	}

	ms, err := Parse("")
	if err != nil || len(ms) != len(DefaultNames) {
		t.Errorf("Parse(\"\") = %d metrics, %v", len(ms), err)
	}
	ms, err = Parse("mean_speed, containment")
	if err != nil || len(ms) != 2 {
		t.Errorf("Parse list = %d metrics, %v", len(ms), err)
	}
	if _, err := Parse("mean_speed,bogus"); err == nil {
		t.Error("expected error for unknown metric in list")
	}
}
