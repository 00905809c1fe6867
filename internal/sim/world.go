package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/gravswarm/internal/dynamo"
	"github.com/san-kum/gravswarm/internal/input"
	"github.com/san-kum/gravswarm/internal/physics"
)

// Options is the immutable setup of a World.
type Options struct {
	ParticleCount int
	SpawnRadius   float64
	// SpawnCenter and AttractorStart are in world units.
	SpawnCenter    dynamo.Vec2
	AttractorStart dynamo.Vec2
	AttractorMass  float64
	InvertForce    bool

	FixedDeltaTime float64
	G              float64
	PixelsPerUnit  float64
	Bounds         physics.Bounds
	Params         physics.Params

	Seed int64
	// ParallelMin is the smallest chunk handed to a worker when updating
	// particles; 0 keeps the update on the calling goroutine.
	ParallelMin int
}

func (o Options) Validate() error {
	if o.ParticleCount < 1 {
		return fmt.Errorf("%w (got %d)", dynamo.ErrNoParticles, o.ParticleCount)
	}
	checks := []struct {
		field string
		value float64
		ok    bool
		why   string
	}{
		{"spawn_radius", o.SpawnRadius, o.SpawnRadius >= 0, "must be non-negative"},
		{"attractor_mass", o.AttractorMass, o.AttractorMass > 0, "must be positive"},
		{"fixed_delta_time", o.FixedDeltaTime, o.FixedDeltaTime > 0, "must be positive"},
		{"gravitational_constant", o.G, o.G > 0, "must be positive"},
		{"pixels_per_unit", o.PixelsPerUnit, o.PixelsPerUnit > 0, "must be positive"},
		{"width", o.Bounds.Width, o.Bounds.Width > 0, "must be positive"},
		{"height", o.Bounds.Height, o.Bounds.Height > 0, "must be positive"},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return &dynamo.ConfigError{Field: c.field, Value: c.value, Reason: "must be finite"}
		}
		if !c.ok {
			return &dynamo.ConfigError{Field: c.field, Value: c.value, Reason: c.why}
		}
	}
	if !o.SpawnCenter.IsValid() || !o.AttractorStart.IsValid() {
		return &dynamo.ConfigError{Field: "spawn_center", Value: math.NaN(), Reason: "must be finite"}
	}
	return o.Params.Validate()
}

// World owns the attractor and a fixed population of particles.
// It is not safe for concurrent use; the host drives it from one goroutine.
type World struct {
	opts      Options
	bounds    physics.Bounds
	attractor physics.Attractor
	particles []physics.Particle
	clock     *Clock

	pointer     PointerSource
	events      EventSource
	lastPointer dynamo.Vec2

	observers []Observer
	frame     Frame

	steps uint64
	time  float64
}

// NewWorld validates opts and spawns the swarm.
func NewWorld(opts Options) (*World, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	clock, err := NewClock(opts.FixedDeltaTime)
	if err != nil {
		return nil, err
	}

	w := &World{
		opts:        opts,
		bounds:      opts.Bounds,
		attractor:   physics.NewAttractor(opts.AttractorStart, opts.AttractorMass),
		particles:   make([]physics.Particle, opts.ParticleCount),
		clock:       clock,
		lastPointer: opts.AttractorStart.Scale(opts.PixelsPerUnit),
	}
	if opts.InvertForce {
		w.attractor.ToggleForceDirection()
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	for i := range w.particles {
		w.particles[i] = physics.NewParticle(SpawnPoint(rng, opts.SpawnCenter, opts.SpawnRadius), opts.Params)
	}
	return w, nil
}

// SpawnPoint picks a point in the disk of radius r around center from two
// independent uniform angles. The radial distribution is r*|sin(a2)|, which
// concentrates points toward the rim rather than covering the area uniformly.
func SpawnPoint(rng *rand.Rand, center dynamo.Vec2, r float64) dynamo.Vec2 {
	a1 := rng.Float64() * 2 * math.Pi
	a2 := rng.Float64() * 2 * math.Pi
	return center.Add(dynamo.V(
		r*math.Cos(a1)*math.Sin(a2),
		r*math.Sin(a1)*math.Sin(a2),
	))
}

// SetPointerSource makes Tick sample src once per fixed step.
func (w *World) SetPointerSource(src PointerSource) { w.pointer = src }

// SetEventSource makes Tick apply src's events before stepping.
func (w *World) SetEventSource(src EventSource) { w.events = src }

// AddObserver registers o to be called after every fixed step. Observers read
// particles through the frame's ParticleView and cannot modify the world.
func (w *World) AddObserver(o Observer) { w.observers = append(w.observers, o) }

// Step runs one fixed update: the attractor follows pointer (pixels), then
// every particle integrates against that attractor and wraps to the bounds.
func (w *World) Step(pointer dynamo.Vec2) {
	w.lastPointer = pointer
	w.attractor.UpdateFromExternalPosition(pointer, w.opts.PixelsPerUnit)

	target := w.attractor
	dt, g, params, bounds := w.opts.FixedDeltaTime, w.opts.G, w.opts.Params, w.bounds
	update := func(start, end int) {
		for i := start; i < end; i++ {
			p := &w.particles[i]
			p.Integrate(target, dt, g, params)
			p.WrapToBounds(bounds.Width, bounds.Height)
		}
	}
	if w.opts.ParallelMin > 0 {
		dynamo.ParallelFor(len(w.particles), w.opts.ParallelMin, update)
	} else {
		update(0, len(w.particles))
	}

	w.steps++
	w.time += dt
	w.notify()
}

// Tick consumes one host frame of frameDelta seconds. Pending events are
// applied first, then the clock's due steps run back to back, each sampling
// the pointer source afresh. It returns the number of steps executed.
func (w *World) Tick(frameDelta float64) int {
	w.applyEvents()
	n := w.clock.Advance(frameDelta)
	for i := 0; i < n; i++ {
		w.Step(w.samplePointer())
	}
	return n
}

// TickWith is Tick with a pointer sampled once for the whole frame.
func (w *World) TickWith(frameDelta float64, pointer dynamo.Vec2) int {
	w.applyEvents()
	n := w.clock.Advance(frameDelta)
	for i := 0; i < n; i++ {
		w.Step(pointer)
	}
	return n
}

func (w *World) samplePointer() dynamo.Vec2 {
	if w.pointer == nil {
		return w.lastPointer
	}
	return w.pointer.Sample()
}

func (w *World) applyEvents() {
	if w.events == nil {
		return
	}
	for _, e := range w.events.Drain() {
		switch e.Kind {
		case input.ToggleForce:
			w.ToggleAttractorForce()
		}
	}
}

func (w *World) ToggleAttractorForce() {
	w.attractor.ToggleForceDirection()
}

// Resize updates the world bounds from a viewport given in pixels. Particles
// outside the new bounds wrap on their next step.
func (w *World) Resize(widthPx, heightPx float64) error {
	b := physics.Bounds{Width: widthPx / w.opts.PixelsPerUnit, Height: heightPx / w.opts.PixelsPerUnit}
	if !(b.Width > 0) || !(b.Height > 0) || math.IsInf(b.Width, 0) || math.IsInf(b.Height, 0) {
		return &dynamo.ConfigError{Field: "viewport", Value: widthPx * heightPx, Reason: "must be positive and finite"}
	}
	w.bounds = b
	return nil
}

func (w *World) notify() {
	if len(w.observers) == 0 {
		return
	}
	w.frame = Frame{
		Step:      w.steps,
		Time:      w.time,
		Attractor: w.Attractor(),
		Particles: NewParticleView(w.particles),
		Params:    w.opts.Params,
		G:         w.opts.G,
	}
	for _, o := range w.observers {
		o.OnStep(&w.frame)
	}
}

func (w *World) Attractor() AttractorSnapshot {
	return AttractorSnapshot{
		Position:  w.attractor.Position,
		Mass:      w.attractor.Mass,
		ForceSign: w.attractor.ForceSign(),
	}
}

// Particles appends a copy of every particle to dst and returns it.
func (w *World) Particles(dst []ParticleSnapshot) []ParticleSnapshot {
	for _, p := range w.particles {
		dst = append(dst, ParticleSnapshot{Position: p.Position, Velocity: p.Velocity, Color: p.Color})
	}
	return dst
}

// Each calls fn for every particle in spawn order.
func (w *World) Each(fn func(i int, p ParticleSnapshot)) {
	for i, p := range w.particles {
		fn(i, ParticleSnapshot{Position: p.Position, Velocity: p.Velocity, Color: p.Color})
	}
}

// Validate reports the first particle or attractor value that is not finite.
func (w *World) Validate() error {
	if !w.attractor.Position.IsValid() {
		return &dynamo.SimError{Step: w.steps, Time: w.time, Message: "attractor", Wrapped: dynamo.ErrInvalidState}
	}
	for i := range w.particles {
		p := &w.particles[i]
		if !p.Position.IsValid() || !p.Velocity.IsValid() {
			return &dynamo.SimError{Step: w.steps, Time: w.time, Message: fmt.Sprintf("particle %d", i), Wrapped: dynamo.ErrInvalidState}
		}
	}
	return nil
}

func (w *World) Len() int                 { return len(w.particles) }
func (w *World) Clock() *Clock            { return w.clock }
func (w *World) Steps() uint64            { return w.steps }
func (w *World) Time() float64            { return w.time }
func (w *World) Bounds() physics.Bounds   { return w.bounds }
func (w *World) Options() Options         { return w.opts }
func (w *World) PixelsPerUnit() float64   { return w.opts.PixelsPerUnit }
func (w *World) LastPointer() dynamo.Vec2 { return w.lastPointer }
