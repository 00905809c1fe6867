package sim_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravswarm/internal/dynamo"
	"github.com/san-kum/gravswarm/internal/input"
	"github.com/san-kum/gravswarm/internal/physics"
	"github.com/san-kum/gravswarm/internal/sim"
)

func swarmOptions() sim.Options {
	return sim.Options{
		ParticleCount:  1000,
		SpawnRadius:    1,
		SpawnCenter:    dynamo.V(4, 3),
		AttractorStart: dynamo.V(4, 3),
		AttractorMass:  250,
		FixedDeltaTime: 1.0 / 60,
		G:              1,
		PixelsPerUnit:  100,
		Bounds:         physics.Bounds{Width: 8, Height: 6},
		Params:         physics.DefaultParams(),
		Seed:           1,
	}
}

type distanceRecorder struct {
	distances []float64
	speeds    []float64
}

func (r *distanceRecorder) OnStep(f *sim.Frame) {
	p := f.Particles.At(0)
	r.distances = append(r.distances, p.Position.Dist(f.Attractor.Position))
	r.speeds = append(r.speeds, p.Velocity.Mag())
}

type countingSource struct {
	calls int
	at    dynamo.Vec2
}

func (s *countingSource) Sample() dynamo.Vec2 {
	s.calls++
	return s.at
}

var _ = Describe("World", func() {
	Describe("construction", func() {
		It("spawns every particle inside the spawn disk", func() {
			opts := swarmOptions()
			w, err := sim.NewWorld(opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(w.Len()).To(Equal(1000))

			w.Each(func(i int, p sim.ParticleSnapshot) {
				Expect(p.Position.Dist(opts.SpawnCenter)).To(BeNumerically("<=", opts.SpawnRadius+1e-12))
				Expect(p.Velocity.IsZero()).To(BeTrue())
				Expect(p.Color).To(Equal(opts.Params.InitialColor))
			})
		})

		It("is deterministic for a given seed", func() {
			a, _ := sim.NewWorld(swarmOptions())
			b, _ := sim.NewWorld(swarmOptions())
			Expect(a.Particles(nil)).To(Equal(b.Particles(nil)))

			opts := swarmOptions()
			opts.Seed = 2
			c, _ := sim.NewWorld(opts)
			Expect(c.Particles(nil)).NotTo(Equal(a.Particles(nil)))
		})

		It("starts the attractor at the configured position with an attracting force", func() {
			w, _ := sim.NewWorld(swarmOptions())
			a := w.Attractor()
			Expect(a.Position).To(Equal(dynamo.V(4, 3)))
			Expect(a.Mass).To(Equal(250.0))
			Expect(a.ForceSign).To(Equal(1.0))
			Expect(w.LastPointer()).To(Equal(dynamo.V(400, 300)))
		})

		It("honours InvertForce", func() {
			opts := swarmOptions()
			opts.InvertForce = true
			w, _ := sim.NewWorld(opts)
			Expect(w.Attractor().ForceSign).To(Equal(-1.0))
		})

		DescribeTable("rejects invalid options",
			func(mutate func(*sim.Options), target error) {
				opts := swarmOptions()
				mutate(&opts)
				_, err := sim.NewWorld(opts)
				Expect(errors.Is(err, target)).To(BeTrue(), "got %v", err)
			},
			Entry("no particles", func(o *sim.Options) { o.ParticleCount = 0 }, dynamo.ErrNoParticles),
			Entry("zero fixed delta", func(o *sim.Options) { o.FixedDeltaTime = 0 }, dynamo.ErrParameterBounds),
			Entry("negative G", func(o *sim.Options) { o.G = -1 }, dynamo.ErrParameterBounds),
			Entry("NaN spawn radius", func(o *sim.Options) { o.SpawnRadius = math.NaN() }, dynamo.ErrParameterBounds),
			Entry("zero pixels per unit", func(o *sim.Options) { o.PixelsPerUnit = 0 }, dynamo.ErrParameterBounds),
			Entry("friction above one", func(o *sim.Options) { o.Params.Friction = 1.5 }, dynamo.ErrParameterBounds),
			Entry("non-positive particle mass", func(o *sim.Options) { o.Params.Mass = 0 }, dynamo.ErrParameterBounds),
		)
	})

	Describe("a single particle falling toward a stationary attractor", func() {
		var (
			w   *sim.World
			rec *distanceRecorder
		)

		BeforeEach(func() {
			opts := swarmOptions()
			opts.ParticleCount = 1
			opts.SpawnRadius = 0
			opts.SpawnCenter = dynamo.V(20, 10)
			opts.AttractorStart = dynamo.V(10, 10)
			opts.PixelsPerUnit = 1
			opts.Bounds = physics.Bounds{Width: 100, Height: 100}
			opts.Params.Friction = 1
			opts.Params.Softening = 10

			var err error
			w, err = sim.NewWorld(opts)
			Expect(err).NotTo(HaveOccurred())
			rec = &distanceRecorder{}
			w.AddObserver(rec)
		})

		It("closes the distance on every step and gains speed", func() {
			steps := 0
			for i := 0; i < 60; i++ {
				steps += w.TickWith(1.0/60, dynamo.V(10, 10))
			}
			Expect(steps).To(Equal(60))
			Expect(w.Steps()).To(BeEquivalentTo(60))
			Expect(rec.distances).To(HaveLen(60))

			prev := 10.0
			for i, d := range rec.distances {
				Expect(d).To(BeNumerically("<", prev), "step %d", i+1)
				prev = d
			}
			Expect(rec.speeds[59]).To(BeNumerically(">", 0))
			Expect(w.Time()).To(BeNumerically("~", 1.0, 1e-9))
		})

		It("moves away once the force is toggled", func() {
			w.ToggleAttractorForce()
			w.TickWith(10.0/60, dynamo.V(10, 10))
			Expect(rec.distances).To(HaveLen(10))
			Expect(rec.distances[9]).To(BeNumerically(">", 10))
		})

		It("drops the attractor pull when the pointer sits on the particle", func() {
			w.TickWith(1.0/60, dynamo.V(20, 10))
			Expect(rec.speeds[0]).To(BeZero())
		})
	})

	Describe("ticking", func() {
		It("runs only the steps the clock says are due", func() {
			w, _ := sim.NewWorld(swarmOptions())
			Expect(w.Tick(0.5 / 60)).To(Equal(0))
			Expect(w.Tick(0.5 / 60)).To(Equal(1))
			Expect(w.Tick(3.5 / 60)).To(Equal(3))
			Expect(w.Tick(0)).To(Equal(0))
			Expect(w.Steps()).To(BeEquivalentTo(4))
		})

		It("samples the pointer source once per fixed step", func() {
			w, _ := sim.NewWorld(swarmOptions())
			src := &countingSource{at: dynamo.V(200, 100)}
			w.SetPointerSource(src)

			n := w.Tick(3.0 / 60)
			Expect(src.calls).To(Equal(n))
			Expect(w.Attractor().Position).To(Equal(dynamo.V(2, 1)))
			Expect(w.LastPointer()).To(Equal(dynamo.V(200, 100)))
		})

		It("keeps the last pointer when no source is attached", func() {
			w, _ := sim.NewWorld(swarmOptions())
			w.TickWith(1.0/60, dynamo.V(100, 100))
			w.Tick(1.0 / 60)
			Expect(w.Attractor().Position).To(Equal(dynamo.V(1, 1)))
		})

		It("applies queued toggles before stepping", func() {
			w, _ := sim.NewWorld(swarmOptions())
			q := input.NewEventQueue(input.DefaultQueueSize)
			w.SetEventSource(q)

			q.Push(input.Event{Kind: input.ToggleForce})
			w.Tick(0)
			Expect(w.Attractor().ForceSign).To(Equal(-1.0))

			q.Push(input.Event{Kind: input.ToggleForce})
			q.Push(input.Event{Kind: input.ToggleForce})
			w.Tick(1.0 / 60)
			Expect(w.Attractor().ForceSign).To(Equal(-1.0))
			Expect(q.Len()).To(Equal(0))
		})

		It("keeps the population fixed and inside the bounds", func() {
			w, _ := sim.NewWorld(swarmOptions())
			for i := 0; i < 120; i++ {
				w.TickWith(1.0/60, dynamo.V(700, 100))
			}
			Expect(w.Len()).To(Equal(1000))
			b := w.Bounds()
			w.Each(func(_ int, p sim.ParticleSnapshot) {
				Expect(p.Position.X).To(BeNumerically(">=", 0))
				Expect(p.Position.X).To(BeNumerically("<=", b.Width))
				Expect(p.Position.Y).To(BeNumerically(">=", 0))
				Expect(p.Position.Y).To(BeNumerically("<=", b.Height))
			})
			Expect(w.Validate()).To(Succeed())
		})

		It("gives the same result with a parallel particle update", func() {
			serial, _ := sim.NewWorld(swarmOptions())
			opts := swarmOptions()
			opts.ParallelMin = 64
			parallel, _ := sim.NewWorld(opts)

			for i := 0; i < 30; i++ {
				serial.TickWith(1.0/60, dynamo.V(500, 200))
				parallel.TickWith(1.0/60, dynamo.V(500, 200))
			}
			Expect(parallel.Particles(nil)).To(Equal(serial.Particles(nil)))
		})
	})

	Describe("Resize", func() {
		It("converts the viewport from pixels to world units", func() {
			w, _ := sim.NewWorld(swarmOptions())
			Expect(w.Resize(1200, 900)).To(Succeed())
			Expect(w.Bounds()).To(Equal(physics.Bounds{Width: 12, Height: 9}))
		})

		It("rejects an empty viewport", func() {
			w, _ := sim.NewWorld(swarmOptions())
			err := w.Resize(0, 600)
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
			Expect(w.Bounds()).To(Equal(physics.Bounds{Width: 8, Height: 6}))
		})
	})

	Describe("snapshots", func() {
		It("reports screen coordinates in pixels", func() {
			w, _ := sim.NewWorld(swarmOptions())
			Expect(w.Attractor().Screen(w.PixelsPerUnit())).To(Equal(dynamo.V(400, 300)))

			ps := w.Particles(nil)
			Expect(ps[0].Screen(100)).To(Equal(ps[0].Position.Scale(100)))
			Expect(ps[0].Speed()).To(BeZero())
		})

		It("hands observers copies they cannot write back", func() {
			opts := swarmOptions()
			opts.ParticleCount = 10
			w, _ := sim.NewWorld(opts)
			vandal := &vandalObserver{}
			w.AddObserver(vandal)

			reference, _ := sim.NewWorld(opts)
			for i := 0; i < 2; i++ {
				w.Step(dynamo.V(400, 300))
				reference.Step(dynamo.V(400, 300))
				Expect(w.Particles(nil)).To(Equal(reference.Particles(nil)))
			}
			Expect(vandal.seen).To(Equal(20))
		})
	})
})

// vandalObserver overwrites every particle it is handed.
type vandalObserver struct {
	seen int
}

func (v *vandalObserver) OnStep(f *sim.Frame) {
	f.Particles.Each(func(_ int, p physics.Particle) {
		p.Position = dynamo.V(math.NaN(), math.NaN())
		p.Velocity = dynamo.V(1e9, 1e9)
		v.seen++
	})
	p := f.Particles.At(0)
	p.Position = dynamo.V(-1, -1)
}
