package experiment

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/san-kum/gravswarm/internal/config"
	"github.com/san-kum/gravswarm/internal/input"
	"github.com/san-kum/gravswarm/internal/sim"
)

// Config describes one headless run: a swarm bundle, a scripted pointer and
// an optional force toggle schedule.
type Config struct {
	Swarm      *config.Config
	Path       string
	PathParams map[string]float64
	// ToggleEvery flips the attractor force every so many simulated seconds;
	// zero never toggles.
	ToggleEvery float64
	Mobile      bool
	FrameDelta  float64
	RecordEvery int
}

type Experiment struct {
	cfg     Config
	runner  *sim.Runner
	pointer *input.PointerSampler
	events  *input.EventQueue
	path    Path
	toggles int
	logger  *log.Logger
}

func New(cfg Config) *Experiment {
	if cfg.Swarm == nil {
		cfg.Swarm = config.DefaultConfig()
	}
	if cfg.Path == "" {
		cfg.Path = "static"
	}
	return &Experiment{
		cfg:    cfg,
		events: input.NewEventQueue(input.DefaultQueueSize),
	}
}

func (e *Experiment) SetLogger(l *log.Logger) { e.logger = l }

// Setup builds the world and wires the scripted pointer and toggle schedule
// into it.
func (e *Experiment) Setup(reg *Registry, metrics []sim.Metric) error {
	path, err := reg.GetPath(e.cfg.Path, e.cfg.PathParams)
	if err != nil {
		return err
	}
	if e.cfg.ToggleEvery < 0 {
		return fmt.Errorf("toggle interval must be non-negative, got %f", e.cfg.ToggleEvery)
	}
	world, err := e.cfg.Swarm.NewWorld(0, 0, e.cfg.Mobile)
	if err != nil {
		return err
	}

	e.path = path
	e.pointer = input.NewPointerSampler(world.LastPointer())
	world.SetPointerSource(e.pointer)
	world.SetEventSource(e.events)

	e.runner = sim.NewRunner(world)
	if e.logger != nil {
		e.runner.SetLogger(e.logger)
	}
	for _, m := range metrics {
		e.runner.AddMetric(m)
	}
	e.runner.AddHook(e.drive)
	return nil
}

// toggleSlack absorbs float drift in accumulated frame times.
const toggleSlack = 1e-9

// drive moves the pointer along the path and queues due toggles before
// each host frame.
func (e *Experiment) drive(_ int, t float64) {
	p := e.path.At(t, e.cfg.Swarm.Width, e.cfg.Swarm.Height)
	e.pointer.Store(p.X, p.Y)

	if e.cfg.ToggleEvery <= 0 {
		return
	}
	due := 0
	for t+toggleSlack >= float64(e.toggles+due+1)*e.cfg.ToggleEvery {
		due++
	}
	e.toggles += due
	// Toggles due within one frame collapse to their net effect so a long
	// frame cannot overflow the event queue and lose parity.
	if due%2 == 1 {
		e.events.Push(input.Event{Kind: input.ToggleForce})
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.runner == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	e.toggles = 0

	return e.runner.Run(ctx, e.RunConfig())
}

// RunConfig is the runner setup Run uses, for callers driving the runner
// directly.
func (e *Experiment) RunConfig() sim.RunConfig {
	cfg := sim.DefaultRunConfig()
	cfg.Duration = e.cfg.Swarm.Duration
	cfg.FrameDelta = e.cfg.FrameDelta
	cfg.RecordEvery = e.cfg.RecordEvery
	return cfg
}

func (e *Experiment) Runner() *sim.Runner { return e.runner }

// Toggles is how many scheduled force toggles have fallen due so far.
func (e *Experiment) Toggles() int { return e.toggles }
