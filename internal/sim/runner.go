package sim

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/san-kum/gravswarm/internal/dynamo"
)

// RunConfig controls a headless run.
type RunConfig struct {
	// Duration is simulated seconds of host frames to feed.
	Duration float64
	// FrameDelta is the host frame length handed to Tick; zero means one
	// fixed step per frame.
	FrameDelta    float64
	ValidateState bool
	// RecordEvery samples the series every N steps; zero records every step.
	RecordEvery int
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		Duration:      10.0,
		ValidateState: true,
	}
}

// FrameHook runs before each host frame, e.g. to move a scripted pointer.
type FrameHook func(frame int, t float64)

type Result struct {
	Frames     int
	StepsTaken int
	Times      []float64
	Attractor  []dynamo.Vec2
	ForceSigns []float64
	Series     map[string][]float64
	Metrics    map[string]float64
	Final      []ParticleSnapshot
	Errors     []error
}

// Err returns the first error that stopped the run, or nil if it completed.
func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0]
}

// Runner drives a World without a renderer, feeding it synthetic frames.
type Runner struct {
	world   *World
	metrics []Metric
	hooks   []FrameHook
	logger  *log.Logger

	every  int
	result *Result
}

func NewRunner(w *World) *Runner {
	r := &Runner{
		world:  w,
		logger: log.New(io.Discard),
	}
	w.AddObserver(r)
	return r
}

func (r *Runner) AddMetric(m Metric)      { r.metrics = append(r.metrics, m) }
func (r *Runner) AddHook(h FrameHook)     { r.hooks = append(r.hooks, h) }
func (r *Runner) SetLogger(l *log.Logger) { r.logger = l }
func (r *Runner) World() *World           { return r.world }

func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := r.validateConfig(cfg); err != nil {
		return nil, err
	}

	frameDelta := cfg.FrameDelta
	if frameDelta == 0 {
		frameDelta = r.world.Clock().FixedDelta()
	}
	frames := int(math.Ceil(cfg.Duration/frameDelta - 1e-9))
	expected := int(cfg.Duration/r.world.Clock().FixedDelta()) + 1

	r.every = cfg.RecordEvery
	if r.every <= 0 {
		r.every = 1
	}
	r.result = &Result{
		Times:      make([]float64, 0, expected/r.every+1),
		Attractor:  make([]dynamo.Vec2, 0, expected/r.every+1),
		ForceSigns: make([]float64, 0, expected/r.every+1),
		Series:     make(map[string][]float64),
		Metrics:    make(map[string]float64),
		Errors:     make([]error, 0),
	}
	defer func() { r.result = nil }()
	result := r.result

	for _, m := range r.metrics {
		m.Reset()
	}

	r.logger.Debug("run started", "particles", r.world.Len(), "frames", frames, "frame_delta", frameDelta)

	for f := 0; f < frames; f++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		for _, h := range r.hooks {
			h(f, r.world.Time())
		}

		result.StepsTaken += r.world.Tick(frameDelta)
		result.Frames++

		if cfg.ValidateState {
			if err := r.world.Validate(); err != nil {
				result.Errors = append(result.Errors, err)
				r.logger.Warn("state diverged, stopping run", "err", err)
				break
			}
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Final = r.world.Particles(make([]ParticleSnapshot, 0, r.world.Len()))

	r.logger.Debug("run finished", "steps", result.StepsTaken, "sim_time", r.world.Time())
	return result, nil
}

// OnStep feeds metrics and records the sampled series while a run is active.
func (r *Runner) OnStep(f *Frame) {
	if r.result == nil {
		return
	}
	for _, m := range r.metrics {
		m.Observe(f)
	}
	if f.Step%uint64(r.every) != 0 {
		return
	}
	r.result.Times = append(r.result.Times, f.Time)
	r.result.Attractor = append(r.result.Attractor, f.Attractor.Position)
	r.result.ForceSigns = append(r.result.ForceSigns, f.Attractor.ForceSign)
	for _, m := range r.metrics {
		r.result.Series[m.Name()] = append(r.result.Series[m.Name()], m.Last())
	}
}

func (r *Runner) validateConfig(cfg RunConfig) error {
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.FrameDelta < 0 || math.IsNaN(cfg.FrameDelta) || math.IsInf(cfg.FrameDelta, 0) {
		return fmt.Errorf("frame delta must be non-negative, got %f", cfg.FrameDelta)
	}
	if cfg.RecordEvery < 0 {
		return fmt.Errorf("record interval must be non-negative, got %d", cfg.RecordEvery)
	}
	return nil
}
