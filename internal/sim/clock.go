package sim

import (
	"math"

	"github.com/san-kum/gravswarm/internal/dynamo"
)

// Clock converts variable frame deltas into a whole number of fixed steps.
// Leftover time stays in the accumulator for the next frame, so over many
// frames the step rate converges to 1/FixedDelta regardless of jitter.
type Clock struct {
	fixedDelta  float64
	accumulated float64
	maxFrame    float64
	dropped     float64
	steps       uint64
}

// NewClock creates a clock stepping every fixedDelta seconds.
func NewClock(fixedDelta float64) (*Clock, error) {
	if math.IsNaN(fixedDelta) || math.IsInf(fixedDelta, 0) || fixedDelta <= 0 {
		return nil, &dynamo.ConfigError{Field: "fixed_delta_time", Value: fixedDelta, Reason: "must be positive and finite"}
	}
	return &Clock{fixedDelta: fixedDelta}, nil
}

// Advance adds frameDelta seconds and returns how many fixed steps are due.
// Non-positive and non-finite deltas are ignored.
func (c *Clock) Advance(frameDelta float64) int {
	if !(frameDelta > 0) || math.IsInf(frameDelta, 1) {
		return 0
	}
	if c.maxFrame > 0 && frameDelta > c.maxFrame {
		c.dropped += frameDelta - c.maxFrame
		frameDelta = c.maxFrame
	}

	c.accumulated += frameDelta
	n := 0
	for c.accumulated >= c.fixedDelta {
		c.accumulated -= c.fixedDelta
		n++
	}
	c.steps += uint64(n)
	return n
}

// SetMaxFrameDelta caps how much time one frame may contribute. Anything above
// the cap is discarded and reported by Dropped. Zero disables the cap.
func (c *Clock) SetMaxFrameDelta(d float64) {
	if d < 0 || math.IsNaN(d) {
		d = 0
	}
	c.maxFrame = d
}

func (c *Clock) FixedDelta() float64  { return c.fixedDelta }
func (c *Clock) Accumulated() float64 { return c.accumulated }
func (c *Clock) Steps() uint64        { return c.steps }
func (c *Clock) Dropped() float64     { return c.dropped }

func (c *Clock) Reset() {
	c.accumulated = 0
	c.dropped = 0
	c.steps = 0
}
