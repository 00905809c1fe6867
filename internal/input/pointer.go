package input

import (
	"sync/atomic"

	"github.com/san-kum/gravswarm/internal/dynamo"
)

// PointerSampler holds the latest pointer position in screen pixels.
// The host stores from its input goroutine and the simulation samples from
// the tick loop; both components are published together so a sample never
// mixes x from one update with y from another.
type PointerSampler struct {
	v atomic.Pointer[dynamo.Vec2]
}

func NewPointerSampler(initial dynamo.Vec2) *PointerSampler {
	p := &PointerSampler{}
	p.v.Store(&initial)
	return p
}

// Store publishes a new pointer position.
func (p *PointerSampler) Store(x, y float64) {
	v := dynamo.V(x, y)
	p.v.Store(&v)
}

// Sample returns the most recently stored position.
func (p *PointerSampler) Sample() dynamo.Vec2 {
	if v := p.v.Load(); v != nil {
		return *v
	}
	return dynamo.Vec2{}
}
