package idgen

import (
	"go.uber.org/atomic"
)

// MaxID is the largest request id WAMP peers accept (2^53, the largest
// integer representable exactly in an IEEE double).
const MaxID uint64 = 1 << 53

// Generator hands out request ids.
type Generator interface {
	Increment() uint64
}

// Counter is a lock-free monotonic id source starting at zero; the first
// Increment returns 1. After MaxID it continues at 1.
type Counter struct {
	n atomic.Uint64
}

// New returns a fresh counter.
func New() *Counter {
	return &Counter{}
}

// Increment advances the counter and returns the new value. Concurrent
// callers always receive distinct values.
func (c *Counter) Increment() uint64 {
	for {
		cur := c.n.Load()
		next := cur + 1
		if next > MaxID {
			next = 1
		}
		if c.n.CAS(cur, next) {
			return next
		}
	}
}

// Current returns the last value handed out, 0 if none.
func (c *Counter) Current() uint64 {
	return c.n.Load()
}

// Reset puts the counter back to zero.
func (c *Counter) Reset() {
	c.n.Store(0)
}

// Default is the process-wide counter used by message constructors unless
// another Generator is injected.
var Default = New()

// Increment advances Default.
func Increment() uint64 {
	return Default.Increment()
}
