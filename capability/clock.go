package capability

import (
	"math"
	"sync"
)

// Clock is a Lamport clock over Ticks.
//
// The validator is driven by explicit `now` values; the Clock is how a
// host derives them. It saturates at the maximum tick instead of
// wrapping, so time never runs backwards.
type Clock struct {
	mu sync.Mutex
	lc Tick
}

// NewClock returns a clock starting at the given tick.
func NewClock(start Tick) *Clock {
	return &Clock{lc: start}
}

// Now returns the current tick without advancing.
func (c *Clock) Now() Tick {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lc
}

// Witness merges an externally observed tick and advances: the clock
// moves to max(sample, current+1), saturating at the maximum tick.
func (c *Clock) Witness(sample Tick) Tick {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.lc
	if next < math.MaxUint64 {
		next++
	}
	if sample > next {
		next = sample
	}
	c.lc = next
	return next
}

// Tick advances the clock by one and returns the new tick.
func (c *Clock) Tick() Tick {
	return c.Witness(0)
}
