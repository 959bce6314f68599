package testutil

import (
	"sync"
	"time"
)

// DemoTime is the reference "now" used by fixtures built on the demo dataset.
// It is the day after the last seeded cash submission.
var DemoTime = time.Date(2026, 2, 26, 10, 0, 0, 0, time.UTC)

// DeterministicClock provides a thread-safe wall clock for tests.
//
// Each call to Now returns the current instant and then advances it by step,
// so audit timestamps written in sequence are strictly increasing and
// identical across runs. A zero step freezes the clock.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu    sync.Mutex
	start time.Time
	now   time.Time
	step  time.Duration
}

// NewDeterministicClock creates a clock starting at start.
func NewDeterministicClock(start time.Time, step time.Duration) *DeterministicClock {
	return &DeterministicClock{start: start, now: start, step: step}
}

// NewFixedClock creates a clock frozen at DemoTime.
func NewFixedClock() *DeterministicClock {
	return NewDeterministicClock(DemoTime, 0)
}

// Now returns the current instant and advances the clock by step.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Peek returns the current instant without advancing.
func (c *DeterministicClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *DeterministicClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Reset rewinds the clock to its start instant.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.start
}
