package runner

import "github.com/vovakirdan/tui-runner/internal/core"

// Clock turns frame timestamps into bounded simulation steps.
type Clock struct {
	maxStep float64 // seconds
	prev    float64 // milliseconds
	hasPrev bool
}

// NewClock creates a clock that never yields a step longer than maxStep seconds.
func NewClock(maxStep float64) Clock {
	return Clock{maxStep: maxStep}
}

// Advance returns the step in seconds between the previous timestamp and now
// (both in milliseconds from a monotonic source).
// The first call after construction or Reset returns 0, and so does any call
// whose previous timestamp was 0. Steps are capped at maxStep, and a
// timestamp that goes backwards yields 0.
func (c *Clock) Advance(now float64) float64 {
	if !c.hasPrev || c.prev == 0 {
		c.prev = now
		c.hasPrev = true
		return 0
	}
	dt := (now - c.prev) / 1000
	c.prev = now
	return core.ClampF(dt, 0, c.maxStep)
}

// Reset forgets the previous timestamp so the next step is zero-length.
func (c *Clock) Reset() {
	c.prev = 0
	c.hasPrev = false
}
