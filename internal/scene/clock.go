package scene

import "time"

// Clock accumulates animation time from render ticks. While paused nothing
// accumulates, and resuming does not catch up on the hidden interval.
type Clock struct {
	last    time.Time
	elapsed time.Duration
	paused  bool
}

// Tick advances the clock to now and returns the delta since the previous
// tick. The first tick after creation or Resume returns zero.
func (c *Clock) Tick(now time.Time) time.Duration {
	if c.paused {
		return 0
	}
	if c.last.IsZero() || now.Before(c.last) {
		c.last = now
		return 0
	}
	delta := now.Sub(c.last)
	c.last = now
	c.elapsed += delta
	return delta
}

// Pause stops accumulation.
func (c *Clock) Pause() {
	c.paused = true
}

// Resume restarts accumulation from now.
func (c *Clock) Resume(now time.Time) {
	c.paused = false
	c.last = now
}

func (c *Clock) Paused() bool {
	return c.paused
}

// Elapsed is the total accumulated animation time.
func (c *Clock) Elapsed() time.Duration {
	return c.elapsed
}
