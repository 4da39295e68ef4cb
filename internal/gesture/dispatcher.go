package gesture

import "time"

// DefaultCooldown is how long the dispatcher stays locked after firing.
const DefaultCooldown = 800 * time.Millisecond

// Decision is what the caller should do with a classified frame.
type Decision uint8

const (
	// Ignore means nothing fires: the gesture is unchanged or the
	// dispatcher is still cooling down.
	Ignore Decision = iota
	// Fire means the one-shot action for the gesture should run.
	Fire
	// Continuous means the gesture drives a per-frame effect (Point).
	Continuous
)

func (d Decision) String() string {
	switch d {
	case Fire:
		return "fire"
	case Continuous:
		return "continuous"
	default:
		return "ignore"
	}
}

// Dispatcher edge-triggers actions on gesture changes and holds a cooldown
// lock after each one. The lock is an expiry instant compared with the
// caller's clock, so there is no timer to cancel on reset or teardown.
//
// A Dispatcher is not safe for concurrent use; it belongs to the goroutine
// that owns the scene state.
type Dispatcher struct {
	cooldown    time.Duration
	last        Label
	lockedUntil time.Time
}

// NewDispatcher returns an idle dispatcher. A non-positive cooldown selects
// DefaultCooldown.
func NewDispatcher(cooldown time.Duration) *Dispatcher {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Dispatcher{cooldown: cooldown}
}

// Observe runs one transition for a frame classified as g at now.
func (d *Dispatcher) Observe(g Label, now time.Time) Decision {
	if g == Point {
		d.last = Point
		return Continuous
	}
	if g == d.last || d.Locked(now) {
		return Ignore
	}
	d.last = g
	d.lockedUntil = now.Add(d.cooldown)
	return Fire
}

// Reset handles a frame with no hand: the last gesture returns to None and
// any pending lock is superseded.
func (d *Dispatcher) Reset() {
	d.last = None
	d.lockedUntil = time.Time{}
}

// Last returns the most recently accepted gesture.
func (d *Dispatcher) Last() Label {
	return d.last
}

// Locked reports whether the cooldown is still running at now.
func (d *Dispatcher) Locked(now time.Time) bool {
	return now.Before(d.lockedUntil)
}

// Cooldown returns the configured lock duration.
func (d *Dispatcher) Cooldown() time.Duration {
	return d.cooldown
}
