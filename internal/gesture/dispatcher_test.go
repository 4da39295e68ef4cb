package gesture

import (
	"testing"
	"time"
)

var t0 = time.Date(2025, 12, 24, 20, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

type step struct {
	gesture Label
	noHand  bool
	ms      int
	want    Decision
}

func run(t *testing.T, d *Dispatcher, steps []step) []Label {
	t.Helper()
	var fired []Label
	for i, s := range steps {
		if s.noHand {
			d.Reset()
			continue
		}
		got := d.Observe(s.gesture, at(s.ms))
		if got != s.want {
			t.Errorf("step %d (%v @%dms): decision = %v, want %v", i, s.gesture, s.ms, got, s.want)
		}
		if got == Fire {
			fired = append(fired, s.gesture)
		}
	}
	return fired
}

func TestDispatcher_InitialState(t *testing.T) {
	d := NewDispatcher(0)

	if d.Last() != None {
		t.Errorf("Last() = %v, want None", d.Last())
	}
	if d.Locked(t0) {
		t.Error("new dispatcher should not be locked")
	}
	if d.Cooldown() != DefaultCooldown {
		t.Errorf("Cooldown() = %v, want %v", d.Cooldown(), DefaultCooldown)
	}
}

func TestDispatcher_SameGestureFiresOnce(t *testing.T) {
	d := NewDispatcher(DefaultCooldown)

	fired := run(t, d, []step{
		{gesture: Victory, ms: 0, want: Fire},
		{gesture: Victory, ms: 100, want: Ignore},
		{gesture: Victory, ms: 400, want: Ignore},
	})

	if len(fired) != 1 {
		t.Errorf("fired %d times, want 1", len(fired))
	}
}

func TestDispatcher_HeldGestureDoesNotRefireAfterCooldown(t *testing.T) {
	d := NewDispatcher(DefaultCooldown)

	fired := run(t, d, []step{
		{gesture: Victory, ms: 0, want: Fire},
		{gesture: Victory, ms: 100, want: Ignore},
		{gesture: Victory, ms: 900, want: Ignore},
	})

	if len(fired) != 1 {
		t.Errorf("fired %v, want exactly one Victory", fired)
	}
	if d.Locked(at(900)) {
		t.Error("lock should have expired at 900ms")
	}
}

func TestDispatcher_EdgeTriggerAfterCooldown(t *testing.T) {
	d := NewDispatcher(DefaultCooldown)

	fired := run(t, d, []step{
		{gesture: Shaka, ms: 0, want: Fire},
		{gesture: Love, ms: 900, want: Fire},
		{gesture: Shaka, ms: 1800, want: Fire},
	})

	want := []Label{Shaka, Love, Shaka}
	if len(fired) != len(want) {
		t.Fatalf("fired %v, want %v", fired, want)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Errorf("fired[%d] = %v, want %v", i, fired[i], want[i])
		}
	}
}

func TestDispatcher_ChangeWhileLockedIsIgnored(t *testing.T) {
	d := NewDispatcher(DefaultCooldown)

	run(t, d, []step{
		{gesture: Victory, ms: 0, want: Fire},
		{gesture: Open, ms: 300, want: Ignore},
		{gesture: Open, ms: 799, want: Ignore},
		{gesture: Open, ms: 800, want: Fire},
	})

	if d.Last() != Open {
		t.Errorf("Last() = %v, want Open", d.Last())
	}
}

func TestDispatcher_PointIsExempt(t *testing.T) {
	d := NewDispatcher(DefaultCooldown)

	run(t, d, []step{
		{gesture: Victory, ms: 0, want: Fire},
		{gesture: Point, ms: 50, want: Continuous},
		{gesture: Point, ms: 100, want: Continuous},
		{gesture: Point, ms: 150, want: Continuous},
	})

	if d.Last() != Point {
		t.Errorf("Last() = %v, want Point", d.Last())
	}
	// Point did not extend or clear the lock from Victory.
	if !d.Locked(at(700)) {
		t.Error("lock from Victory should still hold at 700ms")
	}
	if d.Locked(at(800)) {
		t.Error("Point must not extend the lock")
	}
}

func TestDispatcher_PointThenSameGestureRefires(t *testing.T) {
	d := NewDispatcher(DefaultCooldown)

	fired := run(t, d, []step{
		{gesture: Victory, ms: 0, want: Fire},
		{gesture: Point, ms: 900, want: Continuous},
		{gesture: Victory, ms: 1000, want: Fire},
	})

	if len(fired) != 2 {
		t.Errorf("fired %v, want two Victory", fired)
	}
}

func TestDispatcher_NoHandResetsAndSupersedesLock(t *testing.T) {
	d := NewDispatcher(DefaultCooldown)

	fired := run(t, d, []step{
		{gesture: Victory, ms: 0, want: Fire},
		{noHand: true},
		{gesture: Victory, ms: 200, want: Fire},
	})

	if len(fired) != 2 {
		t.Errorf("fired %v, want Victory twice", fired)
	}
}

func TestDispatcher_ResetClearsLast(t *testing.T) {
	d := NewDispatcher(DefaultCooldown)
	d.Observe(Open, t0)
	d.Reset()

	if d.Last() != None {
		t.Errorf("Last() after Reset = %v, want None", d.Last())
	}
	if d.Locked(t0) {
		t.Error("Reset should supersede the pending lock")
	}
}

func TestDispatcher_NoneFiresAndLocks(t *testing.T) {
	d := NewDispatcher(DefaultCooldown)

	run(t, d, []step{
		{gesture: Open, ms: 0, want: Fire},
		{gesture: None, ms: 900, want: Fire},
		{gesture: Open, ms: 1000, want: Ignore},
		{gesture: Open, ms: 1700, want: Fire},
	})
}

func TestDecision_String(t *testing.T) {
	tests := map[Decision]string{
		Ignore:     "ignore",
		Fire:       "fire",
		Continuous: "continuous",
	}
	for d, want := range tests {
		if got := d.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", d, got, want)
		}
	}
}
