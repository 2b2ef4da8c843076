package clock

import (
	"testing"
	"time"
)

func TestMonotonic_NeverGoesBackwards(t *testing.T) {
	c := NewMonotonic()
	prev := c.Now()
	for i := 0; i < 1000; i++ {
		now := c.Now()
		if now.Before(prev) {
			t.Fatalf("clock went backwards: %v < %v", now, prev)
		}
		prev = now
	}
}

func TestMonotonic_TracksWallClock(t *testing.T) {
	c := NewMonotonic()
	if d := time.Since(c.Now()); d < 0 || d > time.Second {
		t.Errorf("monotonic clock drifted from wall clock by %v", d)
	}
}

func TestFixed(t *testing.T) {
	ts := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	c := &Fixed{CurrentTime: ts}
	if !c.Now().Equal(ts) {
		t.Errorf("Now() = %v, want %v", c.Now(), ts)
	}
}
