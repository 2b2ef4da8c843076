// Package clock provides time sources that can be replaced in tests.
package clock

import "time"

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Monotonic derives wall time from the process monotonic clock, so Now
// never goes backwards within a process even if the system clock is stepped.
type Monotonic struct {
	base time.Time
}

// NewMonotonic anchors a monotonic clock at the current wall time.
func NewMonotonic() *Monotonic {
	return &Monotonic{base: time.Now()}
}

// Now returns base + elapsed monotonic time.
func (m *Monotonic) Now() time.Time {
	return m.base.Add(time.Since(m.base))
}

// Fixed returns a preset time.
type Fixed struct {
	CurrentTime time.Time
}

// Now returns the preset time.
func (f *Fixed) Now() time.Time {
	return f.CurrentTime
}
