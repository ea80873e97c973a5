package domain

import "time"

// Clock supplies the current instant. Services take a Clock so that
// time-driven rules can be exercised deterministically.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now returns the function's result.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock returns wall-clock UTC time.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always reports the same instant. Advance moves it forward.
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant.
func (c *FixedClock) Now() time.Time { return c.At }

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) { c.At = c.At.Add(d) }
