package clock

import "time"

// Clock abstracts the wall clock so time-dependent code can be driven by tests
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time
type RealClock struct{}

// NewRealClock creates a new RealClock
func NewRealClock() Clock {
	return &RealClock{}
}

// Now returns the current system time
func (c *RealClock) Now() time.Time {
	return time.Now()
}
