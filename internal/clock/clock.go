package clock

import "time"

// Clock abstracts time.Now so the limiter can be driven by a fake
// clock in tests.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// FakeClock is a manually advanced clock for deterministic tests.
type FakeClock struct {
	now time.Time
}

func NewFake(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (f *FakeClock) Now() time.Time {
	return f.now
}

// Advance moves the clock forward by d. Negative values move it
// backward, which tests use to simulate clock skew.
func (f *FakeClock) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}
