package model

import "time"

// Clock supplies the current time to mutators and aggregators.
// Production code uses SystemClock; tests use testutil.Clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}
