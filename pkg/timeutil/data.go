package timeutil

import "time"

// Clock is the only source of "now" for a run.
// Injected so report headers and commit messages are reproducible in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant.
type FixedClock struct {
	at time.Time
}

func NewFixedClock(at time.Time) FixedClock {
	return FixedClock{at: at.UTC()}
}

func (c FixedClock) Now() time.Time {
	return c.at
}
