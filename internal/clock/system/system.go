// Package system is the wall-clock implementation of jaundice.Clock.
package system

import "time"

// Clock reads the system time. All timestamps in the service are UTC;
// durations (admission wait, fetch, analysis) are differences of Now calls,
// so tests substitute a fake Clock to make them deterministic.
type Clock struct{}

// New returns the wall clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current UTC time.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}
