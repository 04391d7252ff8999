package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// Commands sample it once to obtain "today" and pass the result explicitly
// to ComputeWeek.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}
