// Package clock is the time seam used by the clock and timer tickers
package clock

import "time"

// Clock provides the wall-clock instants that timers are ticked against.
// Implementations must be safe for concurrent use, since background workers
// and request handlers read it from different goroutines.
type Clock interface {
	Now() time.Time
}

// Func adapts a plain function to Clock
type Func func() time.Time

// Now calls f
func (f Func) Now() time.Time {
	return f()
}

// System reads the process clock. Readings carry the monotonic component, so
// elapsed time is unaffected by wall-clock adjustments.
var System Clock = Func(time.Now)

// New returns the system clock
func New() Clock {
	return System
}
