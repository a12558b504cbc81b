// Package chrono provides the duration tracker behind the system clock and
// the countdown timers. A Timer either counts up from its start instant or
// counts down from an initial budget, and decomposes its current duration
// into display digits.
//
// Timers are plain values and are not safe for concurrent use; callers keep
// them behind a lock.
package chrono

import (
	"fmt"
	"math"
	"time"
)

// MaxCountdownSeconds is the largest budget a countdown can hold without
// overflowing time.Duration
const MaxCountdownSeconds = uint64(math.MaxInt64 / int64(time.Second))

// Mode selects whether a Timer counts up or down
type Mode int

const (
	// ModeClock accumulates elapsed time without bound
	ModeClock Mode = iota
	// ModeCountdown decrements a budget toward zero
	ModeCountdown
)

func (m Mode) String() string {
	switch m {
	case ModeClock:
		return "clock"
	case ModeCountdown:
		return "countdown"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Timer tracks a duration in one of the two modes
type Timer struct {
	mode    Mode
	budget  time.Duration
	current time.Duration
}

// NewClock returns a count-up timer at zero
func NewClock() Timer {
	return Timer{mode: ModeClock}
}

// NewCountdown returns a count-down timer holding the given number of
// seconds. Budgets above MaxCountdownSeconds saturate there.
func NewCountdown(seconds uint64) Timer {
	seconds = min(seconds, MaxCountdownSeconds)
	budget := time.Duration(seconds) * time.Second
	return Timer{mode: ModeCountdown, budget: budget, current: budget}
}

// FromDuration returns a timer whose current duration is d. It is mostly
// useful for decomposing arbitrary durations.
func FromDuration(mode Mode, d time.Duration) Timer {
	if d < 0 {
		d = 0
	}
	return Timer{mode: mode, budget: d, current: d}
}

// Tick recomputes the current duration from the time elapsed between start
// and now. A now earlier than start counts as no elapsed time. Countdowns
// saturate at zero rather than going negative.
func (t *Timer) Tick(start, now time.Time) {
	elapsed := now.Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}

	switch t.mode {
	case ModeCountdown:
		remaining := t.budget - elapsed
		if remaining < 0 {
			remaining = 0
		}
		t.current = remaining
	default:
		t.current = elapsed
	}
}

// Digits decomposes the current duration into hours, minutes and seconds.
// Hours are not wrapped at 24.
func (t Timer) Digits() (hours, minutes, seconds int) {
	total := int64(t.current / time.Second)
	hours = int(total / 3600)
	minutes = int(total % 3600 / 60)
	seconds = int(total % 60)
	return hours, minutes, seconds
}

// Millis returns the sub-second remainder in whole milliseconds
func (t Timer) Millis() int {
	return int(t.current % time.Second / time.Millisecond)
}

// Display returns the materialized digits for the current duration
func (t Timer) Display() Display {
	h, m, s := t.Digits()
	return Display{Hours: h, Minutes: m, Seconds: s, Milliseconds: t.Millis()}
}

// Duration returns the current duration
func (t Timer) Duration() time.Duration {
	return t.current
}

// Budget returns the initial duration of a countdown (zero for clocks)
func (t Timer) Budget() time.Duration {
	return t.budget
}

// Mode returns the timer's mode
func (t Timer) Mode() Mode {
	return t.mode
}

// Expired reports whether a countdown has reached zero
func (t Timer) Expired() bool {
	return t.mode == ModeCountdown && t.current == 0
}
