package model

import (
	"time"

	"github.com/mcoot/statesync/internal/chrono"
)

// Power bounds
const (
	InitialPower = 100
	MaxPower     = 100
)

// AuthState tracks whether the user is logged in
type AuthState struct {
	LoggedIn bool `json:"logged_in"`
}

// NewAuthState returns the logged-out state
func NewAuthState() AuthState {
	return AuthState{}
}

// Clone returns an independent snapshot
func (a AuthState) Clone() AuthState {
	return a
}

// SystemState holds the power level, always within [0, MaxPower]
type SystemState struct {
	Power int `json:"power"`
}

// NewSystemState returns the state at full power
func NewSystemState() SystemState {
	return SystemState{Power: InitialPower}
}

// Perturb adds delta to the power and reduces it modulo MaxPower+1
func (s *SystemState) Perturb(delta int) {
	p := (s.Power + delta) % (MaxPower + 1)
	if p < 0 {
		p += MaxPower + 1
	}
	s.Power = p
}

// Reset drops the power to zero
func (s *SystemState) Reset() {
	s.Power = 0
}

// Clone returns an independent snapshot
func (s SystemState) Clone() SystemState {
	return s
}

// SystemClock is the ticking wall-clock display. Its digits are always
// derived from the underlying timer by Fill.
type SystemClock struct {
	timer chrono.Timer
	start time.Time
	chrono.Display
}

// NewSystemClock returns a count-up clock bound to start
func NewSystemClock(start time.Time) SystemClock {
	c := SystemClock{timer: chrono.NewClock(), start: start}
	c.Fill()
	return c
}

// Tick advances the clock to now and refreshes the digits
func (c *SystemClock) Tick(now time.Time) {
	c.timer.Tick(c.start, now)
	c.Fill()
}

// Fill recomputes the display digits from the timer
func (c *SystemClock) Fill() {
	c.Display = c.timer.Display()
}

// Elapsed returns the time counted so far
func (c SystemClock) Elapsed() time.Duration {
	return c.timer.Duration()
}

// Clone returns an independent snapshot
func (c SystemClock) Clone() SystemClock {
	return c
}

// Timer is a countdown created on request. ID is its 1-based insertion
// position in the TimerList.
type Timer struct {
	timer chrono.Timer
	start time.Time
	chrono.Display
	ID      int  `json:"id"`
	Expired bool `json:"expired"`
}

// NewTimer returns a countdown of the given seconds starting at start
func NewTimer(seconds uint64, start time.Time) Timer {
	t := Timer{timer: chrono.NewCountdown(seconds), start: start}
	t.Fill()
	return t
}

// Tick advances the countdown to now and refreshes the digits
func (t *Timer) Tick(now time.Time) {
	t.timer.Tick(t.start, now)
	t.Fill()
}

// Fill recomputes the display digits from the countdown
func (t *Timer) Fill() {
	t.Display = t.timer.Display()
	t.Expired = t.timer.Expired()
}

// Remaining returns the time left on the countdown
func (t Timer) Remaining() time.Duration {
	return t.timer.Duration()
}

// Budget returns the duration the countdown was created with
func (t Timer) Budget() time.Duration {
	return t.timer.Budget()
}

// Clone returns an independent snapshot
func (t Timer) Clone() Timer {
	return t
}

// TimerList is the append-only, insertion-ordered list of timers
type TimerList struct {
	Timers []Timer `json:"timers"`
}

// NewTimerList returns an empty list
func NewTimerList() TimerList {
	return TimerList{Timers: []Timer{}}
}

// Push assigns the next ID to t, appends it and returns a copy of the
// inserted element
func (l *TimerList) Push(t Timer) Timer {
	t.ID = len(l.Timers) + 1
	l.Timers = append(l.Timers, t)
	return t
}

// Get returns the timer at index
func (l TimerList) Get(index int) (Timer, error) {
	if index < 0 || index >= len(l.Timers) {
		return Timer{}, NotFound("Index not found on timer list.")
	}
	return l.Timers[index], nil
}

// Len returns the number of timers
func (l TimerList) Len() int {
	return len(l.Timers)
}

// TickAll advances every timer to now
func (l *TimerList) TickAll(now time.Time) {
	for i := range l.Timers {
		l.Timers[i].Tick(now)
	}
}

// Clone returns a deep copy of the list
func (l TimerList) Clone() TimerList {
	timers := make([]Timer, len(l.Timers))
	copy(timers, l.Timers)
	return TimerList{Timers: timers}
}
