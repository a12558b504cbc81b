// Package state owns the process-wide runtime state. A Registry is built once
// at startup and handed to every service and worker; nothing reaches the
// state through globals.
package state

import (
	"github.com/mcoot/statesync/internal/dependencies/clock"
	"github.com/mcoot/statesync/internal/guard"
	"github.com/mcoot/statesync/internal/model"
)

// Registry holds one guarded instance of each state object
type Registry struct {
	Auth   *guard.Mutex[model.AuthState]
	Power  *guard.Mutex[model.SystemState]
	Clock  *guard.Mutex[model.SystemClock]
	Timers *guard.Mutex[model.TimerList]

	clock clock.Clock
}

// New creates a Registry with every object in its initial state. The system
// clock is bound to the current instant of clk.
func New(clk clock.Clock) *Registry {
	return &Registry{
		Auth:   guard.New(model.NewAuthState()),
		Power:  guard.New(model.NewSystemState()),
		Clock:  guard.New(model.NewSystemClock(clk.Now())),
		Timers: guard.New(model.NewTimerList()),
		clock:  clk,
	}
}

// ResetPower restores the power state to full
func (r *Registry) ResetPower() {
	r.Power.Reset(model.NewSystemState())
}

// ResetClock rebinds the system clock to now
func (r *Registry) ResetClock() {
	r.Clock.Reset(model.NewSystemClock(r.clock.Now()))
}

// ResetTimers empties the timer list
func (r *Registry) ResetTimers() {
	r.Timers.Reset(model.NewTimerList())
}
