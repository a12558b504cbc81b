package response

import (
	"github.com/mcoot/statesync/internal/chrono"
	"github.com/mcoot/statesync/internal/model"
	"github.com/mcoot/statesync/internal/worker"
)

// Auth represents the login flag in API responses
type Auth struct {
	LoggedIn bool `json:"logged_in"`
}

// AuthFromModel converts model.AuthState
func AuthFromModel(a model.AuthState) Auth {
	return Auth{LoggedIn: a.LoggedIn}
}

// Power represents the system state in API responses
type Power struct {
	Power int `json:"power"`
}

// PowerFromModel converts model.SystemState
func PowerFromModel(s model.SystemState) Power {
	return Power{Power: s.Power}
}

// Digits is a timer readout, with the formatted HH:MM:SS:mmm form alongside
type Digits struct {
	Hours        int    `json:"hours"`
	Minutes      int    `json:"minutes"`
	Seconds      int    `json:"seconds"`
	Milliseconds int    `json:"milliseconds"`
	Display      string `json:"display"`
}

// DigitsFromDisplay converts chrono.Display
func DigitsFromDisplay(d chrono.Display) Digits {
	return Digits{
		Hours:        d.Hours,
		Minutes:      d.Minutes,
		Seconds:      d.Seconds,
		Milliseconds: d.Milliseconds,
		Display:      d.String(),
	}
}

// Clock represents the system clock in API responses
type Clock struct {
	Digits
}

// ClockFromModel converts model.SystemClock
func ClockFromModel(c model.SystemClock) Clock {
	return Clock{Digits: DigitsFromDisplay(c.Display)}
}

// Timer represents one countdown in API responses
type Timer struct {
	ID      int  `json:"id"`
	Expired bool `json:"expired"`
	Digits
}

// TimerFromModel converts model.Timer
func TimerFromModel(t model.Timer) Timer {
	return Timer{
		ID:      t.ID,
		Expired: t.Expired,
		Digits:  DigitsFromDisplay(t.Display),
	}
}

// TimerList represents the timer list in API responses
type TimerList struct {
	Timers []Timer `json:"timers"`
}

// TimerListFromModel converts model.TimerList
func TimerListFromModel(l model.TimerList) TimerList {
	timers := make([]Timer, len(l.Timers))
	for i, t := range l.Timers {
		timers[i] = TimerFromModel(t)
	}
	return TimerList{Timers: timers}
}

// Listener is the response after setting up a listener session
type Listener struct {
	ID     string   `json:"id"`
	Active []string `json:"active"`
}

// Greeting is the response for the greet endpoint
type Greeting struct {
	Message string `json:"message"`
}

// Health reports worker liveness
type Health struct {
	Status    string          `json:"status"`
	Policy    string          `json:"poison_policy"`
	Workers   []worker.Status `json:"workers"`
	Listeners []string        `json:"listeners"`
}
