package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Auth:
		if v.LoggedIn {
			o.println("Logged in")
		} else {
			o.println("Logged out")
		}
	case Power:
		o.printf("Power: %d\n", v.Power)
	case Clock:
		o.printf("Clock: %s\n", v.Display)
	case Timer:
		o.printTimer(v)
	case TimerList:
		if len(v.Timers) == 0 {
			o.println("No timers")
		}
		for _, t := range v.Timers {
			o.printTimer(t)
		}
	case Listener:
		o.printf("Listener %s set up\n", v.ID)
		o.printf("Active listeners: %s\n", strings.Join(v.Active, ", "))
	case Greeting:
		o.println(v.Message)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printTimer(t Timer) {
	suffix := ""
	if t.Expired {
		suffix = " (expired)"
	}
	o.printf("timer_%d  %s%s\n", t.ID, t.Display, suffix)
}

func (o *Output) printHealthResult(h HealthResult) {
	o.printf("Status: %s (on poison: %s)\n", h.Status, h.Policy)
	for _, w := range h.Workers {
		line := fmt.Sprintf("  %-24s %-8s restarts=%d", w.Name, w.State, w.Restarts)
		if w.LastError != "" {
			line += " last_error=" + w.LastError
		}
		o.println(line)
	}
	if len(h.Listeners) > 0 {
		o.printf("Listeners: %s\n", strings.Join(h.Listeners, ", "))
	}
}

func (o *Output) println(s string) {
	_, _ = fmt.Fprintln(o.w, s)
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

// Auth response type (matches API)
type Auth struct {
	LoggedIn bool `json:"logged_in"`
}

// Power response type
type Power struct {
	Power int `json:"power"`
}

// Digits is a timer readout
type Digits struct {
	Hours        int    `json:"hours"`
	Minutes      int    `json:"minutes"`
	Seconds      int    `json:"seconds"`
	Milliseconds int    `json:"milliseconds"`
	Display      string `json:"display"`
}

// Clock response type
type Clock struct {
	Digits
}

// Timer response type
type Timer struct {
	ID      int  `json:"id"`
	Expired bool `json:"expired"`
	Digits
}

// TimerList response type
type TimerList struct {
	Timers []Timer `json:"timers"`
}

// Listener response type
type Listener struct {
	ID     string   `json:"id"`
	Active []string `json:"active"`
}

// Greeting response type
type Greeting struct {
	Message string `json:"message"`
}

// WorkerStatus is one worker's health
type WorkerStatus struct {
	Name      string `json:"name"`
	State     string `json:"state"`
	Restarts  int    `json:"restarts"`
	LastError string `json:"last_error,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status    string         `json:"status"`
	Policy    string         `json:"poison_policy"`
	Workers   []WorkerStatus `json:"workers"`
	Listeners []string       `json:"listeners"`
}
