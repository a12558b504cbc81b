package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputText(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		expected string
	}{
		{"logged in", Auth{LoggedIn: true}, "Logged in\n"},
		{"logged out", Auth{}, "Logged out\n"},
		{"power", Power{Power: 42}, "Power: 42\n"},
		{"clock", Clock{Digits{Display: "00:01:02:003"}}, "Clock: 00:01:02:003\n"},
		{"expired timer", Timer{ID: 3, Expired: true, Digits: Digits{Display: "00:00:00:000"}}, "timer_3  00:00:00:000 (expired)\n"},
		{"empty list", TimerList{}, "No timers\n"},
		{"greeting", Greeting{Message: "Hello, Ada!"}, "Hello, Ada!\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewOutput("text", &buf).Print(tt.data)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestOutputHealth(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("text", &buf).Print(HealthResult{
		Status: "degraded",
		Policy: "stop",
		Workers: []WorkerStatus{
			{Name: "power", State: "stopped", LastError: "the mutex was poisoned"},
		},
		Listeners: []string{"a", "b"},
	})

	out := buf.String()
	assert.Contains(t, out, "Status: degraded (on poison: stop)")
	assert.Contains(t, out, "last_error=the mutex was poisoned")
	assert.Contains(t, out, "Listeners: a, b")
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("json", &buf).Print(Power{Power: 7})
	assert.JSONEq(t, `{"power":7}`, buf.String())

	buf.Reset()
	NewOutput("json", &buf).PrintMessage("done")
	assert.JSONEq(t, `{"message":"done"}`, buf.String())
}

func TestParseSSE(t *testing.T) {
	stream := "event: connected\ndata: {}\n\n" +
		": keepalive\n\n" +
		"event: system_state_update\ndata: {\"power\":1}\n\n" +
		"event: multi\ndata: a\ndata: b\n\n"

	type event struct{ name, data string }
	var got []event
	err := parseSSE(strings.NewReader(stream), func(name, data string) error {
		got = append(got, event{name, data})
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []event{
		{"connected", "{}"},
		{"system_state_update", `{"power":1}`},
		{"multi", "a\nb"},
	}, got)
}

func TestParseSSEStopsOnCallbackError(t *testing.T) {
	stream := "event: a\ndata: 1\n\nevent: b\ndata: 2\n\n"
	stop := errors.New("stop")

	calls := 0
	err := parseSSE(strings.NewReader(stream), func(string, string) error {
		calls++
		return stop
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
