package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestDigitsRoundTrip(t *testing.T) {
	tests := []struct {
		name        string
		h, m, s, ms int
	}{
		{"zero", 0, 0, 0, 0},
		{"millis only", 0, 0, 0, 999},
		{"minutes and seconds", 0, 59, 59, 1},
		{"one hour", 1, 0, 0, 0},
		{"more than a day", 27, 3, 4, 500},
		{"large", 1000, 30, 15, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := time.Duration(tt.h)*time.Hour +
				time.Duration(tt.m)*time.Minute +
				time.Duration(tt.s)*time.Second +
				time.Duration(tt.ms)*time.Millisecond

			timer := FromDuration(ModeClock, d)
			h, m, s := timer.Digits()

			assert.Equal(t, tt.h, h)
			assert.Equal(t, tt.m, m)
			assert.Equal(t, tt.s, s)
			assert.Equal(t, tt.ms, timer.Millis())
		})
	}
}

func TestMillisTruncatesSubMillisecond(t *testing.T) {
	timer := FromDuration(ModeClock, 1500*time.Microsecond)
	assert.Equal(t, 1, timer.Millis())
}

func TestCountdownZeroSeconds(t *testing.T) {
	timer := NewCountdown(0)
	h, m, s := timer.Digits()

	assert.Equal(t, 0, h)
	assert.Equal(t, 0, m)
	assert.Equal(t, 0, s)
	assert.Equal(t, 0, timer.Millis())
	assert.True(t, timer.Expired())
}

func TestCountdownInitialDigits(t *testing.T) {
	timer := NewCountdown(3725)
	assert.Equal(t, Display{Hours: 1, Minutes: 2, Seconds: 5}, timer.Display())
	assert.False(t, timer.Expired())
}

func TestClockTickAccumulates(t *testing.T) {
	timer := NewClock()

	timer.Tick(start, start.Add(1500*time.Millisecond))
	assert.Equal(t, 1500*time.Millisecond, timer.Duration())

	timer.Tick(start, start.Add(50*time.Hour))
	h, _, _ := timer.Digits()
	assert.Equal(t, 50, h)
}

func TestCountdownTickDecrements(t *testing.T) {
	timer := NewCountdown(10)

	timer.Tick(start, start.Add(3250*time.Millisecond))

	assert.Equal(t, 6750*time.Millisecond, timer.Duration())
	assert.Equal(t, Display{Seconds: 6, Milliseconds: 750}, timer.Display())
}

func TestCountdownSaturatesAtZero(t *testing.T) {
	timer := NewCountdown(5)

	timer.Tick(start, start.Add(time.Hour))

	assert.Equal(t, time.Duration(0), timer.Duration())
	assert.True(t, timer.Expired())
}

func TestTickBeforeStartCountsAsZero(t *testing.T) {
	clk := NewClock()
	clk.Tick(start, start.Add(-time.Second))
	assert.Equal(t, time.Duration(0), clk.Duration())

	cd := NewCountdown(5)
	cd.Tick(start, start.Add(-time.Second))
	assert.Equal(t, 5*time.Second, cd.Duration())
}

func TestDisplayString(t *testing.T) {
	tests := []struct {
		display  Display
		expected string
	}{
		{Display{}, "00:00:00:000"},
		{Display{Hours: 1, Minutes: 2, Seconds: 3, Milliseconds: 4}, "01:02:03:004"},
		{Display{Hours: 123, Minutes: 59, Seconds: 59, Milliseconds: 999}, "123:59:59:999"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.display.String())
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "clock", ModeClock.String())
	assert.Equal(t, "countdown", ModeCountdown.String())
}

func TestCountdownSaturatesHugeBudgets(t *testing.T) {
	for _, seconds := range []uint64{MaxCountdownSeconds, MaxCountdownSeconds + 1, 10_000_000_000, ^uint64(0)} {
		timer := NewCountdown(seconds)
		h, m, s := timer.Digits()

		assert.Positive(t, timer.Budget(), "seconds=%d", seconds)
		assert.Equal(t, time.Duration(MaxCountdownSeconds)*time.Second, timer.Budget(), "seconds=%d", seconds)
		assert.GreaterOrEqual(t, h, 0)
		assert.GreaterOrEqual(t, m, 0)
		assert.GreaterOrEqual(t, s, 0)
		assert.GreaterOrEqual(t, timer.Millis(), 0)
		assert.False(t, timer.Expired())
	}
}
