package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/statesync/internal/dependencies/mocks"
	"github.com/mcoot/statesync/internal/model"
)

func TestNewRegistryInitialState(t *testing.T) {
	reg := New(mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)))

	auth, err := reg.Auth.Snapshot()
	require.NoError(t, err)
	assert.False(t, auth.LoggedIn)

	power, err := reg.Power.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 100, power.Power)

	clk, err := reg.Clock.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), clk.Elapsed())

	timers, err := reg.Timers.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 0, timers.Len())
}

func TestResetPowerClearsPoison(t *testing.T) {
	reg := New(mocks.NewMockClock(time.Now()))
	_ = reg.Power.With(func(s *model.SystemState) error { panic("boom") })
	require.True(t, reg.Power.Poisoned())

	reg.ResetPower()

	power, err := reg.Power.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, model.InitialPower, power.Power)
}

func TestResetClockRebindsToNow(t *testing.T) {
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	reg := New(clk)

	clk.Advance(time.Hour)
	reg.ResetClock()
	clk.Advance(time.Second)

	err := reg.Clock.With(func(c *model.SystemClock) error {
		c.Tick(clk.Now())
		return nil
	})
	require.NoError(t, err)

	snap, err := reg.Clock.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Hours)
	assert.Equal(t, 1, snap.Seconds)
}
