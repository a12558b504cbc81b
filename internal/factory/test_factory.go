package factory

import (
	"time"

	"github.com/mcoot/statesync/internal/config"
	"github.com/mcoot/statesync/internal/dependencies/mocks"
	"github.com/mcoot/statesync/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Worker intervals are shortened so tests observe several ticks quickly.
func NewTestApp() *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	workers := config.Default().Workers
	workers.ClockInterval = time.Millisecond
	workers.PowerInterval = time.Millisecond
	workers.BroadcastInterval = time.Millisecond
	workers.TimerTickInterval = time.Millisecond

	app := newWithDependencies(mockClock, mockRandom, workers, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
