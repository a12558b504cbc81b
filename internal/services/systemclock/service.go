package systemclock

import (
	"context"
	"log/slog"

	"github.com/mcoot/statesync/internal/dependencies/clock"
	"github.com/mcoot/statesync/internal/guard"
	"github.com/mcoot/statesync/internal/model"
)

// Service reads and ticks the system clock display
type Service struct {
	state  *guard.Mutex[model.SystemClock]
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new system clock Service
func New(state *guard.Mutex[model.SystemClock], clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		state:  state,
		clock:  clk,
		logger: logger.With(slog.String("component", "systemclock")),
	}
}

// Get returns the current snapshot. The digits are whatever the ticker last
// materialized.
func (s *Service) Get(ctx context.Context) (model.SystemClock, error) {
	var snapshot model.SystemClock
	err := s.state.With(func(c *model.SystemClock) error {
		snapshot = c.Clone()
		return nil
	})
	return snapshot, err
}

// Tick advances the clock to now and refreshes its digits. It is the step
// run by the clock worker.
func (s *Service) Tick(ctx context.Context) error {
	now := s.clock.Now()
	return s.state.With(func(c *model.SystemClock) error {
		c.Tick(now)
		return nil
	})
}
