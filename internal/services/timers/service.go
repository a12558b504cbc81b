package timers

import (
	"context"
	"log/slog"

	"github.com/mcoot/statesync/internal/dependencies/clock"
	"github.com/mcoot/statesync/internal/guard"
	"github.com/mcoot/statesync/internal/model"
)

// Service manages the countdown timer list
type Service struct {
	state  *guard.Mutex[model.TimerList]
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new timers Service
func New(state *guard.Mutex[model.TimerList], clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		state:  state,
		clock:  clk,
		logger: logger.With(slog.String("component", "timers")),
	}
}

// Push creates a countdown of the given seconds, appends it and returns a
// copy of the inserted timer with its assigned ID
func (s *Service) Push(ctx context.Context, seconds uint64) (model.Timer, error) {
	timer := model.NewTimer(seconds, s.clock.Now())

	var inserted model.Timer
	err := s.state.With(func(l *model.TimerList) error {
		inserted = l.Push(timer)
		return nil
	})
	if err != nil {
		return model.Timer{}, err
	}

	s.logger.Info("timer pushed",
		slog.Int("id", inserted.ID),
		slog.Uint64("seconds", seconds),
	)
	return inserted, nil
}

// List returns a copy of the full list
func (s *Service) List(ctx context.Context) (model.TimerList, error) {
	var snapshot model.TimerList
	err := s.state.With(func(l *model.TimerList) error {
		snapshot = l.Clone()
		return nil
	})
	return snapshot, err
}

// Get returns the timer at index, or a NotFound error when index is past the
// end of the list
func (s *Service) Get(ctx context.Context, index int) (model.Timer, error) {
	var timer model.Timer
	err := s.state.With(func(l *model.TimerList) error {
		var err error
		timer, err = l.Get(index)
		return err
	})
	return timer, err
}

// TickAll advances every countdown to now. It is the step run by the
// optional timer worker.
func (s *Service) TickAll(ctx context.Context) error {
	now := s.clock.Now()
	return s.state.With(func(l *model.TimerList) error {
		l.TickAll(now)
		return nil
	})
}
