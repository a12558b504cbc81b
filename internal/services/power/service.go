package power

import (
	"context"
	"log/slog"

	"github.com/mcoot/statesync/internal/dependencies/random"
	"github.com/mcoot/statesync/internal/guard"
	"github.com/mcoot/statesync/internal/model"
)

// perturbLimit bounds each random perturbation to [0, perturbLimit)
const perturbLimit = 100

// Service reads, resets and perturbs the power level
type Service struct {
	state  *guard.Mutex[model.SystemState]
	random random.Random
	logger *slog.Logger
}

// New creates a new power Service
func New(state *guard.Mutex[model.SystemState], rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		state:  state,
		random: rnd,
		logger: logger.With(slog.String("component", "power")),
	}
}

// Get returns the current snapshot
func (s *Service) Get(ctx context.Context) (model.SystemState, error) {
	var snapshot model.SystemState
	err := s.state.With(func(st *model.SystemState) error {
		snapshot = st.Clone()
		return nil
	})
	return snapshot, err
}

// Reset sets the power to zero and returns the new snapshot
func (s *Service) Reset(ctx context.Context) (model.SystemState, error) {
	var snapshot model.SystemState
	err := s.state.With(func(st *model.SystemState) error {
		st.Reset()
		snapshot = st.Clone()
		return nil
	})
	if err == nil {
		s.logger.Info("power reset")
	}
	return snapshot, err
}

// Perturb adds a random amount to the power, wrapping modulo 101. It is the
// step run by the power worker.
func (s *Service) Perturb(ctx context.Context) error {
	delta := s.random.Intn(perturbLimit)
	return s.state.With(func(st *model.SystemState) error {
		st.Perturb(delta)
		return nil
	})
}
