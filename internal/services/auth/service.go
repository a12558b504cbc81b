package auth

import (
	"context"
	"log/slog"

	"github.com/mcoot/statesync/internal/guard"
	"github.com/mcoot/statesync/internal/model"
)

// Service handles the logged-in flag
type Service struct {
	state  *guard.Mutex[model.AuthState]
	logger *slog.Logger
}

// New creates a new auth Service
func New(state *guard.Mutex[model.AuthState], logger *slog.Logger) *Service {
	return &Service{
		state:  state,
		logger: logger.With(slog.String("component", "auth")),
	}
}

// Login sets the flag and returns the new snapshot
func (s *Service) Login(ctx context.Context) (model.AuthState, error) {
	s.logger.Info("logging in")
	return s.set(true)
}

// Logout clears the flag and returns the new snapshot
func (s *Service) Logout(ctx context.Context) (model.AuthState, error) {
	s.logger.Info("logging out")
	return s.set(false)
}

// Get returns the current snapshot
func (s *Service) Get(ctx context.Context) (model.AuthState, error) {
	var snapshot model.AuthState
	err := s.state.With(func(a *model.AuthState) error {
		snapshot = a.Clone()
		return nil
	})
	return snapshot, err
}

func (s *Service) set(loggedIn bool) (model.AuthState, error) {
	var snapshot model.AuthState
	err := s.state.With(func(a *model.AuthState) error {
		a.LoggedIn = loggedIn
		snapshot = a.Clone()
		return nil
	})
	return snapshot, err
}
