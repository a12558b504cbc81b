package auth

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/statesync/internal/guard"
	"github.com/mcoot/statesync/internal/model"
	"github.com/mcoot/statesync/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	state   *guard.Mutex[model.AuthState]
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.state = guard.New(model.NewAuthState())
	s.service = New(s.state, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestStartsLoggedOut() {
	state, err := s.service.Get(s.ctx)
	s.Require().NoError(err)
	s.False(state.LoggedIn)
}

func (s *ServiceSuite) TestLoginSetsFlag() {
	state, err := s.service.Login(s.ctx)
	s.Require().NoError(err)
	s.True(state.LoggedIn)

	current, err := s.service.Get(s.ctx)
	s.Require().NoError(err)
	s.True(current.LoggedIn)
}

func (s *ServiceSuite) TestLogoutClearsFlag() {
	_, _ = s.service.Login(s.ctx)

	state, err := s.service.Logout(s.ctx)
	s.Require().NoError(err)
	s.False(state.LoggedIn)
}

func (s *ServiceSuite) TestSnapshotIsDetached() {
	snapshot, _ := s.service.Login(s.ctx)
	_, _ = s.service.Logout(s.ctx)

	s.True(snapshot.LoggedIn)
}

func (s *ServiceSuite) TestPoisonedLockFailsEveryOperation() {
	_ = s.state.With(func(a *model.AuthState) error { panic("boom") })

	_, err := s.service.Login(s.ctx)
	s.ErrorIs(err, model.ErrPoisonedLock)
	_, err = s.service.Logout(s.ctx)
	s.ErrorIs(err, model.ErrPoisonedLock)
	_, err = s.service.Get(s.ctx)
	s.ErrorIs(err, model.ErrPoisonedLock)
}

func (s *ServiceSuite) TestConcurrentCallersNeverSeeTornState() {
	var wg sync.WaitGroup
	errs := make(chan error, 300)

	for i := 0; i < 100; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			state, err := s.service.Login(s.ctx)
			if err != nil {
				errs <- err
				return
			}
			s.True(state.LoggedIn)
		}()
		go func() {
			defer wg.Done()
			state, err := s.service.Logout(s.ctx)
			if err != nil {
				errs <- err
				return
			}
			s.False(state.LoggedIn)
		}()
		go func() {
			defer wg.Done()
			if _, err := s.service.Get(s.ctx); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}
}
