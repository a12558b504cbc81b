package systemclock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/statesync/internal/dependencies/mocks"
	"github.com/mcoot/statesync/internal/guard"
	"github.com/mcoot/statesync/internal/model"
	"github.com/mcoot/statesync/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	state   *guard.Mutex[model.SystemClock]
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.state = guard.New(model.NewSystemClock(s.clock.Now()))
	s.service = New(s.state, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestGetBeforeTickIsZero() {
	snapshot, err := s.service.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal("00:00:00:000", snapshot.Display.String())
}

func (s *ServiceSuite) TestTickMaterializesDigits() {
	s.clock.Advance(25*time.Hour + 61*time.Second + 7*time.Millisecond)
	s.Require().NoError(s.service.Tick(s.ctx))

	snapshot, err := s.service.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(25, snapshot.Hours)
	s.Equal(1, snapshot.Minutes)
	s.Equal(1, snapshot.Seconds)
	s.Equal(7, snapshot.Milliseconds)
}

func (s *ServiceSuite) TestGetDoesNotTick() {
	s.clock.Advance(time.Minute)

	snapshot, err := s.service.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, snapshot.Minutes)
}

func (s *ServiceSuite) TestSnapshotIsDetached() {
	s.clock.Advance(time.Second)
	s.Require().NoError(s.service.Tick(s.ctx))
	snapshot, _ := s.service.Get(s.ctx)

	s.clock.Advance(time.Second)
	s.Require().NoError(s.service.Tick(s.ctx))

	s.Equal(1, snapshot.Seconds)
}

func (s *ServiceSuite) TestPoisonedLockReported() {
	_ = s.state.With(func(c *model.SystemClock) error { panic("boom") })

	s.ErrorIs(s.service.Tick(s.ctx), model.ErrPoisonedLock)
	_, err := s.service.Get(s.ctx)
	s.ErrorIs(err, model.ErrPoisonedLock)
}
