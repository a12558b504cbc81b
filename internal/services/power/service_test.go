package power

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/statesync/internal/dependencies/mocks"
	"github.com/mcoot/statesync/internal/dependencies/random"
	"github.com/mcoot/statesync/internal/guard"
	"github.com/mcoot/statesync/internal/model"
	"github.com/mcoot/statesync/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	state   *guard.Mutex[model.SystemState]
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.state = guard.New(model.NewSystemState())
	s.random = mocks.NewMockRandom()
	s.service = New(s.state, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestStartsAtFullPower() {
	state, err := s.service.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(100, state.Power)
}

func (s *ServiceSuite) TestResetAlwaysYieldsZero() {
	for _, delta := range []int{0, 37, 99} {
		s.random.QueueIntn(delta)
		s.Require().NoError(s.service.Perturb(s.ctx))

		state, err := s.service.Reset(s.ctx)
		s.Require().NoError(err)
		s.Equal(0, state.Power)
	}
}

func (s *ServiceSuite) TestPerturbWrapsModulo101() {
	s.random.QueueIntn(1)
	s.Require().NoError(s.service.Perturb(s.ctx))

	state, _ := s.service.Get(s.ctx)
	s.Equal(0, state.Power)

	s.random.QueueIntn(42)
	s.Require().NoError(s.service.Perturb(s.ctx))

	state, _ = s.service.Get(s.ctx)
	s.Equal(42, state.Power)
}

func (s *ServiceSuite) TestPerturbDrawsBelow100() {
	s.Require().NoError(s.service.Perturb(s.ctx))
	s.Equal([]int{100}, s.random.Calls)
}

func (s *ServiceSuite) TestEveryTickAppliesTheSeedsFirstDraw() {
	service := New(s.state, random.NewFresh(random.DefaultSeed), testutil.NopLogger())
	delta := int(random.Squirrel3(0, random.DefaultSeed) % 100)

	expected := 100
	for i := 0; i < 5; i++ {
		s.Require().NoError(service.Perturb(s.ctx))
		expected = (expected + delta) % 101

		state, err := service.Get(s.ctx)
		s.Require().NoError(err)
		s.Equal(expected, state.Power, "tick %d", i)
	}
}

func (s *ServiceSuite) TestPowerStaysInRangeWithNoiseSource() {
	service := New(s.state, random.New(random.DefaultSeed), testutil.NopLogger())

	for i := 0; i < 500; i++ {
		s.Require().NoError(service.Perturb(s.ctx))
		state, err := service.Get(s.ctx)
		s.Require().NoError(err)
		s.GreaterOrEqual(state.Power, 0)
		s.LessOrEqual(state.Power, 100)
	}
}

func (s *ServiceSuite) TestPoisonedLockReported() {
	_ = s.state.With(func(st *model.SystemState) error { panic("boom") })

	_, err := s.service.Get(s.ctx)
	s.ErrorIs(err, model.ErrPoisonedLock)
	_, err = s.service.Reset(s.ctx)
	s.ErrorIs(err, model.ErrPoisonedLock)
	s.ErrorIs(s.service.Perturb(s.ctx), model.ErrPoisonedLock)
}
