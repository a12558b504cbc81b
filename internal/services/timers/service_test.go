package timers

import (
	"context"
	"sync"
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
	state   *guard.Mutex[model.TimerList]
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.state = guard.New(model.NewTimerList())
	s.service = New(s.state, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

// Push tests

func (s *ServiceSuite) TestPushAssignsIDFromPosition() {
	for n := 1; n <= 5; n++ {
		timer, err := s.service.Push(s.ctx, 30)
		s.Require().NoError(err)
		s.Equal(n, timer.ID)
	}
}

func (s *ServiceSuite) TestPushReturnsInitialDigits() {
	timer, err := s.service.Push(s.ctx, 3661)
	s.Require().NoError(err)

	s.Equal(1, timer.Hours)
	s.Equal(1, timer.Minutes)
	s.Equal(1, timer.Seconds)
	s.Equal(0, timer.Milliseconds)
}

func (s *ServiceSuite) TestPushZeroSeconds() {
	timer, err := s.service.Push(s.ctx, 0)
	s.Require().NoError(err)

	s.Equal("00:00:00:000", timer.Display.String())
	s.True(timer.Expired)
}

func (s *ServiceSuite) TestConcurrentPushesGetDistinctIDs() {
	const callers = 50
	ids := make(chan int, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			timer, err := s.service.Push(s.ctx, 1)
			if err == nil {
				ids <- timer.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool)
	for id := range ids {
		s.False(seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	s.Len(seen, callers)

	list, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	for i, timer := range list.Timers {
		s.Equal(i+1, timer.ID)
	}
}

// List and Get tests

func (s *ServiceSuite) TestPushListAndLookupScenario() {
	for _, seconds := range []uint64{5, 10, 0} {
		_, err := s.service.Push(s.ctx, seconds)
		s.Require().NoError(err)
	}

	list, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list.Timers, 3)
	s.Equal([]int{1, 2, 3}, []int{list.Timers[0].ID, list.Timers[1].ID, list.Timers[2].ID})
	s.Equal(5, list.Timers[0].Seconds)
	s.Equal(10, list.Timers[1].Seconds)

	third, err := s.service.Get(s.ctx, 2)
	s.Require().NoError(err)
	s.Equal(3, third.ID)
	s.Equal(time.Duration(0), third.Budget())

	_, err = s.service.Get(s.ctx, 3)
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *ServiceSuite) TestGetOnEmptyListFails() {
	_, err := s.service.Get(s.ctx, 0)
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *ServiceSuite) TestListSnapshotIsDetached() {
	_, _ = s.service.Push(s.ctx, 5)
	snapshot, _ := s.service.List(s.ctx)

	_, _ = s.service.Push(s.ctx, 5)

	s.Len(snapshot.Timers, 1)
}

// TickAll tests

func (s *ServiceSuite) TestTickAllCountsDown() {
	_, _ = s.service.Push(s.ctx, 10)
	s.clock.Advance(4 * time.Second)
	_, _ = s.service.Push(s.ctx, 10)

	s.clock.Advance(2500 * time.Millisecond)
	s.Require().NoError(s.service.TickAll(s.ctx))

	list, _ := s.service.List(s.ctx)
	s.Equal(3, list.Timers[0].Seconds)
	s.Equal(500, list.Timers[0].Milliseconds)
	s.Equal(7, list.Timers[1].Seconds)
}

func (s *ServiceSuite) TestTickAllSaturatesAtZero() {
	_, _ = s.service.Push(s.ctx, 1)
	s.clock.Advance(time.Hour)
	s.Require().NoError(s.service.TickAll(s.ctx))

	timer, err := s.service.Get(s.ctx, 0)
	s.Require().NoError(err)
	s.True(timer.Expired)
	s.Equal("00:00:00:000", timer.Display.String())
}

func (s *ServiceSuite) TestPoisonedLockReported() {
	_ = s.state.With(func(l *model.TimerList) error { panic("boom") })

	_, err := s.service.Push(s.ctx, 1)
	s.ErrorIs(err, model.ErrPoisonedLock)
	_, err = s.service.List(s.ctx)
	s.ErrorIs(err, model.ErrPoisonedLock)
	_, err = s.service.Get(s.ctx, 0)
	s.ErrorIs(err, model.ErrPoisonedLock)
}
