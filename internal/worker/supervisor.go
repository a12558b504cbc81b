// Package worker runs the long-lived background loops that mutate and
// broadcast state. Each loop runs on its own goroutine until its context is
// cancelled. A loop whose state lock is poisoned is either stopped or has its
// state reset and keeps running, depending on the configured policy; both
// outcomes are logged and visible through Status.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/statesync/internal/model"
)

// PoisonPolicy decides what a worker does when its state lock is poisoned
type PoisonPolicy string

const (
	// PolicyStop ends the worker. The rest of the system keeps running.
	PolicyStop PoisonPolicy = "stop"
	// PolicyReset restores the state object and keeps the worker running
	PolicyReset PoisonPolicy = "reset"
)

// ParsePoisonPolicy validates a policy name
func ParsePoisonPolicy(s string) (PoisonPolicy, error) {
	switch PoisonPolicy(s) {
	case PolicyStop, PolicyReset:
		return PoisonPolicy(s), nil
	default:
		return "", fmt.Errorf("invalid poison policy %q: must be %q or %q", s, PolicyStop, PolicyReset)
	}
}

// Loop describes one background worker
type Loop struct {
	// Name identifies the worker in logs and status; must be unique
	Name string
	// Interval is the pause before each step
	Interval time.Duration
	// Step performs one bounded critical section
	Step func(ctx context.Context) error
	// Reset restores the worker's state object after poisoning. If nil the
	// worker stops on poisoning regardless of policy, unless it is Dependent.
	Reset func()
	// Dependent marks a loop that only reads state another worker owns and
	// restores. Under the reset policy a poisoned lock is recorded and the
	// loop keeps stepping until the owner resets it, without counting
	// restarts. Under the stop policy it stops like any other loop.
	Dependent bool
}

// State is a worker's lifecycle state
type State string

const (
	StateRunning State = "running"
	StateStopped State = "stopped"
)

// Status is a point-in-time view of one worker
type Status struct {
	Name      string `json:"name"`
	State     State  `json:"state"`
	Restarts  int    `json:"restarts"`
	LastError string `json:"last_error,omitempty"`
}

// Errors
var (
	ErrDuplicateWorker = errors.New("worker already registered")
	ErrInvalidInterval = errors.New("worker interval must be positive")
)

// Supervisor starts workers and tracks their health
type Supervisor struct {
	policy PoisonPolicy
	logger *slog.Logger

	mu      sync.Mutex
	order   []string
	workers map[string]*Status

	wg sync.WaitGroup
}

// NewSupervisor creates a Supervisor applying policy to poisoned workers
func NewSupervisor(policy PoisonPolicy, logger *slog.Logger) *Supervisor {
	if policy == "" {
		policy = PolicyReset
	}
	return &Supervisor{
		policy:  policy,
		logger:  logger.With(slog.String("component", "worker")),
		workers: make(map[string]*Status),
	}
}

// Policy returns the supervisor's poison policy
func (s *Supervisor) Policy() PoisonPolicy {
	return s.policy
}

// Go starts loop on its own goroutine. The loop runs until ctx is cancelled
// or it stops on a poisoned lock.
func (s *Supervisor) Go(ctx context.Context, loop Loop) error {
	_, err := s.Spawn(ctx, loop)
	return err
}

// Spawn is Go, returning a channel closed once the loop's goroutine has
// returned. A cancelled loop is no longer tracked by then, so its name can be
// reused immediately.
func (s *Supervisor) Spawn(ctx context.Context, loop Loop) (<-chan struct{}, error) {
	if loop.Interval <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, loop.Name)
	}

	s.mu.Lock()
	if existing, ok := s.workers[loop.Name]; ok && existing.State == StateRunning {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrDuplicateWorker, loop.Name)
	}
	if _, ok := s.workers[loop.Name]; !ok {
		s.order = append(s.order, loop.Name)
	}
	s.workers[loop.Name] = &Status{Name: loop.Name, State: StateRunning}
	s.mu.Unlock()

	done := make(chan struct{})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(done)
		s.run(ctx, loop)
	}()

	s.logger.Info("worker started",
		slog.String("worker", loop.Name),
		slog.Duration("interval", loop.Interval))
	return done, nil
}

func (s *Supervisor) run(ctx context.Context, loop Loop) {
	ticker := time.NewTicker(loop.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.remove(loop.Name)
			s.logger.Info("worker finished", slog.String("worker", loop.Name))
			return

		case <-ticker.C:
			err := loop.Step(ctx)
			if err == nil {
				continue
			}
			if !s.handleError(loop, err) {
				return
			}
		}
	}
}

// handleError records a step failure and reports whether the worker should
// keep running
func (s *Supervisor) handleError(loop Loop, err error) bool {
	if !errors.Is(err, model.ErrPoisonedLock) {
		s.record(loop.Name, func(st *Status) { st.LastError = err.Error() })
		s.logger.Warn("worker step failed",
			slog.String("worker", loop.Name),
			slog.String("error", err.Error()))
		return true
	}

	if loop.Dependent && s.policy == PolicyReset {
		s.record(loop.Name, func(st *Status) { st.LastError = err.Error() })
		s.logger.Debug("worker waiting on poisoned state", slog.String("worker", loop.Name))
		return true
	}

	s.logger.Error("worker state poisoned",
		slog.String("worker", loop.Name),
		slog.String("policy", string(s.policy)),
		slog.String("error", err.Error()))

	if s.policy == PolicyReset && loop.Reset != nil && !loop.Dependent {
		loop.Reset()
		s.record(loop.Name, func(st *Status) {
			st.Restarts++
			st.LastError = err.Error()
		})
		s.logger.Warn("worker state reset", slog.String("worker", loop.Name))
		return true
	}

	s.record(loop.Name, func(st *Status) {
		st.State = StateStopped
		st.LastError = err.Error()
	})
	s.logger.Error("worker stopped", slog.String("worker", loop.Name))
	return false
}

func (s *Supervisor) record(name string, fn func(*Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.workers[name]; ok {
		fn(st)
	}
}

func (s *Supervisor) remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workers, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Status returns every tracked worker in start order
func (s *Supervisor) Status() []Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Status, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, *s.workers[name])
	}
	return out
}

// Healthy reports whether no worker has stopped
func (s *Supervisor) Healthy() bool {
	for _, st := range s.Status() {
		if st.State == StateStopped {
			return false
		}
	}
	return true
}

// Wait blocks until every worker goroutine has returned
func (s *Supervisor) Wait() {
	s.wg.Wait()
}
