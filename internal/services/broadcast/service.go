package broadcast

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/mcoot/statesync/internal/guard"
	"github.com/mcoot/statesync/internal/model"
	"github.com/mcoot/statesync/internal/worker"
)

// EventSystemStateUpdate is the event name carrying power snapshots
const EventSystemStateUpdate = "system_state_update"

// DefaultInterval is the pause between two emissions
const DefaultInterval = 37 * time.Millisecond

// ErrListenerClosed is returned by a Listener that will never accept another
// event. The broadcaster for that listener tears itself down.
var ErrListenerClosed = errors.New("listener closed")

// Listener receives the periodic snapshots of one listener session
type Listener interface {
	// ID identifies the session; setup is idempotent per ID
	ID() string
	// Emit delivers one event. Delivery is best effort.
	Emit(event string, payload any) error
}

// closer is implemented by listeners that can report they will never accept
// another event
type closer interface {
	Closed() bool
}

// session is one running broadcaster
type session struct {
	listener Listener
	ctx      context.Context
	cancel   context.CancelFunc
	done     <-chan struct{}
}

// running reports whether the broadcaster has neither been cancelled nor
// stopped by the supervisor
func (s *session) running() bool {
	if s.ctx.Err() != nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// live reports whether the session is running for a listener that can still
// accept events
func (s *session) live() bool {
	if c, ok := s.listener.(closer); ok && c.Closed() {
		return false
	}
	return s.running()
}

// stop cancels the broadcaster and waits for its goroutine to return
func (s *session) stop() {
	s.cancel()
	<-s.done
}

// Service spawns and tracks one broadcaster per listener session
type Service struct {
	state      *guard.Mutex[model.SystemState]
	supervisor *worker.Supervisor
	interval   time.Duration
	logger     *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

// New creates a broadcast Service emitting every interval
func New(state *guard.Mutex[model.SystemState], supervisor *worker.Supervisor, interval time.Duration, logger *slog.Logger) *Service {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Service{
		state:      state,
		supervisor: supervisor,
		interval:   interval,
		logger:     logger.With(slog.String("component", "broadcast")),
		sessions:   make(map[string]*session),
	}
}

// Setup starts a broadcaster for listener and emits the current snapshot
// right away. Calling it again with the same listener while it is
// broadcasting does nothing. A session for the same ID bound to a different
// or closed listener is replaced. The broadcaster outlives ctx's
// cancellation; it stops on Teardown, Close, or when the listener reports
// ErrListenerClosed.
func (s *Service) Setup(ctx context.Context, listener Listener) error {
	id := listener.ID()

	snapshot, err := s.snapshot()
	if err != nil {
		return err
	}

	for {
		s.mu.Lock()
		existing, ok := s.sessions[id]
		if !ok {
			break
		}
		if existing.live() && sameListener(existing.listener, listener) {
			s.mu.Unlock()
			s.logger.Debug("already broadcasting", slog.String("listener", id))
			return nil
		}
		delete(s.sessions, id)
		s.mu.Unlock()

		existing.stop()
		s.logger.Info("replacing listener session", slog.String("listener", id))
	}

	sess := &session{listener: listener}
	sess.ctx, sess.cancel = context.WithCancel(context.WithoutCancel(ctx))
	sess.done, err = s.supervisor.Spawn(sess.ctx, worker.Loop{
		Name:      workerName(id),
		Interval:  s.interval,
		Step:      func(context.Context) error { return s.step(sess) },
		Dependent: true,
	})
	if err != nil {
		s.mu.Unlock()
		sess.cancel()
		return err
	}
	s.sessions[id] = sess
	s.mu.Unlock()

	s.emit(listener, snapshot)
	s.logger.Info("listener setup", slog.String("listener", id))
	return nil
}

// Teardown stops the broadcaster for a listener and waits for it to finish,
// so the ID can be set up again straight away. It reports whether one was
// running.
func (s *Service) Teardown(id string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return false
	}
	running := sess.running()
	sess.stop()
	if running {
		s.logger.Info("listener torn down", slog.String("listener", id))
	}
	return running
}

// Active returns the IDs of listeners being broadcast to, sorted
func (s *Service) Active() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.sessions))
	for id, sess := range s.sessions {
		if sess.running() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Close stops every broadcaster
func (s *Service) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.cancel()
	}
}

// step runs on the session's own goroutine, so a closed listener only
// cancels its session here; the entry is dropped by the next Setup or
// Teardown for that ID, which joins the goroutine.
func (s *Service) step(sess *session) error {
	snapshot, err := s.snapshot()
	if err != nil {
		return err
	}
	if errors.Is(s.emit(sess.listener, snapshot), ErrListenerClosed) {
		sess.cancel()
		s.logger.Info("listener closed", slog.String("listener", sess.listener.ID()))
	}
	return nil
}

func (s *Service) snapshot() (model.SystemState, error) {
	var snapshot model.SystemState
	err := s.state.With(func(st *model.SystemState) error {
		snapshot = st.Clone()
		return nil
	})
	return snapshot, err
}

// emit delivers one snapshot, logging rather than returning failures
func (s *Service) emit(listener Listener, snapshot model.SystemState) error {
	err := listener.Emit(EventSystemStateUpdate, snapshot)
	if err != nil {
		s.logger.Warn("error on emit",
			slog.String("listener", listener.ID()),
			slog.String("error", err.Error()))
	}
	return err
}

// sameListener compares listeners by identity. Listener types that cannot be
// compared are never the same.
func sameListener(a, b Listener) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) || !reflect.TypeOf(a).Comparable() {
		return false
	}
	return a == b
}

func workerName(id string) string {
	return "broadcaster:" + id
}
