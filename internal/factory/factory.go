package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/mcoot/statesync/internal/config"
	"github.com/mcoot/statesync/internal/dependencies/clock"
	"github.com/mcoot/statesync/internal/dependencies/random"
	redislistener "github.com/mcoot/statesync/internal/listener/redis"
	"github.com/mcoot/statesync/internal/services/auth"
	"github.com/mcoot/statesync/internal/services/broadcast"
	"github.com/mcoot/statesync/internal/services/greet"
	"github.com/mcoot/statesync/internal/services/power"
	"github.com/mcoot/statesync/internal/services/systemclock"
	"github.com/mcoot/statesync/internal/services/timers"
	"github.com/mcoot/statesync/internal/state"
	"github.com/mcoot/statesync/internal/web/sse"
	"github.com/mcoot/statesync/internal/worker"
)

// Worker names
const (
	WorkerClock      = "clock"
	WorkerPower      = "power"
	WorkerTimers     = "timers"
	WorkerHubCleanup = "sse-cleanup"
)

// App contains all wired application components
type App struct {
	// State
	Registry *state.Registry

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService      *auth.Service
	PowerService     *power.Service
	ClockService     *systemclock.Service
	TimerService     *timers.Service
	BroadcastService *broadcast.Service
	GreetService     *greet.Service

	Supervisor *worker.Supervisor
	HubManager *sse.HubManager

	// RedisListener is nil unless a Redis URL is configured
	RedisListener *redislistener.Listener

	workers   config.WorkersConfig
	logger    *slog.Logger
	closeOnce sync.Once
	closeErr  error
}

// Config holds configuration for the application factory
type Config struct {
	// Workers holds worker intervals, seed and poison policy.
	// If zero value, defaults to config.Default().Workers
	Workers config.WorkersConfig
	// Listener holds outward listener settings (optional)
	Listener config.ListenerConfig
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	workers := cfg.Workers
	if workers == (config.WorkersConfig{}) {
		workers = config.Default().Workers
	}

	clk := clock.New()
	rnd := random.NewFresh(workers.PowerSeed)

	app := newWithDependencies(clk, rnd, workers, logger)

	if cfg.Listener.RedisURL != "" {
		redisCfg := redislistener.DefaultConfig()
		redisCfg.URL = cfg.Listener.RedisURL
		if cfg.Listener.RedisPrefix != "" {
			redisCfg.Prefix = cfg.Listener.RedisPrefix
		}
		if cfg.Listener.RedisID != "" {
			redisCfg.ListenerID = cfg.Listener.RedisID
		}
		redisCfg.SnapshotTTL = cfg.Listener.SnapshotTTL

		listener, err := redislistener.New(redisCfg)
		if err != nil {
			return nil, err
		}
		app.RedisListener = listener
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(clk clock.Clock, rnd random.Random, workers config.WorkersConfig, logger *slog.Logger) *App {
	registry := state.New(clk)
	supervisor := worker.NewSupervisor(workers.PoisonPolicy(), logger)

	return &App{
		Registry:         registry,
		Clock:            clk,
		Random:           rnd,
		AuthService:      auth.New(registry.Auth, logger),
		PowerService:     power.New(registry.Power, rnd, logger),
		ClockService:     systemclock.New(registry.Clock, clk, logger),
		TimerService:     timers.New(registry.Timers, clk, logger),
		BroadcastService: broadcast.New(registry.Power, supervisor, workers.BroadcastInterval, logger),
		GreetService:     greet.New(),
		Supervisor:       supervisor,
		HubManager:       sse.NewHubManager(clk, logger),
		workers:          workers,
		logger:           logger,
	}
}

// StartWorkers launches the background workers. They run until ctx is
// cancelled. When a Redis listener is configured its broadcaster starts too.
func (a *App) StartWorkers(ctx context.Context) error {
	loops := []worker.Loop{
		{
			Name:     WorkerClock,
			Interval: a.workers.ClockInterval,
			Step:     a.ClockService.Tick,
			Reset:    a.Registry.ResetClock,
		},
		{
			Name:     WorkerPower,
			Interval: a.workers.PowerInterval,
			Step:     a.PowerService.Perturb,
			Reset:    a.Registry.ResetPower,
		},
	}
	if a.workers.TimerTickInterval > 0 {
		loops = append(loops, worker.Loop{
			Name:     WorkerTimers,
			Interval: a.workers.TimerTickInterval,
			Step:     a.TimerService.TickAll,
			Reset:    a.Registry.ResetTimers,
		})
	}
	if a.workers.HubIdleTimeout > 0 {
		idle := a.workers.HubIdleTimeout
		loops = append(loops, worker.Loop{
			Name:     WorkerHubCleanup,
			Interval: idle,
			Step: func(context.Context) error {
				a.HubManager.CleanupIdleHubs(idle)
				return nil
			},
		})
	}

	for _, loop := range loops {
		if err := a.Supervisor.Go(ctx, loop); err != nil {
			return fmt.Errorf("starting %s worker: %w", loop.Name, err)
		}
	}

	if a.RedisListener != nil {
		if err := a.BroadcastService.Setup(ctx, a.RedisListener); err != nil {
			return fmt.Errorf("setting up redis listener: %w", err)
		}
	}

	a.logger.Info("workers started", slog.Int("count", len(loops)))
	return nil
}

// Close stops every broadcaster and releases outward connections. Workers
// started by StartWorkers stop with their context. Only the first call has
// any effect.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		a.BroadcastService.Close()
		a.HubManager.Close()

		var errs []error
		if a.RedisListener != nil {
			errs = append(errs, a.RedisListener.Close())
		}
		a.closeErr = errors.Join(errs...)
	})
	return a.closeErr
}
