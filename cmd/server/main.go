package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/statesync/internal/api"
	"github.com/mcoot/statesync/internal/config"
	"github.com/mcoot/statesync/internal/factory"
	"github.com/mcoot/statesync/internal/web"
)

func main() {
	cfg, err := config.Load(os.Getenv("STATESYNC_CONFIG"))
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		cancel()
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or the server fails. Every resource it
// opens is released before it returns, on error paths too.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	app, err := factory.New(factory.Config{
		Workers:  cfg.Workers,
		Listener: cfg.Listener,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		if err := app.Close(); err != nil {
			logger.Warn("error closing application", slog.String("error", err.Error()))
		}
		app.Supervisor.Wait()
	}()

	if err := app.StartWorkers(ctx); err != nil {
		return fmt.Errorf("start workers: %w", err)
	}

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		AuthService:      app.AuthService,
		PowerService:     app.PowerService,
		ClockService:     app.ClockService,
		TimerService:     app.TimerService,
		BroadcastService: app.BroadcastService,
		GreetService:     app.GreetService,
		Supervisor:       app.Supervisor,
		HubManager:       app.HubManager,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:       logger,
		AuthService:  app.AuthService,
		PowerService: app.PowerService,
		ClockService: app.ClockService,
		TimerService: app.TimerService,
		GreetService: app.GreetService,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := api.NewServer(mux, cfg.Server, logger)
	if err := server.Listen(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("on_poison", string(app.Supervisor.Policy())),
		slog.Bool("redis_listener", app.RedisListener != nil))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		// Close broadcasters first so open event streams end and shutdown
		// does not wait on them
		_ = app.Close()
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	// Already validated by config.Load
	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
