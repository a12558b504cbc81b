package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/statesync/internal/api/handler"
	"github.com/mcoot/statesync/internal/api/middleware"
	sharedmw "github.com/mcoot/statesync/internal/middleware"
	"github.com/mcoot/statesync/internal/services/auth"
	"github.com/mcoot/statesync/internal/services/broadcast"
	"github.com/mcoot/statesync/internal/services/greet"
	"github.com/mcoot/statesync/internal/services/power"
	"github.com/mcoot/statesync/internal/services/systemclock"
	"github.com/mcoot/statesync/internal/services/timers"
	"github.com/mcoot/statesync/internal/web/sse"
	"github.com/mcoot/statesync/internal/worker"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	AuthService      *auth.Service
	PowerService     *power.Service
	ClockService     *systemclock.Service
	TimerService     *timers.Service
	BroadcastService *broadcast.Service
	GreetService     *greet.Service
	Supervisor       *worker.Supervisor
	HubManager       *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	stateHandler := handler.NewStateHandler(cfg.AuthService, cfg.PowerService, cfg.ClockService)
	timerHandler := handler.NewTimerHandler(cfg.TimerService)
	listenerHandler := handler.NewListenerHandler(cfg.BroadcastService, cfg.HubManager)
	greetHandler := handler.NewGreetHandler(cfg.GreetService)
	healthHandler := handler.NewHealthHandler(cfg.Supervisor, cfg.BroadcastService)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(sharedmw.Logging(cfg.Logger))

	// Auth
	api.HandleFunc("/auth", stateHandler.GetLogin).Methods(http.MethodGet)
	api.HandleFunc("/auth/login", stateHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", stateHandler.Logout).Methods(http.MethodPost)

	// Power and clock
	api.HandleFunc("/power", stateHandler.GetPower).Methods(http.MethodGet)
	api.HandleFunc("/power/reset", stateHandler.ResetPower).Methods(http.MethodPost)
	api.HandleFunc("/clock", stateHandler.GetClock).Methods(http.MethodGet)

	// Timers
	api.HandleFunc("/timers", timerHandler.Push).Methods(http.MethodPost)
	api.HandleFunc("/timers", timerHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/timers/{index}", timerHandler.Get).Methods(http.MethodGet)

	// Listener sessions
	api.HandleFunc("/listeners/{id}/setup", listenerHandler.Setup).Methods(http.MethodPost)
	api.HandleFunc("/listeners/{id}", listenerHandler.Teardown).Methods(http.MethodDelete)
	api.HandleFunc("/listeners/{id}/events", listenerHandler.Events).Methods(http.MethodGet)

	api.HandleFunc("/greet", greetHandler.Greet).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)

	return r
}
