package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	sharedmw "github.com/mcoot/statesync/internal/middleware"
	"github.com/mcoot/statesync/internal/services/auth"
	"github.com/mcoot/statesync/internal/services/greet"
	"github.com/mcoot/statesync/internal/services/power"
	"github.com/mcoot/statesync/internal/services/systemclock"
	"github.com/mcoot/statesync/internal/services/timers"
	"github.com/mcoot/statesync/internal/web/handler"
	"github.com/mcoot/statesync/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger       *slog.Logger
	AuthService  *auth.Service
	PowerService *power.Service
	ClockService *systemclock.Service
	TimerService *timers.Service
	GreetService *greet.Service
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(sharedmw.Logging(cfg.Logger))

	homeHandler := handler.NewHomeHandler(
		cfg.AuthService,
		cfg.PowerService,
		cfg.ClockService,
		cfg.TimerService,
		cfg.GreetService,
		cfg.Logger.With(slog.String("component", "web")),
	)

	r.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	r.HandleFunc("/login", homeHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/logout", homeHandler.Logout).Methods(http.MethodPost)
	r.HandleFunc("/power/reset", homeHandler.ResetPower).Methods(http.MethodPost)
	r.HandleFunc("/timers", homeHandler.PushTimer).Methods(http.MethodPost)

	return r
}
