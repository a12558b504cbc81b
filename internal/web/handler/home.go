package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/statesync/internal/chrono"
	"github.com/mcoot/statesync/internal/services/auth"
	"github.com/mcoot/statesync/internal/services/greet"
	"github.com/mcoot/statesync/internal/services/power"
	"github.com/mcoot/statesync/internal/services/systemclock"
	"github.com/mcoot/statesync/internal/services/timers"
	"github.com/mcoot/statesync/internal/web/templates"
)

// HomeHandler serves the status page and its form actions
type HomeHandler struct {
	auth   *auth.Service
	power  *power.Service
	clock  *systemclock.Service
	timers *timers.Service
	greet  *greet.Service
	logger *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(
	authService *auth.Service,
	powerService *power.Service,
	clockService *systemclock.Service,
	timerService *timers.Service,
	greetService *greet.Service,
	logger *slog.Logger,
) *HomeHandler {
	return &HomeHandler{
		auth:   authService,
		power:  powerService,
		clock:  clockService,
		timers: timerService,
		greet:  greetService,
		logger: logger,
	}
}

// Home renders the status page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	login, err := h.auth.Get(ctx)
	if err != nil {
		h.fail(w, err)
		return
	}
	system, err := h.power.Get(ctx)
	if err != nil {
		h.fail(w, err)
		return
	}
	clock, err := h.clock.Get(ctx)
	if err != nil {
		h.fail(w, err)
		return
	}
	list, err := h.timers.List(ctx)
	if err != nil {
		h.fail(w, err)
		return
	}

	data := templates.StatusData{
		Greeting: h.greet.Greet("operator"),
		LoggedIn: login.LoggedIn,
		Power:    system.Power,
		Clock:    clock.Display.String(),
		Timers:   make([]templates.TimerRow, len(list.Timers)),
	}
	for i, t := range list.Timers {
		data.Timers[i] = templates.TimerRow{ID: t.ID, Display: t.Display.String()}
	}

	if err := render(w, r, templates.StatusPage(data)); err != nil {
		h.fail(w, err)
	}
}

// render writes component to w. It renders into a buffer first so a failure
// never sends a partial page.
func render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	var buf bytes.Buffer
	if err := component.Render(r.Context(), &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
	return nil
}

// Login handles POST /login
func (h *HomeHandler) Login(w http.ResponseWriter, r *http.Request) {
	if _, err := h.auth.Login(r.Context()); err != nil {
		h.fail(w, err)
		return
	}
	redirectHome(w, r)
}

// Logout handles POST /logout
func (h *HomeHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, err := h.auth.Logout(r.Context()); err != nil {
		h.fail(w, err)
		return
	}
	redirectHome(w, r)
}

// ResetPower handles POST /power/reset
func (h *HomeHandler) ResetPower(w http.ResponseWriter, r *http.Request) {
	if _, err := h.power.Reset(r.Context()); err != nil {
		h.fail(w, err)
		return
	}
	redirectHome(w, r)
}

// PushTimer handles POST /timers
func (h *HomeHandler) PushTimer(w http.ResponseWriter, r *http.Request) {
	seconds, err := strconv.ParseUint(r.FormValue("seconds"), 10, 64)
	if err != nil || seconds > chrono.MaxCountdownSeconds {
		http.Error(w, "seconds must be a non-negative integer no larger than "+strconv.FormatUint(chrono.MaxCountdownSeconds, 10), http.StatusBadRequest)
		return
	}
	if _, err := h.timers.Push(r.Context(), seconds); err != nil {
		h.fail(w, err)
		return
	}
	redirectHome(w, r)
}

func (h *HomeHandler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("status page failed", slog.String("error", err.Error()))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
