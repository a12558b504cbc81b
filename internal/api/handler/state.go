package handler

import (
	"net/http"

	"github.com/mcoot/statesync/internal/api/response"
	"github.com/mcoot/statesync/internal/services/auth"
	"github.com/mcoot/statesync/internal/services/power"
	"github.com/mcoot/statesync/internal/services/systemclock"
)

// StateHandler handles the auth, power and clock endpoints
type StateHandler struct {
	auth  *auth.Service
	power *power.Service
	clock *systemclock.Service
}

// NewStateHandler creates a new state handler
func NewStateHandler(authService *auth.Service, powerService *power.Service, clockService *systemclock.Service) *StateHandler {
	return &StateHandler{
		auth:  authService,
		power: powerService,
		clock: clockService,
	}
}

// Login handles POST /api/v1/auth/login
func (h *StateHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := h.auth.Login(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AuthFromModel(state))
}

// Logout handles POST /api/v1/auth/logout
func (h *StateHandler) Logout(w http.ResponseWriter, r *http.Request) {
	state, err := h.auth.Logout(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AuthFromModel(state))
}

// GetLogin handles GET /api/v1/auth
func (h *StateHandler) GetLogin(w http.ResponseWriter, r *http.Request) {
	state, err := h.auth.Get(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AuthFromModel(state))
}

// GetPower handles GET /api/v1/power
func (h *StateHandler) GetPower(w http.ResponseWriter, r *http.Request) {
	state, err := h.power.Get(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PowerFromModel(state))
}

// ResetPower handles POST /api/v1/power/reset
func (h *StateHandler) ResetPower(w http.ResponseWriter, r *http.Request) {
	state, err := h.power.Reset(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PowerFromModel(state))
}

// GetClock handles GET /api/v1/clock
func (h *StateHandler) GetClock(w http.ResponseWriter, r *http.Request) {
	clock, err := h.clock.Get(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ClockFromModel(clock))
}
