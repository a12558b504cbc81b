package handler

import (
	"fmt"
	"net/http"

	"github.com/mcoot/statesync/internal/api/request"
	"github.com/mcoot/statesync/internal/api/response"
	"github.com/mcoot/statesync/internal/chrono"
	"github.com/mcoot/statesync/internal/services/timers"
)

// TimerHandler handles timer list endpoints
type TimerHandler struct {
	timers *timers.Service
}

// NewTimerHandler creates a new timer handler
func NewTimerHandler(timerService *timers.Service) *TimerHandler {
	return &TimerHandler{timers: timerService}
}

// Push handles POST /api/v1/timers
func (h *TimerHandler) Push(w http.ResponseWriter, r *http.Request) {
	var req request.PushTimerRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Seconds == nil {
		WriteError(w, NewInvalidRequestError("seconds is required"))
		return
	}
	if *req.Seconds < 0 {
		WriteError(w, NewInvalidRequestError("seconds must not be negative"))
		return
	}
	if uint64(*req.Seconds) > chrono.MaxCountdownSeconds {
		WriteError(w, NewInvalidRequestError(fmt.Sprintf("seconds must not exceed %d", chrono.MaxCountdownSeconds)))
		return
	}

	timer, err := h.timers.Push(r.Context(), uint64(*req.Seconds))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.Created(w, response.TimerFromModel(timer))
}

// List handles GET /api/v1/timers
func (h *TimerHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.timers.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.TimerListFromModel(list))
}

// Get handles GET /api/v1/timers/{index}
func (h *TimerHandler) Get(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r, "index")
	if err != nil {
		WriteError(w, err)
		return
	}

	timer, err := h.timers.Get(r.Context(), index)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.TimerFromModel(timer))
}
