package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/statesync/internal/api/response"
	"github.com/mcoot/statesync/internal/services/broadcast"
	"github.com/mcoot/statesync/internal/web/sse"
)

// ListenerHandler handles listener session endpoints
type ListenerHandler struct {
	broadcast  *broadcast.Service
	hubManager *sse.HubManager
}

// NewListenerHandler creates a new listener handler
func NewListenerHandler(broadcastService *broadcast.Service, hubManager *sse.HubManager) *ListenerHandler {
	return &ListenerHandler{
		broadcast:  broadcastService,
		hubManager: hubManager,
	}
}

// Setup handles POST /api/v1/listeners/{id}/setup
func (h *ListenerHandler) Setup(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	hub := h.hubManager.GetOrCreateHub(id)
	if err := h.broadcast.Setup(r.Context(), sse.NewListener(hub)); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Listener{
		ID:     id,
		Active: h.broadcast.Active(),
	})
}

// Teardown handles DELETE /api/v1/listeners/{id}
func (h *ListenerHandler) Teardown(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	stopped := h.broadcast.Teardown(id)
	removed := h.hubManager.RemoveHub(id)
	if !stopped && !removed {
		WriteError(w, NewNotFoundError("Listener not found"))
		return
	}
	response.NoContent(w)
}

// Events handles GET /api/v1/listeners/{id}/events
func (h *ListenerHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	hub := h.hubManager.GetHub(id)
	if hub == nil {
		WriteError(w, NewNotFoundError("Listener not set up"))
		return
	}
	sse.ServeSSE(w, r, hub)
}
