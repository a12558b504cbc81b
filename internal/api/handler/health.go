package handler

import (
	"net/http"

	"github.com/mcoot/statesync/internal/api/response"
	"github.com/mcoot/statesync/internal/services/broadcast"
	"github.com/mcoot/statesync/internal/worker"
)

// Health statuses
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// HealthHandler reports worker liveness
type HealthHandler struct {
	supervisor *worker.Supervisor
	broadcast  *broadcast.Service
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(supervisor *worker.Supervisor, broadcastService *broadcast.Service) *HealthHandler {
	return &HealthHandler{
		supervisor: supervisor,
		broadcast:  broadcastService,
	}
}

// Health handles GET /api/v1/health. Any stopped worker makes it 503.
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	resp := response.Health{
		Status:    StatusOK,
		Policy:    string(h.supervisor.Policy()),
		Workers:   h.supervisor.Status(),
		Listeners: h.broadcast.Active(),
	}

	status := http.StatusOK
	if !h.supervisor.Healthy() {
		resp.Status = StatusDegraded
		status = http.StatusServiceUnavailable
	}
	response.JSON(w, status, resp)
}
