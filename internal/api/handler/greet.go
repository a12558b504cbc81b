package handler

import (
	"net/http"

	"github.com/mcoot/statesync/internal/api/response"
	"github.com/mcoot/statesync/internal/services/greet"
)

// GreetHandler handles GET /api/v1/greet
type GreetHandler struct {
	greet *greet.Service
}

// NewGreetHandler creates a new greet handler
func NewGreetHandler(greetService *greet.Service) *GreetHandler {
	return &GreetHandler{greet: greetService}
}

// Greet handles GET /api/v1/greet?name=
func (h *GreetHandler) Greet(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	response.JSON(w, http.StatusOK, response.Greeting{Message: h.greet.Greet(name)})
}
