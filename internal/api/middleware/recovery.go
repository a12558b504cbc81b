// Package middleware holds API-specific middleware
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/statesync/internal/api/apierr"
	"github.com/mcoot/statesync/internal/middleware"
)

// Recovery converts panics in API handlers into INTERNAL_ERROR JSON bodies
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("component", "api")), func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
