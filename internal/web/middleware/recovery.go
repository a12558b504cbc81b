package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/statesync/internal/middleware"
)

// Recovery creates panic recovery middleware for the status page.
// A panic renders a plain HTML error page.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("component", "web")), pagePanicHandler)
}

const panicPage = `<!DOCTYPE html>
<html>
<head><title>statesync: error</title></head>
<body>
<h1>Internal Server Error</h1>
<p>The status page could not be rendered.</p>
<p><a href="/">Reload</a></p>
</body>
</html>`

func pagePanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(panicPage))
}
