package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routePattern returns the matched chi route pattern, keeping label and span
// cardinality bounded. Call it after the next handler has run.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return "<unknown>"
	}

	pattern := rctx.RoutePattern()
	if pattern == "" {
		return "<unknown>"
	}
	return pattern
}
