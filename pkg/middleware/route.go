package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// unmatched labels requests no route matched.
const unmatched = "unmatched"

// routePattern returns the chi pattern that served r. It must be called
// after the handler ran.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatched
	}
	if p := rctx.RoutePattern(); p != "" {
		return p
	}
	return unmatched
}
