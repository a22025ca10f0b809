// Package middleware provides net/http middleware for the trellis server.
//
// This package includes:
//   - Prometheus request metrics
//   - OpenTelemetry request tracing
//   - Structured request logging and panic recovery
//
// All middleware have the chi signature and can be stacked on a router:
//
//	r := chi.NewRouter()
//	r.Use(
//	    middleware.Prometheus(middleware.WithRegistry(reg)),
//	    middleware.OpenTelemetry(),
//	    middleware.Logger(logger),
//	    middleware.Recoverer(logger),
//	)
//
// Recoverer goes last so the outer middleware observe the 500 it writes.
//
// Routes are labeled by their chi pattern, not the raw path, so metric
// cardinality stays bounded. Requests no route matched are labeled
// "unmatched".
//
// The response writer is wrapped with chi's WrapResponseWriter, which keeps
// http.Hijacker available for websocket upgrades.
package middleware
