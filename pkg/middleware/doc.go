// Package middleware instruments the HTTP surface of an xwui app.
//
// Both middlewares wrap an http.Handler and fit chi's Use:
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(), middleware.Prometheus(m))
//
// # OpenTelemetry
//
// OpenTelemetry starts a server span per request using the global tracer
// provider. The span rides on the request context, so render and route
// spans started by the app become its children. Responses with a 5xx
// status mark the span as an error.
//
// # Prometheus
//
// Prometheus records xwui_page_requests_total and
// xwui_page_request_duration_seconds on a *metrics.Metrics. Requests are
// labeled with the chi route pattern rather than the raw path, keeping
// label cardinality bounded.
package middleware
