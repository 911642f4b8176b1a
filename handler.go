package xwui

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xwui-dev/xwui/pkg/devtools"
	"github.com/xwui-dev/xwui/pkg/loop"
	"github.com/xwui-dev/xwui/pkg/middleware"
)

// EventsPath is where the devtools websocket is served.
const EventsPath = "/_xwui/events"

type handlerConfig struct {
	gatherer   prometheus.Gatherer
	bridge     *devtools.Bridge
	noMetrics  bool
	noDevtools bool
}

// HandlerOption configures Handler.
type HandlerOption func(*handlerConfig)

// WithGatherer sets the gatherer served on /metrics.
// Default: prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) HandlerOption {
	return func(c *handlerConfig) {
		if g != nil {
			c.gatherer = g
		}
	}
}

// WithBridge serves an existing devtools bridge instead of a new one.
func WithBridge(b *devtools.Bridge) HandlerOption {
	return func(c *handlerConfig) { c.bridge = b }
}

// WithoutMetrics drops the /metrics route.
func WithoutMetrics() HandlerOption {
	return func(c *handlerConfig) { c.noMetrics = true }
}

// WithoutDevtools drops the devtools websocket.
func WithoutDevtools() HandlerOption {
	return func(c *handlerConfig) { c.noDevtools = true }
}

// Handler serves the app over HTTP. Every page request runs on lp and
// loads the document if needed. The requested path replaces the current
// history entry, the router resolves it and the document is written back.
// lp must be running. Requests are traced and counted by route pattern.
//
// Routes:
//
//	GET /metrics          Prometheus metrics
//	GET /_xwui/events     devtools websocket
//	GET /*                rendered page, 404 when no route matches
func (a *App) Handler(lp *loop.Loop, opts ...HandlerOption) http.Handler {
	cfg := handlerConfig{gatherer: prometheus.DefaultGatherer}
	for _, opt := range opts {
		opt(&cfg)
	}
	r := chi.NewRouter()
	r.Use(
		chimw.Recoverer,
		middleware.OpenTelemetry(middleware.WithFilter(func(req *http.Request) bool {
			return req.URL.Path != "/metrics"
		})),
		middleware.Prometheus(a.metrics),
	)
	if !cfg.noMetrics {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	}
	if !cfg.noDevtools {
		if cfg.bridge == nil {
			cfg.bridge = devtools.New(devtools.WithLogger(a.logger), devtools.WithMetrics(a.metrics))
		}
		bridge := cfg.bridge
		lp.Post(func() { bridge.Attach(a.hub) })
		r.Get(EventsPath, bridge.HandleWebSocket)
	}
	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		var (
			buf     bytes.Buffer
			matched bool
			navErr  error
		)
		err := lp.Do(req.Context(), func() {
			if !a.doc.Ready() {
				a.doc.Load()
			}
			a.Init()
			if navErr = a.doc.ReplaceState(req.URL.RequestURI()); navErr != nil {
				return
			}
			if a.router != nil {
				matched = a.router.HandleRouteContext(req.Context(), req.URL.Path, nil)
			} else {
				matched = true
			}
			navErr = a.doc.Render(&buf)
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		if navErr != nil {
			a.logger.Warn("page request failed", "path", req.URL.Path, "error", navErr)
			http.Error(w, navErr.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if !matched {
			w.WriteHeader(http.StatusNotFound)
		}
		_, _ = w.Write(buf.Bytes())
	})
	return r
}
