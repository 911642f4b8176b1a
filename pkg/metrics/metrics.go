// Package metrics holds the Prometheus instruments recorded by xwui.
//
// A nil *Metrics is valid and records nothing, so components take one
// unconditionally:
//
//	m := metrics.New(metrics.WithRegistry(reg))
//	app := xwui.New(doc, xwui.Config{Metrics: m})
//
// Metrics collected:
//   - xwui_elements_created_total: Counter of elements created through an App
//   - xwui_renders_total: Counter of render passes
//   - xwui_render_duration_seconds: Histogram of render pass duration
//   - xwui_rendered_elements: Histogram of top-level elements per render pass
//   - xwui_route_dispatches_total: Counter of navigations by result
//   - xwui_storage_operations_total: Counter of storage operations by backend, op and status
//   - xwui_http_requests_total: Counter of HTTP helper requests by method and status class
//   - xwui_http_request_duration_seconds: Histogram of HTTP helper request duration
//   - xwui_devtools_clients: Gauge of connected devtools clients
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the instruments.
type Config struct {
	// Namespace is the metrics namespace (default: "xwui").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the instruments.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "xwui",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Route dispatch results.
const (
	RouteMatched   = "matched"
	RouteWildcard  = "wildcard"
	RouteUnmatched = "unmatched"
)

// Metrics is the set of xwui instruments.
type Metrics struct {
	elementsCreated  prometheus.Counter
	rendersTotal     prometheus.Counter
	renderDuration   prometheus.Histogram
	renderedElements prometheus.Histogram
	routeDispatches  *prometheus.CounterVec
	storageOps       *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	devtoolsClients  prometheus.Gauge
	pageRequests     *prometheus.CounterVec
	pageDuration     *prometheus.HistogramVec
}

// New registers the instruments with the configured registry. Registering
// twice with the same registry panics, as with promauto.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		elementsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "elements_created_total",
			Help:        "Total elements created through an App",
			ConstLabels: config.ConstLabels,
		}),

		rendersTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total render passes",
			ConstLabels: config.ConstLabels,
		}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Render pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		renderedElements: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "rendered_elements",
			Help:        "Top-level elements materialized per render pass",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 5, 10, 50, 100, 500},
		}),

		routeDispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "route_dispatches_total",
			Help:        "Total navigations by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		storageOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "storage_operations_total",
			Help:        "Total storage operations by backend, operation and status",
			ConstLabels: config.ConstLabels,
		}, []string{"backend", "op", "status"}),

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_requests_total",
			Help:        "Total HTTP helper requests by method and status class",
			ConstLabels: config.ConstLabels,
		}, []string{"method", "status"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP helper request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"method"}),

		devtoolsClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "devtools_clients",
			Help:        "Number of connected devtools clients",
			ConstLabels: config.ConstLabels,
		}),

		pageRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "page_requests_total",
			Help:        "Total served requests by route pattern and status class",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "status"}),

		pageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "page_request_duration_seconds",
			Help:        "Served request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),
	}
}

// RecordElementCreated counts one created element.
func (m *Metrics) RecordElementCreated() {
	if m != nil {
		m.elementsCreated.Inc()
	}
}

// RecordRender records one render pass over count top-level elements.
func (m *Metrics) RecordRender(count int, d time.Duration) {
	if m != nil {
		m.rendersTotal.Inc()
		m.renderDuration.Observe(d.Seconds())
		m.renderedElements.Observe(float64(count))
	}
}

// RecordRoute records a navigation result (RouteMatched, RouteWildcard or
// RouteUnmatched).
func (m *Metrics) RecordRoute(result string) {
	if m != nil {
		m.routeDispatches.WithLabelValues(result).Inc()
	}
}

// RecordStorage records a storage operation.
func (m *Metrics) RecordStorage(backend, op string, err error) {
	if m != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		m.storageOps.WithLabelValues(backend, op, status).Inc()
	}
}

// RecordHTTP records an HTTP helper request. A zero status means the
// request failed before a response arrived.
func (m *Metrics) RecordHTTP(method string, status int, d time.Duration) {
	if m != nil {
		m.httpRequests.WithLabelValues(method, statusClass(status)).Inc()
		m.httpDuration.WithLabelValues(method).Observe(d.Seconds())
	}
}

// DevtoolsConnected adjusts the devtools client gauge by delta.
func (m *Metrics) DevtoolsConnected(delta int) {
	if m != nil {
		m.devtoolsClients.Add(float64(delta))
	}
}

// RecordPage records one served request. route is the matched route
// pattern, not the raw path.
func (m *Metrics) RecordPage(route string, status int, d time.Duration) {
	if m != nil {
		m.pageRequests.WithLabelValues(route, statusClass(status)).Inc()
		m.pageDuration.WithLabelValues(route).Observe(d.Seconds())
	}
}

// statusClass keeps the status label low-cardinality.
func statusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
