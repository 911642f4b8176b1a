package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordFunctions(t *testing.T) {
	m := New(WithRegistry(prometheus.NewRegistry()))

	m.RecordElementCreated()
	m.RecordElementCreated()
	m.RecordRender(3, 2*time.Millisecond)
	m.RecordRoute(RouteMatched)
	m.RecordRoute(RouteUnmatched)
	m.RecordStorage("memory", "set", nil)
	m.RecordStorage("memory", "set", errors.New("quota"))
	m.RecordHTTP("GET", 204, time.Millisecond)
	m.RecordHTTP("GET", 0, time.Millisecond)
	m.DevtoolsConnected(2)
	m.DevtoolsConnected(-1)
	m.RecordPage("/users/{id}", 200, time.Millisecond)
	m.RecordPage("/users/{id}", 404, time.Millisecond)

	if got := metricCounterValue(t, m.elementsCreated); got != 2 {
		t.Errorf("elements_created_total = %v, want 2", got)
	}
	if got := metricCounterValue(t, m.rendersTotal); got != 1 {
		t.Errorf("renders_total = %v, want 1", got)
	}
	if got := metricHistogramCount(t, m.renderDuration); got != 1 {
		t.Errorf("render_duration_seconds count = %d, want 1", got)
	}
	if got := metricCounterValue(t, m.routeDispatches.WithLabelValues(RouteMatched)); got != 1 {
		t.Errorf("route_dispatches_total{matched} = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.storageOps.WithLabelValues("memory", "set", "error")); got != 1 {
		t.Errorf("storage_operations_total{error} = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.httpRequests.WithLabelValues("GET", "2xx")); got != 1 {
		t.Errorf("http_requests_total{2xx} = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.httpRequests.WithLabelValues("GET", "error")); got != 1 {
		t.Errorf("http_requests_total{error} = %v, want 1", got)
	}
	if got := metricHistogramCount(t, m.httpDuration.WithLabelValues("GET")); got != 2 {
		t.Errorf("http_request_duration_seconds count = %d, want 2", got)
	}
	if got := metricGaugeValue(t, m.devtoolsClients); got != 1 {
		t.Errorf("devtools_clients = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.pageRequests.WithLabelValues("/users/{id}", "4xx")); got != 1 {
		t.Errorf("page_requests_total{4xx} = %v, want 1", got)
	}
	if got := metricHistogramCount(t, m.pageDuration.WithLabelValues("/users/{id}")); got != 2 {
		t.Errorf("page_request_duration_seconds count = %d, want 2", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordElementCreated()
	m.RecordRender(1, time.Second)
	m.RecordRoute(RouteWildcard)
	m.RecordStorage("bolt", "get", nil)
	m.RecordHTTP("POST", 500, time.Second)
	m.DevtoolsConnected(1)
	m.RecordPage("/", 200, time.Second)
}

func TestNamespaceOption(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(WithRegistry(reg), WithNamespace("site"), WithConstLabels(prometheus.Labels{"app": "demo"}))
	m.RecordElementCreated()

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "site_elements_created_total" {
			found = true
			if got := f.GetMetric()[0].GetLabel()[0].GetValue(); got != "demo" {
				t.Errorf("const label = %q", got)
			}
		}
	}
	if !found {
		t.Error("namespaced counter not registered")
	}
}
