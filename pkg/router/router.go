package router

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/xwui-dev/xwui/pkg/dom"
	"github.com/xwui-dev/xwui/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for route dispatch spans.
const defaultTracerName = "xwui/router"

// Wildcard is the pattern of the fallback route.
const Wildcard = "*"

// Params holds route parameters: captured segments merged over the extra
// parameters passed to Navigate.
type Params map[string]string

// Query holds query string values. When a key repeats, the last value
// wins.
type Query map[string]string

// Handler builds the page for a resolved route.
type Handler func(params Params, query Query)

// Host is the element collection a router drives. On dispatch the router
// clears it, runs the handler and renders again.
type Host interface {
	ClearElements()
	RenderAll()
}

type route struct {
	pattern  string
	segments []string
	dynamic  bool
	handler  Handler
}

// Router maps path patterns to handlers.
type Router struct {
	doc    *dom.Document
	host   Host
	routes []*route
	index  map[string]*route

	current string
	matched bool
	params  Params
	query   Query

	popID   dom.ListenerID
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the router logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics records dispatch results.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Router) { r.metrics = m }
}

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(r *Router) { r.tracer = otel.Tracer(name) }
}

// New creates a router over doc's history. Popstate events resolve the
// new location. host may be nil, in which case handlers run without the
// clear and render around them.
func New(doc *dom.Document, host Host, opts ...Option) *Router {
	r := &Router{
		doc:    doc,
		host:   host,
		index:  make(map[string]*route),
		params: Params{},
		query:  Query{},
		logger: slog.Default(),
		tracer: otel.Tracer(defaultTracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.popID = doc.AddEventListener(doc.Node(), dom.EventPopState, func(*dom.Event) {
		r.HandleRoute(r.doc.Location().Path, nil)
	})
	return r
}

// Add registers handler for pattern. Re-adding a pattern replaces its
// handler and keeps its original position.
func (r *Router) Add(pattern string, handler Handler) *Router {
	if rt, ok := r.index[pattern]; ok {
		rt.handler = handler
		return r
	}
	rt := &route{
		pattern:  pattern,
		segments: strings.Split(pattern, "/"),
		dynamic:  strings.Contains(pattern, ":"),
		handler:  handler,
	}
	r.routes = append(r.routes, rt)
	r.index[pattern] = rt
	return r
}

// Start resolves the current document location.
func (r *Router) Start() bool {
	return r.HandleRoute(r.doc.Location().Path, nil)
}

// Stop detaches the router from popstate events.
func (r *Router) Stop() {
	r.doc.RemoveEventListener(r.doc.Node(), dom.EventPopState, r.popID)
}

// Navigate pushes path onto the document history and resolves it.
func (r *Router) Navigate(path string, extra Params) (bool, error) {
	return r.NavigateContext(context.Background(), path, extra)
}

// NavigateContext is Navigate with a parent context for the dispatch span.
func (r *Router) NavigateContext(ctx context.Context, path string, extra Params) (bool, error) {
	if err := r.doc.PushState(path); err != nil {
		r.logger.Warn("navigation dropped", "path", path, "error", err)
		return false, err
	}
	return r.HandleRouteContext(ctx, path, extra), nil
}

// HandleRoute resolves path and dispatches its handler. It reports
// whether a handler ran.
func (r *Router) HandleRoute(path string, extra Params) bool {
	return r.HandleRouteContext(context.Background(), path, extra)
}

// HandleRouteContext is HandleRoute with a parent context for the
// dispatch span.
func (r *Router) HandleRouteContext(ctx context.Context, path string, extra Params) bool {
	path, _, _ = strings.Cut(path, "?")
	r.current = path
	r.matched = false
	r.query = parseQuery(r.doc.Location().RawQuery)
	r.params = Params{}
	for k, v := range extra {
		r.params[k] = v
	}

	rt, captured := r.match(path)
	result := metrics.RouteMatched
	if rt != nil {
		for k, v := range captured {
			r.params[k] = v
		}
	} else if rt = r.index[Wildcard]; rt != nil {
		result = metrics.RouteWildcard
	} else {
		r.metrics.RecordRoute(metrics.RouteUnmatched)
		r.logger.Warn("no route matched", "path", path)
		return false
	}
	r.matched = true

	_, span := r.tracer.Start(ctx, "xwui.route",
		trace.WithAttributes(
			attribute.String("xwui.path", path),
			attribute.String("xwui.route", rt.pattern),
			attribute.String("xwui.route_result", result),
		),
	)
	defer span.End()

	r.metrics.RecordRoute(result)
	r.logger.Debug("route dispatch", "path", path, "route", rt.pattern, "params", r.params)

	if r.host != nil {
		r.host.ClearElements()
	}
	rt.handler(r.Params(), r.Query())
	if r.host != nil {
		r.host.RenderAll()
	}
	return true
}

// match returns the route for path: an exact pattern first, then the
// first dynamic pattern in registration order with the same segment count
// whose literal segments all match.
func (r *Router) match(path string) (*route, Params) {
	if rt, ok := r.index[path]; ok && rt.pattern != Wildcard {
		return rt, nil
	}
	parts := strings.Split(path, "/")
	for _, rt := range r.routes {
		if !rt.dynamic || len(rt.segments) != len(parts) {
			continue
		}
		if captured, ok := matchSegments(rt.segments, parts); ok {
			return rt, captured
		}
	}
	return nil, nil
}

func matchSegments(segments, parts []string) (Params, bool) {
	captured := Params{}
	for i, seg := range segments {
		if strings.HasPrefix(seg, ":") {
			captured[seg[1:]] = parts[i]
			continue
		}
		if seg != parts[i] {
			return nil, false
		}
	}
	return captured, true
}

// Current returns the last resolved path, without its query.
func (r *Router) Current() string { return r.current }

// Matched reports whether the last resolution dispatched a handler.
func (r *Router) Matched() bool { return r.matched }

// Params returns a copy of the current parameters.
func (r *Router) Params() Params {
	out := make(Params, len(r.params))
	for k, v := range r.params {
		out[k] = v
	}
	return out
}

// Query returns a copy of the current query values.
func (r *Router) Query() Query {
	out := make(Query, len(r.query))
	for k, v := range r.query {
		out[k] = v
	}
	return out
}

// Patterns returns the registered patterns in registration order.
func (r *Router) Patterns() []string {
	out := make([]string, len(r.routes))
	for i, rt := range r.routes {
		out[i] = rt.pattern
	}
	return out
}

func parseQuery(raw string) Query {
	q := Query{}
	// malformed pairs are skipped; the rest still parse
	values, _ := url.ParseQuery(raw)
	for k, vs := range values {
		if len(vs) > 0 {
			q[k] = vs[len(vs)-1]
		}
	}
	return q
}
