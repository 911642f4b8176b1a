package xwui

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/xwui-dev/xwui/pkg/dom"
	"github.com/xwui-dev/xwui/pkg/element"
	"github.com/xwui-dev/xwui/pkg/events"
	"github.com/xwui-dev/xwui/pkg/fetch"
	"github.com/xwui-dev/xwui/pkg/metrics"
	"github.com/xwui-dev/xwui/pkg/router"
	"github.com/xwui-dev/xwui/pkg/state"
	"github.com/xwui-dev/xwui/pkg/storage"
	"github.com/xwui-dev/xwui/pkg/style"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

// Default tracer name for render spans.
const defaultTracerName = "xwui"

// App orchestrates one document.
type App struct {
	cfg Config
	doc *dom.Document

	root     *html.Node
	elements []*element.Element

	style   *style.Manager
	state   *state.Manager
	storage *storage.Storage
	http    *fetch.Client
	hub     *events.Hub
	router  *router.Router

	onload      func(*App)
	initialized bool
	onloadRun   bool
	rendered    bool
	batch       int

	// the mounted output came from auto-render
	autoRendered bool

	// creations announced before the document was ready
	pending []*element.Element

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// New creates an app for doc. Init runs when doc fires load, or when
// called directly.
func New(doc *dom.Document, cfg Config) *App {
	cfg.applyDefaults()
	a := &App{
		cfg:     cfg,
		doc:     doc,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		tracer:  otel.Tracer(defaultTracerName),
	}

	a.style = style.New(doc, style.WithPrefix(cfg.StylePrefix), style.WithLogger(a.logger))
	a.state = state.New(nil)
	a.storage = storage.New(cfg.StorageBackend,
		storage.WithPrefix(cfg.StoragePrefix),
		storage.WithLogger(a.logger),
		storage.WithMetrics(a.metrics),
	)
	a.http = fetch.New(cfg.BaseURL,
		fetch.WithHTTPClient(cfg.HTTPClient),
		fetch.WithLogger(a.logger),
		fetch.WithMetrics(a.metrics),
	)
	a.hub = events.New(doc, events.WithClock(cfg.Clock), events.WithLogger(a.logger))

	if cfg.AutoRender {
		a.hub.OnCreated(func(*events.Detail, events.CreatedPayload) {
			if a.batch == 0 && !a.rendered {
				a.autoRender()
			}
		})
	}

	doc.AddEventListener(doc.Node(), dom.EventReadyStateChange, func(*dom.Event) {
		if doc.Ready() {
			a.flush()
		}
	})
	doc.AddEventListenerOnce(doc.Node(), dom.EventLoad, func(*dom.Event) {
		a.Init()
	})
	return a
}

// Init resolves the mount point, sets the title, creates the style sheet,
// constructs the router, runs the onload callback and renders. It runs
// once; later calls do nothing.
//
// The router resolves the current location after onload, so routes added
// there take part in the first dispatch.
func (a *App) Init() {
	if a.initialized {
		return
	}
	a.root = a.doc.GetElementByID(a.cfg.RootID)
	if a.root == nil {
		a.root = a.doc.Body()
	}
	a.doc.SetTitle(a.cfg.Title)
	a.style.Init()
	if a.cfg.Router {
		a.router = router.New(a.doc, a,
			router.WithLogger(a.logger),
			router.WithMetrics(a.metrics),
		)
	}
	a.initialized = true
	a.logger.Debug("app initialized", "title", a.cfg.Title, "root", a.cfg.RootID)

	a.batch++
	func() {
		defer func() { a.batch-- }()
		a.runOnload()
		if a.router != nil && len(a.router.Patterns()) > 0 {
			a.router.Start()
		}
	}()
	if a.cfg.AutoRender && !a.rendered {
		a.autoRender()
	}
}

// SetOnload sets the callback run once by Init. When Init has already
// run and the callback has not, it runs immediately.
func (a *App) SetOnload(fn func(*App)) *App {
	a.onload = fn
	if a.initialized {
		a.Batch(a.runOnload)
	}
	return a
}

func (a *App) runOnload() {
	if a.onloadRun || a.onload == nil {
		return
	}
	a.onloadRun = true
	a.onload(a)
}

// Batch runs fn with auto-render held back, then renders once if a
// render is due. Elements created inside fn are announced as usual.
func (a *App) Batch(fn func()) {
	a.batch++
	func() {
		defer func() { a.batch-- }()
		fn()
	}()
	if a.batch == 0 && a.cfg.AutoRender && a.initialized && !a.rendered {
		a.autoRender()
	}
}

func (a *App) autoRender() {
	a.RenderAll()
	a.autoRendered = a.rendered
}

// NewElement creates an element, appends it to the collection and
// announces it. Element children already in the collection move into the
// new element. Announcements made before the document is ready are
// queued and delivered in order once it is.
func (a *App) NewElement(tag string, attrs element.Attrs, children ...any) *element.Element {
	el := element.New(tag, attrs, children...)
	adopted := a.adopt(children)
	a.elements = append(a.elements, el)
	a.metrics.RecordElementCreated()
	a.announce(el)
	// an inner call may have auto-rendered before this element existed
	if adopted && a.autoRendered && a.batch == 0 && a.cfg.ClearOnRender {
		a.autoRender()
	}
	return el
}

// adopt drops top-level elements that were passed as children, so a tree
// built from nested NewElement calls renders once.
func (a *App) adopt(children []any) bool {
	adopted := false
	for _, c := range children {
		if child, ok := c.(*element.Element); ok && a.has(child) {
			a.Remove(child)
			adopted = true
		}
	}
	return adopted
}

func (a *App) has(el *element.Element) bool {
	for _, e := range a.elements {
		if e == el {
			return true
		}
	}
	return false
}

func (a *App) announce(el *element.Element) {
	if !a.doc.Ready() {
		a.pending = append(a.pending, el)
		return
	}
	a.hub.AnnounceCreated(el)
}

func (a *App) flush() {
	for len(a.pending) > 0 {
		el := a.pending[0]
		a.pending = a.pending[1:]
		a.hub.AnnounceCreated(el)
	}
	a.pending = nil
}

// Remove drops el from the collection.
func (a *App) Remove(el *element.Element) *App {
	out := a.elements[:0:0]
	for _, e := range a.elements {
		if e != el {
			out = append(out, e)
		}
	}
	a.elements = out
	return a
}

// RemoveElement drops every top-level element with the given tag whose
// attributes include all of match.
func (a *App) RemoveElement(tag string, match element.Attrs) *App {
	out := a.elements[:0:0]
	for _, e := range a.elements {
		if !e.Matches(tag, match) {
			out = append(out, e)
		}
	}
	a.elements = out
	return a
}

// ClearElements empties the collection, wipes the mount point and resets
// the rendered flag.
func (a *App) ClearElements() {
	a.elements = nil
	a.wipeRoot()
	a.rendered = false
	a.autoRendered = false
}

// Elements returns a copy of the collection.
func (a *App) Elements() []*element.Element {
	return append([]*element.Element(nil), a.elements...)
}

// Find returns the first element matching selector across all top-level
// trees, in collection order.
func (a *App) Find(selector string) *element.Element {
	for _, e := range a.elements {
		if found := e.Find(selector); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every element matching selector across all top-level
// trees.
func (a *App) FindAll(selector string) []*element.Element {
	var out []*element.Element
	for _, e := range a.elements {
		out = append(out, e.FindAll(selector)...)
	}
	return out
}

// RenderAll materializes the collection into the mount point. Without a
// mount point it does nothing. The render event carries a snapshot of the
// collection and is published before any node is built.
func (a *App) RenderAll() {
	a.RenderAllContext(context.Background())
}

// RenderAllContext is RenderAll with a parent context for the render
// span.
func (a *App) RenderAllContext(ctx context.Context) {
	if a.root == nil {
		a.logger.Debug("render skipped, no mount point")
		return
	}
	_, span := a.tracer.Start(ctx, "xwui.render",
		trace.WithAttributes(attribute.Int("xwui.elements", len(a.elements))),
	)
	defer span.End()
	start := time.Now()
	a.autoRendered = false

	if a.cfg.ClearOnRender {
		a.wipeRoot()
	}
	a.hub.AnnounceRender(a.elements)
	for _, e := range a.elements {
		dom.AppendChild(a.root, e.Render(a.doc))
	}

	first := !a.rendered
	a.rendered = true
	a.metrics.RecordRender(len(a.elements), time.Since(start))
	if first {
		a.logger.Debug("rendered", "elements", len(a.elements))
	} else {
		a.logger.Debug("re-rendered", "elements", len(a.elements))
	}
}

// wipeRoot removes the mount point's children, keeping the hub node.
func (a *App) wipeRoot() {
	if a.root == nil {
		return
	}
	a.doc.RemoveChildren(a.root, a.hub.Node())
}

// Document returns the app's document.
func (a *App) Document() *dom.Document { return a.doc }

// Root returns the mount point, or nil before Init.
func (a *App) Root() *html.Node { return a.root }

// Rendered reports whether a render completed since the last clear.
func (a *App) Rendered() bool { return a.rendered }

// Initialized reports whether Init has run.
func (a *App) Initialized() bool { return a.initialized }

// Config returns the effective configuration.
func (a *App) Config() Config { return a.cfg }

// Style returns the style manager.
func (a *App) Style() *style.Manager { return a.style }

// State returns the app state.
func (a *App) State() *state.Manager { return a.state }

// Storage returns the persistent storage.
func (a *App) Storage() *storage.Storage { return a.storage }

// HTTP returns the HTTP helper.
func (a *App) HTTP() *fetch.Client { return a.http }

// Hub returns the event hub.
func (a *App) Hub() *events.Hub { return a.hub }

// Router returns the router, or nil when disabled or before Init.
func (a *App) Router() *router.Router { return a.router }

// HTML writes the whole document.
func (a *App) HTML(w io.Writer) error { return a.doc.Render(w) }
