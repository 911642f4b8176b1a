// Package events implements the xwui event dispatcher: a hidden native
// node used purely as a publish/subscribe channel.
//
// Consumers observe element creation and render passes without touching
// the code that creates or renders elements:
//
//	hub := events.New(doc)
//	hub.OnRender(func(d *events.Detail, p events.RenderPayload) {
//	    log.Printf("render of %d elements", d.Summary.Count)
//	})
package events

import (
	"log/slog"
	"sort"
	"time"

	"github.com/xwui-dev/xwui/pkg/dom"
	"github.com/xwui-dev/xwui/pkg/element"
	"golang.org/x/net/html"
)

// HubID is the id of the hub node.
const HubID = "xwui-event-dispatcher"

// Event names published by the toolkit.
const (
	ElementCreated = "xwui:element-created"
	Render         = "xwui:render"
)

// Detail is the payload carried by every hub event.
type Detail struct {
	Name      string
	Timestamp time.Time
	Payload   any

	// Summary is set for render events.
	Summary *RenderSummary
}

// CreatedPayload describes a newly created element.
type CreatedPayload struct {
	Element    *element.Element
	Tag        string
	Attributes element.Attrs
	ChildCount int
}

// RenderPayload is the snapshot of top-level elements about to be
// rendered.
type RenderPayload struct {
	Elements []*element.Element
}

// RenderSummary is derived from a RenderPayload.
type RenderSummary struct {
	Count    int
	Elements []ElementSummary
}

// ElementSummary describes one rendered top-level element.
type ElementSummary struct {
	Tag           string
	AttributeKeys []string
	ChildCount    int
}

// Hub is the event dispatcher. The zero value is not usable; call New.
type Hub struct {
	doc    *dom.Document
	node   *html.Node
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Hub.
type Option func(*Hub)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(h *Hub) {
		if now != nil {
			h.now = now
		}
	}
}

// WithLogger sets the hub logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a hub for doc. The hub node is created on first use.
func New(doc *dom.Document, opts ...Option) *Hub {
	h := &Hub{
		doc:    doc,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Node returns the hub node, creating and attaching it if needed. The same
// node is reused for the lifetime of the hub; if something detached it, it
// is inserted again as the first child of body.
func (h *Hub) Node() *html.Node {
	if h.node == nil {
		if existing := h.doc.GetElementByID(HubID); existing != nil {
			h.node = existing
		} else {
			h.node = h.doc.CreateElement("div")
			dom.SetAttribute(h.node, "id", HubID)
			dom.SetAttribute(h.node, "style", "display: none")
			h.logger.Debug("event dispatcher created")
		}
	}
	if !h.doc.Contains(h.node) {
		dom.InsertFirst(h.doc.Body(), h.node)
	}
	return h.node
}

// Publish dispatches a bubbling event named name on the hub node.
func (h *Hub) Publish(name string, payload any) *Detail {
	d := &Detail{
		Name:      name,
		Timestamp: h.now(),
		Payload:   payload,
	}
	if rp, ok := payload.(RenderPayload); ok {
		d.Summary = Summarize(rp.Elements)
	}
	h.doc.DispatchEvent(h.Node(), dom.NewCustomEvent(name, d))
	return d
}

// Subscribe attaches fn to events named name.
func (h *Hub) Subscribe(name string, fn dom.Listener) dom.ListenerID {
	return h.doc.AddEventListener(h.Node(), name, fn)
}

// Unsubscribe removes a subscription.
func (h *Hub) Unsubscribe(name string, id dom.ListenerID) bool {
	return h.doc.RemoveEventListener(h.Node(), name, id)
}

// AnnounceCreated publishes an ElementCreated event for el.
func (h *Hub) AnnounceCreated(el *element.Element) *Detail {
	return h.Publish(ElementCreated, CreatedPayload{
		Element:    el,
		Tag:        el.Tag(),
		Attributes: el.AttributeMap(),
		ChildCount: el.ChildCount(),
	})
}

// AnnounceRender publishes a Render event carrying a copy of elems.
func (h *Hub) AnnounceRender(elems []*element.Element) *Detail {
	snapshot := append([]*element.Element(nil), elems...)
	return h.Publish(Render, RenderPayload{Elements: snapshot})
}

// OnCreated subscribes to ElementCreated with a typed callback.
func (h *Hub) OnCreated(fn func(*Detail, CreatedPayload)) dom.ListenerID {
	return h.Subscribe(ElementCreated, func(e *dom.Event) {
		if d, ok := e.Detail.(*Detail); ok {
			if p, ok := d.Payload.(CreatedPayload); ok {
				fn(d, p)
			}
		}
	})
}

// OnRender subscribes to Render with a typed callback.
func (h *Hub) OnRender(fn func(*Detail, RenderPayload)) dom.ListenerID {
	return h.Subscribe(Render, func(e *dom.Event) {
		if d, ok := e.Detail.(*Detail); ok {
			if p, ok := d.Payload.(RenderPayload); ok {
				fn(d, p)
			}
		}
	})
}

// Summarize derives the render summary of elems.
func Summarize(elems []*element.Element) *RenderSummary {
	s := &RenderSummary{Count: len(elems), Elements: make([]ElementSummary, 0, len(elems))}
	for _, el := range elems {
		if el == nil {
			continue
		}
		attrs := el.AttributeMap()
		keys := make([]string, 0, len(attrs))
		for k := range attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		s.Elements = append(s.Elements, ElementSummary{
			Tag:           el.Tag(),
			AttributeKeys: keys,
			ChildCount:    el.ChildCount(),
		})
	}
	return s
}
