package dom

import "golang.org/x/net/html"

// Listener handles an event dispatched on a native node.
type Listener func(e *Event)

// ListenerID identifies a registered listener for removal. Go functions
// cannot be compared, so listeners are removed by ID.
type ListenerID uint64

// Event is a synthetic DOM event. Detail carries the payload of custom
// events.
type Event struct {
	// Type is the event name, e.g. "click" or "xwui:render".
	Type string

	// Bubbles makes the event visit every ancestor of the target.
	Bubbles bool

	// Detail is the custom payload.
	Detail any

	// Target is the node the event was dispatched on.
	Target *html.Node

	// CurrentTarget is the node whose listeners are running.
	CurrentTarget *html.Node

	defaultPrevented bool
	stopped          bool
	stoppedNow       bool
}

// NewEvent creates an event with no payload.
func NewEvent(typ string, bubbles bool) *Event {
	return &Event{Type: typ, Bubbles: bubbles}
}

// NewCustomEvent creates a bubbling event carrying detail.
func NewCustomEvent(typ string, detail any) *Event {
	return &Event{Type: typ, Bubbles: true, Detail: detail}
}

// PreventDefault marks the event as handled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops the event from reaching further ancestors. The
// remaining listeners of the current node still run.
func (e *Event) StopPropagation() { e.stopped = true }

// StopImmediatePropagation stops the event right away.
func (e *Event) StopImmediatePropagation() {
	e.stopped = true
	e.stoppedNow = true
}

// Stopped reports whether propagation was stopped.
func (e *Event) Stopped() bool { return e.stopped }

type listenerEntry struct {
	id   ListenerID
	fn   Listener
	once bool
}
