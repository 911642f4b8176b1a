package element

import "github.com/xwui-dev/xwui/pkg/dom"

// Handler reacts to an event on the rendered node.
type Handler func(e *dom.Event)

// On registers h for event. Handlers of the same event run in registration
// order, each exactly once per dispatch.
func (e *Element) On(event string, h Handler) *Element {
	if event == "" || h == nil {
		return e
	}
	e.handlers[event] = append(e.handlers[event], h)
	return e
}

// Off removes every handler of event, including an inline on<event>
// attribute.
func (e *Element) Off(event string) *Element {
	delete(e.handlers, event)
	delete(e.attrs, "on"+event)
	return e
}

// Handlers returns a copy of the handlers registered for event.
func (e *Element) Handlers(event string) []Handler {
	return append([]Handler(nil), e.handlers[event]...)
}

// Events returns the names of events with at least one handler.
func (e *Element) Events() []string {
	names := make([]string, 0, len(e.handlers))
	for name, hs := range e.handlers {
		if len(hs) > 0 {
			names = append(names, name)
		}
	}
	return names
}

// composed runs hs in order.
func composed(hs []Handler) dom.Listener {
	return func(ev *dom.Event) {
		for _, h := range hs {
			h(ev)
		}
	}
}
