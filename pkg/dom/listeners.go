package dom

import "golang.org/x/net/html"

// AddEventListener registers fn for events of type typ on n.
func (d *Document) AddEventListener(n *html.Node, typ string, fn Listener) ListenerID {
	return d.addListener(n, typ, fn, false)
}

// AddEventListenerOnce registers fn and removes it after its first call.
func (d *Document) AddEventListenerOnce(n *html.Node, typ string, fn Listener) ListenerID {
	return d.addListener(n, typ, fn, true)
}

func (d *Document) addListener(n *html.Node, typ string, fn Listener, once bool) ListenerID {
	if n == nil || fn == nil {
		return 0
	}
	byType, ok := d.listeners[n]
	if !ok {
		byType = make(map[string][]listenerEntry)
		d.listeners[n] = byType
	}
	id := d.nextID
	d.nextID++
	byType[typ] = append(byType[typ], listenerEntry{id: id, fn: fn, once: once})
	return id
}

// RemoveEventListener removes the listener with the given ID.
func (d *Document) RemoveEventListener(n *html.Node, typ string, id ListenerID) bool {
	byType, ok := d.listeners[n]
	if !ok {
		return false
	}
	entries := byType[typ]
	for i, e := range entries {
		if e.id == id {
			byType[typ] = append(entries[:i:i], entries[i+1:]...)
			return true
		}
	}
	return false
}

// ListenerCount returns how many listeners of type typ are attached to n.
func (d *Document) ListenerCount(n *html.Node, typ string) int {
	return len(d.listeners[n][typ])
}

// DispatchEvent delivers e to the listeners of n and, when e bubbles, of
// every ancestor. Listeners run in registration order. It returns false if
// a listener called PreventDefault.
func (d *Document) DispatchEvent(n *html.Node, e *Event) bool {
	if n == nil || e == nil {
		return true
	}
	e.Target = n
	for cur := n; cur != nil; cur = cur.Parent {
		d.invoke(cur, e)
		if e.stopped || !e.Bubbles {
			break
		}
	}
	e.CurrentTarget = nil
	return !e.defaultPrevented
}

func (d *Document) invoke(n *html.Node, e *Event) {
	byType, ok := d.listeners[n]
	if !ok {
		return
	}
	// Snapshot so listeners added or removed during dispatch do not affect
	// this round.
	entries := append([]listenerEntry(nil), byType[e.Type]...)
	if len(entries) == 0 {
		return
	}
	e.CurrentTarget = n
	for _, entry := range entries {
		if entry.once {
			d.RemoveEventListener(n, e.Type, entry.id)
		}
		entry.fn(e)
		if e.stoppedNow {
			return
		}
	}
}
