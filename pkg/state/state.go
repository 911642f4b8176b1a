// Package state implements a key/value store with change notification.
//
// Listeners subscribe to "change" (fired once for every Set) or to
// "change:<key>" (fired only when that key's value changes):
//
//	s := state.New(map[string]any{"count": 0})
//	s.On("change:count", func(c state.Change) { ... })
//	s.SetValue("count", 1)
package state

import (
	"reflect"
	"sort"
)

// EventChange is the aggregate event name. Per-key events are named
// EventChange + ":" + key.
const EventChange = "change"

// KeyEvent returns the per-key event name for key.
func KeyEvent(key string) string { return EventChange + ":" + key }

// Change describes one notification. Key, Value and Previous are set for
// per-key events; State and PreviousState for the aggregate event.
type Change struct {
	Key      string
	Value    any
	Previous any

	State         map[string]any
	PreviousState map[string]any
}

// Listener receives change notifications.
type Listener func(Change)

// ListenerID identifies a registration for Off.
type ListenerID uint64

type entry struct {
	id ListenerID
	fn Listener
}

// Manager owns the state mapping. It is not safe for concurrent use.
type Manager struct {
	state     map[string]any
	listeners map[string][]entry
	nextID    ListenerID
}

// New creates a manager holding a shallow copy of initial.
func New(initial map[string]any) *Manager {
	return &Manager{
		state:     clone(initial),
		listeners: make(map[string][]entry),
	}
}

// Get returns the value for key.
func (m *Manager) Get(key string) (any, bool) {
	v, ok := m.state[key]
	return v, ok
}

// Snapshot returns a shallow copy of the whole mapping.
func (m *Manager) Snapshot() map[string]any {
	return clone(m.state)
}

// Set shallow-merges updates into the state. A "change:<key>" event fires
// for every key whose value changed, in sorted key order, followed by one
// "change" event.
func (m *Manager) Set(updates map[string]any) *Manager {
	prev := clone(m.state)
	for k, v := range updates {
		m.state[k] = v
	}

	for _, k := range sortedKeys(updates) {
		old, had := prev[k]
		v := updates[k]
		if had && same(old, v) {
			continue
		}
		if !had && v == nil {
			// nil for an absent key is not a change
			continue
		}
		m.emit(KeyEvent(k), Change{Key: k, Value: v, Previous: old})
	}

	m.emit(EventChange, Change{State: clone(m.state), PreviousState: prev})
	return m
}

// SetValue is Set with a single key.
func (m *Manager) SetValue(key string, value any) *Manager {
	return m.Set(map[string]any{key: value})
}

// On registers fn for event.
func (m *Manager) On(event string, fn Listener) ListenerID {
	m.nextID++
	m.listeners[event] = append(m.listeners[event], entry{id: m.nextID, fn: fn})
	return m.nextID
}

// Off removes the listener with id from event. An id of 0 removes every
// listener of the event.
func (m *Manager) Off(event string, id ListenerID) *Manager {
	if id == 0 {
		delete(m.listeners, event)
		return m
	}
	list := m.listeners[event]
	for i, e := range list {
		if e.id == id {
			m.listeners[event] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(m.listeners[event]) == 0 {
		delete(m.listeners, event)
	}
	return m
}

// Emit notifies the listeners of event with c without touching the state.
// It serves custom events that share the change listener registry.
func (m *Manager) Emit(event string, c Change) *Manager {
	m.emit(event, c)
	return m
}

func (m *Manager) emit(event string, c Change) {
	list := append([]entry(nil), m.listeners[event]...)
	for _, e := range list {
		e.fn(c)
	}
}

// same reports whether a and b are the same value: equality for
// comparable values, identity for maps, slices, funcs and channels.
func same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ta.Kind() {
	case reflect.Map, reflect.Func, reflect.Chan:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if ta.Comparable() {
		return equal(a, b)
	}
	return reflect.DeepEqual(a, b)
}

// equal is a == b, reporting false when an interface field inside a struct
// or array holds an uncomparable value.
func equal(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

func clone(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
