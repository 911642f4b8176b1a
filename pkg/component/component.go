// Package component bundles a render function with its own state and a
// mount point.
//
//	counter := component.New(doc, func(c *component.Component) *element.Element {
//	    n, _ := c.State().Get("n")
//	    return element.New("button", nil, fmt.Sprint(n)).
//	        On("click", func(*dom.Event) { c.SetState(map[string]any{"n": n.(int) + 1}) })
//	}, component.WithInitialState(map[string]any{"n": 0}))
//	counter.Mount(doc.Body())
//
// SetState re-renders a mounted component in place. Rendering is a full
// rebuild of the component's subtree.
package component

import (
	"fmt"
	"strings"

	"github.com/xwui-dev/xwui/pkg/dom"
	"github.com/xwui-dev/xwui/pkg/element"
	"github.com/xwui-dev/xwui/pkg/state"
	"golang.org/x/net/html"
)

// RenderFunc builds the component's element tree.
type RenderFunc func(c *Component) *element.Element

// Component is a renderable unit with local state. It is not safe for
// concurrent use.
type Component struct {
	doc        *dom.Document
	id         string
	render     RenderFunc
	state      *state.Manager
	autoRender bool

	element  *element.Element
	node     *html.Node       // mounted into a native container
	host     *element.Element // mounted into an Element
	children []*Component
}

// Option configures a Component.
type Option func(*Component)

// WithID sets the id given to the root element. By default ids are
// "component-<n>".
func WithID(id string) Option {
	return func(c *Component) { c.id = id }
}

// WithAutoRender controls whether SetState updates a mounted component.
// Default: true.
func WithAutoRender(on bool) Option {
	return func(c *Component) { c.autoRender = on }
}

// WithInitialState seeds the component state.
func WithInitialState(initial map[string]any) Option {
	return func(c *Component) { c.state = state.New(initial) }
}

// New creates a component. A nil render yields an empty div.
func New(doc *dom.Document, render RenderFunc, opts ...Option) *Component {
	c := &Component{
		doc:        doc,
		id:         doc.UniqueID("component"),
		render:     render,
		state:      state.New(nil),
		autoRender: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the component id.
func (c *Component) ID() string { return c.id }

// State returns the component's state manager.
func (c *Component) State() *state.Manager { return c.state }

// SetState merges updates and, with auto-render on, updates the mounted
// output.
func (c *Component) SetState(updates map[string]any) *Component {
	c.state.Set(updates)
	if c.autoRender {
		c.Update()
	}
	return c
}

// Children returns a copy of the child components.
func (c *Component) Children() []*Component {
	return append([]*Component(nil), c.children...)
}

// AddChild registers child. Nil and duplicate children are ignored.
func (c *Component) AddChild(child *Component) *Component {
	if child == nil || child == c {
		return c
	}
	for _, existing := range c.children {
		if existing == child {
			return c
		}
	}
	c.children = append(c.children, child)
	return c
}

// RemoveChild unregisters child.
func (c *Component) RemoveChild(child *Component) *Component {
	for i, existing := range c.children {
		if existing == child {
			c.children = append(c.children[:i:i], c.children[i+1:]...)
			break
		}
	}
	return c
}

// Element returns the element produced by the last Render, or nil.
func (c *Component) Element() *element.Element { return c.element }

// Node returns the mounted native node, or nil.
func (c *Component) Node() *html.Node { return c.node }

// Render runs the render function and records the result. The root
// element gets the component id unless it already has one.
func (c *Component) Render() *element.Element {
	var e *element.Element
	if c.render != nil {
		e = c.render(c)
	}
	if e == nil {
		e = element.New("div", nil)
	}
	if _, ok := e.Attribute("id"); !ok {
		e.Attr("id", c.id)
	}
	c.element = e
	return e
}

// Mount renders the component into target, replacing target's children.
// target is a *html.Node, an *element.Element, or a string that is an
// "#id" or an XPath expression resolved against the document.
func (c *Component) Mount(target any) error {
	switch t := target.(type) {
	case *html.Node:
		if t == nil {
			return fmt.Errorf("mount %s: nil node", c.id)
		}
		c.Unmount()
		c.doc.RemoveChildren(t)
		c.node = c.Render().Render(c.doc)
		dom.AppendChild(t, c.node)
	case *element.Element:
		if t == nil {
			return fmt.Errorf("mount %s: nil element", c.id)
		}
		c.Unmount()
		t.ClearChildren().Child(c.Render())
		c.host = t
	case string:
		n, err := c.resolve(t)
		if err != nil {
			return err
		}
		return c.Mount(n)
	default:
		return fmt.Errorf("mount %s: unsupported target %T", c.id, target)
	}
	return nil
}

func (c *Component) resolve(selector string) (*html.Node, error) {
	var n *html.Node
	if strings.HasPrefix(selector, "#") {
		n = c.doc.GetElementByID(selector[1:])
	} else {
		var err error
		if n, err = c.doc.Query(selector); err != nil {
			return nil, fmt.Errorf("mount %s: bad selector %q: %w", c.id, selector, err)
		}
	}
	if n == nil {
		return nil, fmt.Errorf("mount %s: no element matches %q", c.id, selector)
	}
	return n, nil
}

// Update re-renders a mounted component in place. An unmounted component
// is left alone.
func (c *Component) Update() *Component {
	switch {
	case c.node != nil && c.node.Parent != nil:
		old := c.element
		next := c.Render().Render(c.doc)
		if c.doc.ReplaceNode(c.node, next) {
			c.node = next
		} else {
			c.element = old
		}
	case c.host != nil:
		old := c.element
		if !c.host.ReplaceChild(old, c.Render()) {
			c.element = old
		}
	}
	return c
}

// Unmount removes the component's output from where it was mounted.
func (c *Component) Unmount() *Component {
	if c.node != nil {
		c.doc.RemoveNode(c.node)
		c.node = nil
	}
	if c.host != nil {
		c.host.RemoveChild(c.element)
		c.host = nil
	}
	return c
}

// Destroy unmounts the component and destroys its children.
func (c *Component) Destroy() {
	c.Unmount()
	for _, child := range c.children {
		child.Destroy()
	}
	c.children = nil
	c.element = nil
}

// On subscribes fn to event. State changes arrive as "change" and
// "change:<key>"; Emit delivers custom events through the same registry.
func (c *Component) On(event string, fn state.Listener) state.ListenerID {
	return c.state.On(event, fn)
}

// Off removes a subscription. An id of 0 removes every listener of event.
func (c *Component) Off(event string, id state.ListenerID) *Component {
	c.state.Off(event, id)
	return c
}

// Emit notifies the listeners of event with value.
func (c *Component) Emit(event string, value any) *Component {
	c.state.Emit(event, state.Change{Key: event, Value: value})
	return c
}
