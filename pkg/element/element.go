package element

import (
	"golang.org/x/net/html"
)

// Attrs maps attribute names to values.
type Attrs map[string]string

// RawHTML is a child holding trusted markup. It is parsed into fresh native
// nodes on every render. Never pass user-provided content.
type RawHTML string

// Element describes one node before materialization: a tag, attributes,
// ordered children and event handlers.
//
// Children may be nil (skipped at render), strings, Go numbers, *Element,
// RawHTML, or pre-built *html.Node values.
//
// An Element is not safe for concurrent use.
type Element struct {
	tag      string
	attrs    Attrs
	children []any
	handlers map[string][]Handler
}

// New creates an Element. Nil attrs are allowed.
func New(tag string, attrs Attrs, children ...any) *Element {
	e := &Element{
		tag:      tag,
		attrs:    make(Attrs, len(attrs)),
		children: make([]any, 0, len(children)),
		handlers: make(map[string][]Handler),
	}
	for k, v := range attrs {
		e.attrs[k] = v
	}
	e.children = append(e.children, children...)
	return e
}

// Tag returns the element type.
func (e *Element) Tag() string { return e.tag }

// Attribute returns the value of key.
func (e *Element) Attribute(key string) (string, bool) {
	v, ok := e.attrs[key]
	return v, ok
}

// AttributeMap returns a copy of the attributes.
func (e *Element) AttributeMap() Attrs {
	out := make(Attrs, len(e.attrs))
	for k, v := range e.attrs {
		out[k] = v
	}
	return out
}

// ChildNodes returns a copy of the child sequence.
func (e *Element) ChildNodes() []any {
	return append([]any(nil), e.children...)
}

// ChildCount returns the number of children, nil entries included.
func (e *Element) ChildCount() int { return len(e.children) }

// Attr upserts one attribute.
func (e *Element) Attr(key, value string) *Element {
	if key == "" {
		return e
	}
	e.attrs[key] = value
	return e
}

// Attrs upserts several attributes.
func (e *Element) Attrs(attrs Attrs) *Element {
	for k, v := range attrs {
		e.Attr(k, v)
	}
	return e
}

// RemoveAttr deletes an attribute.
func (e *Element) RemoveAttr(key string) *Element {
	delete(e.attrs, key)
	return e
}

// Child appends one child.
func (e *Element) Child(child any) *Element {
	e.children = append(e.children, child)
	return e
}

// Children appends children in order.
func (e *Element) Children(children ...any) *Element {
	e.children = append(e.children, children...)
	return e
}

// ClearChildren empties the child sequence.
func (e *Element) ClearChildren() *Element {
	e.children = e.children[:0:0]
	return e
}

// RemoveChild removes the first child identical to child. Elements and
// native nodes compare by pointer, leaves by value.
func (e *Element) RemoveChild(child any) *Element {
	for i, c := range e.children {
		if sameChild(c, child) {
			e.children = append(e.children[:i:i], e.children[i+1:]...)
			break
		}
	}
	return e
}

// ReplaceChild swaps the first child identical to old for replacement
// and reports whether old was found.
func (e *Element) ReplaceChild(old, replacement any) bool {
	for i, c := range e.children {
		if sameChild(c, old) {
			e.children[i] = replacement
			return true
		}
	}
	return false
}

// Text replaces the children with a single text leaf.
func (e *Element) Text(content string) *Element {
	return e.ClearChildren().Child(content)
}

// HTML replaces the children with trusted raw markup.
func (e *Element) HTML(markup string) *Element {
	return e.ClearChildren().Child(RawHTML(markup))
}

func sameChild(a, b any) bool {
	switch av := a.(type) {
	case *Element:
		bv, ok := b.(*Element)
		return ok && av == bv
	case *html.Node:
		bv, ok := b.(*html.Node)
		return ok && av == bv
	case nil:
		return b == nil
	}
	defer func() { _ = recover() }()
	return a == b
}
