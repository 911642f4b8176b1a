package element

import "strings"

// Clone deep-copies the element: attributes, handler lists and Element
// children are copied; leaves and native nodes are shared.
func (e *Element) Clone() *Element {
	c := New(e.tag, e.attrs)
	for name, hs := range e.handlers {
		c.handlers[name] = append([]Handler(nil), hs...)
	}
	for _, child := range e.children {
		if el, ok := child.(*Element); ok && el != nil {
			c.children = append(c.children, el.Clone())
			continue
		}
		c.children = append(c.children, child)
	}
	return c
}

// Walk visits e and its Element descendants depth-first, pre-order, until
// fn returns false.
func (e *Element) Walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, child := range e.children {
		if el, ok := child.(*Element); ok && el != nil {
			if !el.Walk(fn) {
				return false
			}
		}
	}
	return true
}

// Find returns the first element of the tree rooted at e that matches
// selector ("#id", ".class" or a tag name), or nil.
func (e *Element) Find(selector string) *Element {
	match := Matcher(selector)
	var found *Element
	e.Walk(func(el *Element) bool {
		if match(el) {
			found = el
			return false
		}
		return true
	})
	return found
}

// FindAll returns every match in traversal order.
func (e *Element) FindAll(selector string) []*Element {
	match := Matcher(selector)
	var out []*Element
	e.Walk(func(el *Element) bool {
		if match(el) {
			out = append(out, el)
		}
		return true
	})
	return out
}

// Matcher compiles a simple selector. An empty selector matches nothing.
func Matcher(selector string) func(*Element) bool {
	selector = strings.TrimSpace(selector)
	switch {
	case selector == "":
		return func(*Element) bool { return false }
	case strings.HasPrefix(selector, "#"):
		id := selector[1:]
		return func(el *Element) bool {
			v, ok := el.attrs["id"]
			return ok && v == id
		}
	case strings.HasPrefix(selector, "."):
		class := selector[1:]
		return func(el *Element) bool { return el.HasClass(class) }
	default:
		return func(el *Element) bool { return strings.EqualFold(el.tag, selector) }
	}
}

// Matches reports whether e has the given tag and every attribute of match
// with an equal value.
func (e *Element) Matches(tag string, match Attrs) bool {
	if e.tag != tag {
		return false
	}
	for k, v := range match {
		if got, ok := e.attrs[k]; !ok || got != v {
			return false
		}
	}
	return true
}
