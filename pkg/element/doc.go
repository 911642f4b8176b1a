// Package element provides the xwui Element: a mutable description of one
// display node (tag, attributes, ordered children, event handlers) that is
// materialized into native nodes on demand.
//
// Elements are built and mutated fluently:
//
//	card := element.New("div", element.Attrs{"id": "card"},
//	    element.New("h1", nil, "Hello"),
//	    element.New("p", nil, "World"),
//	).AddClass("card").CSS("backgroundColor", "#fff")
//
//	card.On("click", func(e *dom.Event) { ... })
//
// # Rendering
//
// Render converts the tree into new golang.org/x/net/html nodes owned by a
// dom.Document. It is a pure projection: the Element is never modified,
// equal Element state always yields structurally equal output, and every
// call returns a fresh node. There is no diffing; callers rebuild.
//
// Attribute values are written verbatim and RawHTML children are parsed
// as markup. Both are trust boundaries: never feed them untrusted input.
//
// # Handlers
//
// On appends to an ordered handler list per event. At render time one
// native listener per event runs the whole list in registration order.
package element
