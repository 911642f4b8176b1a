// Package dom provides the host document that xwui renders into.
//
// A Document owns a real display tree made of golang.org/x/net/html nodes:
// the <html>, <head> and <body> skeleton, the page title, a ready state that
// moves from "loading" to "complete", a location with a push/pop history,
// and per-node event listeners with DOM-style bubbling dispatch.
//
// The document is single-threaded. Every method must be called from the
// goroutine that owns it (see package loop for servers).
//
// # Events
//
// Listeners are attached to native nodes and receive *Event values:
//
//	id := doc.AddEventListener(button, "click", func(e *dom.Event) {
//	    fmt.Println("clicked", e.Target.Data)
//	})
//	doc.DispatchEvent(button, dom.NewEvent("click", true))
//	doc.RemoveEventListener(button, "click", id)
//
// Window-level events (load, readystatechange, popstate) are dispatched on
// the document node itself, available as Document.Node().
//
// # Queries
//
// Query and QueryAll accept XPath expressions evaluated with
// github.com/antchfx/htmlquery against the whole tree.
package dom
