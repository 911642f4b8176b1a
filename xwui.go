// Package xwui is a small UI toolkit that builds pages from element trees.
//
// An App owns a document, an ordered collection of top-level elements and
// the managers that hang off it (styles, state, storage, HTTP, router and
// the event hub):
//
//	doc := dom.New()
//	app := xwui.New(doc, xwui.DefaultConfig())
//	app.SetOnload(func(a *xwui.App) {
//	    a.NewElement("div", nil,
//	        element.New("h1", nil, "Hello"),
//	        element.New("p", nil, "World"),
//	    )
//	})
//	doc.Load() // runs Init, which runs onload and renders
//
// Rendering always rebuilds the mounted output from the element
// collection. Nothing in this package is safe for concurrent use; servers
// drive an App from a loop.Loop (see Handler).
package xwui
