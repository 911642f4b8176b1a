// Package el provides element factories bound to an app.
//
// A Factory creates top-level elements through its Creator, so every call
// is collected and announced like App.NewElement. Passing a created
// element as a child moves it under its parent:
//
//	f := el.New(app)
//	f.Div(el.Attrs(el.ID("card"), el.Class("box")),
//	    f.H1(nil, "Hello"),
//	    f.P(nil, "World"),
//	)
//
// Attribute helpers build element.Attrs values for the first argument.
package el
