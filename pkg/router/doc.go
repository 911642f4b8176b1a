// Package router maps path patterns to page handlers over a document's
// history.
//
// Patterns are matched in three steps:
//
//  1. an exact pattern equal to the path (query string removed)
//  2. the first pattern containing ":" segments, in registration order,
//     with the same number of "/"-separated segments and equal literal
//     segments; ":name" segments capture the path segment
//  3. the "*" pattern
//
// Captured segments are merged over the extra parameters passed to
// Navigate, so a captured value wins on a key collision.
//
//	r := router.New(doc, app)
//	r.Add("/users/:id", func(p router.Params, q router.Query) {
//	    app.NewElement("h1", nil, "User "+p["id"])
//	})
//	r.Navigate("/users/42?tab=posts", nil)
package router
