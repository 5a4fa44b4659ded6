// Package router implements a continuation-based request router: incoming
// method/path pairs are matched against an ordered route table, every
// matching route runs in registration order through a per-request
// continuation chain, and a fallback response (405, 501, or 204 for
// OPTIONS) is synthesized when no handler produces one.
//
// The package implements routing semantics based on:
//   - RFC 9110 (HTTP Semantics: methods, Allow, 405, 501)
//   - RFC 3986 (URIs: path segments, percent-encoding)
//
// # Router
//
// Create a router, register handlers, and serve:
//
//	r := router.New()
//	r.Get("/users/:id", func(c *router.Context, next router.NextFunc) error {
//		c.Response().Write([]byte(c.Param("id")))
//		return nil
//	})
//	http.ListenAndServe(":8080", r)
//
// # Path Templates
//
// Templates are literal segments plus ":name" placeholders capturing one
// path segment each; ":name?" marks the segment optional. A registration
// can also supply a *regexp.Regexp directly, in which case unnamed capture
// groups are keyed by their decimal index and (?P<name>...) groups by name.
// Captured values are percent-decoded leniently: malformed encoding keeps
// the raw text instead of failing the match.
//
// # Continuation Chain
//
// Every handler receives the next continuation. Calling it passes control
// to the next handler of the route, then to later matching routes, and
// finally back to the router; not calling it short-circuits the dispatch:
//
//	r.Get("/admin", authenticate, func(c *router.Context, next router.NextFunc) error {
//		// runs only when authenticate invoked its continuation
//		return nil
//	})
//
// # Mounting
//
// A route registered with Mount has no bound methods: it matches any method
// and only a path prefix. Its handlers observe the path rescoped to the
// remainder after the mount point, and the outer path and parameters are
// restored when they return, even on error or panic:
//
//	api := router.New()
//	api.Get("/users", listUsers)
//
//	root := router.New()
//	root.Mount("/api", api) // GET /api/users reaches listUsers with path "/users"
//
// # Named Routes
//
// Routes can be named for reverse URL generation:
//
//	r.Get("/:category/:title", show).Name("books")
//	p, err := r.URLPath("books", map[string]string{
//		"category": "programming",
//		"title":    "how to node",
//	})
//	// p == "/programming/how%20to%20node"
//
// # Parameter Hooks
//
// Param attaches a hook that runs before a route's handlers whenever the
// named parameter was captured. Hooks execute in URL-appearance order,
// regardless of registration order, and apply retroactively to existing
// routes when attached on the Router.
//
// # Fallbacks
//
// When routes match a path but none accepts the method, the router answers
// 405 with an Allow header listing the methods of the skipped candidates,
// or 501 when the verb lies outside the standard set entirely. OPTIONS
// requests receive 204 with the same Allow header. HEAD requests fall back
// onto GET bindings. Paths matching nothing at all pass through to whatever
// sits downstream of the router.
package router
