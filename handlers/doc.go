// Package handlers provides middleware handlers for the router package,
// written in its continuation style: each handler receives the dispatch
// continuation and decides whether to pass control onward.
//
// # Request ID
//
// RequestID generates or propagates a request ID header and stores the ID
// on the context for downstream handlers:
//
//	r := router.New()
//	r.Mount("/", handlers.RequestID(handlers.RequestIDConfig{}))
//
// # Basic Auth
//
// BasicAuth implements HTTP Basic Authentication per RFC 7617. It
// short-circuits the dispatch with 401 Unauthorized when credentials are
// missing or invalid; later handlers run only on success:
//
//	auth, err := handlers.BasicAuth(handlers.BasicAuthConfig{
//	    Realm: "My App",
//	    Credentials: map[string]string{
//	        "admin": "secret",
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r.Get("/admin", auth, adminHandler)
//
// # Recovery
//
// Recovery converts panics in downstream handlers into 500 responses. The
// router itself never recovers panics, so pair it with Recovery when
// crash isolation per request is wanted:
//
//	r.Mount("/", handlers.Recovery(handlers.RecoveryConfig{}))
//
// # Security Headers
//
// SecurityHeaders sets common security response headers (nosniff,
// X-Frame-Options, Referrer-Policy, Strict-Transport-Security) before
// passing control on.
package handlers
