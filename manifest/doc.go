// Package manifest loads declarative route tables from YAML and applies
// them to a router. It separates the shape of a routing surface (paths,
// methods, names, redirects, mounts) from the handler implementations,
// which are supplied at apply time through a Registry.
//
// # Loading
//
// A manifest is a YAML document with routes, redirects, and mounts:
//
//	routes:
//	  - name: user
//	    methods: [GET, PUT]
//	    path: /users/:id
//	    handler: userHandler
//	  - path: /health
//	    methods: GET
//	    handler: healthHandler
//
//	redirects:
//	  - source: /me
//	    destination: user
//	    code: 302
//
//	mounts:
//	  - path: /api
//	    pipeline: apiRouter
//
// Decoding is strict: unknown YAML fields are rejected.
//
// # Applying
//
// Handlers and pipelines are looked up by name in a Registry. Every
// reference is validated before any route is registered, so a manifest
// either applies completely or not at all:
//
//	m, err := manifest.Load(file)
//	if err != nil {
//	    return err
//	}
//
//	err = m.Apply(r, manifest.Registry{
//	    Handlers: map[string]router.HandlerFunc{
//	        "userHandler":   userHandler,
//	        "healthHandler": healthHandler,
//	    },
//	    Pipelines: map[string]router.Pipeline{
//	        "apiRouter": apiRouter,
//	    },
//	})
package manifest
