package handlers

import (
	"github.com/google/uuid"

	"github.com/vitalvas/strada/router"
)

type requestIDKey struct{}

// RequestIDFrom returns the request ID stored on the context by RequestID.
// Returns an empty string when no ID is present.
func RequestIDFrom(c *router.Context) string {
	if id, ok := c.Value(requestIDKey{}).(string); ok {
		return id
	}

	return ""
}

// RequestIDConfig configures the RequestID handler behaviour.
type RequestIDConfig struct {
	// HeaderName overrides the header used to propagate the request ID.
	// Defaults to "X-Request-ID" when empty.
	HeaderName string

	// GenerateFunc is an optional callback that returns a new unique ID.
	// Defaults to GenerateUUIDv4.
	GenerateFunc func(c *router.Context) string

	// TrustIncoming, when true, reuses an existing request ID from the
	// incoming request header instead of generating a new one.
	TrustIncoming bool
}

// RequestID returns a handler that generates or propagates a request ID.
// The ID is stored on the context for downstream handlers and set on the
// response for the caller.
func RequestID(cfg RequestIDConfig) router.HandlerFunc {
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = "X-Request-ID"
	}

	generate := cfg.GenerateFunc
	if generate == nil {
		generate = GenerateUUIDv4
	}

	trustIncoming := cfg.TrustIncoming

	return func(c *router.Context, next router.NextFunc) error {
		id := ""
		if trustIncoming && c.Request() != nil {
			id = c.Request().Header.Get(headerName)
		}

		if id == "" {
			id = generate(c)
		}

		if id != "" {
			c.SetValue(requestIDKey{}, id)
			c.Response().Header().Set(headerName, id)
		}

		return next()
	}
}

// GenerateUUIDv4 returns a new UUID v4 string.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc9562#section-5.4
func GenerateUUIDv4(_ *router.Context) string {
	return uuid.New().String()
}

// GenerateUUIDv7 returns a new UUID v7 string. UUIDs are time-ordered:
// IDs generated later sort lexicographically after earlier ones.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc9562#section-5.7
func GenerateUUIDv7(_ *router.Context) string {
	return uuid.Must(uuid.NewV7()).String()
}
