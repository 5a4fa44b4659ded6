package handlers

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/vitalvas/strada/router"
)

// ErrNoAuthSource reports a config with no way to check credentials:
// both ValidateFunc and Credentials are unset.
var ErrNoAuthSource = errors.New("basic auth: at least one of ValidateFunc or Credentials must be set")

// BasicAuthConfig configures the BasicAuth handler behaviour.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc7617
type BasicAuthConfig struct {
	// Realm is advertised in the WWW-Authenticate challenge. Empty
	// selects "Restricted".
	Realm string

	// ValidateFunc checks a username/password pair. When set it wins
	// over Credentials.
	ValidateFunc func(username, password string) bool

	// Credentials maps usernames to passwords for static validation.
	// Comparison runs in constant time over SHA-256 digests so neither
	// values nor lengths leak.
	Credentials map[string]string
}

// BasicAuth returns a handler enforcing HTTP Basic Authentication per
// RFC 7617. A request without valid credentials gets a 401 challenge and
// the continuation is never invoked, so the rest of the route's chain
// stays unreachable. With no credential source configured it yields
// ErrNoAuthSource.
func BasicAuth(cfg BasicAuthConfig) (router.HandlerFunc, error) {
	if cfg.ValidateFunc == nil && len(cfg.Credentials) == 0 {
		return nil, ErrNoAuthSource
	}

	realm := cfg.Realm
	if realm == "" {
		realm = "Restricted"
	}

	wwwAuthenticate := fmt.Sprintf("Basic realm=%q", realm)

	validate := cfg.ValidateFunc
	credentials := cfg.Credentials

	return func(c *router.Context, next router.NextFunc) error {
		req := c.Request()
		if req == nil {
			unauthorized(c, wwwAuthenticate)
			return nil
		}

		username, password, ok := req.BasicAuth()
		if !ok {
			unauthorized(c, wwwAuthenticate)
			return nil
		}

		if validate != nil {
			if !validate(username, password) {
				unauthorized(c, wwwAuthenticate)
				return nil
			}
		} else {
			expectedPassword, exists := credentials[username]
			// Compare even for unknown usernames so lookups cost the
			// same either way.
			passwordMatch := constantTimeEqual(password, expectedPassword)
			if !exists || !passwordMatch {
				unauthorized(c, wwwAuthenticate)
				return nil
			}
		}

		return next()
	}, nil
}

// constantTimeEqual compares two strings without timing leaks. Hashing
// both sides first yields equal-length inputs, which ConstantTimeCompare
// needs to stay constant time.
func constantTimeEqual(a, b string) bool {
	aHash := sha256.Sum256([]byte(a))
	bHash := sha256.Sum256([]byte(b))

	return subtle.ConstantTimeCompare(aHash[:], bHash[:]) == 1
}

// unauthorized issues the 401 challenge with an empty body.
func unauthorized(c *router.Context, wwwAuthenticate string) {
	c.Response().Header().Set("WWW-Authenticate", wwwAuthenticate)
	c.Response().WriteHeader(http.StatusUnauthorized)
}
