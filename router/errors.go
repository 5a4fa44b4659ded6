package router

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRouteNotFound is returned by URL generation when no route is registered
// under the requested name. It is returned as a value, never raised, so
// callers can branch without panicking.
var ErrRouteNotFound = errors.New("no route registered under this name")

// ErrNotBuildable is returned by URL generation for routes built from a raw
// regular expression, which have no path template to substitute into.
var ErrNotBuildable = errors.New("route has no path template to build from")

// ConfigurationError reports an invalid route registration: a malformed
// pattern, an invalid method token, or a handler value that is neither a
// HandlerFunc nor a Pipeline. Registration operations panic with a
// *ConfigurationError so misconfigured routes surface immediately at
// startup instead of at request time.
type ConfigurationError struct {
	// Pattern is the path template or regexp string of the offending route.
	Pattern string

	// Methods are the HTTP methods the route was registered for.
	Methods []string

	// Reason describes what is wrong, including the type of an illegal
	// handler value when that is the cause.
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	methods := strings.Join(e.Methods, ",")
	if methods == "" {
		methods = "*"
	}
	return fmt.Sprintf("router: invalid route %s %s: %s", methods, e.Pattern, e.Reason)
}

// configErrorf builds a *ConfigurationError with a formatted reason.
func configErrorf(pattern string, methods []string, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Pattern: pattern,
		Methods: methods,
		Reason:  fmt.Sprintf(format, args...),
	}
}
