package handlers

import (
	"errors"
	"fmt"

	"github.com/vitalvas/strada/router"
)

// ErrInvalidFrameOption reports a FrameOption outside the allowed set:
// "DENY", "SAMEORIGIN", or empty.
var ErrInvalidFrameOption = errors.New("security headers: frame option must be DENY, SAMEORIGIN, or empty")

// SecurityHeadersConfig configures the SecurityHeaders handler behaviour.
type SecurityHeadersConfig struct {
	// DisableContentTypeNosniff turns off the X-Content-Type-Options:
	// nosniff header, which is otherwise always sent.
	DisableContentTypeNosniff bool

	// FrameOption is the X-Frame-Options value, either "DENY" or
	// "SAMEORIGIN". Empty selects "DENY".
	FrameOption string

	// ReferrerPolicy is the Referrer-Policy value. Empty selects
	// "strict-origin-when-cross-origin".
	ReferrerPolicy string

	// HSTSMaxAge is the Strict-Transport-Security max-age in seconds.
	// The header is omitted while zero.
	HSTSMaxAge int

	// HSTSIncludeSubDomains adds the includeSubDomains directive. It has
	// no effect without a positive HSTSMaxAge.
	HSTSIncludeSubDomains bool

	// ContentSecurityPolicy is the Content-Security-Policy value. Empty
	// omits the header.
	ContentSecurityPolicy string
}

// SecurityHeaders returns a handler that sets common security response
// headers before passing control on. A FrameOption outside the allowed
// set yields ErrInvalidFrameOption.
func SecurityHeaders(cfg SecurityHeadersConfig) (router.HandlerFunc, error) {
	if cfg.FrameOption != "" && cfg.FrameOption != "DENY" && cfg.FrameOption != "SAMEORIGIN" {
		return nil, ErrInvalidFrameOption
	}

	if cfg.FrameOption == "" {
		cfg.FrameOption = "DENY"
	}

	if cfg.ReferrerPolicy == "" {
		cfg.ReferrerPolicy = "strict-origin-when-cross-origin"
	}

	var hstsValue string
	if cfg.HSTSMaxAge > 0 {
		hstsValue = fmt.Sprintf("max-age=%d", cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubDomains {
			hstsValue += "; includeSubDomains"
		}
	}

	nosniff := !cfg.DisableContentTypeNosniff
	frameOption := cfg.FrameOption
	referrerPolicy := cfg.ReferrerPolicy
	contentSecurityPolicy := cfg.ContentSecurityPolicy

	return func(c *router.Context, next router.NextFunc) error {
		h := c.Response().Header()

		if nosniff {
			h.Set("X-Content-Type-Options", "nosniff")
		}

		h.Set("X-Frame-Options", frameOption)
		h.Set("Referrer-Policy", referrerPolicy)

		if hstsValue != "" {
			h.Set("Strict-Transport-Security", hstsValue)
		}

		if contentSecurityPolicy != "" {
			h.Set("Content-Security-Policy", contentSecurityPolicy)
		}

		return next()
	}, nil
}
