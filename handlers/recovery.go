package handlers

import (
	"net/http"

	"github.com/vitalvas/strada/router"
)

// RecoveryConfig configures the Recovery handler behaviour.
type RecoveryConfig struct {
	// LogFunc is an optional callback invoked with the context and the
	// recovered value when a panic occurs. When nil, no logging is performed.
	LogFunc func(c *router.Context, err any)
}

// Recovery returns a handler that recovers from panics further down the
// continuation chain. When a panic occurs it answers 500 Internal Server
// Error (unless a response was already written) and optionally invokes
// LogFunc. The router's own path/params restoration has already run by the
// time the panic reaches this handler.
func Recovery(cfg RecoveryConfig) router.HandlerFunc {
	return func(c *router.Context, next router.NextFunc) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				if cfg.LogFunc != nil {
					cfg.LogFunc(c, rec)
				}

				if !c.Response().Written() {
					http.Error(c.Response(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
				err = nil
			}
		}()

		return next()
	}
}
