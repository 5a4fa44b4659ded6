package router

import (
	"net/http"
	"strings"
)

// Dispatch runs the match-and-walk state machine for one request.
//
// Match phase: every route is tried against the current path in
// registration order; all successes become candidates. With no candidates
// the router contributes nothing and control passes straight to downstream
// with path and params untouched.
//
// Walk phase: candidates are visited in order. A candidate is applicable
// when the request method is bound, the route is a prefix route, or a HEAD
// request falls back onto a GET binding. Applicable candidates run with the
// path rescoped to their unconsumed remainder and the params rescoped to
// their captures; each handler receives a continuation that advances to the
// next candidate. Inapplicable candidates contribute their methods to the
// Allow accumulator and are skipped. Path and params are restored on every
// exit, including error returns and panics.
//
// When the walk exhausts the candidates, downstream runs with the original
// path and params, and if no candidate was applicable and nothing wrote an
// explicit status, a fallback response is synthesized: 204 for OPTIONS,
// 405 for any other standard verb, 501 for a verb outside the standard
// set. The 204 and 405 responses carry an Allow header listing the
// accumulated methods.
//
// Handler errors are never swallowed: they propagate to the caller after
// restoration.
func (r *Router) Dispatch(c *Context, downstream NextFunc) error {
	if downstream == nil {
		downstream = func() error { return nil }
	}

	path := c.path
	var candidates []*Match
	for _, rt := range r.routes {
		r.logger.Debug("match attempt", "method", c.method, "path", path, "pattern", rt.Pattern())
		if m := rt.Match(path); m != nil {
			r.logger.Debug("match", "method", c.method, "path", path, "pattern", rt.Pattern())
			candidates = append(candidates, m)
		}
	}

	if len(candidates) == 0 {
		return downstream()
	}

	w := &walk{
		router:     r,
		ctx:        c,
		candidates: candidates,
		downstream: downstream,
		origPath:   c.path,
		origParams: c.params,
	}
	return w.advance()
}

// walk is the per-request dispatch state: the candidate cursor, the handled
// flag, and the Allow accumulator. Each request gets its own walk; nothing
// here is shared across requests.
type walk struct {
	router     *Router
	ctx        *Context
	candidates []*Match
	next       int
	handled    bool
	available  []string
	downstream NextFunc
	origPath   string
	origParams Params
}

// advance is the single continue operation handed to every handler. It
// moves the cursor past inapplicable candidates, invokes the first
// applicable one, and finishes the dispatch once the list is exhausted.
func (w *walk) advance() error {
	for w.next < len(w.candidates) {
		m := w.candidates[w.next]
		w.next++
		if !m.Route.applicable(w.ctx.method) {
			w.collect(m.Route)
			continue
		}
		w.handled = true
		return w.invoke(m)
	}
	return w.finish()
}

// invoke runs one applicable candidate with the path and params rescoped,
// restoring them regardless of how the handler chain exits.
func (w *walk) invoke(m *Match) error {
	c := w.ctx
	prevPath, prevParams := c.path, c.params
	defer func() {
		c.path, c.params = prevPath, prevParams
	}()

	c.path = m.Remainder
	if w.router.mergeParams {
		merged := w.origParams.clone()
		for k, v := range m.Params {
			merged[k] = v
		}
		c.params = merged
	} else {
		c.params = m.Params
	}

	return m.Route.chain(c, w.advance)
}

// finish restores the request-level path and params, runs downstream, and
// synthesizes the fallback response when nothing handled the request. The
// scope active before unwinding is reinstated afterwards even if downstream
// fails.
func (w *walk) finish() error {
	c := w.ctx
	prevPath, prevParams := c.path, c.params
	c.path, c.params = w.origPath, w.origParams
	defer func() {
		c.path, c.params = prevPath, prevParams
	}()

	if err := w.downstream(); err != nil {
		return err
	}

	if !w.handled && !c.res.Written() {
		w.fallback()
	}
	return nil
}

// collect unions a skipped candidate's methods into the Allow accumulator,
// preserving first-seen order.
func (w *walk) collect(rt *Route) {
	for _, m := range rt.methods {
		found := false
		for _, have := range w.available {
			if have == m {
				found = true
				break
			}
		}
		if !found {
			w.available = append(w.available, m)
		}
	}
}

// fallback writes the synthesized terminal response.
func (w *walk) fallback() {
	c := w.ctx
	allow := strings.Join(w.available, ", ")

	var status int
	switch {
	case c.method == http.MethodOptions:
		status = http.StatusNoContent
		c.res.Header().Set("Allow", allow)
	case implemented(c.method):
		status = http.StatusMethodNotAllowed
		c.res.Header().Set("Allow", allow)
	default:
		status = http.StatusNotImplemented
	}

	w.router.logger.Debug("fallback response",
		"method", c.method, "path", c.path, "status", status, "allow", allow)
	c.res.WriteHeader(status)
}
