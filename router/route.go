package router

import (
	"net/http"
	"regexp"
	"strconv"
)

// NextFunc is the continuation handed to every handler: invoking it passes
// control to the next handler in the chain, or back to the router when the
// chain is exhausted.
type NextFunc func() error

// HandlerFunc is a route handler. A handler may write to the response,
// invoke next to continue the chain, or do neither to short-circuit the
// dispatch (for example on an authentication failure).
type HandlerFunc func(c *Context, next NextFunc) error

// ParamHook runs before a route's handlers whenever the named parameter was
// captured from the URL. Hooks execute in the order their parameters appear
// in the template, regardless of registration order.
type ParamHook func(c *Context, value string, next NextFunc) error

// Pipeline is implemented by values that expose an ordered handler chain,
// such as a Router mounted under another Router. Pipeline values passed to
// a registration call are flattened into the route's chain at construction
// time.
type Pipeline interface {
	Handlers() []HandlerFunc
}

// Match records one successful pattern match: the captured parameters, the
// unconsumed path remainder, and the route that produced it.
type Match struct {
	Route     *Route
	Params    Params
	Remainder string
}

// Route is a single compiled pattern bound to a set of HTTP methods (or to
// none, which makes it a prefix route), an ordered handler chain, optional
// per-parameter hooks, and an optional name for URL generation.
type Route struct {
	pat      *pattern
	methods  []string
	prefix   bool
	handlers []HandlerFunc
	hooks    map[string]ParamHook
	chain    HandlerFunc
	name     string
}

// newRoute compiles the pattern, normalizes the handler list, and composes
// the handler chain. pattern is a template string or a *regexp.Regexp.
func newRoute(pat any, methods []string, handlers []any, opts patternOptions) (*Route, error) {
	rt := &Route{
		methods: methods,
		prefix:  len(methods) == 0,
	}

	switch p := pat.(type) {
	case string:
		compiled, err := compileTemplate(p, opts)
		if err != nil {
			return nil, configErrorf(p, methods, "%v", err)
		}
		rt.pat = compiled
	case *regexp.Regexp:
		rt.pat = compileRegexp(p, opts.endAnchored)
	default:
		return nil, configErrorf("", methods, "pattern must be a string or *regexp.Regexp, got %T", pat)
	}

	for _, h := range handlers {
		switch v := h.(type) {
		case HandlerFunc:
			rt.handlers = append(rt.handlers, v)
		case func(*Context, NextFunc) error:
			rt.handlers = append(rt.handlers, v)
		case Pipeline:
			rt.handlers = append(rt.handlers, v.Handlers()...)
		default:
			return nil, configErrorf(rt.pat.template, methods,
				"handler must be a HandlerFunc or Pipeline, got %T", h)
		}
	}

	rt.compose()
	return rt, nil
}

// Name sets the route name used for URL generation. Names are not enforced
// to be unique; lookup returns the first route registered under a name.
func (rt *Route) Name(name string) *Route {
	rt.name = name
	return rt
}

// GetName returns the route name, if any.
func (rt *Route) GetName() string { return rt.name }

// Pattern returns the original path template, or the regexp source for
// routes built from a raw regular expression.
func (rt *Route) Pattern() string { return rt.pat.template }

// Methods returns the HTTP methods the route is bound to. The slice is
// empty for prefix routes.
func (rt *Route) Methods() []string {
	out := make([]string, len(rt.methods))
	copy(out, rt.methods)
	return out
}

// IsPrefix reports whether the route matches a path prefix and any method.
func (rt *Route) IsPrefix() bool { return rt.prefix }

// Param registers or replaces the hook for the named parameter and
// recomposes the handler chain. Hooks for parameters the pattern does not
// declare are retained but never run.
func (rt *Route) Param(name string, hook ParamHook) *Route {
	if hook == nil {
		return rt
	}
	if rt.hooks == nil {
		rt.hooks = make(map[string]ParamHook)
	}
	rt.hooks[name] = hook
	rt.compose()
	return rt
}

// Match applies the compiled matcher to path. On success it returns the
// parameter map (percent-decoded, with explicit absent entries for
// unmatched optional groups) and the unconsumed remainder; otherwise nil.
func (rt *Route) Match(path string) *Match {
	m, ok := rt.pat.match(path)
	if !ok {
		return nil
	}

	params := make(Params, len(rt.pat.keys))
	for i, key := range rt.pat.keys {
		name := key.name
		if name == "" {
			name = strconv.Itoa(i)
		}
		if m.present[i] {
			params[name] = Param{Value: pathUnescapeLenient(m.values[i]), Defined: true}
		} else {
			params[name] = Param{}
		}
	}

	return &Match{Route: rt, Params: params, Remainder: m.remainder}
}

// URLPath builds the route's path with placeholder values taken from vars
// by name. Each substituted segment is percent-encoded independently.
func (rt *Route) URLPath(vars map[string]string) (string, error) {
	return rt.pat.buildPath(func(_ int, key paramKey) (string, bool) {
		if key.name == "" {
			return "", false
		}
		val, ok := vars[key.name]
		return val, ok
	})
}

// URLPathValues builds the route's path with positional values consumed in
// placeholder order.
func (rt *Route) URLPathValues(values ...string) (string, error) {
	next := 0
	return rt.pat.buildPath(func(int, paramKey) (string, bool) {
		if next >= len(values) {
			return "", false
		}
		val := values[next]
		next++
		return val, true
	})
}

// applicable reports whether the route may handle the given method: the
// method is bound, the route is a prefix route, or the request is a HEAD
// falling back onto a GET binding.
func (rt *Route) applicable(method string) bool {
	if rt.prefix {
		return true
	}
	for _, m := range rt.methods {
		if m == method {
			return true
		}
		if method == http.MethodHead && m == http.MethodGet {
			return true
		}
	}
	return false
}

// compose folds the hook wrappers (in URL-appearance order) and the handler
// list into a single chained handler.
func (rt *Route) compose() {
	handlers := rt.handlers
	if len(rt.hooks) > 0 {
		var hooked []HandlerFunc
		seen := make(map[string]bool, len(rt.hooks))
		for _, key := range rt.pat.keys {
			if key.name == "" || seen[key.name] {
				continue
			}
			if hook, ok := rt.hooks[key.name]; ok {
				seen[key.name] = true
				hooked = append(hooked, paramHookHandler(key.name, hook))
			}
		}
		handlers = append(hooked, rt.handlers...)
	}
	rt.chain = composeHandlers(handlers)
}

// composeHandlers folds a handler list into one handler via right-to-left
// continuation passing. An empty list yields a pass-through.
func composeHandlers(handlers []HandlerFunc) HandlerFunc {
	composed := func(_ *Context, next NextFunc) error { return next() }
	for i := len(handlers) - 1; i >= 0; i-- {
		h, tail := handlers[i], composed
		composed = func(c *Context, next NextFunc) error {
			return h(c, func() error { return tail(c, next) })
		}
	}
	return composed
}

// paramHookHandler adapts a ParamHook into a chain handler. The hook is
// skipped when the parameter was not captured at request time.
func paramHookHandler(name string, hook ParamHook) HandlerFunc {
	return func(c *Context, next NextFunc) error {
		p, ok := c.params[name]
		if !ok || !p.Defined {
			return next()
		}
		return hook(c, p.Value, next)
	}
}
