package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// knownMethods is the verb set bound by All, in Allow-header order.
var knownMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodConnect,
	http.MethodTrace,
}

// namedHook pairs a parameter name with its hook, preserving registration
// order for retroactive attachment.
type namedHook struct {
	name string
	hook ParamHook
}

// Router is an ordered collection of routes. Registration order is
// significant: routes are matched and dispatched in the order they were
// added, never reordered.
//
// The route table is expected to be fully populated before serving begins;
// concurrent registration during live traffic is not synchronized.
type Router struct {
	routes        []*Route
	hooks         []namedHook
	strict        bool
	caseSensitive bool
	mergeParams   bool
	logger        *slog.Logger
	errorHandler  func(c *Context, err error)
}

// New returns an empty router with default options: trailing slashes are
// insignificant, matching is case-insensitive, and entering a nested router
// replaces the parent's parameters instead of merging them.
func New() *Router {
	r := &Router{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	r.errorHandler = r.defaultErrorHandler
	return r
}

// Strict sets whether the trailing slash is significant for non-prefix
// routes registered afterwards. Mount patterns are always slash-strict.
func (r *Router) Strict(v bool) *Router {
	r.strict = v
	return r
}

// CaseSensitive sets whether path templates registered afterwards match
// case-sensitively.
func (r *Router) CaseSensitive(v bool) *Router {
	r.caseSensitive = v
	return r
}

// MergeParams sets whether entering this router merges captured parameters
// with the caller's instead of replacing them. On key collision the
// candidate's value wins.
func (r *Router) MergeParams(v bool) *Router {
	r.mergeParams = v
	return r
}

// Logger sets the trace logger. The router logs match attempts, match
// successes, and fallback synthesis at debug level. Defaults to a no-op
// logger.
func (r *Router) Logger(l *slog.Logger) *Router {
	if l != nil {
		r.logger = l
	}
	return r
}

// ErrorHandler sets the handler invoked by ServeHTTP when a dispatch
// returns an error. The default logs the error and writes a 500 when
// nothing has been written yet.
func (r *Router) ErrorHandler(h func(c *Context, err error)) *Router {
	if h != nil {
		r.errorHandler = h
	}
	return r
}

// Method registers a route for the given methods. pattern is a path
// template or a *regexp.Regexp; handlers are HandlerFunc or Pipeline
// values. It returns the created route so callers can attach a name or
// per-parameter hooks. Invalid patterns, methods, or handler values panic
// with a *ConfigurationError.
func (r *Router) Method(methods []string, pattern any, handlers ...any) *Route {
	return r.addRoute(methods, pattern, handlers, false)
}

// Get registers a route bound to GET.
func (r *Router) Get(pattern string, handlers ...any) *Route {
	return r.Method([]string{http.MethodGet}, pattern, handlers...)
}

// Post registers a route bound to POST.
func (r *Router) Post(pattern string, handlers ...any) *Route {
	return r.Method([]string{http.MethodPost}, pattern, handlers...)
}

// Put registers a route bound to PUT.
func (r *Router) Put(pattern string, handlers ...any) *Route {
	return r.Method([]string{http.MethodPut}, pattern, handlers...)
}

// Delete registers a route bound to DELETE.
func (r *Router) Delete(pattern string, handlers ...any) *Route {
	return r.Method([]string{http.MethodDelete}, pattern, handlers...)
}

// Patch registers a route bound to PATCH.
func (r *Router) Patch(pattern string, handlers ...any) *Route {
	return r.Method([]string{http.MethodPatch}, pattern, handlers...)
}

// Head registers a route bound to HEAD.
func (r *Router) Head(pattern string, handlers ...any) *Route {
	return r.Method([]string{http.MethodHead}, pattern, handlers...)
}

// Options registers a route bound to OPTIONS.
func (r *Router) Options(pattern string, handlers ...any) *Route {
	return r.Method([]string{http.MethodOptions}, pattern, handlers...)
}

// Connect registers a route bound to CONNECT.
func (r *Router) Connect(pattern string, handlers ...any) *Route {
	return r.Method([]string{http.MethodConnect}, pattern, handlers...)
}

// Trace registers a route bound to TRACE.
func (r *Router) Trace(pattern string, handlers ...any) *Route {
	return r.Method([]string{http.MethodTrace}, pattern, handlers...)
}

// All registers a route bound to the full known verb set.
func (r *Router) All(pattern string, handlers ...any) *Route {
	return r.Method(knownMethods, pattern, handlers...)
}

// Mount registers a prefix route: it matches any method and only a path
// prefix, rescoping the path so the handlers see the remainder relative to
// the mount point. Mount patterns always compile slash-strict so the mount
// boundary is unambiguous, regardless of the router's Strict option.
func (r *Router) Mount(pattern string, handlers ...any) *Route {
	return r.addRoute(nil, pattern, handlers, true)
}

// Redirect registers an All route on source whose handler redirects to
// destination with the given status code (301 when omitted). A source or
// destination not starting with "/" is resolved through named-route lookup
// at registration time; ":name" placeholders in the destination are
// substituted from the matched parameters at request time.
func (r *Router) Redirect(source, destination string, code ...int) *Route {
	status := http.StatusMovedPermanently
	if len(code) > 0 {
		status = code[0]
	}
	src := r.resolvePath(source)
	dst := r.resolvePath(destination)
	return r.All(src, redirectTo(dst, status))
}

// Param stores a hook for the named parameter, attaching it retroactively
// to every existing route and automatically to every route registered
// afterwards. Within each route, hooks run in the order their parameters
// appear in the URL, not in hook-registration order.
func (r *Router) Param(name string, hook ParamHook) *Router {
	if hook == nil {
		return r
	}
	replaced := false
	for i := range r.hooks {
		if r.hooks[i].name == name {
			r.hooks[i].hook = hook
			replaced = true
			break
		}
	}
	if !replaced {
		r.hooks = append(r.hooks, namedHook{name: name, hook: hook})
	}
	for _, rt := range r.routes {
		rt.Param(name, hook)
	}
	return r
}

// RouteByName returns the first route registered under the given name, or
// nil when no route carries it.
func (r *Router) RouteByName(name string) *Route {
	for _, rt := range r.routes {
		if rt.name == name {
			return rt
		}
	}
	return nil
}

// URLPath builds the path of the named route with placeholder values taken
// from vars. An unknown name returns ErrRouteNotFound as a value.
func (r *Router) URLPath(name string, vars map[string]string) (string, error) {
	rt := r.RouteByName(name)
	if rt == nil {
		return "", fmt.Errorf("%w: %q", ErrRouteNotFound, name)
	}
	return rt.URLPath(vars)
}

// URLPathValues builds the path of the named route with positional values
// consumed in placeholder order.
func (r *Router) URLPathValues(name string, values ...string) (string, error) {
	rt := r.RouteByName(name)
	if rt == nil {
		return "", fmt.Errorf("%w: %q", ErrRouteNotFound, name)
	}
	return rt.URLPathValues(values...)
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []*Route {
	out := make([]*Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// Handlers makes a Router mountable under another Router: its entire
// dispatch acts as a single chain handler.
func (r *Router) Handlers() []HandlerFunc {
	return []HandlerFunc{r.Dispatch}
}

// addRoute normalizes methods, builds the route, attaches the stored
// parameter hooks, and appends it to the table.
func (r *Router) addRoute(methods []string, pattern any, handlers []any, forceStrict bool) *Route {
	normalized := normalizeMethods(methods, pattern)

	opts := patternOptions{
		strict:        r.strict || forceStrict,
		caseSensitive: r.caseSensitive,
		endAnchored:   len(normalized) > 0,
	}

	rt, err := newRoute(pattern, normalized, handlers, opts)
	if err != nil {
		panic(err)
	}

	for _, h := range r.hooks {
		rt.Param(h.name, h.hook)
	}

	r.routes = append(r.routes, rt)
	r.logger.Debug("route registered",
		"pattern", rt.Pattern(),
		"methods", normalized,
		"prefix", rt.prefix,
	)
	return rt
}

// implemented reports whether method is one of the standard verbs the
// router knows how to answer for. It discriminates 405 from 501: a known
// verb that matched a path but no method binding is Method Not Allowed,
// while a verb outside the set is Not Implemented.
func implemented(method string) bool {
	for _, m := range knownMethods {
		if m == method {
			return true
		}
	}
	return false
}

// resolvePath returns s when it is a literal path, otherwise resolves it as
// a route name. An unknown name or a template-less route panics with a
// *ConfigurationError, since redirects are registered before serving.
func (r *Router) resolvePath(s string) string {
	if strings.HasPrefix(s, "/") {
		return s
	}
	rt := r.RouteByName(s)
	if rt == nil {
		panic(configErrorf(s, nil, "redirect references unknown route name %q", s))
	}
	if rt.pat.raw {
		panic(configErrorf(s, nil, "redirect references route %q built from a regexp", s))
	}
	return rt.pat.template
}

// normalizeMethods uppercases, validates, and deduplicates method tokens,
// preserving order. Panics with a *ConfigurationError on a malformed token.
func normalizeMethods(methods []string, pattern any) []string {
	if len(methods) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(methods))
	out := make([]string, 0, len(methods))
	for _, m := range methods {
		m = strings.ToUpper(m)
		if !validMethodToken(m) {
			panic(configErrorf(fmt.Sprint(pattern), methods, "invalid HTTP method token %q", m))
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// validMethodToken reports whether m is a valid HTTP token per RFC 9110.
func validMethodToken(m string) bool {
	if m == "" {
		return false
	}
	for _, c := range m {
		if !httpguts.IsTokenRune(c) {
			return false
		}
	}
	return true
}

// redirectTo builds the sole handler of a redirect route. It never invokes
// its continuation: a redirect is a terminal response.
func redirectTo(target string, status int) HandlerFunc {
	return func(c *Context, _ NextFunc) error {
		c.Response().Header().Set("Location", expandPlaceholders(target, c.Params()))
		c.Response().WriteHeader(status)
		return nil
	}
}

// expandPlaceholders substitutes ":name" tokens in target with the matched
// parameter values, percent-encoding each substituted value.
func expandPlaceholders(target string, params Params) string {
	if !strings.Contains(target, ":") {
		return target
	}
	var b strings.Builder
	for _, seg := range strings.Split(target, "/") {
		if seg != "" && seg[0] == ':' {
			name := strings.TrimSuffix(seg[1:], "?")
			if p, ok := params[name]; ok && p.Defined {
				b.WriteByte('/')
				b.WriteString(url.PathEscape(p.Value))
				continue
			}
			if strings.HasSuffix(seg, "?") {
				continue
			}
		}
		if seg == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(seg)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}
