package router

import "net/http"

// Param is a single captured path parameter. Defined distinguishes a
// parameter whose optional segment was absent from the URL from one that
// was captured as an empty string.
type Param struct {
	Value   string
	Defined bool
}

// Params holds the captured path parameters of the current dispatch scope,
// keyed by placeholder name or, for unnamed regexp capture groups, by the
// decimal index of the group.
type Params map[string]Param

// Get returns the value of the named parameter, or an empty string when the
// parameter is missing or was not captured.
func (p Params) Get(name string) string {
	return p[name].Value
}

// Has reports whether the named parameter was captured from the URL.
func (p Params) Has(name string) bool {
	return p[name].Defined
}

// clone returns a shallow copy of the parameter map.
func (p Params) clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Context is the per-request view the router dispatches against: the HTTP
// method, a mutable path, a mutable parameter set, and the response sink.
//
// During dispatch the path and params are rescoped for each matched route
// (a mounted router sees the path relative to its mount point) and restored
// afterwards on every exit path, including panics.
type Context struct {
	method string
	path   string
	params Params
	res    ResponseWriter
	req    *http.Request
	values map[any]any
}

// NewContext returns a Context for the given method, request path, and
// response sink. The path should be the escaped (raw) request path so route
// captures can be percent-decoded exactly once.
func NewContext(method, path string, res ResponseWriter) *Context {
	return &Context{
		method: method,
		path:   path,
		params: Params{},
		res:    res,
	}
}

// Method returns the HTTP method of the request.
func (c *Context) Method() string { return c.method }

// Path returns the request path as seen by the current dispatch scope.
// Inside a mounted router this is the path relative to the mount point.
func (c *Context) Path() string { return c.path }

// SetPath replaces the request path for the current scope. The router
// restores the previous value when the scope exits.
func (c *Context) SetPath(path string) { c.path = path }

// Params returns the parameters of the current dispatch scope.
func (c *Context) Params() Params { return c.params }

// SetParams replaces the parameter set for the current scope.
func (c *Context) SetParams(params Params) { c.params = params }

// Param returns the value of the named parameter in the current scope.
func (c *Context) Param(name string) string { return c.params.Get(name) }

// Response returns the response sink.
func (c *Context) Response() ResponseWriter { return c.res }

// Request returns the underlying *http.Request when the context was built
// by the net/http binding, or nil for synthetic contexts.
func (c *Context) Request() *http.Request { return c.req }

// SetValue stores an arbitrary key/value pair on the context for handlers
// further down the chain.
func (c *Context) SetValue(key, val any) {
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = val
}

// Value returns a value previously stored with SetValue.
func (c *Context) Value(key any) any {
	return c.values[key]
}
