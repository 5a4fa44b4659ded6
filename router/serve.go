package router

import "net/http"

// ServeHTTP binds the router to net/http. The context is built from the
// escaped request path so captures decode exactly once, the dispatch runs
// with a no-op downstream, and a request that completes without any
// explicit terminal write falls through to a 404.
//
// Handler panics are not recovered here; pair the router with the handlers
// package Recovery middleware when that is wanted.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	ww := NewResponseWriter(w)

	path := req.URL.EscapedPath()
	if path == "" {
		path = "/"
	}

	c := NewContext(req.Method, path, ww)
	c.req = req

	if err := r.Dispatch(c, nil); err != nil {
		r.errorHandler(c, err)
		return
	}

	if !ww.Written() {
		http.NotFound(ww, req)
	}
}

// defaultErrorHandler logs the dispatch error and writes a 500 when no
// response has been written yet.
func (r *Router) defaultErrorHandler(c *Context, err error) {
	r.logger.Error("dispatch error",
		"method", c.Method(), "path", c.Path(), "error", err)
	if !c.Response().Written() {
		http.Error(c.Response(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
