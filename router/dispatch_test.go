package router

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchFallbacks(t *testing.T) {
	t.Run("405 with Allow for wrong method", func(t *testing.T) {
		r := New()
		r.Get("/user", okHandler("get"))
		r.Post("/user", okHandler("post"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/user", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "GET, POST", w.Header().Get("Allow"))
	})

	t.Run("204 with Allow for OPTIONS", func(t *testing.T) {
		r := New()
		r.Get("/user", okHandler("get"))
		r.Post("/user", okHandler("post"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/user", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "GET, POST", w.Header().Get("Allow"))
	})

	t.Run("501 for a verb outside the standard set", func(t *testing.T) {
		r := New()
		r.Get("/user", okHandler("get"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("PURGE", "/user", nil))

		assert.Equal(t, http.StatusNotImplemented, w.Code)
		assert.Empty(t, w.Header().Get("Allow"))
	})

	t.Run("405 for a standard verb with no binding anywhere", func(t *testing.T) {
		r := New()
		r.Get("/user", okHandler("get"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/user", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "GET", w.Header().Get("Allow"))
	})

	t.Run("404 when nothing matches at all", func(t *testing.T) {
		r := New()
		r.Get("/user", okHandler("get"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nothing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("explicit OPTIONS route wins over 204 synthesis", func(t *testing.T) {
		r := New()
		r.Get("/user", okHandler("get"))
		r.Options("/user", okHandler("options"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/user", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "options", w.Body.String())
	})
}

func TestDispatchHeadFallback(t *testing.T) {
	r := New()
	r.Get("/users/:id", okHandler("user body"))

	t.Run("reaches the GET binding", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/users/1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("response body is empty over the wire", func(t *testing.T) {
		// The GET handler writes a body; net/http strips it for HEAD.
		srv := httptest.NewServer(r)
		defer srv.Close()

		resp, err := http.Head(srv.URL + "/users/1")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, body)
	})
}

func TestDispatchOrdering(t *testing.T) {
	t.Run("all matching routes run in registration order", func(t *testing.T) {
		r := New()
		var order []string
		r.Get("/user", func(_ *Context, next NextFunc) error {
			order = append(order, "first")
			return next()
		})
		r.Get("/user", func(_ *Context, _ NextFunc) error {
			order = append(order, "second")
			return nil
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user", nil))
		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("not invoking the continuation short-circuits", func(t *testing.T) {
		r := New()
		var order []string
		r.Get("/user", func(c *Context, _ NextFunc) error {
			order = append(order, "first")
			c.Response().WriteHeader(http.StatusForbidden)
			return nil
		})
		r.Get("/user", func(_ *Context, next NextFunc) error {
			order = append(order, "second")
			return next()
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user", nil))

		assert.Equal(t, []string{"first"}, order)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("downstream runs once after the walk", func(t *testing.T) {
		r := New()
		r.Get("/user", func(_ *Context, next NextFunc) error { return next() })

		calls := 0
		c := testContext(http.MethodGet, "/user")
		require.NoError(t, r.Dispatch(c, func() error {
			calls++
			return nil
		}))
		assert.Equal(t, 1, calls)
	})

	t.Run("no candidates defers straight to downstream", func(t *testing.T) {
		r := New()
		r.Get("/user", okHandler("ok"))

		calls := 0
		c := testContext(http.MethodGet, "/none")
		require.NoError(t, r.Dispatch(c, func() error {
			calls++
			return nil
		}))

		assert.Equal(t, 1, calls)
		assert.False(t, c.Response().Written())
	})
}

func TestDispatchMount(t *testing.T) {
	t.Run("nested handler sees the rescoped path", func(t *testing.T) {
		r := New()
		var seen string
		var seenID string
		r.Mount("/first/:id", func(c *Context, next NextFunc) error {
			seen = c.Path()
			seenID = c.Param("id")
			return next()
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/first/second/third", nil))

		assert.Equal(t, "/second/third", seen)
		assert.Equal(t, "second", seenID)
	})

	t.Run("outer scope is restored after the mount returns", func(t *testing.T) {
		r := New()
		var during, after string
		r.Mount("/api", func(c *Context, next NextFunc) error {
			during = c.Path()
			return next()
		})
		r.All("/api/users", func(c *Context, next NextFunc) error {
			after = c.Path()
			return next()
		})

		c := testContext(http.MethodGet, "/api/users")
		require.NoError(t, r.Dispatch(c, nil))

		assert.Equal(t, "/users", during)
		assert.Empty(t, after, "sibling routes rescope from the request-level path")
		assert.Equal(t, "/api/users", c.Path(), "request-level path restored")
	})

	t.Run("mounted router dispatches the remainder", func(t *testing.T) {
		api := New()
		api.Get("/users", okHandler("api users"))

		root := New()
		root.Mount("/api", api)

		w := httptest.NewRecorder()
		root.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "api users", w.Body.String())
	})

	t.Run("mount boundary is slash-strict", func(t *testing.T) {
		r := New()
		r.Mount("/first", okHandler("mounted"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/firstly", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unmatched remainder falls through to 404", func(t *testing.T) {
		api := New()
		api.Get("/users", okHandler("ok"))

		root := New()
		root.Mount("/api", api)

		w := httptest.NewRecorder()
		root.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/missing", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDispatchParamScoping(t *testing.T) {
	t.Run("replace mode drops the caller's params", func(t *testing.T) {
		r := New()
		var inner Params
		r.Mount("/tenant/:tenant", func(c *Context, next NextFunc) error {
			inner = c.Params()
			return next()
		})

		c := testContext(http.MethodGet, "/tenant/acme")
		c.SetParams(Params{"outer": {Value: "x", Defined: true}})
		require.NoError(t, r.Dispatch(c, nil))

		assert.Equal(t, "acme", inner.Get("tenant"))
		assert.False(t, inner.Has("outer"))
		assert.Equal(t, "x", c.Params().Get("outer"), "caller's params restored")
	})

	t.Run("merge mode keeps the caller's params", func(t *testing.T) {
		r := New().MergeParams(true)
		var inner Params
		r.Mount("/tenant/:tenant", func(c *Context, next NextFunc) error {
			inner = c.Params()
			return next()
		})

		c := testContext(http.MethodGet, "/tenant/acme")
		c.SetParams(Params{
			"outer":  {Value: "x", Defined: true},
			"tenant": {Value: "parent", Defined: true},
		})
		require.NoError(t, r.Dispatch(c, nil))

		assert.Equal(t, "x", inner.Get("outer"))
		assert.Equal(t, "acme", inner.Get("tenant"), "candidate wins on collision")
	})
}

func TestDispatchRestoration(t *testing.T) {
	t.Run("error return restores the outer scope", func(t *testing.T) {
		boom := errors.New("boom")
		api := New()
		api.Get("/users", func(_ *Context, _ NextFunc) error { return boom })

		root := New()
		root.Mount("/api", api)

		c := testContext(http.MethodGet, "/api/users")
		c.SetParams(Params{"outer": {Value: "x", Defined: true}})

		err := root.Dispatch(c, nil)
		assert.ErrorIs(t, err, boom, "handler errors are never swallowed")
		assert.Equal(t, "/api/users", c.Path())
		assert.Equal(t, "x", c.Params().Get("outer"))
	})

	t.Run("panic restores the outer scope", func(t *testing.T) {
		api := New()
		api.Get("/users", func(_ *Context, _ NextFunc) error { panic("boom") })

		root := New()
		root.Mount("/api", api)

		c := testContext(http.MethodGet, "/api/users")
		c.SetParams(Params{"outer": {Value: "x", Defined: true}})

		require.PanicsWithValue(t, "boom", func() {
			_ = root.Dispatch(c, nil)
		})
		assert.Equal(t, "/api/users", c.Path())
		assert.Equal(t, "x", c.Params().Get("outer"))
	})

	t.Run("probe around a panicking mount sees consistent scope", func(t *testing.T) {
		api := New()
		api.Get("/users", func(_ *Context, _ NextFunc) error { panic("boom") })

		root := New()
		var before, after string
		probe := func(c *Context, next NextFunc) error {
			before = c.Path()
			defer func() { after = c.Path() }()
			return next()
		}
		root.Mount("/api", probe, api)

		c := testContext(http.MethodGet, "/api/users")
		require.Panics(t, func() { _ = root.Dispatch(c, nil) })

		assert.Equal(t, "/users", before)
		assert.Equal(t, before, after, "scope unchanged across the nested dispatch, even on panic")
		assert.Equal(t, "/api/users", c.Path())
	})

	t.Run("downstream failure restores the unwinding scope", func(t *testing.T) {
		r := New()
		r.Get("/user", func(_ *Context, next NextFunc) error { return next() })

		boom := errors.New("downstream boom")
		c := testContext(http.MethodGet, "/user")
		err := r.Dispatch(c, func() error { return boom })

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, "/user", c.Path())
	})
}

func TestDispatchPrefixSuppressesFallback(t *testing.T) {
	// A prefix route is applicable to every method, so its presence marks
	// the request handled and no 204/405 is synthesized; a pass-through
	// chain then falls out to the host's 404.
	r := New()
	r.Mount("/", func(_ *Context, next NextFunc) error { return next() })
	r.Get("/user", okHandler("get"))
	r.Post("/user", okHandler("post"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/user", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
