package router

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParams(t *testing.T) {
	t.Run("get and has", func(t *testing.T) {
		p := Params{
			"id":    {Value: "42", Defined: true},
			"extra": {},
		}

		assert.Equal(t, "42", p.Get("id"))
		assert.True(t, p.Has("id"))

		assert.Empty(t, p.Get("extra"))
		assert.False(t, p.Has("extra"))

		assert.Empty(t, p.Get("missing"))
		assert.False(t, p.Has("missing"))
	})

	t.Run("clone is independent", func(t *testing.T) {
		p := Params{"id": {Value: "42", Defined: true}}
		c := p.clone()
		c["id"] = Param{Value: "other", Defined: true}

		assert.Equal(t, "42", p.Get("id"))
	})
}

func TestContext(t *testing.T) {
	t.Run("accessors", func(t *testing.T) {
		c := testContext("GET", "/users/1")

		assert.Equal(t, "GET", c.Method())
		assert.Equal(t, "/users/1", c.Path())
		assert.NotNil(t, c.Params())
		assert.Nil(t, c.Request())
	})

	t.Run("values", func(t *testing.T) {
		c := testContext("GET", "/")
		assert.Nil(t, c.Value("missing"))

		c.SetValue("user", "alice")
		assert.Equal(t, "alice", c.Value("user"))
	})
}

func TestResponseWriter(t *testing.T) {
	t.Run("tracks the first explicit write", func(t *testing.T) {
		rec := httptest.NewRecorder()
		w := NewResponseWriter(rec)

		assert.False(t, w.Written())
		assert.Zero(t, w.Status())

		w.WriteHeader(201)
		assert.True(t, w.Written())
		assert.Equal(t, 201, w.Status())

		// Duplicate status writes are dropped.
		w.WriteHeader(500)
		assert.Equal(t, 201, w.Status())
		assert.Equal(t, 201, rec.Code)
	})

	t.Run("implicit 200 on body write", func(t *testing.T) {
		rec := httptest.NewRecorder()
		w := NewResponseWriter(rec)

		_, err := w.Write([]byte("hello"))
		assert.NoError(t, err)
		assert.True(t, w.Written())
		assert.Equal(t, 200, w.Status())
	})

	t.Run("wrapping is idempotent", func(t *testing.T) {
		w := NewResponseWriter(httptest.NewRecorder())
		assert.Same(t, w, NewResponseWriter(w))
	})
}
