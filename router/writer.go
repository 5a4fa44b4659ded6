package router

import "net/http"

// ResponseWriter is the response sink the router dispatches against. It
// extends http.ResponseWriter with the ability to ask whether an explicit
// status has already been written, which is what the fallback synthesis
// step keys off.
type ResponseWriter interface {
	http.ResponseWriter

	// Status returns the status code written so far, or zero.
	Status() int

	// Written reports whether WriteHeader has been called.
	Written() bool
}

// responseWriter wraps an http.ResponseWriter and tracks the first explicit
// write. Duplicate WriteHeader calls are dropped.
type responseWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

// NewResponseWriter wraps w so the router can observe whether a terminal
// status has been written. If w already satisfies ResponseWriter it is
// returned unchanged.
func NewResponseWriter(w http.ResponseWriter) ResponseWriter {
	if rw, ok := w.(ResponseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w}
}

func (w *responseWriter) WriteHeader(status int) {
	if w.written {
		return
	}
	w.status = status
	w.written = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Status returns the status code written so far, or zero.
func (w *responseWriter) Status() int { return w.status }

// Written reports whether WriteHeader has been called.
func (w *responseWriter) Written() bool { return w.written }

// Flush implements http.Flusher when the underlying writer supports it.
func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
