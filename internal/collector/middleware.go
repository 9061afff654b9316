package collector

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
)

// StatusClientClosedRequest is recorded when the client connection goes away
// before the handler produces a response (nginx's non-standard 499).
const StatusClientClosedRequest = 499

// Middleware wraps next so that every request is observed by the collector.
//
// The request is counted as active from entry until its first terminal
// signal. Two signals can race for the same request: the handler returning
// and the request context being canceled by a client disconnect. A
// compare-and-set on the per-request state lets only the first one through,
// which keeps the active gauge from being decremented twice.
//
// Recording failures are swallowed; the wrapped handler's behavior is never
// altered by this middleware.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.active.Inc()
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		var finalized atomic.Bool

		finalize := func(status int) {
			if !finalized.CompareAndSwap(false, true) {
				return
			}
			defer func() {
				// A metrics malfunction must surface as a missing metric,
				// never as a request failure.
				_ = recover()
			}()
			c.active.Dec()
			elapsed := float64(time.Since(start)) / float64(time.Millisecond)
			c.observeDuration(r.Method, routeLabel(r), status, elapsed)
		}

		if done := r.Context().Done(); done != nil {
			handlerDone := make(chan struct{})
			defer close(handlerDone)
			go func() {
				select {
				case <-done:
					finalize(StatusClientClosedRequest)
				case <-handlerDone:
				}
			}()
		}

		defer func() {
			finalize(rec.status)
		}()
		next.ServeHTTP(rec, r)
	})
}

func (c *Collector) observeDuration(method, route string, status int, elapsedMS float64) {
	c.durations.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsedMS)
}

// routeLabel prefers the router's matched pattern over the literal path so
// that paths with embedded identifiers collapse into one series. When no
// meaningful pattern is available (no chi context, or a catch-all match) the
// literal path is used instead; with an unbounded URL space that fallback is
// a known cardinality risk.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" && pattern != "/*" {
			return pattern
		}
	}
	return r.URL.Path
}

// statusRecorder captures the status code written by the handler. Requests
// that never call WriteHeader are reported as 200, matching net/http.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
