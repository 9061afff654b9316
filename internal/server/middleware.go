package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/wexeljose/perfgate/internal/tracing"
)

// logRequests emits one structured line per proxied request.
func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		logger.Info("request completed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.String("duration", time.Since(start).String()),
			slog.Int("bytes", ww.BytesWritten()),
		)
	})
}

// shedLoad rejects traffic above maxRPS with 503 so the upstream is never
// offered more than the configured rate. Burst equals the rate, which allows
// a one-second spike before shedding starts.
func shedLoad(maxRPS int, logger *slog.Logger, next http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(maxRPS), maxRPS)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			logger.Warn("shedding load",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			w.Header().Set("Retry-After", "1")
			http.Error(w, "rate limit exceeded", http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// traceRequests opens a server span per request, continuing trace context
// from the caller's headers.
func traceRequests(provider *tracing.Provider, next http.Handler) http.Handler {
	tracer := provider.Tracer()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.StartServerSpan(r, tracer)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		tracing.EndServerSpan(span, ww.Status())
	})
}
