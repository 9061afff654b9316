// Package server wires the instrumented reverse proxy: metrics exposition,
// health checking, and the middleware chain around the upstream proxy.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/wexeljose/perfgate/internal/collector"
	"github.com/wexeljose/perfgate/internal/config"
	"github.com/wexeljose/perfgate/internal/tracing"
)

// Server hosts the exposition endpoint and proxies all other traffic to the
// upstream, observing every request through the collector.
type Server struct {
	cfg        config.ServeConfig
	logger     *slog.Logger
	httpServer *http.Server
}

// New builds the middleware chain and router. The collector middleware sits
// closest to the proxy so instrumentation covers exactly the upstream work;
// load shedding and logging wrap it from the outside.
func New(cfg config.ServeConfig, col *collector.Collector, provider *tracing.Provider, logger *slog.Logger) (*Server, error) {
	upstream, err := url.Parse(cfg.Upstream)
	if err != nil {
		return nil, err
	}

	proxy := httputil.NewSingleHostReverseProxy(upstream)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Warn("upstream request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		w.WriteHeader(http.StatusBadGateway)
	}

	var handler http.Handler = proxy
	handler = col.Middleware(handler)
	if provider.Enabled() {
		handler = traceRequests(provider, handler)
	}
	if cfg.MaxRPS > 0 {
		handler = shedLoad(cfg.MaxRPS, logger, handler)
	}
	handler = logRequests(logger, handler)

	mux := chi.NewRouter()
	mux.Handle(cfg.MetricsPath, col.Handler())
	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("/*", handler)

	return &Server{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:              cfg.Listen,
			Handler:           mux,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		},
	}, nil
}

// Handler exposes the root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is canceled, then drains in-flight requests within
// the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening",
			slog.String("addr", s.cfg.Listen),
			slog.String("upstream", s.cfg.Upstream),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
