/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/friendsincode/beacon/internal/api"
	"github.com/friendsincode/beacon/internal/config"
	"github.com/friendsincode/beacon/internal/graph"
	"github.com/friendsincode/beacon/internal/telemetry"
)

// Deps are the shared, process-lifetime objects the server routes requests to.
type Deps struct {
	Schema  *graphql.Schema
	Metrics *telemetry.Metrics
	Tracer  *telemetry.TracerProvider
}

// Server bundles the HTTP router and its lifecycle.
type Server struct {
	cfg        *config.Config
	logger     zerolog.Logger
	router     chi.Router
	httpServer *http.Server
	metrics    *telemetry.Metrics
	api        *api.API
	closers    []func() error
}

// New constructs the server and wires dependencies.
func New(cfg *config.Config, deps Deps, logger zerolog.Logger) (*Server, error) {
	if deps.Schema == nil {
		return nil, errors.New("server: graphql schema is required")
	}
	if deps.Metrics == nil {
		return nil, errors.New("server: metrics are required")
	}
	for _, warn := range cfg.LegacyEnvWarnings {
		logger.Warn().Msg(warn)
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(telemetry.TracingMiddleware(cfg.ServiceName, deps.Tracer.Provider())) // Add OpenTelemetry tracing
	router.Use(hlog.NewHandler(logger))
	router.Use(hlog.AccessHandler(accessLog))
	router.Use(middleware.Recoverer)
	router.Use(securityHeadersMiddleware)
	router.Use(graph.SchemaMiddleware(deps.Schema))

	srv := &Server{
		cfg:     cfg,
		logger:  logger,
		router:  router,
		metrics: deps.Metrics,
		api: api.New(api.Options{
			TracerProvider:    deps.Tracer.Provider(),
			Metrics:           deps.Metrics,
			PlaygroundEnabled: cfg.PlaygroundEnabled,
		}, logger),
	}

	srv.configureRoutes()

	srv.httpServer = &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: srv.router,
		// Keep header deadline to protect against slowloris.
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return srv, nil
}

func (s *Server) configureRoutes() {
	s.router.Group(func(r chi.Router) {
		r.Use(telemetry.MetricsMiddleware(s.metrics)) // Add Prometheus metrics
		s.api.Routes(r)
		if s.cfg.MetricsSelfInstrument {
			r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
		}
	})

	if !s.cfg.MetricsSelfInstrument {
		s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Ctx(r.Context()).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("http request")
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-Frame-Options", "DENY")
		// The playground page loads its client bundle from a CDN.
		w.Header().Set("Content-Security-Policy", "default-src 'self' 'unsafe-inline' 'unsafe-eval' data: blob: https:; frame-ancestors 'none'; base-uri 'self'")

		// Only advertise HSTS for requests served over HTTPS.
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer returns the underlying http.Server.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Serve accepts connections on ln until ctx is cancelled, then stops accepting
// and waits for in-flight requests for at most the configured shutdown timeout.
// It returns nil after a clean drain.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down gracefully...")

	timeoutCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(timeoutCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// Close releases owned resources in reverse order.
func (s *Server) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}

// DeferClose registers a cleanup hook.
func (s *Server) DeferClose(fn func() error) {
	s.closers = append(s.closers, fn)
}
