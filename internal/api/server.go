// SPDX-License-Identifier: MIT

// Package api serves the active configuration over a read-only HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/yektour/webconf/internal/api/middleware"
	"github.com/yektour/webconf/internal/config"
	"github.com/yektour/webconf/internal/health"
	"github.com/yektour/webconf/internal/log"
)

// Options tunes the server. The zero value serves without optional middleware.
type Options struct {
	Stack   middleware.StackConfig
	Version string

	// Readiness backs GET /readyz. A manager is created when nil; either way
	// a config_loaded check on the holder is registered.
	Readiness *health.Manager
}

// Server answers API requests from the configuration published in a Holder.
// Reloads swap the holder's value; handlers always read the latest one.
type Server struct {
	holder  *config.Holder
	opts    Options
	spec    *openapi3.T
	ready   *health.Manager
	handler http.Handler
	logger  zerolog.Logger
}

// New validates the embedded OpenAPI document and builds the router.
func New(ctx context.Context, holder *config.Holder, opts Options) (*Server, error) {
	if holder == nil {
		return nil, errors.New("api: nil config holder")
	}
	spec, err := LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	ready := opts.Readiness
	if ready == nil {
		ready = health.NewManager(opts.Version)
	}
	ready.RegisterChecker(health.NewFuncChecker("config_loaded", func(context.Context) health.CheckResult {
		cfg := holder.Get()
		if cfg == nil {
			return health.CheckResult{Status: health.StatusUnhealthy, Message: "no configuration loaded"}
		}
		return health.CheckResult{Status: health.StatusHealthy, Message: "fingerprint " + cfg.Fingerprint()}
	}))

	s := &Server{
		holder: holder,
		opts:   opts,
		spec:   spec,
		ready:  ready,
		logger: log.WithComponent("api"),
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the HTTP handler with all routes and middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Spec returns the validated OpenAPI document.
func (s *Server) Spec() *openapi3.T {
	return s.spec
}

// ListenAndServe listens on sc.ListenAddr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, sc config.ServerConfig) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", sc.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", sc.ListenAddr, err)
	}
	return s.Serve(ctx, ln, sc)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
// within sc.ShutdownTimeout. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener, sc config.ServerConfig) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       sc.ReadTimeout,
		ReadHeaderTimeout: sc.ReadTimeout / 2,
		WriteTimeout:      sc.WriteTimeout,
		IdleTimeout:       sc.IdleTimeout,
		MaxHeaderBytes:    sc.MaxHeaderBytes,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str(log.FieldEvent, "api.listening").
			Str("addr", ln.Addr().String()).
			Msg("API server listening (HTTP)")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("API server (HTTP): %w", err)
	case <-ctx.Done():
	}

	timeout := sc.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	// Detached so shutdown can complete even though ctx is already done.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	s.logger.Info().Str(log.FieldEvent, "api.shutdown").Msg("shutting down API server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("API server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("API server (HTTP): %w", err)
	}
	return nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	middleware.ApplyStack(r, s.opts.Stack)
	r.Use(chimw.GetHead)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.ready.ServeReady)
	r.Method(http.MethodGet, "/metrics", metricsHandler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/config", s.handleConfig)
		r.Get("/config/app", s.handleAppConfig)
		r.Get("/config/theme", s.handleThemeOptions)
		r.Get("/config/theme.css", s.handleThemeCSS)
		r.Get("/config/env", s.handleEnv)
		r.Get("/capabilities", s.handleCapabilities)
		r.Get("/openapi.yaml", s.handleOpenAPI)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusNotFound, "not_found", "no such endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", "GET, HEAD")
		writeProblem(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "the API is read-only")
	})
	return r
}
