// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/yektour/webconf/internal/api"
	"github.com/yektour/webconf/internal/api/middleware"
	"github.com/yektour/webconf/internal/config"
	"github.com/yektour/webconf/internal/health"
	"github.com/yektour/webconf/internal/log"
	"github.com/yektour/webconf/internal/metrics"
	"github.com/yektour/webconf/internal/telemetry"
	"github.com/yektour/webconf/internal/theme"
)

// serve loads the configuration, exposes it over HTTP and optionally
// reloads it when the files change. It blocks until ctx is cancelled.
func serve(ctx context.Context, files fileFlags, stderr io.Writer) int {
	// Safe defaults until the server settings are known.
	log.Configure(log.Config{Level: "info", Service: "webconf", Version: version})
	logger := log.WithComponent("daemon")

	sc, err := config.ParseServerConfig(version)
	if err != nil {
		fmt.Fprintf(stderr, "Server configuration error:\n  %v\n", err)
		return exitConfig
	}
	log.Configure(log.Config{
		Level:   sc.LogLevel,
		Format:  sc.LogFormat,
		Service: "webconf",
		Version: version,
	})
	logger = log.WithComponent("daemon")

	loader := config.NewLoader(files.app, files.theme)
	cfg, err := loader.LoadContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error:\n  %v\n", err)
		return exitConfig
	}
	holder := config.NewHolder(cfg)
	if err := publish(cfg); err != nil {
		logger.Error().Err(err).Str(log.FieldEvent, "config.env_failed").Msg("failed to publish configuration environment")
		return exitConfig
	}

	provider, err := telemetry.NewProvider(ctx, sc.Telemetry)
	if err != nil {
		logger.Error().Err(err).Str(log.FieldEvent, "telemetry.init_failed").Msg("failed to initialise tracing")
		return exitConfig
	}
	defer func() {
		if err := provider.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn().Err(err).Msg("tracer provider shutdown failed")
		}
	}()

	appPath, themePath := loader.Paths()
	ready := health.NewManager(version)
	ready.RegisterChecker(health.NewFileChecker("app_file", appPath))
	if _, err := os.Stat(themePath); err == nil {
		// The default theme file is optional; only watch one that exists.
		ready.RegisterChecker(health.NewFileChecker("theme_file", themePath))
	}
	reload := health.NewReloadChecker()
	ready.RegisterChecker(reload)

	tracing := ""
	if sc.Telemetry.Enabled {
		tracing = sc.Telemetry.ServiceName
	}
	srv, err := api.New(ctx, holder, api.Options{
		Stack: middleware.StackConfig{
			AllowedOrigins:        sc.CORSOrigins,
			EnableSecurityHeaders: true,
			EnableMetrics:         true,
			TracingService:        tracing,
			EnableLogging:         true,
			RateLimit:             sc.RateLimit,
			RateLimitWhitelist:    sc.RateLimitWhitelist,
		},
		Version:   version,
		Readiness: ready,
	})
	if err != nil {
		logger.Error().Err(err).Str(log.FieldEvent, "api.init_failed").Msg("failed to build API server")
		return exitConfig
	}

	logger.Info().
		Str(log.FieldEvent, "daemon.start").
		Str("listen", sc.ListenAddr).
		Str(log.FieldPath, appPath).
		Str("theme_path", themePath).
		Str(log.FieldFingerprint, cfg.Fingerprint()).
		Bool("watch", sc.Watch).
		Msg("starting webconf")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, sc)
	})
	if sc.Watch {
		w := config.NewWatcher(loader, holder)
		w.OnReload(func(next *config.Config, err error) {
			reload.Observe(err)
			if err != nil {
				return
			}
			if err := publish(next); err != nil {
				logger.Warn().Err(err).Str(log.FieldEvent, "config.env_failed").Msg("reloaded environment not published")
			}
		})
		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Str(log.FieldEvent, "daemon.failed").Msg("webconf stopped with error")
		return exitConfig
	}
	logger.Info().Str(log.FieldEvent, "daemon.stop").Msg("webconf stopped")
	return exitOK
}

// publish exports the configuration environment into the process and
// refreshes the per-config gauges.
func publish(cfg *config.Config) error {
	metrics.SetConfigInfo(cfg.Fingerprint())
	recordContrast(cfg.ThemeOptions())
	return cfg.InjectEnv(os.Setenv)
}

func recordContrast(opts theme.Options) {
	counts := map[string]int{"light": 0, "dark": 0}
	for _, w := range theme.ContrastWarnings(opts) {
		counts[w.Mode]++
	}
	for mode, n := range counts {
		metrics.SetContrastWarnings(mode, n)
	}
}
