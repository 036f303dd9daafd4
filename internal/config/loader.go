// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/yektour/webconf/internal/log"
	"github.com/yektour/webconf/internal/metrics"
	"github.com/yektour/webconf/internal/telemetry"
	"github.com/yektour/webconf/internal/theme"
	"github.com/yektour/webconf/internal/validate"
)

// Loader handles configuration loading with precedence
type Loader struct {
	appPath         string
	themePath       string
	opts            []Option
	ConsumedEnvKeys map[string]struct{} // Mechanical tracking of consumed keys
}

// NewLoader creates a loader for the given files. Either path may be empty.
// When themePath is empty the theme file is located through
// themeModule.optionsPath, relative to the app file.
func NewLoader(appPath, themePath string, opts ...Option) *Loader {
	return &Loader{
		appPath:         appPath,
		themePath:       themePath,
		opts:            opts,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Wrapper methods for mechanical connection tracking

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

// envBool and envInt report a malformed override against field instead of
// falling back to the current value.
func (l *Loader) envBool(v *validate.Validator, field, key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	b, err := LookupBool(key, defaultVal)
	if err != nil {
		v.AddKindError(ErrInvalidField, field, err.Error(), os.Getenv(key))
	}
	return b
}

func (l *Loader) envInt(v *validate.Validator, field, key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	i, err := LookupInt(key, defaultVal)
	if err != nil {
		v.AddKindError(ErrInvalidField, field, err.Error(), os.Getenv(key))
	}
	return i
}

// Paths returns the app and theme files the loader reads. The theme path is
// the explicit one or, failing that, the one derived from the app file.
func (l *Loader) Paths() (appPath, themePath string) {
	themePath = l.themePath
	if themePath == "" && l.appPath != "" {
		if app, err := l.loadApp(); err == nil {
			themePath, _ = l.derivedThemePath(app)
		}
	}
	return l.appPath, themePath
}

// Load loads configuration with precedence: ENV > File > Defaults
// It enforces Strict Validated Order: Parse File (Strict) -> Apply Env -> Validate
func (l *Loader) Load() (*Config, error) {
	return l.LoadContext(context.Background())
}

// LoadContext is Load with a parent context for the "config.load" span.
// Every attempt is counted in the config load metrics.
func (l *Loader) LoadContext(ctx context.Context) (*Config, error) {
	_, span := telemetry.Tracer("webconf/config").Start(ctx, "config.load")
	defer span.End()

	start := time.Now()
	cfg, err := l.load()
	elapsed := time.Since(start)

	if err != nil {
		var ve ValidationError
		outcome := metrics.OutcomeLoadError
		if errors.As(err, &ve) {
			outcome = metrics.OutcomeValidationError
			metrics.RecordValidationFailure(ve.Fields())
		}
		metrics.RecordConfigLoad(outcome, elapsed)
		span.SetAttributes(telemetry.ConfigAttributes(l.appPath, l.themePath, "", outcome)...)
		span.SetAttributes(telemetry.ErrorAttributes(err, outcome)...)
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return nil, err
	}

	metrics.RecordConfigLoad(metrics.OutcomeSuccess, elapsed)
	src := cfg.Source()
	span.SetAttributes(telemetry.ConfigAttributes(src.AppPath, src.ThemePath, cfg.Fingerprint(), metrics.OutcomeSuccess)...)
	return cfg, nil
}

func (l *Loader) load() (*Config, error) {
	logger := log.WithComponent("config")

	// 1+2. Defaults overlaid with the app file
	app, err := l.loadApp()
	if err != nil {
		return nil, err
	}

	// Theme options from the explicit path or the one the app file names
	themePath, required := l.themePath, true
	if themePath == "" {
		themePath, required = l.derivedThemePath(app)
	}
	opts, err := l.loadTheme(themePath, required)
	if err != nil {
		return nil, err
	}
	if opts.loaded {
		themePath = opts.path
	} else {
		themePath = ""
	}

	// 3. Override with environment variables (highest priority)
	if err := l.mergeEnv(&app, &opts.Options); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Validate final configuration
	cfg, err := New(app, opts.Options, append(l.opts, WithSource(Source{AppPath: l.appPath, ThemePath: themePath}))...)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str(log.FieldEvent, "config.loaded").
		Str(log.FieldPath, l.appPath).
		Str("theme_path", themePath).
		Str(log.FieldBaseURL, MaskURL(app.HTTP.BaseURL)).
		Str(log.FieldFingerprint, cfg.Fingerprint()).
		Msg("configuration loaded")
	return cfg, nil
}

func (l *Loader) loadApp() (AppConfig, error) {
	app := DefaultAppConfig()
	if l.appPath == "" {
		return app, nil
	}
	data, err := readConfigFile(l.appPath)
	if err != nil {
		return AppConfig{}, err
	}

	prev := app
	parsed, err := ParseAppConfig(data, app)
	if err != nil {
		return AppConfig{}, &LoadError{Source: l.appPath, Err: err}
	}
	syncServerURL(&parsed, prev.HTTP.BaseURL, prev.Env[EnvServerURL])
	return parsed, nil
}

// derivedThemePath resolves optionsPath against the app file directory.
// Only an optionsPath the operator changed makes the file mandatory.
// Without an app file nothing is derived.
func (l *Loader) derivedThemePath(app AppConfig) (string, bool) {
	p := app.ThemeModule.OptionsPath
	if p == "" || l.appPath == "" {
		return "", false
	}
	return filepath.Join(filepath.Dir(l.appPath), p), app.ThemeModule.OptionsPath != DefaultOptionsPath
}

type loadedTheme struct {
	theme.Options
	path   string
	loaded bool
}

func (l *Loader) loadTheme(path string, required bool) (loadedTheme, error) {
	out := loadedTheme{Options: theme.Default(), path: path}
	if path == "" {
		return out, nil
	}
	data, err := readConfigFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			logger := log.WithComponent("config")
			logger.Debug().
				Str(log.FieldPath, path).
				Msg("no theme file, using default theme options")
			return out, nil
		}
		return loadedTheme{}, err
	}
	opts, err := ParseThemeOptions(data, out.Options)
	if err != nil {
		return loadedTheme{}, &LoadError{Source: path, Err: err}
	}
	out.Options = opts
	out.loaded = true
	return out, nil
}

func (l *Loader) mergeEnv(app *AppConfig, opts *theme.Options) error {
	prevBase, prevServerURL := app.HTTP.BaseURL, app.Env[EnvServerURL]
	v := validate.New()

	app.HTTP.BaseURL = l.envString(EnvBaseURL, app.HTTP.BaseURL)
	app.HTTP.Retries = l.envInt(v, "http.retries", EnvHTTPRetries, app.HTTP.Retries)
	app.HTTP.Progress = l.envBool(v, "http.progress", EnvHTTPProgress, app.HTTP.Progress)
	app.Locale.DefaultLocale = l.envString(EnvDefaultLocale, app.Locale.DefaultLocale)
	app.Head.Title = l.envString(EnvTitle, app.Head.Title)
	opts.Theme.Dark = l.envBool(v, "theme.dark", EnvThemeDark, opts.Theme.Dark)
	opts.RTL = l.envBool(v, "rtl", EnvRTL, opts.RTL)

	syncServerURL(app, prevBase, prevServerURL)
	return v.Err()
}

// syncServerURL keeps an explicit SERVER_URL that mirrored the previous base
// URL in step with a base URL override.
func syncServerURL(app *AppConfig, prevBase, prevServerURL string) {
	if app.HTTP.BaseURL == prevBase {
		return
	}
	if cur, ok := app.Env[EnvServerURL]; ok && cur == prevServerURL && prevServerURL == prevBase {
		app.Env[EnvServerURL] = app.HTTP.BaseURL
	}
}

// readConfigFile reads a YAML file, returning a *LoadError on failure.
func readConfigFile(path string) ([]byte, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, &LoadError{Source: path, Err: fmt.Errorf("unsupported config format: %q (only YAML supported)", ext)}
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: fmt.Errorf("read file: %w", err)}
	}
	return data, nil
}
