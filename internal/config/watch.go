// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/yektour/webconf/internal/log"
	"github.com/yektour/webconf/internal/metrics"
)

// DefaultDebounce coalesces bursts of file events into one reload.
const DefaultDebounce = 500 * time.Millisecond

// Holder publishes the current Config to concurrent readers.
type Holder struct {
	current atomic.Pointer[Config]
}

// NewHolder creates a holder publishing initial.
func NewHolder(initial *Config) *Holder {
	h := &Holder{}
	h.current.Store(initial)
	return h
}

// Get returns the current configuration.
func (h *Holder) Get() *Config {
	return h.current.Load()
}

// Swap publishes next and returns the previous configuration.
func (h *Holder) Swap(next *Config) *Config {
	return h.current.Swap(next)
}

// Watcher reloads the configuration when its files change.
// A reload that fails keeps the previous configuration published.
type Watcher struct {
	loader   *Loader
	holder   *Holder
	debounce time.Duration
	logger   zerolog.Logger

	mu        sync.Mutex
	listeners []func(*Config, error)
}

// WatchOption customizes a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) { w.debounce = d }
}

// NewWatcher creates a watcher that reloads through loader and publishes
// successful results into holder.
func NewWatcher(loader *Loader, holder *Holder, opts ...WatchOption) *Watcher {
	w := &Watcher{
		loader:   loader,
		holder:   holder,
		debounce: DefaultDebounce,
		logger:   log.WithComponent("config"),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// OnReload registers fn to be called after every reload attempt with either
// the new configuration or the error. fn runs on the watcher goroutine.
func (w *Watcher) OnReload(fn func(*Config, error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, fn)
}

// Reload loads the configuration now. On success the holder is updated.
func (w *Watcher) Reload() (*Config, error) {
	w.logger.Info().Str(log.FieldEvent, "config.reload_start").Msg("reloading configuration")

	cfg, err := w.loader.Load()
	if err != nil {
		w.logger.Error().
			Err(err).
			Str(log.FieldEvent, "config.reload_failed").
			Msg("failed to load new configuration, keeping previous")
		w.notify(nil, err)
		return nil, err
	}

	prev := w.holder.Swap(cfg)
	metrics.MarkReload(time.Now())
	metrics.SetConfigInfo(cfg.Fingerprint())
	if prev != nil {
		if summary := Diff(prev, cfg); summary.Changed() {
			w.logger.Info().
				Str(log.FieldEvent, "config.changed").
				Strs("fields", summary.ChangedFields).
				Msg("configuration changed")
		}
	}
	w.logger.Info().
		Str(log.FieldEvent, "config.reload_success").
		Str(log.FieldFingerprint, cfg.Fingerprint()).
		Msg("configuration reloaded successfully")
	w.notify(cfg, nil)
	return cfg, nil
}

func (w *Watcher) notify(cfg *Config, err error) {
	w.mu.Lock()
	listeners := slices.Clone(w.listeners)
	w.mu.Unlock()
	for _, fn := range listeners {
		fn(cfg, err)
	}
}

// Run watches the configuration files until ctx is cancelled.
// Directories are watched rather than files so atomic replacements are seen.
func (w *Watcher) Run(ctx context.Context) error {
	appPath, themePath := w.loader.Paths()
	targets, err := watchTargets(appPath, themePath)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		w.logger.Info().
			Str(log.FieldEvent, "config.watcher_disabled").
			Msg("config file watcher disabled (no configuration files)")
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dirs := map[string]struct{}{}
	if err := watchDirs(watcher, dirs, targets); err != nil {
		return err
	}

	w.logger.Info().
		Str(log.FieldEvent, "config.watcher_started").
		Str(log.FieldPath, appPath).
		Str("theme_path", themePath).
		Msg("watching config files for changes")

	// Debounce timer to avoid multiple reloads for rapid file changes
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Str(log.FieldEvent, "config.watcher_stopped").Msg("config watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, ok := targets[abs]; !ok {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug().
				Str(log.FieldEvent, "config.file_changed").
				Str("op", event.Op.String()).
				Str(log.FieldPath, event.Name).
				Msg("config file changed")
			timer.Reset(w.debounce)

		case <-timer.C:
			if _, err := w.Reload(); err != nil {
				continue
			}
			// A reload may point optionsPath at another file.
			next, err := watchTargets(w.loader.Paths())
			if err != nil {
				w.logger.Warn().Err(err).Msg("failed to resolve config paths after reload")
				continue
			}
			if err := watchDirs(watcher, dirs, next); err != nil {
				w.logger.Warn().Err(err).Msg("failed to watch config directory")
				continue
			}
			targets = next

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().
				Err(err).
				Str(log.FieldEvent, "config.watcher_error").
				Msg("config watcher error")
		}
	}
}

func watchTargets(appPath, themePath string) (map[string]struct{}, error) {
	targets := map[string]struct{}{}
	for _, p := range []string{appPath, themePath} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		targets[abs] = struct{}{}
	}
	return targets, nil
}

// watchDirs adds the directories of targets not yet in dirs.
func watchDirs(watcher *fsnotify.Watcher, dirs, targets map[string]struct{}) error {
	for p := range targets {
		d := filepath.Dir(p)
		if _, ok := dirs[d]; ok {
			continue
		}
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
		dirs[d] = struct{}{}
	}
	return nil
}
