// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/yektour/webconf/internal/log"
)

// AppFileName is the file Manager writes the app configuration to.
const AppFileName = "app.yaml"

// Manager handles configuration persistence.
type Manager struct {
	dir string
}

// NewManager creates a manager writing into dir.
func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// Paths returns the files Save writes for cfg.
func (m *Manager) Paths(cfg *Config) (appPath, themePath string) {
	optionsPath := cfg.app.ThemeModule.OptionsPath
	if optionsPath == "" {
		optionsPath = DefaultOptionsPath
	}
	return filepath.Join(m.dir, AppFileName), filepath.Join(m.dir, optionsPath)
}

// Save writes cfg as an app file plus the theme file its optionsPath names.
// Loading the written app file yields a Config equal to cfg.
func (m *Manager) Save(cfg *Config) error {
	appPath, themePath := m.Paths(cfg)

	app := cfg.AppConfig()
	if app.ThemeModule.OptionsPath == "" {
		app.ThemeModule.OptionsPath = DefaultOptionsPath
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(themePath), 0o750); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	// Theme first: a reader that sees the new app file must find its options.
	if err := writeYAML(themePath, cfg.ThemeOptions()); err != nil {
		return err
	}
	if err := writeYAML(appPath, app); err != nil {
		return err
	}

	logger := log.WithComponent("config")
	logger.Info().
		Str(log.FieldEvent, "config.saved").
		Str(log.FieldPath, appPath).
		Str("theme_path", themePath).
		Str(log.FieldFingerprint, cfg.Fingerprint()).
		Msg("configuration written")
	return nil
}

// writeYAML encodes v and atomically replaces path with it.
func writeYAML(path string, v any) error {
	data, err := MarshalYAML(v)
	if err != nil {
		return err
	}

	// renameio handles: temp file creation, fsync, atomic rename, cleanup on error
	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending file %s: %w", path, err)
	}
	defer func() {
		// Cleanup on error - renameio removes temp file if not committed
		if err := pendingFile.Cleanup(); err != nil {
			logger := log.WithComponent("config")
			logger.Debug().Err(err).Str(log.FieldPath, path).Msg("cleanup pending file")
		}
	}()

	if _, err := pendingFile.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	// CloseAtomicallyReplace: fsync + rename (durable + atomic)
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
