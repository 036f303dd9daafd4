// SPDX-License-Identifier: MIT

package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/samber/lo"

	"github.com/yektour/webconf/internal/capability"
	"github.com/yektour/webconf/internal/theme"
)

// Config is a validated, immutable configuration.
type Config struct {
	app         AppConfig
	theme       theme.Options
	registry    *capability.Registry
	source      Source
	fingerprint string
}

// Source records where a Config was loaded from. Empty paths mean defaults.
type Source struct {
	AppPath   string `json:"appPath,omitempty"`
	ThemePath string `json:"themePath,omitempty"`
}

// Option customizes New and NewLoader.
type Option func(*options)

type options struct {
	registry *capability.Registry
	source   Source
}

// WithRegistry resolves capability names against reg instead of capability.Default().
func WithRegistry(reg *capability.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithSource records the files a Config was built from.
func WithSource(src Source) Option {
	return func(o *options) { o.source = src }
}

// New validates app and opts and freezes them into a Config.
// On failure it returns nil and a ValidationError; nothing is defaulted.
func New(app AppConfig, opts theme.Options, optFns ...Option) (*Config, error) {
	o := options{}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.registry == nil {
		o.registry = capability.Default()
	}

	if err := Validate(app, opts, o.registry); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Config{
		app:      app.Clone(),
		theme:    opts.Clone(),
		registry: o.registry,
		source:   o.source,
	}
	fp, err := fingerprint(c.app, c.theme)
	if err != nil {
		return nil, err
	}
	c.fingerprint = fp
	return c, nil
}

// Default returns the stock configuration. It panics if the compiled-in
// defaults do not validate.
func Default() *Config {
	c, err := New(DefaultAppConfig(), theme.Default())
	if err != nil {
		panic(err)
	}
	return c
}

// AppConfig returns a copy of the application configuration.
func (c *Config) AppConfig() AppConfig {
	return c.app.Clone()
}

// ThemeOptions returns a copy of the theme options.
func (c *Config) ThemeOptions() theme.Options {
	return c.theme.Clone()
}

// Source reports where the configuration came from.
func (c *Config) Source() Source {
	return c.source
}

// Fingerprint is a stable content hash; equal configurations share it.
func (c *Config) Fingerprint() string {
	return c.fingerprint
}

// Env returns the environment the configuration publishes: the explicit
// env entries plus SERVER_URL set to the HTTP base URL.
func (c *Config) Env() map[string]string {
	return lo.Assign(c.app.Env, map[string]string{EnvServerURL: c.app.HTTP.BaseURL})
}

// InjectEnv publishes Env through setenv in key order, typically os.Setenv.
func (c *Config) InjectEnv(setenv func(key, value string) error) error {
	env := c.Env()
	keys := slices.Sorted(maps.Keys(env))
	for _, k := range keys {
		if err := setenv(k, env[k]); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return nil
}

// Capabilities returns the registry entries referenced by the configuration,
// in configuration order.
func (c *Config) Capabilities() []capability.Capability {
	refs := []struct {
		kind  capability.Kind
		names []string
	}{
		{capability.KindBuildModule, c.app.BuildModules},
		{capability.KindModule, c.app.Modules},
		{capability.KindPlugin, c.app.Plugins},
		{capability.KindMiddleware, c.app.Router.Middleware},
	}

	var out []capability.Capability
	for _, r := range refs {
		for _, name := range r.names {
			// Validated in New.
			if capb, err := c.registry.Resolve(r.kind, name); err == nil {
				out = append(out, capb)
			}
		}
	}
	return out
}

// Registry returns the registry the configuration was validated against.
func (c *Config) Registry() *capability.Registry {
	return c.registry
}

// Document is the serialized form of a Config.
type Document struct {
	App   AppConfig     `json:"app" yaml:"app"`
	Theme theme.Options `json:"theme" yaml:"theme"`
}

// Document returns a copy of the configuration suitable for encoding.
func (c *Config) Document() Document {
	return Document{App: c.AppConfig(), Theme: c.ThemeOptions()}
}

func fingerprint(app AppConfig, opts theme.Options) (string, error) {
	data, err := json.Marshal(Document{App: app, Theme: opts})
	if err != nil {
		return "", fmt.Errorf("fingerprint config: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:16]), nil
}
