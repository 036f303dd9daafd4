// SPDX-License-Identifier: MIT

// Package config loads, validates and publishes the webconf configuration.
//
// A configuration consists of two records: the application configuration
// (AppConfig) and the theme options (theme.Options). They are built from
// compiled-in defaults, overlaid with YAML files and finally with WEBCONF_*
// environment overrides:
//
//	ENV > YAML file > defaults
//
// The result is validated as a whole and frozen into a *Config. A *Config
// never changes after construction and may be shared between goroutines
// without synchronization. Accessors hand out deep copies.
package config
