// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"

	"github.com/yektour/webconf/internal/capability"
	"github.com/yektour/webconf/internal/theme"
	"github.com/yektour/webconf/internal/validate"
)

var (
	// ErrUnknownConfigField classifies strict YAML parse failures caused by unknown keys.
	// Use errors.Is(err, ErrUnknownConfigField) instead of string matching.
	ErrUnknownConfigField = errors.New("unknown config field")

	ErrMalformedBaseURL   = errors.New("malformed base URL")
	ErrNegativeRetries    = errors.New("negative retry count")
	ErrLocaleNotSupported = errors.New("default locale not in supported locales")
	ErrInvalidLocale      = errors.New("invalid locale tag")
	ErrInvalidHeader      = errors.New("invalid default header")
	// ErrSensitiveHeader rejects credentials in default headers; they ship to every client.
	ErrSensitiveHeader = errors.New("credential in default headers")
	ErrEnvConflict     = errors.New("conflicting environment mapping")
	ErrInvalidEnvName  = errors.New("invalid environment variable name")
	ErrInvalidField    = errors.New("invalid field")

	// Theme failures are defined next to the theme model.
	ErrPaletteMismatch         = theme.ErrPaletteMismatch
	ErrBreakpointOrder         = theme.ErrBreakpointOrder
	ErrUnknownMobileBreakpoint = theme.ErrUnknownMobileBreakpoint
	ErrInvalidColor            = theme.ErrInvalidColor

	ErrUnknownCapability = capability.ErrUnknownCapability
)

// ValidationError aggregates every failing field of a configuration.
type ValidationError = validate.ValidationError

// LoadError reports a configuration source that could not be read or parsed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
