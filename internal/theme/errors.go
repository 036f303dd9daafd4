// SPDX-License-Identifier: MIT

package theme

import "errors"

var (
	// ErrInvalidColor marks a color that is neither hex nor a known Material name.
	ErrInvalidColor = errors.New("invalid color")
	// ErrPaletteMismatch marks palettes whose role sets differ from each other or from Roles.
	ErrPaletteMismatch = errors.New("palette role mismatch")
	// ErrBreakpointOrder marks thresholds that are not strictly increasing.
	ErrBreakpointOrder = errors.New("breakpoint thresholds out of order")
	// ErrUnknownMobileBreakpoint marks a mobileBreakpoint that names no breakpoint.
	ErrUnknownMobileBreakpoint = errors.New("unknown mobile breakpoint")
	// ErrInvalidField marks any other malformed theme value.
	ErrInvalidField = errors.New("invalid theme field")
)
