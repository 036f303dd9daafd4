// SPDX-License-Identifier: MIT

// Package validate provides configuration validation utilities for webconf.
package validate

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Error represents a validation error
type Error struct {
	Field   string // Field name that failed validation
	Value   any    // The invalid value
	Message string // Human-readable error message
	Kind    error  // Optional sentinel classifying the failure
}

// Error implements the error interface
func (e Error) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// Unwrap exposes the classifying sentinel to errors.Is.
func (e Error) Unwrap() error {
	return e.Kind
}

// Validator accumulates validation errors and can produce a ValidationError when invalid.
type Validator struct {
	errors []Error
}

// ValidationError bundles multiple validation errors into a single error value.
type ValidationError struct {
	errors []Error
}

// New creates a new validator
func New() *Validator {
	return &Validator{
		errors: make([]Error, 0),
	}
}

// AddError adds a validation error
func (v *Validator) AddError(field, message string, value any) {
	v.errors = append(v.errors, Error{
		Field:   field,
		Value:   value,
		Message: message,
	})
}

// AddKindError adds a validation error classified by kind.
func (v *Validator) AddKindError(kind error, field, message string, value any) {
	v.errors = append(v.errors, Error{
		Field:   field,
		Value:   value,
		Message: message,
		Kind:    kind,
	})
}

// Classify runs check and tags every unclassified error it adds with kind.
// It lets the generic checks (URL, NonNegative, ...) report domain sentinels.
func (v *Validator) Classify(kind error, check func()) {
	start := len(v.errors)
	check()
	for i := start; i < len(v.errors); i++ {
		if v.errors[i].Kind == nil {
			v.errors[i].Kind = kind
		}
	}
}

// Merge appends the errors of another validation failure, prefixing field names.
func (v *Validator) Merge(prefix string, err error) {
	if err == nil {
		return
	}
	var ve ValidationError
	if !errors.As(err, &ve) {
		v.AddError(prefix, err.Error(), nil)
		return
	}
	for _, e := range ve.errors {
		if prefix != "" {
			e.Field = prefix + "." + e.Field
		}
		v.errors = append(v.errors, e)
	}
}

// IsValid returns true if no errors have been accumulated
func (v *Validator) IsValid() bool {
	return len(v.errors) == 0
}

// Errors returns all accumulated validation errors
func (v *Validator) Errors() []Error {
	return v.errors
}

// Err converts the accumulated validation errors into an error value.
func (v *Validator) Err() error {
	if len(v.errors) == 0 {
		return nil
	}

	copied := make([]Error, len(v.errors))
	copy(copied, v.errors)

	return ValidationError{errors: copied}
}

// Errors returns the individual validation errors making up the validation failure.
func (e ValidationError) Errors() []Error {
	return e.errors
}

// Fields returns the names of the failing fields in report order.
func (e ValidationError) Fields() []string {
	out := make([]string, len(e.errors))
	for i, err := range e.errors {
		out[i] = err.Field
	}
	return out
}

// Unwrap lets errors.Is and errors.As reach every individual failure.
func (e ValidationError) Unwrap() []error {
	out := make([]error, len(e.errors))
	for i, err := range e.errors {
		out[i] = err
	}
	return out
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	if len(e.errors) == 0 {
		return ""
	}

	if len(e.errors) == 1 {
		return e.errors[0].Error()
	}

	msgs := make([]string, len(e.errors))
	for i, err := range e.errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// URL validates an absolute URL string
func (v *Validator) URL(field, value string, allowedSchemes []string) {
	if value == "" {
		v.AddError(field, "URL cannot be empty", value)
		return
	}

	u, err := url.Parse(value)
	if err != nil {
		v.AddError(field, fmt.Sprintf("invalid URL: %v", err), value)
		return
	}

	if !u.IsAbs() {
		v.AddError(field, "URL must be absolute", value)
		return
	}

	if u.Host == "" {
		v.AddError(field, "URL must have a host", value)
		return
	}

	if u.User != nil {
		v.AddError(field, "URL must not embed credentials", "***redacted***")
		return
	}

	if len(allowedSchemes) > 0 && !slices.Contains(allowedSchemes, u.Scheme) {
		v.AddError(field,
			fmt.Sprintf("unsupported URL scheme %q (allowed: %v)", u.Scheme, allowedSchemes),
			value)
	}
}

// NotEmpty validates that a string is not empty or whitespace-only
func (v *Validator) NotEmpty(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "value cannot be empty", value)
	}
}

// OneOf validates that a value is one of the allowed values
func (v *Validator) OneOf(field, value string, allowed []string) {
	if slices.Contains(allowed, value) {
		return
	}
	v.AddError(field,
		fmt.Sprintf("value must be one of %v, got %q", allowed, value),
		value)
}

// Positive validates that a number is positive (> 0)
func (v *Validator) Positive(field string, value int) {
	if value <= 0 {
		v.AddError(field, fmt.Sprintf("value must be positive, got %d", value), value)
	}
}

// NonNegative validates that a number is non-negative (>= 0)
func (v *Validator) NonNegative(field string, value int) {
	if value < 0 {
		v.AddError(field, fmt.Sprintf("value cannot be negative, got %d", value), value)
	}
}

// StrictlyIncreasing validates that values[i] < values[i+1] for every i.
// names label the values in the error message and must have the same length.
func (v *Validator) StrictlyIncreasing(field string, names []string, values []int) {
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			v.AddError(field,
				fmt.Sprintf("%s (%d) must be greater than %s (%d)", names[i], values[i], names[i-1], values[i-1]),
				values)
			return
		}
	}
}

// Pattern validates that value matches re; what describes the expected shape.
func (v *Validator) Pattern(field, value string, re *regexp.Regexp, what string) {
	if !re.MatchString(value) {
		v.AddError(field, fmt.Sprintf("must be %s, got %q", what, value), value)
	}
}

// LanguageTag validates a BCP 47 language tag such as "fa" or "en-US".
func (v *Validator) LanguageTag(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "language tag cannot be empty", value)
		return
	}
	if _, err := language.Parse(value); err != nil {
		v.AddError(field, fmt.Sprintf("invalid language tag: %v", err), value)
	}
}

// Custom allows custom validation logic
// The validator function should return an error if validation fails
func (v *Validator) Custom(field string, value any, validator func(any) error) {
	if err := validator(value); err != nil {
		v.AddError(field, err.Error(), value)
	}
}

// Path checks a relative file path lexically. It rejects absolute paths and
// any ".." element; the filesystem is never consulted.
func (v *Validator) Path(field, path string) {
	if path == "" {
		// Empty paths are allowed (optional fields)
		return
	}

	if filepath.IsAbs(path) {
		v.AddError(field, fmt.Sprintf("must be relative path, got absolute: %s", path), path)
		return
	}

	if slices.Contains(strings.Split(filepath.ToSlash(path), "/"), "..") {
		v.AddError(field, fmt.Sprintf("contains path traversal: %s", path), path)
		return
	}

	if !filepath.IsLocal(filepath.Clean(path)) {
		v.AddError(field, fmt.Sprintf("is not a local path: %s", path), path)
	}
}
