// SPDX-License-Identifier: MIT

package telemetry

import (
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yektour/webconf/internal/validate"
)

// Common attribute keys for consistent tracing across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"

	// Configuration attributes
	ConfigAppPathKey     = "config.app_path"
	ConfigThemePathKey   = "config.theme_path"
	ConfigFingerprintKey = "config.fingerprint"
	ConfigOutcomeKey     = "config.outcome"

	// Validation attributes
	ValidationErrorsKey = "validation.errors"
	ValidationFieldsKey = "validation.fields"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// ConfigAttributes describes a configuration load. Empty values are omitted.
func ConfigAttributes(appPath, themePath, fingerprint, outcome string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 4)
	if appPath != "" {
		attrs = append(attrs, attribute.String(ConfigAppPathKey, appPath))
	}
	if themePath != "" {
		attrs = append(attrs, attribute.String(ConfigThemePathKey, themePath))
	}
	if fingerprint != "" {
		attrs = append(attrs, attribute.String(ConfigFingerprintKey, fingerprint))
	}
	if outcome != "" {
		attrs = append(attrs, attribute.String(ConfigOutcomeKey, outcome))
	}
	return attrs
}

// ErrorAttributes creates error-related span attributes. Validation failures
// additionally carry the failing field names.
func ErrorAttributes(err error, errorType string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
	var ve validate.ValidationError
	if errors.As(err, &ve) {
		attrs = append(attrs,
			attribute.Int(ValidationErrorsKey, len(ve.Errors())),
			attribute.StringSlice(ValidationFieldsKey, ve.Fields()),
		)
	}
	return attrs
}
