// SPDX-License-Identifier: MIT
package telemetry

import (
	"errors"
	"fmt"
	"testing"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yektour/webconf/internal/validate"
)

func TestHTTPAttributes(t *testing.T) {
	attrs := HTTPAttributes("GET", "/api/v1/config", "http://localhost:8088/api/v1/config", 200)

	if len(attrs) != 4 {
		t.Fatalf("Expected 4 attributes, got %d", len(attrs))
	}

	verifyAttribute(t, attrs, HTTPMethodKey, "GET")
	verifyAttribute(t, attrs, HTTPRouteKey, "/api/v1/config")
	verifyAttribute(t, attrs, HTTPURLKey, "http://localhost:8088/api/v1/config")
	verifyIntAttribute(t, attrs, HTTPStatusCodeKey, 200)
}

func TestConfigAttributes(t *testing.T) {
	tests := []struct {
		name        string
		appPath     string
		themePath   string
		fingerprint string
		outcome     string
		wantLen     int
	}{
		{
			name:        "all fields",
			appPath:     "/etc/webconf/app.yaml",
			themePath:   "/etc/webconf/theme.yaml",
			fingerprint: "abc123",
			outcome:     "success",
			wantLen:     4,
		},
		{
			name:    "defaults only",
			outcome: "success",
			wantLen: 1,
		},
		{
			name:    "empty fields",
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := ConfigAttributes(tt.appPath, tt.themePath, tt.fingerprint, tt.outcome)

			if len(attrs) != tt.wantLen {
				t.Errorf("Expected %d attributes, got %d", tt.wantLen, len(attrs))
			}

			if tt.appPath != "" {
				verifyAttribute(t, attrs, ConfigAppPathKey, tt.appPath)
			}
			if tt.themePath != "" {
				verifyAttribute(t, attrs, ConfigThemePathKey, tt.themePath)
			}
			if tt.fingerprint != "" {
				verifyAttribute(t, attrs, ConfigFingerprintKey, tt.fingerprint)
			}
			if tt.outcome != "" {
				verifyAttribute(t, attrs, ConfigOutcomeKey, tt.outcome)
			}
		})
	}
}

func TestErrorAttributes(t *testing.T) {
	attrs := ErrorAttributes(errors.New("read failed"), "load_error")

	if len(attrs) != 2 {
		t.Fatalf("Expected 2 attributes, got %d", len(attrs))
	}

	verifyBoolAttribute(t, attrs, ErrorKey, true)
	verifyAttribute(t, attrs, ErrorTypeKey, "load_error")
}

func TestErrorAttributes_Validation(t *testing.T) {
	v := validate.New()
	v.AddError("http.retries", "value cannot be negative", -1)
	v.AddError("breakpoint.mobileBreakpoint", "unknown", "xl2")
	err := fmt.Errorf("config validation failed: %w", v.Err())

	attrs := ErrorAttributes(err, "validation_error")
	if len(attrs) != 4 {
		t.Fatalf("Expected 4 attributes, got %d", len(attrs))
	}
	verifyIntAttribute(t, attrs, ValidationErrorsKey, 2)

	for _, attr := range attrs {
		if string(attr.Key) == ValidationFieldsKey {
			got := attr.Value.AsStringSlice()
			if len(got) != 2 || got[0] != "http.retries" || got[1] != "breakpoint.mobileBreakpoint" {
				t.Errorf("unexpected fields %v", got)
			}
			return
		}
	}
	t.Errorf("Attribute %s not found", ValidationFieldsKey)
}

// Helper functions for attribute verification

func verifyAttribute(t *testing.T, attrs []attribute.KeyValue, key, expectedValue string) {
	t.Helper()
	for _, attr := range attrs {
		if string(attr.Key) == key {
			if attr.Value.AsString() != expectedValue {
				t.Errorf("Expected %s=%s, got %s", key, expectedValue, attr.Value.AsString())
			}
			return
		}
	}
	t.Errorf("Attribute %s not found", key)
}

func verifyIntAttribute(t *testing.T, attrs []attribute.KeyValue, key string, expectedValue int) {
	t.Helper()
	for _, attr := range attrs {
		if string(attr.Key) == key {
			if attr.Value.AsInt64() != int64(expectedValue) {
				t.Errorf("Expected %s=%d, got %d", key, expectedValue, attr.Value.AsInt64())
			}
			return
		}
	}
	t.Errorf("Attribute %s not found", key)
}

func verifyBoolAttribute(t *testing.T, attrs []attribute.KeyValue, key string, expectedValue bool) {
	t.Helper()
	for _, attr := range attrs {
		if string(attr.Key) == key {
			if attr.Value.AsBool() != expectedValue {
				t.Errorf("Expected %s=%t, got %t", key, expectedValue, attr.Value.AsBool())
			}
			return
		}
	}
	t.Errorf("Attribute %s not found", key)
}
