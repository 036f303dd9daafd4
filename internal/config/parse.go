// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yektour/webconf/internal/theme"
)

// ParseAppConfig decodes a YAML app configuration on top of base.
// Keys absent from data keep their base value; lists replace, maps merge.
func ParseAppConfig(data []byte, base AppConfig) (AppConfig, error) {
	out := base.Clone()
	if err := decodeStrict(data, &out); err != nil {
		return AppConfig{}, err
	}
	return out, nil
}

// ParseThemeOptions decodes YAML theme options on top of base.
// A palette present in data replaces the base palette.
func ParseThemeOptions(data []byte, base theme.Options) (theme.Options, error) {
	out := base.Clone()
	if err := decodeStrict(data, &out); err != nil {
		return theme.Options{}, err
	}
	return out, nil
}

// decodeStrict decodes exactly one YAML document and rejects unknown keys.
// An empty document leaves out untouched.
func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // Reject unknown fields

	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	// Strict: Ensure no multiple documents or trailing content
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}

// MarshalYAML renders v with two-space indentation.
func MarshalYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}
	return buf.Bytes(), nil
}
