// SPDX-License-Identifier: MIT

package theme

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a color value as written in configuration: a hex string
// (#rgb, #rgba, #rrggbb, #rrggbbaa) or a Material palette name.
type Color string

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Resolved is a color reduced to a canonical hex string plus its parsed form.
type Resolved struct {
	Hex   string // lowercase #rrggbb or #rrggbbaa
	RGB   colorful.Color
	Alpha float64 // 0..1
}

// Resolve turns c into a canonical hex representation.
func (c Color) Resolve() (Resolved, error) {
	raw := strings.TrimSpace(string(c))
	if raw == "" {
		return Resolved{}, fmt.Errorf("%w: empty color", ErrInvalidColor)
	}
	if !strings.HasPrefix(raw, "#") {
		hex, ok := MaterialColor(raw)
		if !ok {
			return Resolved{}, fmt.Errorf("%w: unknown named color %q", ErrInvalidColor, raw)
		}
		raw = hex
	}
	if !hexColor.MatchString(raw) {
		return Resolved{}, fmt.Errorf("%w: %q is not a hex triplet or quad", ErrInvalidColor, raw)
	}
	return parseHex(strings.ToLower(raw))
}

// Hex returns the canonical hex string or "" when c does not resolve.
func (c Color) Hex() string {
	r, err := c.Resolve()
	if err != nil {
		return ""
	}
	return r.Hex
}

func parseHex(raw string) (Resolved, error) {
	digits := raw[1:]
	if len(digits) == 3 || len(digits) == 4 {
		var b strings.Builder
		for _, ch := range digits {
			b.WriteRune(ch)
			b.WriteRune(ch)
		}
		digits = b.String()
	}

	rgb, err := colorful.Hex("#" + digits[:6])
	if err != nil {
		return Resolved{}, fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}

	alpha := 1.0
	hex := "#" + digits[:6]
	if len(digits) == 8 {
		a, err := strconv.ParseUint(digits[6:], 16, 8)
		if err != nil {
			return Resolved{}, fmt.Errorf("%w: alpha %q: %v", ErrInvalidColor, digits[6:], err)
		}
		alpha = float64(a) / 255
		if a != 0xff {
			hex = "#" + digits
		}
	}
	return Resolved{Hex: hex, RGB: rgb, Alpha: alpha}, nil
}
