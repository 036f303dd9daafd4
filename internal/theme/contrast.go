// SPDX-License-Identifier: MIT

package theme

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// MinContrast is the WCAG 2.x AA ratio for normal text.
const MinContrast = 4.5

// ContrastWarning reports a foreground/background pair below MinContrast.
type ContrastWarning struct {
	Mode       string  `json:"mode"` // "light" or "dark"
	Foreground Role    `json:"foreground"`
	Background Role    `json:"background"`
	Ratio      float64 `json:"ratio"`
}

func (w ContrastWarning) String() string {
	return fmt.Sprintf("%s: %s on %s has contrast %.2f:1 (want >= %.1f:1)",
		w.Mode, w.Foreground, w.Background, w.Ratio, MinContrast)
}

var contrastPairs = [][2]Role{
	{RoleText, RoleBackground},
	{RoleTitle, RoleBackground},
	{RoleText, RoleCard},
	{RoleTitle, RoleCard},
}

// ContrastWarnings lists text/surface pairs of both palettes whose contrast
// ratio is below MinContrast. Pairs with unresolvable colors are skipped;
// Validate reports those.
func ContrastWarnings(o Options) []ContrastWarning {
	var out []ContrastWarning
	for _, mode := range []struct {
		name string
		p    Palette
	}{
		{"light", o.Theme.Themes.Light},
		{"dark", o.Theme.Themes.Dark},
	} {
		for _, pair := range contrastPairs {
			fg, err := mode.p[pair[0]].Resolve()
			if err != nil {
				continue
			}
			bg, err := mode.p[pair[1]].Resolve()
			if err != nil {
				continue
			}
			if ratio := ContrastRatio(fg, bg); ratio < MinContrast {
				out = append(out, ContrastWarning{
					Mode:       mode.name,
					Foreground: pair[0],
					Background: pair[1],
					Ratio:      ratio,
				})
			}
		}
	}
	return out
}

// ContrastRatio computes the WCAG contrast ratio of fg drawn over bg.
// A translucent foreground is composited onto the background first.
func ContrastRatio(fg, bg Resolved) float64 {
	top := fg.RGB
	if fg.Alpha < 1 {
		top = bg.RGB.BlendRgb(fg.RGB, fg.Alpha)
	}
	l1, l2 := luminance(top), luminance(bg.RGB)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
