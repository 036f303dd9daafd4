// SPDX-License-Identifier: MIT

package theme

import (
	"fmt"
	"strings"
)

// RenderCSS renders o as CSS custom properties. :root carries the
// breakpoints and the palette of the default mode; .theme--light and
// .theme--dark carry their palettes. Unresolvable colors are emitted
// verbatim so the output stays complete for invalid input.
func RenderCSS(o Options) string {
	var b strings.Builder

	b.WriteString(":root {\n")
	names := BreakpointNames[:4]
	for i, v := range o.Breakpoint.Thresholds.Values() {
		fmt.Fprintf(&b, "  --breakpoint-%s: %dpx;\n", names[i], v)
	}
	fmt.Fprintf(&b, "  --mobile-breakpoint: %s;\n", o.Breakpoint.MobileBreakpoint)
	fmt.Fprintf(&b, "  --scrollbar-width: %dpx;\n", o.Breakpoint.ScrollBarWidth)
	if o.RTL {
		b.WriteString("  direction: rtl;\n")
	} else {
		b.WriteString("  direction: ltr;\n")
	}
	if o.Theme.Dark {
		b.WriteString("  color-scheme: dark;\n")
	} else {
		b.WriteString("  color-scheme: light;\n")
	}
	writeColors(&b, o.Active())
	b.WriteString("}\n")

	for _, mode := range []struct {
		name string
		p    Palette
	}{
		{"light", o.Theme.Themes.Light},
		{"dark", o.Theme.Themes.Dark},
	} {
		fmt.Fprintf(&b, "\n.theme--%s {\n", mode.name)
		writeColors(&b, mode.p)
		b.WriteString("}\n")
	}
	return b.String()
}

func writeColors(b *strings.Builder, p Palette) {
	for _, role := range Roles {
		c, ok := p[role]
		if !ok {
			continue
		}
		value := c.Hex()
		if value == "" {
			value = string(c)
		}
		fmt.Fprintf(b, "  --color-%s: %s;\n", role, value)
	}
}
