// SPDX-License-Identifier: MIT

package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	previewTitle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	previewRole  = lipgloss.NewStyle().Width(12)
	previewBox   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			MarginRight(2)
)

// Preview renders both palettes side by side as terminal swatches.
// The default mode is marked with an asterisk.
func Preview(o Options) string {
	light := previewPalette("light", o.Theme.Themes.Light, !o.Theme.Dark)
	dark := previewPalette("dark", o.Theme.Themes.Dark, o.Theme.Dark)
	return lipgloss.JoinHorizontal(lipgloss.Top, light, dark)
}

func previewPalette(name string, p Palette, active bool) string {
	title := name
	if active {
		title += " *"
	}

	rows := []string{previewTitle.Render(title)}
	for _, role := range Roles {
		c, ok := p[role]
		if !ok {
			continue
		}
		hex := c.Hex()
		swatch := "??"
		if hex != "" {
			swatch = lipgloss.NewStyle().
				Background(lipgloss.Color(hex[:7])).
				Render("  ")
		} else {
			hex = "invalid"
		}
		rows = append(rows, fmt.Sprintf("%s %s %s", swatch, previewRole.Render(string(role)), hex))
	}
	return previewBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
