// SPDX-License-Identifier: MIT

package theme

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/yektour/webconf/internal/validate"
)

// Validate checks breakpoints, palette role sets and every color.
// The returned error is a validate.ValidationError whose entries unwrap to
// the sentinels of this package.
func (o Options) Validate() error {
	v := validate.New()

	bp := o.Breakpoint
	v.Classify(ErrBreakpointOrder, func() {
		for i, val := range bp.Thresholds.Values() {
			if val <= 0 {
				v.AddError("breakpoint.thresholds."+BreakpointNames[i],
					fmt.Sprintf("threshold must be positive, got %d", val), val)
			}
		}
		v.StrictlyIncreasing("breakpoint.thresholds", BreakpointNames[:4], bp.Thresholds.Values())
	})
	v.Classify(ErrUnknownMobileBreakpoint, func() {
		v.OneOf("breakpoint.mobileBreakpoint", bp.MobileBreakpoint, BreakpointNames)
	})
	v.Classify(ErrInvalidField, func() {
		v.NonNegative("breakpoint.scrollBarWidth", bp.ScrollBarWidth)
	})

	validatePalettes(v, o.Theme.Themes)

	return v.Err()
}

func validatePalettes(v *validate.Validator, t Themes) {
	palettes := []struct {
		name string
		p    Palette
	}{
		{"theme.themes.light", t.Light},
		{"theme.themes.dark", t.Dark},
	}

	for _, pl := range palettes {
		keys := lo.Keys(pl.p)
		missing, extra := lo.Difference(Roles, keys)
		if len(missing) > 0 {
			v.AddKindError(ErrPaletteMismatch, pl.name,
				"missing roles: "+joinRoles(missing), missing)
		}
		if len(extra) > 0 {
			v.AddKindError(ErrPaletteMismatch, pl.name,
				"unknown roles: "+joinRoles(extra), extra)
		}
	}

	lightOnly, darkOnly := lo.Difference(lo.Keys(t.Light), lo.Keys(t.Dark))
	if len(lightOnly) > 0 || len(darkOnly) > 0 {
		v.AddKindError(ErrPaletteMismatch, "theme.themes",
			fmt.Sprintf("light and dark palettes differ (light only: [%s], dark only: [%s])",
				joinRoles(lightOnly), joinRoles(darkOnly)),
			nil)
	}

	for _, pl := range palettes {
		for _, role := range pl.p.Roles() {
			if _, err := pl.p[role].Resolve(); err != nil {
				v.AddKindError(ErrInvalidColor, pl.name+"."+string(role), err.Error(), string(pl.p[role]))
			}
		}
	}
}

func joinRoles(roles []Role) string {
	sorted := slices.Clone(roles)
	slices.Sort(sorted)
	return strings.Join(lo.Map(sorted, func(r Role, _ int) string { return string(r) }), ", ")
}
