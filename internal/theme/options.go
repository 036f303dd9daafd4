// SPDX-License-Identifier: MIT

// Package theme models the UI framework theme options: breakpoints, layout
// direction, the dark-mode default and the light/dark palettes. It also
// resolves Material color names, checks palette contrast and renders themes
// as CSS or terminal swatches.
package theme

import (
	"maps"
	"sort"

	"gopkg.in/yaml.v3"
)

// Role names a palette slot.
type Role string

// Palette roles. Every palette defines exactly these.
const (
	RolePrimary    Role = "primary"
	RoleSecondary  Role = "secondary"
	RoleAccent     Role = "accent"
	RoleSuccess    Role = "success"
	RoleInfo       Role = "info"
	RoleError      Role = "error"
	RoleWarning    Role = "warning"
	RoleBackground Role = "background"
	RoleCard       Role = "card"
	RoleTitle      Role = "title"
	RoleText       Role = "text"
)

// Roles lists the palette roles in display order.
var Roles = []Role{
	RolePrimary, RoleSecondary, RoleAccent,
	RoleSuccess, RoleInfo, RoleError, RoleWarning,
	RoleBackground, RoleCard, RoleTitle, RoleText,
}

// Palette maps roles to colors.
type Palette map[Role]Color

// UnmarshalYAML replaces p with the decoded mapping. Roles absent from the
// document are not inherited from the previous value.
func (p *Palette) UnmarshalYAML(node *yaml.Node) error {
	var m map[Role]Color
	if err := node.Decode(&m); err != nil {
		return err
	}
	*p = m
	return nil
}

// Roles returns the roles defined by p, sorted.
func (p Palette) Roles() []Role {
	out := make([]Role, 0, len(p))
	for r := range p {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Breakpoint names. xl is implicit: every width above the lg threshold.
const (
	BreakpointXS = "xs"
	BreakpointSM = "sm"
	BreakpointMD = "md"
	BreakpointLG = "lg"
	BreakpointXL = "xl"
)

// BreakpointNames lists every breakpoint from narrowest to widest.
var BreakpointNames = []string{BreakpointXS, BreakpointSM, BreakpointMD, BreakpointLG, BreakpointXL}

// Thresholds are the upper pixel bounds of the named breakpoints.
type Thresholds struct {
	XS int `yaml:"xs" json:"xs"`
	SM int `yaml:"sm" json:"sm"`
	MD int `yaml:"md" json:"md"`
	LG int `yaml:"lg" json:"lg"`
}

// Values returns the thresholds in breakpoint order.
func (t Thresholds) Values() []int {
	return []int{t.XS, t.SM, t.MD, t.LG}
}

// Breakpoint configures responsive layout switching.
type Breakpoint struct {
	Thresholds       Thresholds `yaml:"thresholds" json:"thresholds"`
	MobileBreakpoint string     `yaml:"mobileBreakpoint" json:"mobileBreakpoint"`
	ScrollBarWidth   int        `yaml:"scrollBarWidth" json:"scrollBarWidth"`
}

// Themes holds the two palettes.
type Themes struct {
	Light Palette `yaml:"light" json:"light"`
	Dark  Palette `yaml:"dark" json:"dark"`
}

// Theme selects the default mode and carries the palettes.
type Theme struct {
	Dark   bool   `yaml:"dark" json:"dark"`
	Themes Themes `yaml:"themes" json:"themes"`
}

// Options is the complete theme configuration record.
type Options struct {
	Breakpoint Breakpoint `yaml:"breakpoint" json:"breakpoint"`
	TreeShake  bool       `yaml:"treeShake" json:"treeShake"`
	RTL        bool       `yaml:"rtl" json:"rtl"`
	Theme      Theme      `yaml:"theme" json:"theme"`
}

// Clone returns a deep copy of o.
func (o Options) Clone() Options {
	out := o
	out.Theme.Themes.Light = maps.Clone(o.Theme.Themes.Light)
	out.Theme.Themes.Dark = maps.Clone(o.Theme.Themes.Dark)
	return out
}

// Active returns the palette of the default mode.
func (o Options) Active() Palette {
	if o.Theme.Dark {
		return o.Theme.Themes.Dark
	}
	return o.Theme.Themes.Light
}

// Default returns the stock yektour theme options.
func Default() Options {
	shared := Palette{
		RolePrimary:   "orange.base",
		RoleSecondary: "cyan.base",
		RoleAccent:    "deepPurple.base",
		RoleSuccess:   "teal.accent4",
		RoleInfo:      "lightBlue.darken2",
		RoleError:     "red.base",
		RoleWarning:   "amber.accent3",
	}

	light := maps.Clone(shared)
	light[RoleBackground] = "blueGrey.lighten5"
	light[RoleCard] = "shades.white"
	light[RoleTitle] = "blueGrey.darken4"
	light[RoleText] = "blueGrey.darken1"

	dark := maps.Clone(shared)
	dark[RoleBackground] = "#1e1e2f"
	dark[RoleCard] = "#27293d"
	dark[RoleTitle] = "shades.white"
	dark[RoleText] = "blueGrey.lighten2"

	return Options{
		Breakpoint: Breakpoint{
			Thresholds:       Thresholds{XS: 500, SM: 750, MD: 1100, LG: 1500},
			MobileBreakpoint: BreakpointSM,
			ScrollBarWidth:   16,
		},
		TreeShake: true,
		RTL:       true,
		Theme: Theme{
			Dark:   true,
			Themes: Themes{Light: light, Dark: dark},
		},
	}
}
