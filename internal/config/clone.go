// SPDX-License-Identifier: MIT

package config

import (
	"maps"
	"slices"
)

// Clone returns a deep copy of a. Nil slices and maps stay nil.
func (a AppConfig) Clone() AppConfig {
	out := a
	out.Head.Meta = slices.Clone(a.Head.Meta)
	out.Head.Link = slices.Clone(a.Head.Link)
	out.CSS = slices.Clone(a.CSS)
	out.Plugins = slices.Clone(a.Plugins)
	out.BuildModules = slices.Clone(a.BuildModules)
	out.Locale.Locales = slices.Clone(a.Locale.Locales)
	out.Modules = slices.Clone(a.Modules)
	out.HTTP.Headers = maps.Clone(a.HTTP.Headers)
	out.ThemeModule.CustomVariables = slices.Clone(a.ThemeModule.CustomVariables)
	out.Env = maps.Clone(a.Env)
	out.Router.Middleware = slices.Clone(a.Router.Middleware)
	out.Build.Transpile = slices.Clone(a.Build.Transpile)
	return out
}
