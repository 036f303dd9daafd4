// SPDX-License-Identifier: MIT

package config

import "github.com/yektour/webconf/internal/theme"

// AppConfig is the application configuration record.
type AppConfig struct {
	Head         HeadConfig        `yaml:"head" json:"head"`
	CSS          []string          `yaml:"css" json:"css"`
	Plugins      []string          `yaml:"plugins" json:"plugins"`
	Components   bool              `yaml:"components" json:"components"`
	BuildModules []string          `yaml:"buildModules" json:"buildModules"`
	Locale       LocaleConfig      `yaml:"locale" json:"locale"`
	Modules      []string          `yaml:"modules" json:"modules"`
	HTTP         HTTPConfig        `yaml:"http" json:"http"`
	ThemeModule  ThemeModuleConfig `yaml:"themeModule" json:"themeModule"`
	Loading      LoadingConfig     `yaml:"loading" json:"loading"`
	Env          map[string]string `yaml:"env" json:"env"`
	Router       RouterConfig      `yaml:"router" json:"router"`
	Build        BuildConfig       `yaml:"build" json:"build"`
}

// HeadConfig describes the document head.
type HeadConfig struct {
	Title         string    `yaml:"title" json:"title"`
	TitleTemplate string    `yaml:"titleTemplate,omitempty" json:"titleTemplate,omitempty"`
	HTMLAttrs     HTMLAttrs `yaml:"htmlAttrs" json:"htmlAttrs"`
	Meta          []MetaTag `yaml:"meta" json:"meta"`
	Link          []LinkTag `yaml:"link" json:"link"`
}

// HTMLAttrs are attributes of the <html> element.
type HTMLAttrs struct {
	Lang string `yaml:"lang" json:"lang"`
}

// MetaTag is a <meta> element. Exactly one of Charset, Name or Property is set.
// HID is the deduplication key used when pages override the tag.
type MetaTag struct {
	Charset  string `yaml:"charset,omitempty" json:"charset,omitempty"`
	HID      string `yaml:"hid,omitempty" json:"hid,omitempty"`
	Name     string `yaml:"name,omitempty" json:"name,omitempty"`
	Property string `yaml:"property,omitempty" json:"property,omitempty"`
	Content  string `yaml:"content,omitempty" json:"content,omitempty"`
}

// LinkTag is a <link> element.
type LinkTag struct {
	Rel  string `yaml:"rel" json:"rel"`
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
	Href string `yaml:"href" json:"href"`
}

// LocaleConfig selects the date/number locale.
type LocaleConfig struct {
	DefaultLocale string   `yaml:"defaultLocale" json:"defaultLocale"`
	Locales       []string `yaml:"locales" json:"locales"`
}

// HTTPConfig are the defaults handed to the HTTP client.
// Retries is passed through as is; backoff and idempotency are up to the client.
type HTTPConfig struct {
	BaseURL  string            `yaml:"baseURL" json:"baseURL"`
	Progress bool              `yaml:"progress" json:"progress"`
	Retries  int               `yaml:"retries" json:"retries"`
	Headers  map[string]string `yaml:"headers" json:"headers"`
}

// ThemeModuleConfig configures the UI framework module.
// OptionsPath locates the theme options file relative to the app config file.
type ThemeModuleConfig struct {
	CustomVariables []string `yaml:"customVariables" json:"customVariables"`
	TreeShake       bool     `yaml:"treeShake" json:"treeShake"`
	OptionsPath     string   `yaml:"optionsPath" json:"optionsPath"`
}

// LoadingConfig styles the page loading bar.
type LoadingConfig struct {
	Color       theme.Color `yaml:"color" json:"color"`
	FailedColor theme.Color `yaml:"failedColor" json:"failedColor"`
	Height      string      `yaml:"height" json:"height"`
	RTL         bool        `yaml:"rtl" json:"rtl"`
}

// RouterConfig lists route middleware applied to every navigation.
type RouterConfig struct {
	Middleware []string `yaml:"middleware" json:"middleware"`
}

// BuildConfig lists dependencies that must be transpiled.
type BuildConfig struct {
	Transpile []string `yaml:"transpile" json:"transpile"`
}
