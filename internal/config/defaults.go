// SPDX-License-Identifier: MIT

package config

// EnvServerURL is the environment variable that carries the HTTP base URL.
const EnvServerURL = "SERVER_URL"

// DefaultOptionsPath is where the theme options live next to the app config.
const DefaultOptionsPath = "theme.yaml"

// DefaultAppConfig returns the stock yektour application configuration.
// Every call returns a fresh value.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Head: HeadConfig{
			Title:         "title",
			TitleTemplate: "%s",
			HTMLAttrs:     HTMLAttrs{Lang: "en"},
			Meta: []MetaTag{
				{Charset: "utf-8"},
				{Name: "viewport", Content: "width=device-width, initial-scale=1"},
				{HID: "description", Name: "description", Content: ""},
				{Name: "format-detection", Content: "telephone=no"},
			},
			Link: []LinkTag{
				{Rel: "icon", Type: "image/x-icon", Href: "/imgs/logo.png"},
			},
		},
		CSS:        []string{"~/assets/styles/global.scss"},
		Plugins:    []string{},
		Components: true,
		BuildModules: []string{
			"@nuxtjs/eslint-module",
			"@nuxtjs/vuetify",
		},
		Locale: LocaleConfig{
			DefaultLocale: "fa",
			Locales:       []string{"fa"},
		},
		Modules: []string{},
		HTTP: HTTPConfig{
			BaseURL:  "https://api.yektour.com",
			Progress: false,
			Retries:  3,
			Headers: map[string]string{
				"Content-Type": "application/json",
				"Accept":       "application/json",
			},
		},
		ThemeModule: ThemeModuleConfig{
			CustomVariables: []string{"~/assets/styles/vuetify.scss"},
			TreeShake:       true,
			OptionsPath:     DefaultOptionsPath,
		},
		Loading: LoadingConfig{
			Color:       "#ff9800",
			FailedColor: "#f44336",
			Height:      "5px",
			RTL:         true,
		},
		Env: map[string]string{
			EnvServerURL: "https://api.yektour.com",
		},
		Router: RouterConfig{Middleware: []string{"autoLogin"}},
		Build:  BuildConfig{Transpile: []string{"num2persian"}},
	}
}
