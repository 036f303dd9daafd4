// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/net/http/httpguts"

	"github.com/yektour/webconf/internal/capability"
	"github.com/yektour/webconf/internal/theme"
	"github.com/yektour/webconf/internal/validate"
)

var (
	cssLength   = regexp.MustCompile(`^(0|\d+(\.\d+)?(px|rem|em|%|vh|vw))$`)
	envName     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	packageName = regexp.MustCompile(`^(@[a-z0-9-~][a-z0-9-._~]*/)?[a-z0-9-~][a-z0-9-._~]*$`)
)

// Validate checks app and opts together. Capability names are resolved
// against reg; a nil reg means capability.Default().
// The returned error is a ValidationError listing every failing field.
func Validate(app AppConfig, opts theme.Options, reg *capability.Registry) error {
	if reg == nil {
		reg = capability.Default()
	}
	v := validate.New()

	validateHead(v, app.Head)
	validateLocale(v, app.Locale)
	validateHTTP(v, app.HTTP)
	validateCapabilities(v, app, reg)
	validateLoading(v, app.Loading)
	validateEnv(v, app)

	v.Classify(ErrInvalidField, func() {
		for i, p := range app.CSS {
			v.Path(fmt.Sprintf("css[%d]", i), p)
			v.NotEmpty(fmt.Sprintf("css[%d]", i), p)
		}
		for i, p := range app.ThemeModule.CustomVariables {
			v.Path(fmt.Sprintf("themeModule.customVariables[%d]", i), p)
			v.NotEmpty(fmt.Sprintf("themeModule.customVariables[%d]", i), p)
		}
		v.Path("themeModule.optionsPath", app.ThemeModule.OptionsPath)
		for i, pkg := range app.Build.Transpile {
			v.Pattern(fmt.Sprintf("build.transpile[%d]", i), pkg, packageName, "an npm package name")
		}
	})

	v.Merge("", opts.Validate())

	return v.Err()
}

func validateHead(v *validate.Validator, h HeadConfig) {
	v.Classify(ErrInvalidField, func() {
		v.NotEmpty("head.title", h.Title)
		if h.TitleTemplate != "" {
			if n := strings.Count(h.TitleTemplate, "%s"); n != 1 {
				v.AddError("head.titleTemplate",
					fmt.Sprintf("must contain exactly one %%s placeholder, found %d", n), h.TitleTemplate)
			}
		}

		for i, m := range h.Meta {
			field := fmt.Sprintf("head.meta[%d]", i)
			set := lo.Filter([]string{m.Charset, m.Name, m.Property}, func(s string, _ int) bool { return s != "" })
			switch {
			case len(set) != 1:
				v.AddError(field, "exactly one of charset, name or property must be set", m)
			case m.Charset != "" && (m.HID != "" || m.Content != ""):
				v.AddError(field, "charset meta cannot carry hid or content", m)
			}
		}
		dupHIDs := lo.FindDuplicates(lo.FilterMap(h.Meta, func(m MetaTag, _ int) (string, bool) {
			return m.HID, m.HID != ""
		}))
		for _, hid := range dupHIDs {
			v.AddError("head.meta", fmt.Sprintf("duplicate hid %q", hid), hid)
		}

		for i, l := range h.Link {
			field := fmt.Sprintf("head.link[%d]", i)
			v.NotEmpty(field+".rel", l.Rel)
			v.NotEmpty(field+".href", l.Href)
		}
	})

	v.Classify(ErrInvalidLocale, func() {
		v.LanguageTag("head.htmlAttrs.lang", h.HTMLAttrs.Lang)
	})
}

func validateLocale(v *validate.Validator, l LocaleConfig) {
	v.Classify(ErrInvalidLocale, func() {
		v.LanguageTag("locale.defaultLocale", l.DefaultLocale)
		for i, loc := range l.Locales {
			v.LanguageTag(fmt.Sprintf("locale.locales[%d]", i), loc)
		}
	})
	if l.DefaultLocale != "" && !slices.Contains(l.Locales, l.DefaultLocale) {
		v.AddKindError(ErrLocaleNotSupported, "locale.locales",
			fmt.Sprintf("supported locales %v must include default locale %q", l.Locales, l.DefaultLocale),
			l.Locales)
	}
}

func validateHTTP(v *validate.Validator, h HTTPConfig) {
	v.Classify(ErrMalformedBaseURL, func() {
		v.URL("http.baseURL", h.BaseURL, []string{"http", "https"})
	})
	v.Classify(ErrNegativeRetries, func() {
		v.NonNegative("http.retries", h.Retries)
	})

	for _, name := range sortedKeys(h.Headers) {
		value := h.Headers[name]
		field := "http.headers." + name
		switch {
		case !httpguts.ValidHeaderFieldName(name):
			v.AddKindError(ErrInvalidHeader, field, "invalid header name", name)
		case !httpguts.ValidHeaderFieldValue(value):
			v.AddKindError(ErrInvalidHeader, field, "invalid header value", value)
		case isCredentialHeader(name):
			v.AddKindError(ErrSensitiveHeader, field,
				"credentials must not be set in default headers", "***redacted***")
		}
	}
}

func validateCapabilities(v *validate.Validator, app AppConfig, reg *capability.Registry) {
	lists := []struct {
		field string
		kind  capability.Kind
		names []string
	}{
		{"plugins", capability.KindPlugin, app.Plugins},
		{"buildModules", capability.KindBuildModule, app.BuildModules},
		{"modules", capability.KindModule, app.Modules},
		{"router.middleware", capability.KindMiddleware, app.Router.Middleware},
	}

	for _, l := range lists {
		for i, name := range l.names {
			if _, err := reg.Resolve(l.kind, name); err != nil {
				v.AddKindError(ErrUnknownCapability, fmt.Sprintf("%s[%d]", l.field, i), err.Error(), name)
			}
		}
		for _, dup := range lo.FindDuplicates(l.names) {
			v.AddKindError(ErrInvalidField, l.field, fmt.Sprintf("duplicate entry %q", dup), dup)
		}
	}
}

func validateLoading(v *validate.Validator, l LoadingConfig) {
	colors := []struct {
		field string
		c     theme.Color
	}{
		{"loading.color", l.Color},
		{"loading.failedColor", l.FailedColor},
	}
	for _, lc := range colors {
		if _, err := lc.c.Resolve(); err != nil {
			v.AddKindError(ErrInvalidColor, lc.field, err.Error(), string(lc.c))
		}
	}
	v.Classify(ErrInvalidField, func() {
		v.Pattern("loading.height", l.Height, cssLength, "a CSS length such as 5px")
	})
}

func validateEnv(v *validate.Validator, app AppConfig) {
	for _, name := range sortedKeys(app.Env) {
		if !envName.MatchString(name) {
			v.AddKindError(ErrInvalidEnvName, "env."+name, "not a valid environment variable name", name)
		}
	}
	if explicit, ok := app.Env[EnvServerURL]; ok && explicit != app.HTTP.BaseURL {
		v.AddKindError(ErrEnvConflict, "env."+EnvServerURL,
			fmt.Sprintf("must equal http.baseURL %q", MaskURL(app.HTTP.BaseURL)), MaskURL(explicit))
	}
}

func sortedKeys(m map[string]string) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}
