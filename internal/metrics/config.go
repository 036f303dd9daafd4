// SPDX-License-Identifier: MIT

// Package metrics exposes the Prometheus collectors for configuration loading.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Load outcomes used as the "outcome" label.
const (
	OutcomeSuccess         = "success"
	OutcomeLoadError       = "load_error"
	OutcomeValidationError = "validation_error"
)

var (
	configLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webconf_config_loads_total",
		Help: "Configuration load attempts by outcome",
	}, []string{"outcome"}) // outcome=success|load_error|validation_error

	configLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "webconf_config_load_duration_seconds",
		Help:    "Time spent loading and validating configuration",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	})

	configValidationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webconf_config_validation_errors_total",
		Help: "Configuration validation errors by field",
	}, []string{"field"})

	configInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "webconf_config_info",
		Help: "Fingerprint of the active configuration (always 1)",
	}, []string{"fingerprint"})

	configLastReload = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "webconf_config_last_reload_timestamp_seconds",
		Help: "Unix time of the last successful configuration reload",
	})

	themeContrastWarnings = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "webconf_theme_contrast_warnings",
		Help: "Text/background pairs below the WCAG AA contrast ratio in the active config",
	}, []string{"mode"}) // mode=light|dark
)

// RecordConfigLoad counts one load attempt and observes how long it took.
func RecordConfigLoad(outcome string, d time.Duration) {
	configLoadsTotal.WithLabelValues(outcome).Inc()
	configLoadDuration.Observe(d.Seconds())
}

// RecordValidationFailure counts every failing field of a rejected config.
func RecordValidationFailure(fields []string) {
	for _, f := range fields {
		configValidationErrors.WithLabelValues(f).Inc()
	}
}

// SetConfigInfo marks fingerprint as the active configuration.
// Earlier fingerprints are dropped so only one series is ever exported.
func SetConfigInfo(fingerprint string) {
	configInfo.Reset()
	configInfo.WithLabelValues(fingerprint).Set(1)
}

// MarkReload records a successful reload at t.
func MarkReload(t time.Time) {
	configLastReload.Set(float64(t.Unix()))
}

// SetContrastWarnings publishes the number of contrast warnings for a mode.
func SetContrastWarnings(mode string, n int) {
	themeContrastWarnings.WithLabelValues(mode).Set(float64(n))
}
