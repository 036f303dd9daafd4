// SPDX-License-Identifier: MIT

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServerConfigDefaults(t *testing.T) {
	cfg, err := ParseServerConfig("v1.2.3")
	require.NoError(t, err)

	assert.Equal(t, ":8088", cfg.ListenAddr)
	assert.Equal(t, defaultReadTimeout, cfg.ReadTimeout)
	assert.Equal(t, defaultShutdownTimeout, cfg.ShutdownTimeout)
	assert.Equal(t, defaultRateLimit, cfg.RateLimit)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.Watch)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "v1.2.3", cfg.Telemetry.ServiceVersion)
}

func TestParseServerConfigEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"LISTEN", "127.0.0.1:9000")
	t.Setenv(EnvPrefix+"SERVER_READ_TIMEOUT", "3s")
	t.Setenv(EnvPrefix+"SERVER_SHUTDOWN_TIMEOUT", "1s")
	t.Setenv(EnvPrefix+"SERVER_MAX_HEADER_BYTES", "-5")
	t.Setenv(EnvPrefix+"RATE_LIMIT", "0")
	t.Setenv(EnvPrefix+"WATCH", "true")
	t.Setenv(EnvPrefix+"LOG_LEVEL", "DEBUG")
	t.Setenv(EnvPrefix+"OTEL_ENABLED", "true")
	t.Setenv(EnvPrefix+"OTEL_EXPORTER", "http")
	t.Setenv(EnvPrefix+"OTEL_SAMPLING_RATE", "0.25")

	cfg, err := ParseServerConfig("dev")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)
	assert.Equal(t, minShutdownTimeout, cfg.ShutdownTimeout, "shutdown timeout is clamped")
	assert.Equal(t, defaultMaxHeaderBytes, cfg.MaxHeaderBytes)
	assert.Equal(t, 0, cfg.RateLimit)
	assert.True(t, cfg.Watch)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "http", cfg.Telemetry.ExporterType)
	assert.InDelta(t, 0.25, cfg.Telemetry.SamplingRate, 1e-9)
}

func TestParseServerConfigInvalid(t *testing.T) {
	tests := []struct {
		key, value, field string
	}{
		{"LOG_LEVEL", "verbose", "logLevel"},
		{"LOG_FORMAT", "xml", "logFormat"},
		{"RATE_LIMIT", "-1", "rateLimit"},
		{"RATE_LIMIT_WHITELIST", "10.0.0.0/8, nope", "rateLimitWhitelist[1]"},
		{"CORS_ORIGINS", "localhost:3000", "corsOrigins[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(EnvPrefix+tt.key, tt.value)
			_, err := ParseServerConfig("dev")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	t.Run("telemetry", func(t *testing.T) {
		t.Setenv(EnvPrefix+"OTEL_ENABLED", "true")
		t.Setenv(EnvPrefix+"OTEL_EXPORTER", "zipkin")
		t.Setenv(EnvPrefix+"OTEL_SAMPLING_RATE", "2")
		_, err := ParseServerConfig("dev")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry.exporter")
		assert.Contains(t, err.Error(), "telemetry.samplingRate")
	})
}

func TestParseServerConfigLists(t *testing.T) {
	t.Setenv(EnvPrefix+"RATE_LIMIT_WHITELIST", " 127.0.0.1, ,10.0.0.0/8 ")
	t.Setenv(EnvPrefix+"CORS_ORIGINS", "https://yektour.com,*")

	cfg, err := ParseServerConfig("dev")
	require.NoError(t, err)
	assert.Equal(t, []string{"127.0.0.1", "10.0.0.0/8"}, cfg.RateLimitWhitelist)
	assert.Equal(t, []string{"https://yektour.com", "*"}, cfg.CORSOrigins)
}

func TestServerConfigValidateDirect(t *testing.T) {
	cfg, err := ParseServerConfig("dev")
	require.NoError(t, err)

	cfg.MaxHeaderBytes = 0
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maxHeaderBytes")
}
