// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/yektour/webconf/internal/telemetry"
	"github.com/yektour/webconf/internal/validate"
)

// ServerConfig holds the settings of the webconf HTTP server process.
// They come from the environment only; the YAML files describe the front-end.
type ServerConfig struct {
	// ListenAddr is the address to listen on (e.g., ":8088")
	ListenAddr string

	// ReadTimeout is the maximum duration for reading the entire request
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response
	WriteTimeout time.Duration

	// IdleTimeout is the maximum amount of time to wait for the next request
	IdleTimeout time.Duration

	// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header's keys and values
	MaxHeaderBytes int

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown
	ShutdownTimeout time.Duration

	// RateLimit is the number of requests per minute allowed per client IP; 0 disables limiting
	RateLimit int

	// RateLimitWhitelist lists IPs or CIDRs exempt from rate limiting
	RateLimitWhitelist []string

	// CORSOrigins lists the origins allowed to read the API cross-site; empty disables CORS
	CORSOrigins []string

	// Watch reloads the configuration when its files change
	Watch bool

	LogLevel  string
	LogFormat string

	Telemetry telemetry.Config
}

const (
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultMaxHeaderBytes  = 1 << 20 // 1 MB
	defaultShutdownTimeout = 15 * time.Second
	defaultRateLimit       = 600
	minShutdownTimeout     = 3 * time.Second
	fallbackListenAddr     = ":8088"
)

// ParseServerConfig reads server configuration from environment variables
// and validates it.
func ParseServerConfig(version string) (ServerConfig, error) {
	maxHeaderBytes := ParseInt(EnvPrefix+"SERVER_MAX_HEADER_BYTES", defaultMaxHeaderBytes)
	if maxHeaderBytes <= 0 {
		maxHeaderBytes = defaultMaxHeaderBytes
	}

	shutdownTimeout := ParseDuration(EnvPrefix+"SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if shutdownTimeout < minShutdownTimeout {
		shutdownTimeout = minShutdownTimeout
	}

	cfg := ServerConfig{
		ListenAddr:         strings.TrimSpace(ParseString(EnvPrefix+"LISTEN", fallbackListenAddr)),
		ReadTimeout:        ParseDuration(EnvPrefix+"SERVER_READ_TIMEOUT", defaultReadTimeout),
		WriteTimeout:       ParseDuration(EnvPrefix+"SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
		IdleTimeout:        ParseDuration(EnvPrefix+"SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		MaxHeaderBytes:     maxHeaderBytes,
		ShutdownTimeout:    shutdownTimeout,
		RateLimit:          ParseInt(EnvPrefix+"RATE_LIMIT", defaultRateLimit),
		RateLimitWhitelist: splitList(ParseString(EnvPrefix+"RATE_LIMIT_WHITELIST", "")),
		CORSOrigins:        splitList(ParseString(EnvPrefix+"CORS_ORIGINS", "")),
		Watch:              ParseBool(EnvPrefix+"WATCH", false),
		LogLevel:           strings.ToLower(ParseString(EnvPrefix+"LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(ParseString(EnvPrefix+"LOG_FORMAT", "json")),
		Telemetry: telemetry.Config{
			Enabled:        ParseBool(EnvPrefix+"OTEL_ENABLED", false),
			ServiceName:    ParseString(EnvPrefix+"OTEL_SERVICE_NAME", "webconf"),
			ServiceVersion: version,
			Environment:    ParseString(EnvPrefix+"ENVIRONMENT", "production"),
			ExporterType:   strings.ToLower(ParseString(EnvPrefix+"OTEL_EXPORTER", "grpc")),
			Endpoint:       ParseString(EnvPrefix+"OTEL_ENDPOINT", "localhost:4317"),
			SamplingRate:   ParseFloat(EnvPrefix+"OTEL_SAMPLING_RATE", 1.0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// Validate checks the server settings.
func (s ServerConfig) Validate() error {
	v := validate.New()

	v.NotEmpty("listen", s.ListenAddr)
	v.Positive("maxHeaderBytes", s.MaxHeaderBytes)
	v.NonNegative("rateLimit", s.RateLimit)
	if _, err := validate.ParseLogLevel(s.LogLevel); err != nil {
		v.AddError("logLevel", "must be one of debug, info, warn, error", s.LogLevel)
	}
	v.OneOf("logFormat", s.LogFormat, []string{"json", "console"})
	for i, entry := range s.RateLimitWhitelist {
		if !validNetwork(entry) {
			v.AddError(fmt.Sprintf("rateLimitWhitelist[%d]", i), "must be an IP address or CIDR", entry)
		}
	}
	for i, origin := range s.CORSOrigins {
		if origin != "*" {
			v.URL(fmt.Sprintf("corsOrigins[%d]", i), origin, []string{"http", "https"})
		}
	}

	if s.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", s.Telemetry.ExporterType, []string{"grpc", "http"})
		v.NotEmpty("telemetry.endpoint", s.Telemetry.Endpoint)
		v.Custom("telemetry.samplingRate", s.Telemetry.SamplingRate, func(val any) error {
			if r := val.(float64); r < 0 || r > 1 {
				return fmt.Errorf("sampling rate must be between 0 and 1, got %g", r)
			}
			return nil
		})
	}

	if err := v.Err(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	return nil
}

// splitList parses a comma separated env value, dropping blank entries.
func splitList(raw string) []string {
	return lo.FilterMap(strings.Split(raw, ","), func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	})
}

func validNetwork(entry string) bool {
	if _, _, err := net.ParseCIDR(entry); err == nil {
		return true
	}
	return net.ParseIP(entry) != nil
}
