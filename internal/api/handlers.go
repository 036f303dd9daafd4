// SPDX-License-Identifier: MIT

package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yektour/webconf/internal/capability"
	"github.com/yektour/webconf/internal/config"
	"github.com/yektour/webconf/internal/theme"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status      string `json:"status"`
	Fingerprint string `json:"fingerprint"`
	Version     string `json:"version,omitempty"`
}

// CapabilitiesResponse is the body of GET /api/v1/capabilities.
type CapabilitiesResponse struct {
	Registered []capability.Capability `json:"registered"`
	Used       []capability.Capability `json:"used"`
}

func metricsHandler() http.Handler {
	return promhttp.Handler()
}

// current returns the active configuration or answers 503 itself.
func (s *Server) current(w http.ResponseWriter, r *http.Request) (*config.Config, bool) {
	cfg := s.holder.Get()
	if cfg == nil {
		writeProblem(w, r, http.StatusServiceUnavailable, "config_unavailable", "no configuration loaded")
		return nil, false
	}
	return cfg, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.current(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Fingerprint: cfg.Fingerprint(),
		Version:     s.opts.Version,
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if cfg, ok := s.current(w, r); ok {
		writeCacheableJSON(w, r, etag(cfg.Fingerprint(), ""), cfg.Document())
	}
}

func (s *Server) handleAppConfig(w http.ResponseWriter, r *http.Request) {
	if cfg, ok := s.current(w, r); ok {
		writeCacheableJSON(w, r, etag(cfg.Fingerprint(), "app"), cfg.AppConfig())
	}
}

func (s *Server) handleThemeOptions(w http.ResponseWriter, r *http.Request) {
	if cfg, ok := s.current(w, r); ok {
		writeCacheableJSON(w, r, etag(cfg.Fingerprint(), "theme"), cfg.ThemeOptions())
	}
}

func (s *Server) handleThemeCSS(w http.ResponseWriter, r *http.Request) {
	if cfg, ok := s.current(w, r); ok {
		css := theme.RenderCSS(cfg.ThemeOptions())
		writeCacheable(w, r, etag(cfg.Fingerprint(), "css"), "text/css; charset=utf-8", []byte(css))
	}
}

func (s *Server) handleEnv(w http.ResponseWriter, r *http.Request) {
	if cfg, ok := s.current(w, r); ok {
		writeCacheableJSON(w, r, etag(cfg.Fingerprint(), "env"), config.MaskEnv(cfg.Env()))
	}
}

func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.current(w, r)
	if !ok {
		return
	}
	resp := CapabilitiesResponse{
		Registered: cfg.Registry().List(""),
		Used:       cfg.Capabilities(),
	}
	if resp.Used == nil {
		resp.Used = []capability.Capability{}
	}
	writeCacheableJSON(w, r, etag(cfg.Fingerprint(), "capabilities"), resp)
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(openapiSpec)
	}
}
