// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/yektour/webconf/internal/api/middleware"
	"github.com/yektour/webconf/internal/config"
	"github.com/yektour/webconf/internal/health"
	"github.com/yektour/webconf/internal/theme"
)

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *config.Holder) {
	t.Helper()
	holder := config.NewHolder(cfg)
	srv, err := New(context.Background(), holder, Options{
		Stack:   middleware.StackConfig{EnableSecurityHeaders: true},
		Version: "test",
	})
	require.NoError(t, err)
	return srv, holder
}

func get(t *testing.T, h http.Handler, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestOpenAPIDocumentIsValid(t *testing.T) {
	doc, err := LoadOpenAPI(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "webconf", doc.Info.Title)
	assert.Equal(t, openapiSpec, OpenAPISpec())
}

// Every documented operation is mounted and every mounted route is documented.
func TestRoutesMatchOpenAPI(t *testing.T) {
	srv, _ := newTestServer(t, config.Default())
	doc := srv.Spec()

	for path, item := range doc.Paths.Map() {
		for method := range item.Operations() {
			req := httptest.NewRequest(method, path, nil)
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)
			assert.NotContains(t, []int{http.StatusNotFound, http.StatusMethodNotAllowed}, rec.Code,
				"route not mounted: %s %s", method, path)
		}
	}

	router, ok := srv.Handler().(chi.Routes)
	require.True(t, ok)
	err := chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		item := doc.Paths.Find(route)
		if assert.NotNil(t, item, "route %s is not documented", route) {
			assert.NotNil(t, item.GetOperation(method), "operation %s %s is not documented", method, route)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestResponsesMatchSchemas(t *testing.T) {
	srv, _ := newTestServer(t, config.Default())
	doc := srv.Spec()

	for _, path := range []string{"/healthz", "/readyz", "/api/v1/config", "/api/v1/capabilities"} {
		rec := get(t, srv.Handler(), path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)

		op := doc.Paths.Find(path).Get
		media := op.Responses.Status(http.StatusOK).Value.Content.Get("application/json")
		require.NotNil(t, media, path)

		var body any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NoError(t, media.Schema.Value.VisitJSON(body), path)
	}
}

func TestConfigEndpoints(t *testing.T) {
	cfg := config.Default()
	srv, _ := newTestServer(t, cfg)

	t.Run("document", func(t *testing.T) {
		rec := get(t, srv.Handler(), "/api/v1/config", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, `"`+cfg.Fingerprint()+`"`, rec.Header().Get("ETag"))

		var doc config.Document
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Equal(t, cfg.AppConfig().HTTP.BaseURL, doc.App.HTTP.BaseURL)
		assert.Equal(t, cfg.ThemeOptions().Breakpoint.MobileBreakpoint, doc.Theme.Breakpoint.MobileBreakpoint)
	})

	t.Run("app", func(t *testing.T) {
		rec := get(t, srv.Handler(), "/api/v1/config/app", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var app config.AppConfig
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &app))
		assert.Equal(t, "fa", app.Locale.DefaultLocale)
	})

	t.Run("theme", func(t *testing.T) {
		rec := get(t, srv.Handler(), "/api/v1/config/theme", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var opts theme.Options
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
		assert.True(t, opts.Theme.Dark)
		assert.Equal(t, 500, opts.Breakpoint.Thresholds.XS)
	})

	t.Run("theme.css", func(t *testing.T) {
		rec := get(t, srv.Handler(), "/api/v1/config/theme.css", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, theme.RenderCSS(cfg.ThemeOptions()), rec.Body.String())
	})

	t.Run("env", func(t *testing.T) {
		rec := get(t, srv.Handler(), "/api/v1/config/env", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var env map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.Equal(t, "https://api.yektour.com", env[config.EnvServerURL])
	})

	t.Run("capabilities", func(t *testing.T) {
		rec := get(t, srv.Handler(), "/api/v1/capabilities", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp CapabilitiesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Registered, 7)
		assert.Len(t, resp.Used, len(cfg.Capabilities()))
	})

	t.Run("openapi", func(t *testing.T) {
		rec := get(t, srv.Handler(), "/api/v1/openapi.yaml", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(rec.Body.String(), "openapi: 3.0.3"))
	})

	t.Run("security headers", func(t *testing.T) {
		rec := get(t, srv.Handler(), "/healthz", nil)
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))
	})
}

func TestEnvEndpointMasksSecrets(t *testing.T) {
	app := config.DefaultAppConfig()
	app.Env["API_TOKEN"] = "s3cr3t"
	cfg, err := config.New(app, theme.Default())
	require.NoError(t, err)
	srv, _ := newTestServer(t, cfg)

	rec := get(t, srv.Handler(), "/api/v1/config/env", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "s3cr3t")
	assert.Contains(t, rec.Body.String(), `"API_TOKEN":"***"`)
}

func TestConditionalRequests(t *testing.T) {
	cfg := config.Default()
	srv, _ := newTestServer(t, cfg)
	tag := `"` + cfg.Fingerprint() + `"`

	tests := []struct {
		name        string
		path        string
		ifNoneMatch string
		want        int
	}{
		{"current tag", "/api/v1/config", tag, http.StatusNotModified},
		{"weak current tag", "/api/v1/config", "W/" + tag, http.StatusNotModified},
		{"tag in list", "/api/v1/config", `"stale", ` + tag, http.StatusNotModified},
		{"wildcard", "/api/v1/config", "*", http.StatusNotModified},
		{"stale tag", "/api/v1/config", `"stale"`, http.StatusOK},
		{"other representation", "/api/v1/config/app", tag, http.StatusOK},
		{"css tag", "/api/v1/config/theme.css", etag(cfg.Fingerprint(), "css"), http.StatusNotModified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv.Handler(), tt.path, map[string]string{"If-None-Match": tt.ifNoneMatch})
			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("ETag"))
			if tt.want == http.StatusNotModified {
				assert.Empty(t, rec.Body.String())
			}
		})
	}
}

func TestReloadChangesETag(t *testing.T) {
	first := config.Default()
	srv, holder := newTestServer(t, first)

	app := config.DefaultAppConfig()
	app.Head.Title = "Yektour"
	second, err := config.New(app, theme.Default())
	require.NoError(t, err)
	holder.Swap(second)

	rec := get(t, srv.Handler(), "/api/v1/config", map[string]string{"If-None-Match": `"` + first.Fingerprint() + `"`})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"`+second.Fingerprint()+`"`, rec.Header().Get("ETag"))
}

func TestNoConfigYieldsUnavailable(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := get(t, srv.Handler(), "/api/v1/config", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "config_unavailable")
}

func TestReadiness(t *testing.T) {
	t.Run("ready with config", func(t *testing.T) {
		srv, _ := newTestServer(t, config.Default())
		rec := get(t, srv.Handler(), "/readyz", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp health.ReadinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Ready)
		assert.Equal(t, "test", resp.Version)
		assert.Equal(t, health.StatusHealthy, resp.Checks["config_loaded"].Status)
	})

	t.Run("not ready without config", func(t *testing.T) {
		srv, _ := newTestServer(t, nil)
		rec := get(t, srv.Handler(), "/readyz", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "no configuration loaded")
	})

	t.Run("extra checks", func(t *testing.T) {
		ready := health.NewManager("test")
		reload := health.NewReloadChecker()
		ready.RegisterChecker(reload)
		srv, err := New(context.Background(), config.NewHolder(config.Default()), Options{Readiness: ready})
		require.NoError(t, err)

		reload.Observe(errors.New("load app.yaml: boom"))
		rec := get(t, srv.Handler(), "/readyz", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp health.ReadinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, health.StatusDegraded, resp.Status)
		assert.Equal(t, health.StatusDegraded, resp.Checks["config_reload"].Status)
		assert.Len(t, resp.Checks, 2)
	})
}

func TestReadOnly(t *testing.T) {
	srv, _ := newTestServer(t, config.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/config", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = get(t, srv.Handler(), "/api/v2/config", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHeadRequest(t *testing.T) {
	srv, _ := newTestServer(t, config.Default())

	req := httptest.NewRequest(http.MethodHead, "/api/v1/config", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("ETag"))
	assert.Empty(t, rec.Body.String())
}

func TestNewRejectsNilHolder(t *testing.T) {
	_, err := New(context.Background(), nil, Options{})
	require.Error(t, err)
}

func TestServeShutsDownCleanly(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	srv, _ := newTestServer(t, config.Default())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, ln, config.ServerConfig{
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			IdleTimeout:     time.Second,
			ShutdownTimeout: 3 * time.Second,
		})
	}()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	client.CloseIdleConnections()
}
