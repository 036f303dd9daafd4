// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/yektour/webconf/internal/telemetry"
)

func tracedRouter(t *testing.T) (*chi.Mux, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	r := chi.NewRouter()
	r.Use(OTelHTTP("webconf-test"))
	r.Use(RouteAttributes)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/api/v1/config/{section}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "section") == "broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("{}"))
	})
	return r, exporter
}

func TestOTelHTTP_NamesSpanAfterRoute(t *testing.T) {
	r, exporter := tracedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/config/app?x=1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("Expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "GET /api/v1/config/{section}" {
		t.Errorf("Expected span name from route pattern, got %q", spans[0].Name)
	}
	found := false
	for _, kv := range spans[0].Attributes {
		if string(kv.Key) == telemetry.HTTPRouteKey {
			found = true
			if kv.Value.AsString() != "/api/v1/config/{section}" {
				t.Errorf("Expected route attribute, got %q", kv.Value.AsString())
			}
		}
	}
	if !found {
		t.Errorf("Attribute %s not found", telemetry.HTTPRouteKey)
	}
}

func TestOTelHTTP_ServerErrorMarksSpan(t *testing.T) {
	r, exporter := tracedRouter(t)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/config/broken", nil))

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("Expected 1 span, got %d", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("Expected error status, got %v", spans[0].Status.Code)
	}
}

func TestOTelHTTP_SkipsHealthChecks(t *testing.T) {
	r, exporter := tracedRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if n := len(exporter.GetSpans()); n != 0 {
		t.Errorf("Expected no spans for /healthz, got %d", n)
	}
}
