// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/yektour/webconf/internal/log"
)

// etag builds a strong validator for one representation of a configuration.
func etag(fingerprint, variant string) string {
	if variant == "" {
		return `"` + fingerprint + `"`
	}
	return `"` + fingerprint + "-" + variant + `"`
}

// notModified reports whether If-None-Match names tag.
// Comparison is weak, so W/ prefixed validators match too.
func notModified(r *http.Request, tag string) bool {
	header := r.Header.Get("If-None-Match")
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if strings.TrimPrefix(candidate, "W/") == tag {
			return true
		}
	}
	return false
}

// writeCacheable writes body with an ETag, or 304 when the client is current.
func writeCacheable(w http.ResponseWriter, r *http.Request, tag, contentType string, body []byte) {
	h := w.Header()
	h.Set("ETag", tag)
	h.Set("Cache-Control", "no-cache")
	if notModified(r, tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	h.Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

// writeCacheableJSON encodes v and serves it through writeCacheable.
func writeCacheableJSON(w http.ResponseWriter, r *http.Request, tag string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeProblem(w, r, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	writeCacheable(w, r, tag, "application/json", append(body, '\n'))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem writes a JSON error and logs server-side failures.
func writeProblem(w http.ResponseWriter, r *http.Request, status int, code, detail string) {
	if status >= http.StatusInternalServerError {
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Error().
			Str(log.FieldEvent, "api.error").
			Str(log.FieldPath, r.URL.Path).
			Str("code", code).
			Msg(detail)
	}
	body := map[string]string{"error": code, "detail": detail}
	if id := log.RequestIDFromContext(r.Context()); id != "" {
		body["requestId"] = id
	}
	writeJSON(w, status, body)
}
