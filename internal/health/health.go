// SPDX-License-Identifier: MIT

// Package health provides the readiness check of the webconf server.
// It supports Docker HEALTHCHECK and Kubernetes health checks with per-check status.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/yektour/webconf/internal/log"
)

// Status represents the readiness status of a check or of the whole server.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult represents the result of a single check.
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ReadinessResponse represents the readiness check response.
type ReadinessResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Version   string                 `json:"version,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// Checker defines the interface for readiness checks.
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// Manager runs the registered checkers.
type Manager struct {
	version  string
	mu       sync.RWMutex
	checkers []Checker
}

// NewManager creates a readiness manager reporting version.
func NewManager(version string) *Manager {
	return &Manager{version: version}
}

// RegisterChecker adds a checker to the manager.
func (m *Manager) RegisterChecker(checker Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, checker)
}

// Ready runs every checker. The server is ready unless a check is unhealthy;
// degraded checks are reported but still serve traffic.
func (m *Manager) Ready(ctx context.Context) ReadinessResponse {
	m.mu.RLock()
	checkers := append([]Checker(nil), m.checkers...)
	m.mu.RUnlock()

	resp := ReadinessResponse{
		Ready:     true,
		Status:    StatusHealthy,
		Version:   m.version,
		Timestamp: time.Now().UTC(),
	}
	if len(checkers) == 0 {
		return resp
	}

	resp.Checks = make(map[string]CheckResult, len(checkers))
	hasDegraded := false
	for _, checker := range checkers {
		result := checker.Check(ctx)
		resp.Checks[checker.Name()] = result

		switch result.Status {
		case StatusUnhealthy:
			resp.Ready = false
		case StatusDegraded:
			hasDegraded = true
		}
	}

	switch {
	case !resp.Ready:
		resp.Status = StatusUnhealthy
	case hasDegraded:
		resp.Status = StatusDegraded
	}
	return resp
}

// ServeReady handles HTTP readiness requests: 200 when ready, 503 otherwise.
func (m *Manager) ServeReady(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "readiness")

	resp := m.Ready(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if resp.Ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if r.Method == http.MethodHead {
		return
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error().Err(err).Str(log.FieldEvent, "readiness.encode_error").Msg("failed to encode readiness response")
	}

	logger.Debug().
		Str(log.FieldEvent, "readiness.checked").
		Str("status", string(resp.Status)).
		Bool("ready", resp.Ready).
		Msg("readiness check performed")
}

// FileChecker checks that a configuration file exists and is a regular file.
// An empty path means the file is optional and not configured.
type FileChecker struct {
	name string
	path string
}

// NewFileChecker creates a checker for file existence.
func NewFileChecker(name, path string) *FileChecker {
	return &FileChecker{name: name, path: path}
}

func (c *FileChecker) Name() string {
	return c.name
}

func (c *FileChecker) Check(_ context.Context) CheckResult {
	if c.path == "" {
		return CheckResult{Status: StatusHealthy, Message: "not configured (optional)"}
	}

	info, err := os.Stat(c.path)
	if err != nil {
		// The loaded configuration stays in memory; a vanished file only
		// breaks the next reload.
		if errors.Is(err, fs.ErrNotExist) {
			return CheckResult{Status: StatusDegraded, Error: "file not found", Message: c.path}
		}
		return CheckResult{Status: StatusDegraded, Error: err.Error(), Message: c.path}
	}
	if info.IsDir() {
		return CheckResult{Status: StatusUnhealthy, Error: "expected file, got directory", Message: c.path}
	}
	if info.Size() == 0 {
		return CheckResult{Status: StatusDegraded, Message: "file is empty"}
	}
	return CheckResult{Status: StatusHealthy, Message: "file exists"}
}

// FuncChecker adapts a function to the Checker interface.
type FuncChecker struct {
	name string
	fn   func(ctx context.Context) CheckResult
}

// NewFuncChecker creates a named checker backed by fn.
func NewFuncChecker(name string, fn func(ctx context.Context) CheckResult) *FuncChecker {
	return &FuncChecker{name: name, fn: fn}
}

func (c *FuncChecker) Name() string {
	return c.name
}

func (c *FuncChecker) Check(ctx context.Context) CheckResult {
	return c.fn(ctx)
}

// ReloadChecker tracks the outcome of the latest configuration reload.
type ReloadChecker struct {
	mu      sync.RWMutex
	lastOK  time.Time
	lastErr error
	now     func() time.Time
}

// NewReloadChecker creates a checker with no reload observed yet.
func NewReloadChecker() *ReloadChecker {
	return &ReloadChecker{now: time.Now}
}

// Observe records a reload attempt.
func (c *ReloadChecker) Observe(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.lastErr = err
		return
	}
	c.lastOK = c.now()
	c.lastErr = nil
}

func (c *ReloadChecker) Name() string {
	return "config_reload"
}

// Check reports degraded after a failed reload: the previous configuration
// is still served, but the files on disk no longer match it.
func (c *ReloadChecker) Check(_ context.Context) CheckResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.lastErr != nil {
		return CheckResult{
			Status:  StatusDegraded,
			Error:   c.lastErr.Error(),
			Message: "last reload failed, serving previous configuration",
		}
	}
	if c.lastOK.IsZero() {
		return CheckResult{Status: StatusHealthy, Message: "no reload yet"}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: "last reload at " + c.lastOK.UTC().Format(time.RFC3339),
	}
}
