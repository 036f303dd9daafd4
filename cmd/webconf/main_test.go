// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "WEBCONF_") {
			kv := strings.SplitN(e, "=", 2)
			_ = os.Unsetenv(kv[0])
		}
	}
	os.Exit(m.Run())
}

// runCLI runs the command line and captures both streams.
func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersionFlag(t *testing.T) {
	code, out, _ := runCLI(t, "-version")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, version+" (commit: none, built: unknown)\n", out)
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	code, _, _ := runCLI(t, "-nope")
	assert.Equal(t, exitUsage, code)
}

func TestUnexpectedArgumentIsUsageError(t *testing.T) {
	code, _, stderr := runCLI(t, "serve")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "Unexpected arguments: serve")
}

func TestResolveFallsBackToLocalAppFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	assert.Empty(t, fileFlags{}.resolve().app)

	writeFile(t, dir, defaultAppFile, "head:\n  title: Yektour\n")
	assert.Equal(t, defaultAppFile, fileFlags{}.resolve().app)
	assert.Equal(t, "other.yaml", fileFlags{app: " other.yaml "}.resolve().app)
}

func TestServeRejectsInvalidServerConfig(t *testing.T) {
	t.Setenv("WEBCONF_LOG_FORMAT", "xml")

	code, _, stderr := runCLI(t)
	assert.Equal(t, exitConfig, code)
	assert.Contains(t, stderr, "Server configuration error")
	assert.Contains(t, stderr, "logFormat")
}

func TestServeRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	app := writeFile(t, dir, "app.yaml", "http:\n  retries: -1\n")

	code, _, stderr := runCLI(t, "-app", app)
	assert.Equal(t, exitConfig, code)
	assert.Contains(t, stderr, "Configuration error")
	assert.Contains(t, stderr, "http.retries")
}

func TestServeStopsOnCancel(t *testing.T) {
	t.Setenv("WEBCONF_LISTEN", "127.0.0.1:0")
	t.Setenv("WEBCONF_SERVER_SHUTDOWN_TIMEOUT", "3s")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	var stderr bytes.Buffer
	go func() {
		done <- serve(ctx, fileFlags{}, &stderr)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case code := <-done:
		assert.Equal(t, exitOK, code, stderr.String())
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop after cancellation")
	}
	assert.Equal(t, "https://api.yektour.com", os.Getenv("SERVER_URL"))
}
