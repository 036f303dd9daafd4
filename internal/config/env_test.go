// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yektour/webconf/internal/log"
)

func TestParseHelpers(t *testing.T) {
	t.Setenv("WEBCONF_TEST_STR", "value")
	t.Setenv("WEBCONF_TEST_EMPTY", "")
	t.Setenv("WEBCONF_TEST_INT", " 42 ")
	t.Setenv("WEBCONF_TEST_BAD_INT", "4x")
	t.Setenv("WEBCONF_TEST_BOOL", "Yes")
	t.Setenv("WEBCONF_TEST_BAD_BOOL", "maybe")
	t.Setenv("WEBCONF_TEST_DUR", "1m30s")
	t.Setenv("WEBCONF_TEST_FLOAT", "0.5")

	assert.Equal(t, "value", ParseString("WEBCONF_TEST_STR", "d"))
	assert.Equal(t, "d", ParseString("WEBCONF_TEST_EMPTY", "d"))
	assert.Equal(t, "d", ParseString("WEBCONF_TEST_UNSET", "d"))

	assert.Equal(t, 42, ParseInt("WEBCONF_TEST_INT", 1))
	assert.Equal(t, 1, ParseInt("WEBCONF_TEST_BAD_INT", 1))
	assert.Equal(t, 1, ParseInt("WEBCONF_TEST_UNSET", 1))

	assert.True(t, ParseBool("WEBCONF_TEST_BOOL", false))
	assert.True(t, ParseBool("WEBCONF_TEST_BAD_BOOL", true))
	assert.False(t, ParseBool("WEBCONF_TEST_UNSET", false))

	assert.Equal(t, 90*time.Second, ParseDuration("WEBCONF_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, ParseDuration("WEBCONF_TEST_UNSET", time.Second))

	assert.InDelta(t, 0.5, ParseFloat("WEBCONF_TEST_FLOAT", 1), 1e-9)
}

func TestLookupHelpersRejectMalformedValues(t *testing.T) {
	t.Setenv("WEBCONF_TEST_INT", "7")
	t.Setenv("WEBCONF_TEST_BAD_INT", "4x")
	t.Setenv("WEBCONF_TEST_BAD_BOOL", "maybe")

	i, err := LookupInt("WEBCONF_TEST_INT", 1)
	require.NoError(t, err)
	assert.Equal(t, 7, i)

	i, err = LookupInt("WEBCONF_TEST_UNSET", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	_, err = LookupInt("WEBCONF_TEST_BAD_INT", 1)
	require.ErrorContains(t, err, "WEBCONF_TEST_BAD_INT")

	_, err = LookupBool("WEBCONF_TEST_BAD_BOOL", true)
	require.ErrorContains(t, err, "not a boolean")
}

func TestParseStringMasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	log.Configure(log.Config{Level: "debug", Output: &buf})
	t.Cleanup(func() { log.Configure(log.Config{}) })

	t.Setenv("WEBCONF_API_TOKEN", "hunter2")
	t.Setenv("WEBCONF_UPSTREAM", "https://user:pw@example.com")

	assert.Equal(t, "hunter2", ParseString("WEBCONF_API_TOKEN", ""))
	assert.Equal(t, "https://user:pw@example.com", ParseString("WEBCONF_UPSTREAM", ""))

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "pw@")
	assert.Contains(t, out, `"sensitive":true`)
}

func TestMaskHelpers(t *testing.T) {
	assert.Equal(t, "", MaskURL(""))
	assert.Equal(t, "https://***@example.com/x", MaskURL("https://u:p@example.com/x"))
	assert.Equal(t, "https://example.com", MaskURL("https://example.com"))
	assert.Equal(t, "https://***@example.com/x?y=1#top", MaskURL("https://admin@example.com/x?y=1#top"))

	assert.Equal(t, map[string]string{
		"SERVER_URL":   "https://***@api",
		"SESSION_AUTH": "***",
	}, MaskEnv(map[string]string{
		"SERVER_URL":   "https://u:p@api",
		"SESSION_AUTH": "x",
	}))

	assert.True(t, isCredentialHeader("cookie"))
	assert.True(t, isCredentialHeader("X-AUTH-TOKEN"))
	assert.False(t, isCredentialHeader("Accept"))
}
