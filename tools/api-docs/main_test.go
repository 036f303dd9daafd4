// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yektour/webconf/internal/api"
)

func TestRenderCoversEveryOperation(t *testing.T) {
	doc, err := api.LoadOpenAPI(context.Background())
	require.NoError(t, err)

	out := string(render(doc))

	assert.Contains(t, out, "# webconf API")
	for path, item := range doc.Paths.Map() {
		for method := range item.Operations() {
			assert.Contains(t, out, "## `"+method+" "+path+"`")
		}
	}
	assert.Contains(t, out, "| 200 | `application/json` | `ConfigDocument` |")
	assert.Contains(t, out, "| 304 | | | The client copy is current. |")
	assert.Contains(t, out, "| `If-None-Match` | header |  |")
	assert.Contains(t, out, "### `Capability`")
	assert.Contains(t, out, "`buildModule`, `module`, `plugin`, `middleware`")
	assert.Contains(t, out, "| `registered` | `array<Capability>` | ✓ |  |")
}

func TestMdSan(t *testing.T) {
	assert.Equal(t, "a b \\| c", mdSan(" a\nb | c "))
}
