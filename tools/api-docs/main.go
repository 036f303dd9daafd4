// SPDX-License-Identifier: MIT

// api-docs generates Markdown documentation from the embedded OpenAPI document.
//
// Usage:
//
//	go run ./tools/api-docs [output.md]
//
// Defaults:
//   - output: docs/api.md
package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/yektour/webconf/internal/api"
)

func main() {
	out := "docs/api.md"
	if len(os.Args) > 1 {
		out = os.Args[1]
	}

	doc, err := api.LoadOpenAPI(context.Background())
	check(err)

	check(os.MkdirAll(filepath.Dir(out), 0o750))
	check(os.WriteFile(out, render(doc), 0o600))
	fmt.Printf("generated %s from internal/api/openapi.yaml\n", out)
}

func render(doc *openapi3.T) []byte {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "# %s API\n\n", doc.Info.Title)
	fmt.Fprintf(buf, "> Source: `internal/api/openapi.yaml` (OpenAPI %s, API version %s)\n\n", doc.OpenAPI, doc.Info.Version)
	if doc.Info.Description != "" {
		fmt.Fprintf(buf, "%s\n\n", mdSan(doc.Info.Description))
	}

	paths := doc.Paths.InMatchingOrder()
	sort.Strings(paths)

	fmt.Fprintln(buf, "## Endpoints")
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "| Method | Path | Summary |")
	fmt.Fprintln(buf, "|---|---|---|")
	for _, p := range paths {
		for _, m := range methods(doc.Paths.Value(p)) {
			op := doc.Paths.Value(p).GetOperation(m)
			fmt.Fprintf(buf, "| %s | `%s` | %s |\n", m, p, mdSan(op.Summary))
		}
	}
	fmt.Fprintln(buf)

	for _, p := range paths {
		item := doc.Paths.Value(p)
		for _, m := range methods(item) {
			renderOperation(buf, m, p, item.GetOperation(m))
		}
	}

	if doc.Components != nil && len(doc.Components.Schemas) > 0 {
		fmt.Fprintln(buf, "## Schemas")
		fmt.Fprintln(buf)
		names := make([]string, 0, len(doc.Components.Schemas))
		for name := range doc.Components.Schemas {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(buf, "### `%s`\n\n", name)
			renderSchema(buf, doc.Components.Schemas[name].Value)
			fmt.Fprintln(buf)
		}
	}
	return buf.Bytes()
}

func methods(item *openapi3.PathItem) []string {
	ops := item.Operations()
	out := make([]string, 0, len(ops))
	for _, m := range []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		if _, ok := ops[m]; ok {
			out = append(out, m)
		}
	}
	return out
}

func renderOperation(buf *bytes.Buffer, method, path string, op *openapi3.Operation) {
	fmt.Fprintf(buf, "## `%s %s`\n\n", method, path)
	if op.OperationID != "" {
		fmt.Fprintf(buf, "**Operation:** `%s`  \n", op.OperationID)
	}
	if op.Summary != "" {
		fmt.Fprintf(buf, "\n%s\n", mdSan(op.Summary))
	}

	if len(op.Parameters) > 0 {
		fmt.Fprintln(buf, "\n**Parameters:**")
		fmt.Fprintln(buf, "| Name | In | Required |")
		fmt.Fprintln(buf, "|---|---|:---:|")
		for _, ref := range op.Parameters {
			p := ref.Value
			fmt.Fprintf(buf, "| `%s` | %s | %s |\n", p.Name, p.In, boolIcon(p.Required))
		}
	}

	if op.Responses != nil {
		fmt.Fprintln(buf, "\n**Responses:**")
		fmt.Fprintln(buf, "| Status | Content type | Schema | Description |")
		fmt.Fprintln(buf, "|---|---|---|---|")
		codes := make([]string, 0, op.Responses.Len())
		for code := range op.Responses.Map() {
			codes = append(codes, code)
		}
		sort.Slice(codes, func(i, j int) bool {
			a, _ := strconv.Atoi(codes[i])
			b, _ := strconv.Atoi(codes[j])
			return a < b
		})
		for _, code := range codes {
			resp := op.Responses.Value(code).Value
			desc := ""
			if resp.Description != nil {
				desc = *resp.Description
			}
			if len(resp.Content) == 0 {
				fmt.Fprintf(buf, "| %s | | | %s |\n", code, mdSan(desc))
				continue
			}
			for _, ct := range sortedContent(resp.Content) {
				fmt.Fprintf(buf, "| %s | `%s` | %s | %s |\n",
					code, ct, schemaName(resp.Content[ct].Schema), mdSan(desc))
			}
		}
	}
	fmt.Fprintln(buf)
}

func renderSchema(buf *bytes.Buffer, s *openapi3.Schema) {
	fmt.Fprintf(buf, "**Type:** %s  \n", mdCode(typeOf(s)))
	if s.Description != "" {
		fmt.Fprintf(buf, "\n%s\n", mdSan(s.Description))
	}
	if len(s.Enum) > 0 {
		fmt.Fprintf(buf, "**Allowed values:** %s  \n", strings.Join(enumValues(s.Enum), ", "))
	}
	if len(s.Properties) == 0 {
		return
	}

	required := map[string]bool{}
	for _, r := range s.Required {
		required[r] = true
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(buf, "\n**Fields:**")
	fmt.Fprintln(buf, "| Field | Type | Required | Allowed values |")
	fmt.Fprintln(buf, "|---|---|:---:|---|")
	for _, name := range names {
		prop := s.Properties[name]
		allowed := ""
		if prop.Value != nil && len(prop.Value.Enum) > 0 {
			allowed = strings.Join(enumValues(prop.Value.Enum), ", ")
		}
		fmt.Fprintf(buf, "| `%s` | %s | %s | %s |\n", name, schemaName(prop), boolIcon(required[name]), allowed)
	}
}

// schemaName prefers the component name of a reference over the inline type.
func schemaName(ref *openapi3.SchemaRef) string {
	if ref == nil {
		return ""
	}
	if ref.Ref != "" {
		return mdCode(ref.Ref[strings.LastIndex(ref.Ref, "/")+1:])
	}
	if ref.Value == nil {
		return mdCode("any")
	}
	return mdCode(typeOf(ref.Value))
}

func typeOf(s *openapi3.Schema) string {
	if s.Type == nil || len(s.Type.Slice()) == 0 {
		if len(s.Properties) > 0 {
			return "object"
		}
		return "any"
	}
	t := strings.Join(s.Type.Slice(), "|")
	switch {
	case s.Type.Is("array") && s.Items != nil:
		return "array<" + strings.Trim(schemaName(s.Items), "`") + ">"
	case s.Type.Is("object") && s.AdditionalProperties.Schema != nil:
		return "map<string, " + strings.Trim(schemaName(s.AdditionalProperties.Schema), "`") + ">"
	}
	return t
}

func sortedContent(c openapi3.Content) []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func enumValues(v []any) []string {
	out := make([]string, len(v))
	for i, e := range v {
		out[i] = "`" + fmt.Sprint(e) + "`"
	}
	return out
}

func mdSan(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.TrimSpace(s)
}

func mdCode(s string) string {
	return "`" + s + "`"
}

func boolIcon(b bool) string {
	if b {
		return "✓"
	}
	return ""
}

func check(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
