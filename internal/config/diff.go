// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/samber/lo"
)

// ChangeSummary describes the result of comparing two configurations.
type ChangeSummary struct {
	ChangedFields []string // Field paths that changed, e.g. App.HTTP.Retries
	Report        string   // Human-readable diff (-old +new)
}

// Changed reports whether any field differs.
func (s ChangeSummary) Changed() bool {
	return len(s.ChangedFields) > 0
}

var diffOptions = cmp.Options{
	cmpopts.EquateEmpty(),
}

// Diff compares two configurations. Nil and empty lists or maps compare equal.
func Diff(old, next *Config) ChangeSummary {
	a, b := old.Document(), next.Document()

	var r pathReporter
	cmp.Equal(a, b, diffOptions, cmp.Reporter(&r))

	return ChangeSummary{
		ChangedFields: lo.Uniq(r.changes),
		Report:        cmp.Diff(a, b, diffOptions),
	}
}

// pathReporter collects the paths of unequal leaves.
type pathReporter struct {
	path    cmp.Path
	changes []string
}

func (r *pathReporter) PushStep(ps cmp.PathStep) {
	r.path = append(r.path, ps)
}

func (r *pathReporter) Report(rs cmp.Result) {
	if !rs.Equal() {
		r.changes = append(r.changes, formatPath(r.path))
	}
}

func (r *pathReporter) PopStep() {
	r.path = r.path[:len(r.path)-1]
}

// formatPath renders struct fields and map keys; list changes are reported
// at the list.
func formatPath(p cmp.Path) string {
	var b strings.Builder
	for _, step := range p {
		switch s := step.(type) {
		case cmp.StructField:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(s.Name())
		case cmp.MapIndex:
			fmt.Fprintf(&b, "[%v]", s.Key())
		case cmp.SliceIndex:
			return b.String()
		}
	}
	return b.String()
}
