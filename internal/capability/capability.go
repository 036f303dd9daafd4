// SPDX-License-Identifier: MIT

// Package capability resolves the module, plugin and middleware names an
// application configuration refers to. The capabilities themselves live
// outside this process; the registry only knows that they exist and how
// they may be used.
package capability

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
)

// Kind says where a capability may be referenced from.
type Kind string

const (
	KindBuildModule Kind = "buildModule"
	KindModule      Kind = "module"
	KindPlugin      Kind = "plugin"
	KindMiddleware  Kind = "middleware"
)

// Kinds lists every capability kind.
var Kinds = []Kind{KindBuildModule, KindModule, KindPlugin, KindMiddleware}

var (
	// ErrUnknownCapability is returned when a name is not registered.
	ErrUnknownCapability = errors.New("unknown capability")
	// ErrKindMismatch is returned when a name is registered under another kind.
	ErrKindMismatch = errors.New("capability kind mismatch")
	// ErrDuplicateCapability is returned by Register for an existing name.
	ErrDuplicateCapability = errors.New("duplicate capability")
)

// Capability describes an externally provided collaborator.
type Capability struct {
	Name        string `json:"name"`
	Kind        Kind   `json:"kind"`
	Description string `json:"description,omitempty"`
	DocsURL     string `json:"docsUrl,omitempty"`
}

// Registry is a concurrency-safe name table.
type Registry struct {
	mu    sync.RWMutex
	items map[string]Capability
}

// NewRegistry returns a registry holding caps. It panics on duplicates,
// which only compiled-in tables pass.
func NewRegistry(caps ...Capability) *Registry {
	r := &Registry{items: make(map[string]Capability, len(caps))}
	for _, c := range caps {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
	return r
}

// Default returns the registry of capabilities the yektour front-end ships with.
func Default() *Registry {
	return NewRegistry(
		Capability{
			Name:        "@nuxtjs/eslint-module",
			Kind:        KindBuildModule,
			Description: "lints sources during development builds",
			DocsURL:     "https://github.com/nuxt-community/eslint-module",
		},
		Capability{
			Name:        "@nuxtjs/stylelint-module",
			Kind:        KindBuildModule,
			Description: "lints stylesheets during development builds",
			DocsURL:     "https://github.com/nuxt-community/stylelint-module",
		},
		Capability{
			Name:        "@nuxtjs/vuetify",
			Kind:        KindBuildModule,
			Description: "material component framework; applies the theme options",
			DocsURL:     "https://github.com/nuxt-community/vuetify-module",
		},
		Capability{
			Name:        "@nuxtjs/moment",
			Kind:        KindBuildModule,
			Description: "date formatting with locale data",
			DocsURL:     "https://github.com/nuxt-community/moment-module",
		},
		Capability{
			Name:        "@nuxtjs/axios",
			Kind:        KindModule,
			Description: "axios HTTP client integration",
			DocsURL:     "https://axios.nuxtjs.org",
		},
		Capability{
			Name:        "@nuxtjs/pwa",
			Kind:        KindModule,
			Description: "progressive web app manifest and service worker",
			DocsURL:     "https://pwa.nuxtjs.org",
		},
		Capability{
			Name:        "autoLogin",
			Kind:        KindMiddleware,
			Description: "restores the user session before each route",
		},
	)
}

// Register adds c. Names are unique across kinds.
func (r *Registry) Register(c Capability) error {
	if c.Name == "" {
		return fmt.Errorf("capability name cannot be empty")
	}
	if !lo.Contains(Kinds, c.Kind) {
		return fmt.Errorf("capability %q: invalid kind %q", c.Name, c.Kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[c.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCapability, c.Name)
	}
	r.items[c.Name] = c
	return nil
}

// Lookup returns the capability registered under name.
func (r *Registry) Lookup(name string) (Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[name]
	return c, ok
}

// Resolve returns the capability for name, requiring it to be of kind.
func (r *Registry) Resolve(kind Kind, name string) (Capability, error) {
	c, ok := r.Lookup(name)
	if !ok {
		return Capability{}, fmt.Errorf("%w: %s %q", ErrUnknownCapability, kind, name)
	}
	if c.Kind != kind {
		return Capability{}, fmt.Errorf("%w: %q is a %s, not a %s", ErrKindMismatch, name, c.Kind, kind)
	}
	return c, nil
}

// Names returns the sorted names registered under kind, or every name
// when kind is empty.
func (r *Registry) Names(kind Kind) []string {
	return lo.Map(r.List(kind), func(c Capability, _ int) string { return c.Name })
}

// List returns the capabilities registered under kind (all when empty), sorted by name.
func (r *Registry) List(kind Kind) []Capability {
	r.mu.RLock()
	all := lo.Values(r.items)
	r.mu.RUnlock()

	out := lo.Filter(all, func(c Capability, _ int) bool {
		return kind == "" || c.Kind == kind
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
