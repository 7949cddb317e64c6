// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect defines the boundary between per-source collectors
// and the linking core. Collectors produce normalized Records; the
// registry dispatches to them by source name. Source-specific HTTP
// collectors live outside this repository; the file collector lets the
// CLI consume their exported batches.
package collect

import (
	"context"
	"fmt"
	"sort"

	"github.com/pdiddy/story-linker/pkg/types"
)

// Collector produces a batch of normalized records for one source.
// Implementations must canonicalize URLs (tracking parameters stripped,
// scheme and host lower-cased) before handing records over: the linking
// core does not re-canonicalize.
type Collector interface {
	// Source returns the collector's source identifier.
	Source() string

	// Collect returns the source's current record batch.
	Collect(ctx context.Context) ([]types.Record, error)
}

// Registry holds collectors keyed by source name. Built once at
// startup; lookups after that are read-only.
type Registry struct {
	collectors map[string]Collector
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{collectors: make(map[string]Collector)}
}

// Register adds a collector. Registering the same source twice is a
// wiring bug and fails.
func (r *Registry) Register(c Collector) error {
	name := c.Source()
	if name == "" {
		return fmt.Errorf("collector has empty source name")
	}
	if _, exists := r.collectors[name]; exists {
		return fmt.Errorf("collector %q already registered", name)
	}
	r.collectors[name] = c
	return nil
}

// Lookup returns the collector for a source.
func (r *Registry) Lookup(source string) (Collector, error) {
	c, ok := r.collectors[source]
	if !ok {
		return nil, fmt.Errorf("no collector registered for source %q", source)
	}
	return c, nil
}

// Sources lists the registered source names, sorted.
func (r *Registry) Sources() []string {
	names := make([]string, 0, len(r.collectors))
	for name := range r.collectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
