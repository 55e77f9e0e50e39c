package retrieval

import (
	"context"
	"fmt"
	"strings"
)

// Registry holds all registered backend adapters, keyed by capability
// name. Bindings are declared at startup and never change afterwards.
type Registry struct {
	adapters map[string]Adapter
	order    []string
}

// NewRegistry creates a new backend registry
func NewRegistry() *Registry {
	return &Registry{
		adapters: map[string]Adapter{},
	}
}

// Register adds an adapter to the registry
func (r *Registry) Register(a Adapter) {
	name := a.Backend().Name
	if _, exists := r.adapters[name]; !exists {
		r.order = append(r.order, name)
	}
	r.adapters[name] = a
}

// Get returns the adapter registered under name
func (r *Registry) Get(name string) (Adapter, bool) {
	a, ok := r.adapters[name]
	return a, ok
}

// Names returns capability names in registration order
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Count returns the number of registered adapters
func (r *Registry) Count() int {
	return len(r.adapters)
}

// Retrieve dispatches a query to the named capability. The returned
// error covers caller mistakes only (empty query, unknown name);
// backend faults come back inside the evidence string so one flaky
// backend never aborts a research session.
func (r *Registry) Retrieve(ctx context.Context, name, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("query must not be empty")
	}
	a, ok := r.adapters[name]
	if !ok {
		return "", fmt.Errorf("unknown backend %q", name)
	}
	return a.Retrieve(ctx, query), nil
}
