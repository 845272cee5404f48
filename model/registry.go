package model

import (
	"fmt"
	"sort"
	"sync"
)

// Registry owns one Model per name. It replaces per-type lazy singletons and
// is meant to live in the application's composition root.
type Registry struct {
	mu     sync.RWMutex
	models map[string]*Model
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]*Model)}
}

// Instance returns the Model registered under name, constructing it from
// opts on first use. Later calls ignore opts.
func (r *Registry) Instance(name string, opts Options) (*Model, error) {
	r.mu.RLock()
	m, ok := r.models[name]
	r.mu.RUnlock()
	if ok {
		return m, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.models[name]; ok {
		return m, nil
	}

	m, err := New(opts)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", name, err)
	}
	r.models[name] = m
	return m, nil
}

// Get returns the Model registered under name.
func (r *Registry) Get(name string) (*Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[name]
	return m, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
