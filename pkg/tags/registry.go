package tags

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Registry stores plugins by namespace, providing discovery and duplication
// safeguards.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewRegistry creates a registry holding the given plugins. It panics on a
// duplicate or unnamed plugin; use Register for error handling.
func NewRegistry(plugins ...Plugin) *Registry {
	r := &Registry{
		plugins: make(map[string]Plugin),
	}
	for _, plugin := range plugins {
		r.MustRegister(plugin)
	}
	return r
}

// Register adds a plugin by its Namespace(). Duplicate namespaces return an error.
func (r *Registry) Register(plugin Plugin) error {
	if plugin == nil {
		return fmt.Errorf("tags: plugin is required")
	}
	namespace := plugin.Namespace()
	if namespace == "" {
		return fmt.Errorf("tags: plugin namespace is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.plugins == nil {
		r.plugins = make(map[string]Plugin)
	}
	if _, exists := r.plugins[namespace]; exists {
		return fmt.Errorf("tags: plugin %q already registered", namespace)
	}

	r.plugins[namespace] = plugin
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(plugin Plugin) {
	if err := r.Register(plugin); err != nil {
		panic(err)
	}
}

// Get retrieves a plugin by namespace.
func (r *Registry) Get(namespace string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plugin, ok := r.plugins[namespace]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNamespace, namespace)
	}
	return plugin, nil
}

// Has reports whether a namespace is registered. It satisfies NamespaceFunc.
func (r *Registry) Has(namespace string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.plugins[namespace]
	return ok
}

// List returns a sorted list of registered namespaces.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch routes inv to the plugin owning its namespace.
func (r *Registry) Dispatch(ctx context.Context, inv *Invocation) (any, error) {
	plugin, err := r.Get(inv.Namespace)
	if err != nil {
		return nil, err
	}
	return plugin.Methods().Dispatch(ctx, inv)
}
