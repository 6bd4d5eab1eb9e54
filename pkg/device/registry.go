package device

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a device instance from an ID and a free-form config map.
type Factory func(id string, cfg map[string]interface{}) (Device, error)

// Registry maps module names to factories. Modules register at startup;
// there is no runtime code loading.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under a module name. Registering the same name
// twice replaces the previous factory.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Create instantiates a device from a registered module.
func (r *Registry) Create(name, id string, cfg map[string]interface{}) (Device, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("device: unknown module %q", name)
	}
	return f(id, cfg)
}

// Names returns the registered module names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
