package registry

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/specialistvlad/cyclesim/internal/primitive"
)

// Module is the interface that all primitive libraries must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds all the registered primitive factories for a single
// application instance.
type Registry struct {
	factories map[string]primitive.Factory
}

// New creates a registry and registers every given module into it.
func New(modules ...Module) *Registry {
	r := &Registry{factories: make(map[string]primitive.Factory)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// RegisterPrimitive registers a factory under a prototype name.
func (r *Registry) RegisterPrimitive(name string, f primitive.Factory) {
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("primitive with name '%s' already registered", name))
	}
	slog.Debug("Registering primitive.", "name", name)
	r.factories[name] = f
}

// Has reports whether a prototype name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered prototype names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Instantiate builds a primitive and validates its signature.
func (r *Registry) Instantiate(name string, params primitive.Params) (primitive.Primitive, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown primitive '%s'", name)
	}
	p, err := f(params)
	if err != nil {
		return nil, fmt.Errorf("primitive '%s': %w", name, err)
	}
	if err := validateSignature(p.Signature()); err != nil {
		return nil, fmt.Errorf("primitive '%s' violates the primitive contract: %w", name, err)
	}
	return p, nil
}
