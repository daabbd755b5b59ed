package backend

import (
	"fmt"

	"github.com/robert-malhotra/eo-search/internal/imagery"
)

// Registry is the sealed set of adapters built at startup.
type Registry struct {
	adapters map[imagery.ProviderID]Adapter
	order    []imagery.ProviderID
}

// NewRegistry creates a registry from adapters, keeping their order.
func NewRegistry(adapters ...Adapter) (*Registry, error) {
	r := &Registry{adapters: make(map[imagery.ProviderID]Adapter, len(adapters))}
	for _, a := range adapters {
		if a == nil {
			return nil, fmt.Errorf("cannot register nil adapter")
		}
		id := a.ID()
		if _, exists := r.adapters[id]; exists {
			return nil, fmt.Errorf("adapter for provider %q already registered", id)
		}
		r.adapters[id] = a
		r.order = append(r.order, id)
	}
	return r, nil
}

// Get returns the adapter of a provider.
func (r *Registry) Get(id imagery.ProviderID) (Adapter, bool) {
	a, ok := r.adapters[id]
	return a, ok
}

// IDs returns the registered providers in registration order.
func (r *Registry) IDs() []imagery.ProviderID {
	out := make([]imagery.ProviderID, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered adapters.
func (r *Registry) Len() int {
	return len(r.order)
}
