// Package registry maps model identifiers to their implementations.
//
// A Registry is an explicit value owned by the caller: it is constructed
// once at startup and passed by reference into the scenario runner and
// validation harness. There is no package-level instance and importing
// this package registers nothing.
package registry

import (
	"fmt"

	"github.com/san-kum/vehlab/internal/models"
	"github.com/san-kum/vehlab/internal/vdyn"
)

type Registry struct {
	order []string
	byID  map[string]vdyn.Model
}

func New() *Registry {
	return &Registry{
		byID: make(map[string]vdyn.Model),
	}
}

// Register adds a model under its own id. Re-registering an id replaces
// the implementation but keeps its original position in List.
func (r *Registry) Register(m vdyn.Model) {
	id := m.ID()
	if _, exists := r.byID[id]; !exists {
		r.order = append(r.order, id)
	}
	r.byID[id] = m
}

// Get looks up a model by id. A miss is recoverable: the caller gets
// vdyn.ErrUnknownModel and decides whether to fall back.
func (r *Registry) Get(id string) (vdyn.Model, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", vdyn.ErrUnknownModel, id)
	}
	return m, nil
}

// List returns model ids in registration order.
func (r *Registry) List() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Default builds a fresh registry holding the standard models. Each call
// returns an independent value.
func Default() *Registry {
	r := New()
	r.Register(models.NewUnicycle())
	r.Register(models.NewBicycle())
	return r
}
