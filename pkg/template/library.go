package template

import (
	"maps"
	"slices"

	errs "github.com/matzehuels/cyclegen/pkg/errors"
)

// Library resolves pattern types to templates.
type Library interface {
	// Get returns the template registered for t, or an error with code
	// ErrCodeTemplateNotFound.
	Get(t CycleType) (*CycleTemplate, error)

	// Types returns every registered type in sorted order.
	Types() []CycleType
}

// Registry is the default Library: a map from pattern type to template,
// populated once before generation starts.
//
// Registry is not safe for concurrent registration; concurrent Get calls on
// a fully populated registry are fine.
type Registry struct {
	templates map[CycleType]*CycleTemplate
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[CycleType]*CycleTemplate)}
}

// Register stores t under its type. A later registration for the same type
// replaces the earlier one, which lets tests override built-in patterns.
func (r *Registry) Register(t *CycleTemplate) {
	r.templates[t.Type()] = t
}

// Get implements Library.
func (r *Registry) Get(t CycleType) (*CycleTemplate, error) {
	tmpl, ok := r.templates[t]
	if !ok {
		return nil, errs.New(errs.ErrCodeTemplateNotFound, "no template registered for cycle type %q", t)
	}
	return tmpl, nil
}

// Types implements Library.
func (r *Registry) Types() []CycleType {
	return slices.Sorted(maps.Keys(r.templates))
}

// Len returns the number of registered templates.
func (r *Registry) Len() int { return len(r.templates) }

var _ Library = (*Registry)(nil)
