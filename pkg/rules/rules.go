// Package rules holds per-pattern post-processing hooks.
//
// A [Rule] augments a freshly spliced [rewrite.CycleInstance]: it may tag
// rooms (a key, a hint, a danger marker) and attach gates to edges. Rules are
// small strategy objects keyed by [template.CycleType]; the generator looks
// them up in a [Registry] after every splice and never knows what they do.
//
// Rules must only touch the rooms and edges of the instance they are handed,
// plus the two boundary edges of its attachment. The registry does not
// enforce this.
package rules

import (
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/cyclegen/pkg/dungeon"
	"github.com/matzehuels/cyclegen/pkg/rewrite"
	"github.com/matzehuels/cyclegen/pkg/template"
)

// Rule post-processes instances of one pattern type.
type Rule interface {
	// Type returns the pattern type the rule applies to.
	Type() template.CycleType

	// Apply augments inst, which has just been stamped into g. alloc is the
	// run's allocator; keys and gates must come from it.
	Apply(inst *rewrite.CycleInstance, g *dungeon.Graph, alloc *dungeon.Allocator) error
}

// Func adapts a plain function to the Rule interface.
type Func struct {
	T  template.CycleType
	Fn func(inst *rewrite.CycleInstance, g *dungeon.Graph, alloc *dungeon.Allocator) error
}

// Type implements Rule.
func (f Func) Type() template.CycleType { return f.T }

// Apply implements Rule.
func (f Func) Apply(inst *rewrite.CycleInstance, g *dungeon.Graph, alloc *dungeon.Allocator) error {
	return f.Fn(inst, g, alloc)
}

// Registry maps pattern types to rules. At most one rule is kept per type;
// registering another replaces it.
type Registry struct {
	rules map[template.CycleType]Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[template.CycleType]Rule)}
}

// Register stores r under r.Type().
func (r *Registry) Register(rule Rule) {
	r.rules[rule.Type()] = rule
}

// Unregister drops the rule for t, if any.
func (r *Registry) Unregister(t template.CycleType) {
	delete(r.rules, t)
}

// Lookup returns the rule registered for t.
func (r *Registry) Lookup(t template.CycleType) (Rule, bool) {
	if r == nil {
		return nil, false
	}
	rule, ok := r.rules[t]
	return rule, ok
}

// Apply runs the rule registered for t against inst. It is a no-op when no
// rule is registered, including on a nil registry.
func (r *Registry) Apply(t template.CycleType, inst *rewrite.CycleInstance, g *dungeon.Graph, alloc *dungeon.Allocator) error {
	rule, ok := r.Lookup(t)
	if !ok {
		return nil
	}
	if err := rule.Apply(inst, g, alloc); err != nil {
		return fmt.Errorf("rule %s: %w", t, err)
	}
	return nil
}

// Types returns the pattern types that have a rule, sorted.
func (r *Registry) Types() []template.CycleType {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.rules))
}
