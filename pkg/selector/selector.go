// Package selector decides which pattern type to stamp at the root of a run
// and at every expanded insertion point.
//
// Selectors draw from the run's single seeded random source. For a fixed
// seed and a fixed sequence of calls they must answer the same way, so a
// selector must not keep its own randomness or depend on map iteration
// order.
package selector

import (
	"math/rand/v2"

	"github.com/matzehuels/cyclegen/pkg/template"
)

// Selector picks pattern types.
type Selector interface {
	// SelectOverall picks the root pattern. It is called once per run.
	SelectOverall(rng *rand.Rand) template.CycleType

	// SelectSub picks the pattern for an insertion point at depth.
	SelectSub(rng *rand.Rand, depth int) template.CycleType
}

// Default draws uniformly from a fixed, sorted list of types.
type Default struct {
	types []template.CycleType
}

// NewDefault returns a selector drawing from everything lib has registered.
// The list is captured now; later registrations are not seen.
func NewDefault(lib template.Library) *Default {
	return &Default{types: lib.Types()}
}

// FromTypes returns a selector drawing from types, in the given order.
func FromTypes(types ...template.CycleType) *Default {
	return &Default{types: append([]template.CycleType(nil), types...)}
}

// Types returns the candidate list.
func (d *Default) Types() []template.CycleType {
	return append([]template.CycleType(nil), d.types...)
}

// SelectOverall implements Selector. It returns "" when there are no
// candidates; the library lookup then fails with a configuration error.
func (d *Default) SelectOverall(rng *rand.Rand) template.CycleType {
	return d.pick(rng)
}

// SelectSub implements Selector. Depth is ignored.
func (d *Default) SelectSub(rng *rand.Rand, _ int) template.CycleType {
	return d.pick(rng)
}

func (d *Default) pick(rng *rand.Rand) template.CycleType {
	if len(d.types) == 0 {
		return ""
	}
	return d.types[rng.IntN(len(d.types))]
}

// Forced pins the root pattern and delegates sub-selection.
type Forced struct {
	Overall template.CycleType
	Inner   Selector
}

// NewForced returns a selector answering t at the root and asking inner for
// every nested insertion.
func NewForced(t template.CycleType, inner Selector) *Forced {
	return &Forced{Overall: t, Inner: inner}
}

// SelectOverall implements Selector. It does not consume randomness.
func (f *Forced) SelectOverall(*rand.Rand) template.CycleType { return f.Overall }

// SelectSub implements Selector.
func (f *Forced) SelectSub(rng *rand.Rand, depth int) template.CycleType {
	return f.Inner.SelectSub(rng, depth)
}

// Fixed always answers the same type and never consumes randomness.
type Fixed template.CycleType

// SelectOverall implements Selector.
func (f Fixed) SelectOverall(*rand.Rand) template.CycleType { return template.CycleType(f) }

// SelectSub implements Selector.
func (f Fixed) SelectSub(*rand.Rand, int) template.CycleType { return template.CycleType(f) }

var (
	_ Selector = (*Default)(nil)
	_ Selector = (*Forced)(nil)
	_ Selector = Fixed("")
)
