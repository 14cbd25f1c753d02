package selector

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/cyclegen/pkg/dungeon"
	"github.com/matzehuels/cyclegen/pkg/template"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

func registry(types ...template.CycleType) *template.Registry {
	r := template.NewRegistry()
	for _, typ := range types {
		b := template.NewBuilder(typ)
		s := b.AddNode(dungeon.KindStart, "")
		g := b.AddNode(dungeon.KindGoal, "")
		e := b.AddEdge(s, g, dungeon.TraversalNormal)
		r.Register(b.MustBuild(s, g, []template.TEdgeID{e}, []template.TEdgeID{e}))
	}
	return r
}

func TestDefault_DrawsOnlyRegisteredTypes(t *testing.T) {
	sel := NewDefault(registry(template.LockAndKey, template.TwoKeys))
	rng := newRNG(7)

	seen := make(map[template.CycleType]int)
	for i := 0; i < 200; i++ {
		seen[sel.SelectSub(rng, i%4)]++
	}
	if len(seen) != 2 || seen[template.LockAndKey] == 0 || seen[template.TwoKeys] == 0 {
		t.Errorf("SelectSub() distribution = %v, want both registered types", seen)
	}
	if got := sel.Types(); !slices.Equal(got, []template.CycleType{template.LockAndKey, template.TwoKeys}) {
		t.Errorf("Types() = %v", got)
	}
}

func TestDefault_Deterministic(t *testing.T) {
	sel := FromTypes(template.TwoAlternativePaths, template.LockAndKey, template.HiddenShortcut)
	draw := func() []template.CycleType {
		rng := newRNG(42)
		out := []template.CycleType{sel.SelectOverall(rng)}
		for d := 0; d < 20; d++ {
			out = append(out, sel.SelectSub(rng, d))
		}
		return out
	}
	if a, b := draw(), draw(); !slices.Equal(a, b) {
		t.Errorf("same seed produced %v and %v", a, b)
	}
}

func TestDefault_Empty(t *testing.T) {
	sel := NewDefault(template.NewRegistry())
	if got := sel.SelectOverall(newRNG(1)); got != "" {
		t.Errorf("SelectOverall() = %q, want empty", got)
	}
}

func TestForced(t *testing.T) {
	sel := NewForced(template.TwoKeys, Fixed(template.DangerousRoute))
	rng := newRNG(3)
	if got := sel.SelectOverall(rng); got != template.TwoKeys {
		t.Errorf("SelectOverall() = %v, want %v", got, template.TwoKeys)
	}
	if got := sel.SelectSub(rng, 2); got != template.DangerousRoute {
		t.Errorf("SelectSub() = %v, want %v", got, template.DangerousRoute)
	}
}

func TestForced_DoesNotConsumeRandomness(t *testing.T) {
	inner := FromTypes(template.TwoAlternativePaths, template.LockAndKey, template.TwoKeys)

	a, b := newRNG(11), newRNG(11)
	NewForced(template.Gambit, inner).SelectOverall(a)
	if a.Uint64() != b.Uint64() {
		t.Error("Forced.SelectOverall() consumed randomness")
	}
}

func TestFixed(t *testing.T) {
	sel := Fixed(template.BlockedRetreat)
	if sel.SelectOverall(nil) != template.BlockedRetreat || sel.SelectSub(nil, 5) != template.BlockedRetreat {
		t.Error("Fixed did not return its type")
	}
}
