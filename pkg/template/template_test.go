package template

import (
	"testing"

	"github.com/matzehuels/cyclegen/pkg/dungeon"
	errs "github.com/matzehuels/cyclegen/pkg/errors"
)

// diamond builds start -> a -> goal, start -> b -> goal with one seam.
func diamond(t *testing.T, typ CycleType) *CycleTemplate {
	t.Helper()
	b := NewBuilder(typ)
	s := b.AddNode(dungeon.KindStart, "start")
	g := b.AddNode(dungeon.KindGoal, "goal")
	x := b.AddNode(dungeon.KindNormal, "a")
	y := b.AddNode(dungeon.KindNormal, "b")
	sx := b.AddEdge(s, x, dungeon.TraversalNormal)
	xg := b.AddEdge(x, g, dungeon.TraversalNormal)
	sy := b.AddEdge(s, y, dungeon.TraversalNormal)
	yg := b.AddEdge(y, g, dungeon.TraversalOneWay)
	b.AddInsertion(sx)
	tmpl, err := b.Build(s, g, []TEdgeID{sx, xg}, []TEdgeID{sy, yg})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return tmpl
}

func TestBuilder_LocalIDsStartAtOne(t *testing.T) {
	b := NewBuilder(TwoAlternativePaths)
	if id := b.AddNode(dungeon.KindStart, ""); id != 1 {
		t.Errorf("first AddNode() = %d, want 1", id)
	}
	if id := b.AddNode(dungeon.KindGoal, ""); id != 2 {
		t.Errorf("second AddNode() = %d, want 2", id)
	}
	if id := b.AddEdge(1, 2, dungeon.TraversalNormal); id != 1 {
		t.Errorf("first AddEdge() = %d, want 1", id)
	}
	if id := b.AddInsertion(1); id != 1 {
		t.Errorf("first AddInsertion() = %d, want 1", id)
	}

	// A second builder has its own namespace.
	if id := NewBuilder(LockAndKey).AddNode(dungeon.KindStart, ""); id != 1 {
		t.Errorf("new builder AddNode() = %d, want 1", id)
	}
}

func TestBuild(t *testing.T) {
	tmpl := diamond(t, TwoAlternativePaths)

	if tmpl.Type() != TwoAlternativePaths {
		t.Errorf("Type() = %v, want %v", tmpl.Type(), TwoAlternativePaths)
	}
	if tmpl.NodeCount() != 4 || tmpl.EdgeCount() != 4 {
		t.Errorf("counts = %d/%d, want 4/4", tmpl.NodeCount(), tmpl.EdgeCount())
	}
	if len(tmpl.Insertions()) != 1 {
		t.Errorf("len(Insertions()) = %d, want 1", len(tmpl.Insertions()))
	}
	if err := tmpl.CheckArcs(); err != nil {
		t.Errorf("CheckArcs() = %v", err)
	}
	e, ok := tmpl.Edge(4)
	if !ok || e.Traversal != dungeon.TraversalOneWay {
		t.Errorf("Edge(4) = %+v, %v; want one-way edge", e, ok)
	}
	n, ok := tmpl.NodeByLabel("b")
	if !ok || n.ID != 4 {
		t.Errorf("NodeByLabel(b) = %+v, %v", n, ok)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder) error
	}{
		{"unknown start", func(b *Builder) error {
			g := b.AddNode(dungeon.KindGoal, "")
			_, err := b.Build(9, g, nil, nil)
			return err
		}},
		{"unknown goal", func(b *Builder) error {
			s := b.AddNode(dungeon.KindStart, "")
			_, err := b.Build(s, 9, nil, nil)
			return err
		}},
		{"dangling edge", func(b *Builder) error {
			s := b.AddNode(dungeon.KindStart, "")
			g := b.AddNode(dungeon.KindGoal, "")
			e := b.AddEdge(s, 7, dungeon.TraversalNormal)
			_, err := b.Build(s, g, []TEdgeID{e}, nil)
			return err
		}},
		{"unknown arc edge", func(b *Builder) error {
			s := b.AddNode(dungeon.KindStart, "")
			g := b.AddNode(dungeon.KindGoal, "")
			_, err := b.Build(s, g, []TEdgeID{3}, nil)
			return err
		}},
		{"unknown seam", func(b *Builder) error {
			s := b.AddNode(dungeon.KindStart, "")
			g := b.AddNode(dungeon.KindGoal, "")
			b.AddInsertion(5)
			_, err := b.Build(s, g, nil, nil)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build(NewBuilder(Gambit))
			if !errs.Is(err, errs.ErrCodeInvalidTemplate) {
				t.Errorf("Build() error = %v, want code %v", err, errs.ErrCodeInvalidTemplate)
			}
		})
	}
}

func TestMustBuild_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustBuild() did not panic on invalid template")
		}
	}()
	NewBuilder(Gambit).MustBuild(1, 2, nil, nil)
}

func TestTemplateIsImmutable(t *testing.T) {
	tmpl := diamond(t, TwoAlternativePaths)

	arc := tmpl.ArcA()
	arc[0] = 99
	nodes := tmpl.Nodes()
	nodes[0].Label = "changed"

	if tmpl.ArcA()[0] == 99 {
		t.Error("ArcA() exposes internal slice")
	}
	if n, _ := tmpl.Node(1); n.Label != "start" {
		t.Error("Nodes() exposes internal slice")
	}
}

func TestCheckArcs(t *testing.T) {
	b := NewBuilder(Gambit)
	s := b.AddNode(dungeon.KindStart, "")
	g := b.AddNode(dungeon.KindGoal, "")
	m := b.AddNode(dungeon.KindNormal, "")
	sm := b.AddEdge(s, m, dungeon.TraversalNormal)
	mg := b.AddEdge(m, g, dungeon.TraversalNormal)
	sg := b.AddEdge(s, g, dungeon.TraversalNormal)

	tests := []struct {
		name    string
		arcA    []TEdgeID
		arcB    []TEdgeID
		wantErr bool
	}{
		{"valid", []TEdgeID{sm, mg}, []TEdgeID{sg}, false},
		{"empty arc", []TEdgeID{sm, mg}, nil, true},
		{"broken path", []TEdgeID{mg, sm}, []TEdgeID{sg}, true},
		{"stops short", []TEdgeID{sm}, []TEdgeID{sg}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := b.MustBuild(s, g, tt.arcA, tt.arcB)
			if err := tmpl.CheckArcs(); (err != nil) != tt.wantErr {
				t.Errorf("CheckArcs() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckKinds(t *testing.T) {
	tests := []struct {
		name    string
		kinds   [3]dungeon.NodeKind
		wantErr bool
	}{
		{"valid", [3]dungeon.NodeKind{dungeon.KindStart, dungeon.KindGoal, dungeon.KindNormal}, false},
		{"second start", [3]dungeon.NodeKind{dungeon.KindStart, dungeon.KindGoal, dungeon.KindStart}, true},
		{"second goal", [3]dungeon.NodeKind{dungeon.KindStart, dungeon.KindGoal, dungeon.KindGoal}, true},
		{"normal start", [3]dungeon.NodeKind{dungeon.KindNormal, dungeon.KindGoal, dungeon.KindNormal}, true},
		{"normal goal", [3]dungeon.NodeKind{dungeon.KindStart, dungeon.KindNormal, dungeon.KindNormal}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(Gambit)
			s := b.AddNode(tt.kinds[0], "")
			g := b.AddNode(tt.kinds[1], "")
			m := b.AddNode(tt.kinds[2], "")
			sm := b.AddEdge(s, m, dungeon.TraversalNormal)
			mg := b.AddEdge(m, g, dungeon.TraversalNormal)
			sg := b.AddEdge(s, g, dungeon.TraversalNormal)
			tmpl := b.MustBuild(s, g, []TEdgeID{sm, mg}, []TEdgeID{sg})
			if err := tmpl.CheckKinds(); (err != nil) != tt.wantErr {
				t.Errorf("CheckKinds() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get(TwoAlternativePaths); !errs.Is(err, errs.ErrCodeTemplateNotFound) {
		t.Fatalf("Get() on empty registry error = %v, want %v", err, errs.ErrCodeTemplateNotFound)
	}

	first := diamond(t, TwoAlternativePaths)
	r.Register(first)
	r.Register(diamond(t, LockAndKey))

	got, err := r.Get(TwoAlternativePaths)
	if err != nil || got != first {
		t.Errorf("Get() = %p, %v; want %p", got, err, first)
	}

	override := diamond(t, TwoAlternativePaths)
	r.Register(override)
	if got, _ := r.Get(TwoAlternativePaths); got != override {
		t.Error("Register() did not replace earlier template")
	}

	types := r.Types()
	want := []CycleType{LockAndKey, TwoAlternativePaths}
	if len(types) != len(want) || types[0] != want[0] || types[1] != want[1] {
		t.Errorf("Types() = %v, want %v", types, want)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}
