package rewrite

import (
	"reflect"
	"testing"

	"github.com/matzehuels/cyclegen/pkg/dungeon"
	errs "github.com/matzehuels/cyclegen/pkg/errors"
	"github.com/matzehuels/cyclegen/pkg/template"
)

// loop builds start -> a -> goal, start -> b -> goal with seams on
// start->a and b->goal.
func loop(t *testing.T, typ template.CycleType) *template.CycleTemplate {
	t.Helper()
	b := template.NewBuilder(typ)
	s := b.AddNode(dungeon.KindStart, "start")
	g := b.AddNode(dungeon.KindGoal, "goal")
	x := b.AddNode(dungeon.KindNormal, "a")
	y := b.AddNode(dungeon.KindNormal, "b")
	sx := b.AddEdge(s, x, dungeon.TraversalNormal)
	xg := b.AddEdge(x, g, dungeon.TraversalNormal)
	sy := b.AddEdge(s, y, dungeon.TraversalNormal)
	yg := b.AddEdge(y, g, dungeon.TraversalNormal)
	b.AddInsertion(sx)
	b.AddInsertion(yg)
	tmpl, err := b.Build(s, g, []template.TEdgeID{sx, xg}, []template.TEdgeID{sy, yg})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return tmpl
}

func newEngine() *Engine { return New(dungeon.New(), dungeon.NewAllocator()) }

func TestInstantiate(t *testing.T) {
	eng := newEngine()
	tmpl := loop(t, template.TwoAlternativePaths)

	inst, err := eng.Instantiate(tmpl, 0)
	if err != nil {
		t.Fatalf("Instantiate() error: %v", err)
	}

	if got := eng.Graph().NodeCount(); got != 4 {
		t.Errorf("NodeCount() = %d, want 4", got)
	}
	if got := eng.Graph().EdgeCount(); got != 4 {
		t.Errorf("EdgeCount() = %d, want 4", got)
	}
	if inst.Entry != 1 || inst.Exit != 2 {
		t.Errorf("Entry/Exit = %v/%v, want n1/n2", inst.Entry, inst.Exit)
	}
	if len(inst.Insertions) != 2 {
		t.Fatalf("len(Insertions) = %d, want 2", len(inst.Insertions))
	}
	for i, ip := range inst.Insertions {
		if ip.Depth != 0 {
			t.Errorf("Insertions[%d].Depth = %d, want 0", i, ip.Depth)
		}
		if _, ok := eng.Graph().Edge(ip.SeamEdge); !ok {
			t.Errorf("Insertions[%d].SeamEdge %v not in graph", i, ip.SeamEdge)
		}
	}
	if want := []dungeon.EdgeID{1, 2}; !reflect.DeepEqual(inst.ArcA, want) {
		t.Errorf("ArcA = %v, want %v", inst.ArcA, want)
	}
	if err := eng.Graph().Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestInstantiate_FreshIDsEveryTime(t *testing.T) {
	eng := newEngine()
	tmpl := loop(t, template.TwoAlternativePaths)

	first, _ := eng.Instantiate(tmpl, 0)
	second, err := eng.Instantiate(tmpl, 1)
	if err != nil {
		t.Fatalf("Instantiate() error: %v", err)
	}

	seen := make(map[dungeon.NodeID]bool)
	for _, id := range append(first.Nodes, second.Nodes...) {
		if seen[id] {
			t.Errorf("node %v allocated twice", id)
		}
		seen[id] = true
	}
	if first.Insertions[0].ID == second.Insertions[0].ID {
		t.Error("insertion ids reused across instances")
	}
	if second.Insertions[0].Depth != 1 {
		t.Errorf("Depth = %d, want 1", second.Insertions[0].Depth)
	}
}

func TestInstance_Lookups(t *testing.T) {
	eng := newEngine()
	tmpl := loop(t, template.TwoAlternativePaths)
	eng.Instantiate(tmpl, 0) // shift the id space
	inst, _ := eng.Instantiate(tmpl, 1)

	a, _ := tmpl.NodeByLabel("a")
	id, ok := inst.NodeFor(a.ID)
	if !ok {
		t.Fatal("NodeFor(a) not found")
	}
	n, _ := eng.Graph().Node(id)
	if n.Label != "a" {
		t.Errorf("NodeFor(a) label = %q, want a", n.Label)
	}
	if !inst.OwnsNode(id) {
		t.Error("OwnsNode() = false for own node")
	}
	if inst.OwnsNode(1) {
		t.Error("OwnsNode() = true for foreign node")
	}
	if _, ok := inst.NodeFor(99); ok {
		t.Error("NodeFor(99) found")
	}
	eid, ok := inst.EdgeFor(1)
	if !ok || !inst.OwnsEdge(eid) {
		t.Errorf("EdgeFor(1) = %v, %v", eid, ok)
	}
}

func TestSplice(t *testing.T) {
	eng := newEngine()
	root, _ := eng.Instantiate(loop(t, template.TwoAlternativePaths), 0)
	seam := root.Insertions[0].SeamEdge
	seamEdge, _ := eng.Graph().Edge(seam)
	a, b := seamEdge.From, seamEdge.To

	child, _ := eng.Instantiate(loop(t, template.LockAndKey), 1)
	att, err := eng.Splice(seam, child)
	if err != nil {
		t.Fatalf("Splice() error: %v", err)
	}

	if _, ok := eng.Graph().Edge(seam); ok {
		t.Error("seam edge still present after Splice()")
	}
	if att.From != a || att.To != b {
		t.Errorf("Attachment endpoints = %v->%v, want %v->%v", att.From, att.To, a, b)
	}
	entry, _ := eng.Graph().Edge(att.EntryEdge)
	if entry.From != a || entry.To != child.Entry {
		t.Errorf("entry edge = %v->%v, want %v->%v", entry.From, entry.To, a, child.Entry)
	}
	exit, _ := eng.Graph().Edge(att.ExitEdge)
	if exit.From != child.Exit || exit.To != b {
		t.Errorf("exit edge = %v->%v, want %v->%v", exit.From, exit.To, child.Exit, b)
	}
	for _, id := range []dungeon.NodeID{child.Entry, child.Exit} {
		if n, _ := eng.Graph().Node(id); n.Kind != dungeon.KindNormal {
			t.Errorf("spliced node %v kind = %v, want normal", id, n.Kind)
		}
	}
	if err := eng.Graph().Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestSplice_CarriesSeamGate(t *testing.T) {
	eng := newEngine()
	root, _ := eng.Instantiate(loop(t, template.TwoAlternativePaths), 0)
	seam := root.Insertions[0].SeamEdge

	e, _ := eng.Graph().Edge(seam)
	e.Traversal = dungeon.TraversalOneWay
	e.Gate = &dungeon.EdgeGate{ID: eng.Allocator().NewGate(), Kind: dungeon.GateLock, RequiredKey: eng.Allocator().NewKey()}

	child, _ := eng.Instantiate(loop(t, template.TwoAlternativePaths), 1)
	att, err := eng.Splice(seam, child)
	if err != nil {
		t.Fatalf("Splice() error: %v", err)
	}

	entry, _ := eng.Graph().Edge(att.EntryEdge)
	if entry.Traversal != dungeon.TraversalOneWay {
		t.Errorf("entry traversal = %v, want one_way", entry.Traversal)
	}
	if entry.Gate == nil || entry.Gate.RequiredKey != 1 || entry.Gate.ID != 1 {
		t.Errorf("entry gate = %+v, want seam gate", entry.Gate)
	}
	exit, _ := eng.Graph().Edge(att.ExitEdge)
	if exit.Gate != nil || exit.Traversal != dungeon.TraversalNormal {
		t.Errorf("exit edge = %+v, want plain edge", exit)
	}
}

// TestSplice_Locality checks that a splice leaves every pre-existing node
// and edge other than the seam exactly as it was.
func TestSplice_Locality(t *testing.T) {
	eng := newEngine()
	tmpl := loop(t, template.TwoAlternativePaths)
	root, _ := eng.Instantiate(tmpl, 0)

	// Grow the graph once so the splice target sits among nested rooms.
	first, _ := eng.Instantiate(tmpl, 1)
	if _, err := eng.Splice(root.Insertions[0].SeamEdge, first); err != nil {
		t.Fatalf("Splice() error: %v", err)
	}

	before := eng.Graph().Clone()
	seam := first.Insertions[1].SeamEdge

	second, _ := eng.Instantiate(tmpl, 2)
	if _, err := eng.Splice(seam, second); err != nil {
		t.Fatalf("Splice() error: %v", err)
	}

	for _, n := range before.Nodes() {
		got, ok := eng.Graph().Node(n.ID)
		if !ok {
			t.Errorf("node %v removed by splice", n.ID)
			continue
		}
		if !reflect.DeepEqual(got, n) {
			t.Errorf("node %v changed: %+v, want %+v", n.ID, got, n)
		}
	}
	for _, e := range before.Edges() {
		got, ok := eng.Graph().Edge(e.ID)
		if e.ID == seam {
			if ok {
				t.Errorf("seam %v still present", seam)
			}
			continue
		}
		if !ok {
			t.Errorf("edge %v removed by splice", e.ID)
			continue
		}
		if !reflect.DeepEqual(got, e) {
			t.Errorf("edge %v changed: %+v, want %+v", e.ID, got, e)
		}
	}
}

func TestSplice_Errors(t *testing.T) {
	eng := newEngine()
	root, _ := eng.Instantiate(loop(t, template.TwoAlternativePaths), 0)
	child, _ := eng.Instantiate(loop(t, template.TwoAlternativePaths), 1)
	edges := eng.Graph().EdgeCount()

	if _, err := eng.Splice(999, child); !errs.Is(err, errs.ErrCodeEdgeNotFound) {
		t.Errorf("Splice(missing seam) error = %v, want %v", err, errs.ErrCodeEdgeNotFound)
	}

	foreign := &CycleInstance{Type: template.Gambit, Entry: 500, Exit: 501}
	if _, err := eng.Splice(root.Insertions[0].SeamEdge, foreign); !errs.Is(err, errs.ErrCodeNodeNotFound) {
		t.Errorf("Splice(foreign instance) error = %v, want %v", err, errs.ErrCodeNodeNotFound)
	}
	if got := eng.Graph().EdgeCount(); got != edges {
		t.Errorf("EdgeCount() after failed splices = %d, want %d", got, edges)
	}
}

func TestSplice_FailedWiringLeavesGraph(t *testing.T) {
	eng := newEngine()
	root, _ := eng.Instantiate(loop(t, template.TwoAlternativePaths), 0)
	child, _ := eng.Instantiate(loop(t, template.TwoAlternativePaths), 1)
	seam := root.Insertions[0].SeamEdge

	// Occupy the id the exit edge will be given.
	n := eng.Graph().EdgeCount()
	stray := dungeon.RoomEdge{ID: dungeon.EdgeID(n + 2), From: root.Entry, To: root.Exit}
	if err := eng.Graph().AddEdge(stray); err != nil {
		t.Fatalf("AddEdge() error: %v", err)
	}

	if _, err := eng.Splice(seam, child); !errs.Is(err, errs.ErrCodeInternal) {
		t.Fatalf("Splice() error = %v, want %v", err, errs.ErrCodeInternal)
	}
	if _, ok := eng.Graph().Edge(seam); !ok {
		t.Error("seam removed by failed Splice")
	}
	if _, ok := eng.Graph().Edge(dungeon.EdgeID(n + 1)); ok {
		t.Error("entry edge left behind by failed Splice")
	}
	if got := eng.Graph().EdgeCount(); got != n+1 {
		t.Errorf("EdgeCount() = %d, want %d", got, n+1)
	}
	if entry, _ := eng.Graph().Node(child.Entry); entry.Kind != dungeon.KindStart {
		t.Errorf("entry kind = %v, want %v", entry.Kind, dungeon.KindStart)
	}
	if exit, _ := eng.Graph().Node(child.Exit); exit.Kind != dungeon.KindGoal {
		t.Errorf("exit kind = %v, want %v", exit.Kind, dungeon.KindGoal)
	}
}

func TestRestore(t *testing.T) {
	eng := newEngine()
	tmpl := loop(t, template.TwoAlternativePaths)
	eng.Instantiate(tmpl, 0)
	inst, _ := eng.Instantiate(tmpl, 1)

	restored := Restore(CycleInstance{
		Type:       inst.Type,
		Depth:      inst.Depth,
		Entry:      inst.Entry,
		Exit:       inst.Exit,
		Nodes:      inst.Nodes,
		Edges:      inst.Edges,
		ArcA:       inst.ArcA,
		ArcB:       inst.ArcB,
		Insertions: inst.Insertions,
	})
	if !reflect.DeepEqual(restored, inst) {
		t.Errorf("Restore() = %+v, want %+v", restored, inst)
	}
}
