package template

import (
	"fmt"
	"slices"

	"github.com/matzehuels/cyclegen/pkg/dungeon"
)

// CycleType tags a pattern. Libraries, selectors and rule registries are all
// keyed by it.
type CycleType string

// Pattern types known to cyclegen. Not every type needs a registered
// template; selectors only draw from what a library actually holds.
const (
	TwoAlternativePaths CycleType = "two_alternative_paths"
	LockAndKey          CycleType = "lock_and_key"
	TwoKeys             CycleType = "two_keys"
	HiddenShortcut      CycleType = "hidden_shortcut"
	DangerousRoute      CycleType = "dangerous_route"
	ForeshadowingLoop   CycleType = "foreshadowing_loop"
	BlockedRetreat      CycleType = "blocked_retreat"
	Gambit              CycleType = "gambit"
	FalseGoal           CycleType = "false_goal"
)

// TNodeID is a node id local to one template. It is a different type from
// dungeon.NodeID on purpose: the only bridge between the two namespaces is
// instantiation.
type TNodeID int

// TEdgeID is an edge id local to one template.
type TEdgeID int

// TInsertionID is an insertion id local to one template.
type TInsertionID int

// TNode is a room declared by a template.
type TNode struct {
	ID    TNodeID
	Kind  dungeon.NodeKind
	Label string
}

// TEdge is a connection declared by a template.
type TEdge struct {
	ID        TEdgeID
	From      TNodeID
	To        TNodeID
	Traversal dungeon.Traversal
}

// TInsertion marks a template edge as a seam that may later be replaced by a
// nested pattern.
type TInsertion struct {
	ID   TInsertionID
	Seam TEdgeID
}

// CycleTemplate is an immutable pattern: a small graph with a start, a goal,
// two parallel arcs between them and a list of seams. The same template may
// be instantiated any number of times.
//
// The zero value is not usable - build templates with [Builder].
type CycleTemplate struct {
	typ        CycleType
	nodes      []TNode
	edges      []TEdge
	start      TNodeID
	goal       TNodeID
	arcA       []TEdgeID
	arcB       []TEdgeID
	insertions []TInsertion
}

// Type returns the pattern type this template implements.
func (t *CycleTemplate) Type() CycleType { return t.typ }

// Start returns the local id of the template's entry room.
func (t *CycleTemplate) Start() TNodeID { return t.start }

// Goal returns the local id of the template's exit room.
func (t *CycleTemplate) Goal() TNodeID { return t.goal }

// Nodes returns a copy of the node table in declaration order.
func (t *CycleTemplate) Nodes() []TNode { return slices.Clone(t.nodes) }

// Edges returns a copy of the edge table in declaration order.
func (t *CycleTemplate) Edges() []TEdge { return slices.Clone(t.edges) }

// ArcA returns a copy of the first arc's edge ids, ordered start to goal.
func (t *CycleTemplate) ArcA() []TEdgeID { return slices.Clone(t.arcA) }

// ArcB returns a copy of the second arc's edge ids, ordered start to goal.
func (t *CycleTemplate) ArcB() []TEdgeID { return slices.Clone(t.arcB) }

// Insertions returns a copy of the seam declarations in declaration order.
func (t *CycleTemplate) Insertions() []TInsertion { return slices.Clone(t.insertions) }

// NodeCount returns the number of rooms one instantiation adds.
func (t *CycleTemplate) NodeCount() int { return len(t.nodes) }

// EdgeCount returns the number of edges one instantiation adds.
func (t *CycleTemplate) EdgeCount() int { return len(t.edges) }

// Node returns the node with the given local id.
func (t *CycleTemplate) Node(id TNodeID) (TNode, bool) {
	i := slices.IndexFunc(t.nodes, func(n TNode) bool { return n.ID == id })
	if i < 0 {
		return TNode{}, false
	}
	return t.nodes[i], true
}

// Edge returns the edge with the given local id.
func (t *CycleTemplate) Edge(id TEdgeID) (TEdge, bool) {
	i := slices.IndexFunc(t.edges, func(e TEdge) bool { return e.ID == id })
	if i < 0 {
		return TEdge{}, false
	}
	return t.edges[i], true
}

// NodeByLabel returns the first node carrying the given debug label.
func (t *CycleTemplate) NodeByLabel(label string) (TNode, bool) {
	i := slices.IndexFunc(t.nodes, func(n TNode) bool { return n.Label == label })
	if i < 0 {
		return TNode{}, false
	}
	return t.nodes[i], true
}

// CheckArcs verifies that both arcs are contiguous paths from Start to Goal.
// Builders do not run it. Built-in patterns assert it in tests and pattern
// files are checked on import.
func (t *CycleTemplate) CheckArcs() error {
	arcs := []struct {
		name string
		ids  []TEdgeID
	}{{"arc A", t.arcA}, {"arc B", t.arcB}}
	for _, a := range arcs {
		name, arc := a.name, a.ids
		if len(arc) == 0 {
			return fmt.Errorf("%s is empty", name)
		}
		at := t.start
		for _, id := range arc {
			e, ok := t.Edge(id)
			if !ok {
				return fmt.Errorf("%s references unknown edge %d", name, id)
			}
			if e.From != at {
				return fmt.Errorf("%s breaks at edge %d: starts at %d, want %d", name, id, e.From, at)
			}
			at = e.To
		}
		if at != t.goal {
			return fmt.Errorf("%s ends at %d, want goal %d", name, at, t.goal)
		}
	}
	return nil
}

// CheckKinds verifies that Start is the only KindStart node and Goal the only
// KindGoal node. Like CheckArcs it runs on import, not in builders.
func (t *CycleTemplate) CheckKinds() error {
	for _, n := range t.nodes {
		switch {
		case n.Kind == dungeon.KindStart && n.ID != t.start:
			return fmt.Errorf("node %d has kind start, but start is %d", n.ID, t.start)
		case n.Kind == dungeon.KindGoal && n.ID != t.goal:
			return fmt.Errorf("node %d has kind goal, but goal is %d", n.ID, t.goal)
		case n.ID == t.start && n.Kind != dungeon.KindStart:
			return fmt.Errorf("start node %d has kind %s", n.ID, n.Kind)
		case n.ID == t.goal && n.Kind != dungeon.KindGoal:
			return fmt.Errorf("goal node %d has kind %s", n.ID, n.Kind)
		}
	}
	return nil
}
