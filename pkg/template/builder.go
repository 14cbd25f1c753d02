package template

import (
	"slices"

	"github.com/matzehuels/cyclegen/pkg/dungeon"
	errs "github.com/matzehuels/cyclegen/pkg/errors"
)

// Builder assembles one CycleTemplate. Local ids start at 1 in every builder.
// A builder is a construction-time tool: it is used once, at registration,
// and only checks that Build's arguments name declared nodes and edges.
type Builder struct {
	typ        CycleType
	nodes      []TNode
	edges      []TEdge
	insertions []TInsertion
}

// NewBuilder starts a template of the given type.
func NewBuilder(t CycleType) *Builder { return &Builder{typ: t} }

// AddNode declares a room. label may be empty.
func (b *Builder) AddNode(kind dungeon.NodeKind, label string) TNodeID {
	id := TNodeID(len(b.nodes) + 1)
	b.nodes = append(b.nodes, TNode{ID: id, Kind: kind, Label: label})
	return id
}

// AddEdge declares a connection between two declared rooms.
func (b *Builder) AddEdge(from, to TNodeID, traversal dungeon.Traversal) TEdgeID {
	id := TEdgeID(len(b.edges) + 1)
	b.edges = append(b.edges, TEdge{ID: id, From: from, To: to, Traversal: traversal})
	return id
}

// AddInsertion marks a declared edge as a seam for later nesting.
func (b *Builder) AddInsertion(seam TEdgeID) TInsertionID {
	id := TInsertionID(len(b.insertions) + 1)
	b.insertions = append(b.insertions, TInsertion{ID: id, Seam: seam})
	return id
}

// Build freezes the template. It fails with ErrCodeInvalidTemplate if start,
// goal, an arc edge, an edge endpoint or a seam is not declared. It does not
// check that the arcs form paths; see [CycleTemplate.CheckArcs].
func (b *Builder) Build(start, goal TNodeID, arcA, arcB []TEdgeID) (*CycleTemplate, error) {
	hasNode := func(id TNodeID) bool { return id > 0 && int(id) <= len(b.nodes) }
	hasEdge := func(id TEdgeID) bool { return id > 0 && int(id) <= len(b.edges) }

	if !hasNode(start) {
		return nil, errs.New(errs.ErrCodeInvalidTemplate, "%s: unknown start node %d", b.typ, start)
	}
	if !hasNode(goal) {
		return nil, errs.New(errs.ErrCodeInvalidTemplate, "%s: unknown goal node %d", b.typ, goal)
	}
	for _, e := range b.edges {
		if !hasNode(e.From) || !hasNode(e.To) {
			return nil, errs.New(errs.ErrCodeInvalidTemplate, "%s: edge %d references unknown node", b.typ, e.ID)
		}
	}
	for _, id := range slices.Concat(arcA, arcB) {
		if !hasEdge(id) {
			return nil, errs.New(errs.ErrCodeInvalidTemplate, "%s: arc references unknown edge %d", b.typ, id)
		}
	}
	for _, ins := range b.insertions {
		if !hasEdge(ins.Seam) {
			return nil, errs.New(errs.ErrCodeInvalidTemplate, "%s: insertion %d references unknown edge %d", b.typ, ins.ID, ins.Seam)
		}
	}

	return &CycleTemplate{
		typ:        b.typ,
		nodes:      slices.Clone(b.nodes),
		edges:      slices.Clone(b.edges),
		start:      start,
		goal:       goal,
		arcA:       slices.Clone(arcA),
		arcB:       slices.Clone(arcB),
		insertions: slices.Clone(b.insertions),
	}, nil
}

// MustBuild is like Build but panics on error. It is meant for package-level
// built-in patterns whose shape is fixed at compile time.
func (b *Builder) MustBuild(start, goal TNodeID, arcA, arcB []TEdgeID) *CycleTemplate {
	t, err := b.Build(start, goal, arcA, arcB)
	if err != nil {
		panic(err)
	}
	return t
}
