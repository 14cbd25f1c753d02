package rewrite

import (
	"slices"

	"github.com/matzehuels/cyclegen/pkg/dungeon"
	"github.com/matzehuels/cyclegen/pkg/template"
)

// InsertionPoint is a seam edge in the live graph that may be replaced by a
// nested pattern.
type InsertionPoint struct {
	ID       dungeon.InsertionID
	SeamEdge dungeon.EdgeID
	Depth    int
}

// CycleInstance is one template stamped into a graph. Nodes and Edges list
// the run-scoped ids in template declaration order.
//
// An instance is produced by [Engine.Instantiate] and never changes
// afterwards, apart from the Start/Goal demotion performed by
// [Engine.Splice] on the graph side.
type CycleInstance struct {
	Type       template.CycleType
	Depth      int
	Entry      dungeon.NodeID
	Exit       dungeon.NodeID
	Nodes      []dungeon.NodeID
	Edges      []dungeon.EdgeID
	ArcA       []dungeon.EdgeID
	ArcB       []dungeon.EdgeID
	Insertions []InsertionPoint

	nodeMap map[template.TNodeID]dungeon.NodeID
	edgeMap map[template.TEdgeID]dungeon.EdgeID
}

// NodeFor returns the run-scoped id of a template-local node.
func (c *CycleInstance) NodeFor(id template.TNodeID) (dungeon.NodeID, bool) {
	n, ok := c.nodeMap[id]
	return n, ok
}

// EdgeFor returns the run-scoped id of a template-local edge.
func (c *CycleInstance) EdgeFor(id template.TEdgeID) (dungeon.EdgeID, bool) {
	e, ok := c.edgeMap[id]
	return e, ok
}

// OwnsNode reports whether id was allocated for this instance.
func (c *CycleInstance) OwnsNode(id dungeon.NodeID) bool {
	return slices.Contains(c.Nodes, id)
}

// OwnsEdge reports whether id was allocated for this instance.
func (c *CycleInstance) OwnsEdge(id dungeon.EdgeID) bool {
	return slices.Contains(c.Edges, id)
}

// Attachment records how a spliced instance was wired into its parent: the
// seam's former endpoints and the two boundary edges that replaced it.
type Attachment struct {
	From      dungeon.NodeID
	To        dungeon.NodeID
	EntryEdge dungeon.EdgeID
	ExitEdge  dungeon.EdgeID
}

// Restore rebuilds the local-id lookups of an instance decoded from storage.
// Template-local ids are assigned in declaration order starting at 1, so
// Nodes[i] is the instance of local node i+1 and likewise for Edges.
func Restore(c CycleInstance) *CycleInstance {
	c.nodeMap = make(map[template.TNodeID]dungeon.NodeID, len(c.Nodes))
	for i, id := range c.Nodes {
		c.nodeMap[template.TNodeID(i+1)] = id
	}
	c.edgeMap = make(map[template.TEdgeID]dungeon.EdgeID, len(c.Edges))
	for i, id := range c.Edges {
		c.edgeMap[template.TEdgeID(i+1)] = id
	}
	return &c
}
