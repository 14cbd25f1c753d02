package dungeon

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] for a non-positive ID.
	// Allocators start counting at 1, so 0 always means "unset".
	ErrInvalidNodeID = errors.New("node ID must be positive")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when the ID is already present.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidEdgeID is returned by [Graph.AddEdge] for a non-positive ID.
	ErrInvalidEdgeID = errors.New("edge ID must be positive")

	// ErrDuplicateEdgeID is returned by [Graph.AddEdge] when the ID is already present.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when From is not in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when To is not in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUnknownNode is returned by [Graph.RemoveNode] for a missing node.
	ErrUnknownNode = errors.New("unknown node")

	// ErrNodeHasEdges is returned by [Graph.RemoveNode] while edges still
	// touch the node. Edges must be removed first.
	ErrNodeHasEdges = errors.New("node still has edges")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a node that is not in the graph.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrAdjacencyMismatch is returned by [Graph.Validate] when the adjacency
	// index disagrees with the edge table.
	ErrAdjacencyMismatch = errors.New("adjacency index out of sync")

	// ErrStartCount is returned by [Graph.Validate] unless exactly one node is KindStart.
	ErrStartCount = errors.New("graph must have exactly one start node")

	// ErrGoalCount is returned by [Graph.Validate] unless exactly one node is KindGoal.
	ErrGoalCount = errors.New("graph must have exactly one goal node")
)

// Graph is the mutable directed graph of rooms and connections produced by a
// generation run. Nodes and edges are keyed by their run-scoped identifiers;
// an outgoing and an incoming adjacency index are kept in step with every
// mutation.
//
// The zero value is not usable - use New. Graph is not safe for concurrent use.
type Graph struct {
	nodes    map[NodeID]*RoomNode
	edges    map[EdgeID]*RoomEdge
	outgoing map[NodeID][]EdgeID
	incoming map[NodeID][]EdgeID
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[NodeID]*RoomNode),
		edges:    make(map[EdgeID]*RoomEdge),
		outgoing: make(map[NodeID][]EdgeID),
		incoming: make(map[NodeID][]EdgeID),
	}
}

// AddNode adds a room. The graph stores its own copy of n.
func (g *Graph) AddNode(n RoomNode) error {
	if n.ID <= 0 {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	n.Tags = slices.Clone(n.Tags)
	g.nodes[n.ID] = &n
	return nil
}

// AddEdge adds a directed connection between two rooms already in the graph.
// The graph stores its own copy of e, including its gate.
func (g *Graph) AddEdge(e RoomEdge) error {
	if e.ID <= 0 {
		return ErrInvalidEdgeID
	}
	if _, exists := g.edges[e.ID]; exists {
		return ErrDuplicateEdgeID
	}
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	e.Gate = e.Gate.clone()
	g.edges[e.ID] = &e
	g.outgoing[e.From] = append(g.outgoing[e.From], e.ID)
	g.incoming[e.To] = append(g.incoming[e.To], e.ID)
	return nil
}

// RemoveEdge removes the edge and returns the removed value. Its endpoints
// stay in the graph. The boolean is false if no such edge existed.
func (g *Graph) RemoveEdge(id EdgeID) (RoomEdge, bool) {
	e, ok := g.edges[id]
	if !ok {
		return RoomEdge{}, false
	}
	delete(g.edges, id)
	g.outgoing[e.From] = slices.DeleteFunc(g.outgoing[e.From], func(x EdgeID) bool { return x == id })
	g.incoming[e.To] = slices.DeleteFunc(g.incoming[e.To], func(x EdgeID) bool { return x == id })
	return *e, true
}

// RemoveNode removes a room that no edge touches any more.
func (g *Graph) RemoveNode(id NodeID) error {
	if _, ok := g.nodes[id]; !ok {
		return ErrUnknownNode
	}
	if len(g.outgoing[id]) > 0 || len(g.incoming[id]) > 0 {
		return ErrNodeHasEdges
	}
	delete(g.nodes, id)
	delete(g.outgoing, id)
	delete(g.incoming, id)
	return nil
}

// Node returns the room with the given ID. The pointer refers to the stored
// room, so tag changes affect the graph.
func (g *Graph) Node(id NodeID) (*RoomNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edge returns the edge with the given ID. The pointer refers to the stored
// edge; change gates and traversal through it, never endpoints.
func (g *Graph) Edge(id EdgeID) (*RoomEdge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// Nodes returns all rooms ordered by ID.
func (g *Graph) Nodes() []*RoomNode {
	out := make([]*RoomNode, 0, len(g.nodes))
	for _, id := range slices.Sorted(maps.Keys(g.nodes)) {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges ordered by ID.
func (g *Graph) Edges() []*RoomEdge {
	out := make([]*RoomEdge, 0, len(g.edges))
	for _, id := range slices.Sorted(maps.Keys(g.edges)) {
		out = append(out, g.edges[id])
	}
	return out
}

// Outgoing returns the IDs of edges leaving the node, in insertion order.
// The returned slice must not be modified.
func (g *Graph) Outgoing(id NodeID) []EdgeID { return g.outgoing[id] }

// Incoming returns the IDs of edges entering the node, in insertion order.
// The returned slice must not be modified.
func (g *Graph) Incoming(id NodeID) []EdgeID { return g.incoming[id] }

// NodeCount returns the number of rooms.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// NodesOfKind returns the rooms of the given kind ordered by ID.
func (g *Graph) NodesOfKind(kind NodeKind) []*RoomNode {
	var out []*RoomNode
	for _, n := range g.Nodes() {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New()
	for id, n := range g.nodes {
		cn := *n
		cn.Tags = slices.Clone(n.Tags)
		c.nodes[id] = &cn
	}
	for id, e := range g.edges {
		ce := *e
		ce.Gate = e.Gate.clone()
		c.edges[id] = &ce
	}
	for id, out := range g.outgoing {
		c.outgoing[id] = slices.Clone(out)
	}
	for id, in := range g.incoming {
		c.incoming[id] = slices.Clone(in)
	}
	return c
}

// Validate checks structural integrity:
//
//  1. every edge references nodes present in the graph
//  2. the adjacency index lists exactly the edges of the edge table
//  3. exactly one node is KindStart and exactly one is KindGoal
func (g *Graph) Validate() error {
	if err := g.validateEdges(); err != nil {
		return err
	}
	if err := g.validateAdjacency(); err != nil {
		return err
	}
	var starts, goals int
	for _, n := range g.nodes {
		switch n.Kind {
		case KindStart:
			starts++
		case KindGoal:
			goals++
		}
	}
	if starts != 1 {
		return ErrStartCount
	}
	if goals != 1 {
		return ErrGoalCount
	}
	return nil
}

func (g *Graph) validateEdges() error {
	for _, e := range g.edges {
		_, okFrom := g.nodes[e.From]
		_, okTo := g.nodes[e.To]
		if !okFrom || !okTo {
			return ErrInvalidEdgeEndpoint
		}
	}
	return nil
}

func (g *Graph) validateAdjacency() error {
	var indexed int
	for from, ids := range g.outgoing {
		for _, id := range ids {
			e, ok := g.edges[id]
			if !ok || e.From != from {
				return ErrAdjacencyMismatch
			}
			indexed++
		}
	}
	if indexed != len(g.edges) {
		return ErrAdjacencyMismatch
	}
	indexed = 0
	for to, ids := range g.incoming {
		for _, id := range ids {
			e, ok := g.edges[id]
			if !ok || e.To != to {
				return ErrAdjacencyMismatch
			}
			indexed++
		}
	}
	if indexed != len(g.edges) {
		return ErrAdjacencyMismatch
	}
	return nil
}
