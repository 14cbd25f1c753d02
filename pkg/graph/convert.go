package graph

import (
	"fmt"

	"github.com/matzehuels/cyclegen/pkg/dungeon"
	"github.com/matzehuels/cyclegen/pkg/generator"
	"github.com/matzehuels/cyclegen/pkg/rewrite"
	"github.com/matzehuels/cyclegen/pkg/template"
)

// =============================================================================
// GenerationResult ↔ Document Conversion
// =============================================================================

// FromResult converts a generation result to its serialization format.
// Nodes and edges are sorted by id for deterministic output.
func FromResult(res *generator.GenerationResult) Document {
	doc := Document{
		Version:  FormatVersion,
		Settings: res.Settings,
		Overall:  string(res.OverallType),
		Nodes:    make([]Node, 0, res.Graph.NodeCount()),
		Edges:    make([]Edge, 0, res.Graph.EdgeCount()),
		Root:     fragmentFrom(res.OverallFragment),
		Events:   make([]Event, 0, len(res.Replacements)),
		Stats:    res.Stats,
	}

	for _, n := range res.Graph.Nodes() {
		doc.Nodes = append(doc.Nodes, nodeFrom(n))
	}
	for _, e := range res.Graph.Edges() {
		doc.Edges = append(doc.Edges, edgeFrom(e))
	}
	for _, ev := range res.Replacements {
		doc.Events = append(doc.Events, Event{
			Insertion:  insertionFrom(ev.Insertion),
			Type:       string(ev.Type),
			ParentFrom: int(ev.ParentFrom),
			ParentTo:   int(ev.ParentTo),
			EntryEdge:  int(ev.Attachment.EntryEdge),
			ExitEdge:   int(ev.Attachment.ExitEdge),
			Fragment:   fragmentFrom(ev.Instance),
		})
	}
	return doc
}

// ToResult converts a Document back into a generation result.
// Returns an error for unknown enum names, dangling edges or a graph that
// fails [dungeon.Graph.Validate].
func ToResult(doc Document) (*generator.GenerationResult, error) {
	if doc.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported document version %d", doc.Version)
	}

	g := dungeon.New()
	for _, n := range doc.Nodes {
		node, err := nodeTo(n)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", n.ID, err)
		}
		if err := g.AddNode(node); err != nil {
			return nil, fmt.Errorf("add node %d: %w", n.ID, err)
		}
	}
	for _, e := range doc.Edges {
		edge, err := edgeTo(e)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", e.ID, err)
		}
		if err := g.AddEdge(edge); err != nil {
			return nil, fmt.Errorf("add edge %d→%d: %w", e.From, e.To, err)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	res := &generator.GenerationResult{
		Settings:        doc.Settings,
		Graph:           g,
		OverallType:     template.CycleType(doc.Overall),
		OverallFragment: fragmentTo(doc.Root),
		Stats:           doc.Stats,
	}
	for _, ev := range doc.Events {
		res.Replacements = append(res.Replacements, generator.InsertionEvent{
			Insertion:  insertionTo(ev.Insertion),
			ParentFrom: dungeon.NodeID(ev.ParentFrom),
			ParentTo:   dungeon.NodeID(ev.ParentTo),
			Instance:   fragmentTo(ev.Fragment),
			Type:       template.CycleType(ev.Type),
			Attachment: rewrite.Attachment{
				From:      dungeon.NodeID(ev.ParentFrom),
				To:        dungeon.NodeID(ev.ParentTo),
				EntryEdge: dungeon.EdgeID(ev.EntryEdge),
				ExitEdge:  dungeon.EdgeID(ev.ExitEdge),
			},
		})
	}
	return res, nil
}

// =============================================================================
// Internal Helpers
// =============================================================================

func nodeFrom(n *dungeon.RoomNode) Node {
	out := Node{ID: int(n.ID), Kind: n.Kind.String(), Label: n.Label}
	for _, t := range n.Tags {
		out.Tags = append(out.Tags, Tag{Kind: t.Kind.String(), Data: t.Data})
	}
	return out
}

func nodeTo(n Node) (dungeon.RoomNode, error) {
	kind, ok := dungeon.ParseNodeKind(n.Kind)
	if !ok {
		return dungeon.RoomNode{}, fmt.Errorf("unknown node kind %q", n.Kind)
	}
	out := dungeon.RoomNode{ID: dungeon.NodeID(n.ID), Kind: kind, Label: n.Label}
	for _, t := range n.Tags {
		tk, ok := dungeon.ParseTagKind(t.Kind)
		if !ok {
			return dungeon.RoomNode{}, fmt.Errorf("unknown tag kind %q", t.Kind)
		}
		out.Tags = append(out.Tags, dungeon.NodeTag{Kind: tk, Data: t.Data})
	}
	return out, nil
}

func edgeFrom(e *dungeon.RoomEdge) Edge {
	out := Edge{ID: int(e.ID), From: int(e.From), To: int(e.To), Traversal: e.Traversal.String()}
	if g := e.Gate; g != nil {
		out.Gate = &Gate{
			ID:          int(g.ID),
			Kind:        g.Kind.String(),
			Strength:    g.Strength.String(),
			RequiredKey: int(g.RequiredKey),
		}
		for _, k := range g.RequiredKeys {
			out.Gate.RequiredKeys = append(out.Gate.RequiredKeys, int(k))
		}
	}
	return out
}

func edgeTo(e Edge) (dungeon.RoomEdge, error) {
	trav, ok := dungeon.ParseTraversal(e.Traversal)
	if !ok {
		return dungeon.RoomEdge{}, fmt.Errorf("unknown traversal %q", e.Traversal)
	}
	out := dungeon.RoomEdge{ID: dungeon.EdgeID(e.ID), From: dungeon.NodeID(e.From), To: dungeon.NodeID(e.To), Traversal: trav}
	if g := e.Gate; g != nil {
		kind, ok := dungeon.ParseGateKind(g.Kind)
		if !ok {
			return dungeon.RoomEdge{}, fmt.Errorf("unknown gate kind %q", g.Kind)
		}
		strength, ok := dungeon.ParseGateStrength(g.Strength)
		if !ok {
			return dungeon.RoomEdge{}, fmt.Errorf("unknown gate strength %q", g.Strength)
		}
		out.Gate = &dungeon.EdgeGate{
			ID:          dungeon.GateID(g.ID),
			Kind:        kind,
			Strength:    strength,
			RequiredKey: dungeon.KeyID(g.RequiredKey),
		}
		for _, k := range g.RequiredKeys {
			out.Gate.RequiredKeys = append(out.Gate.RequiredKeys, dungeon.KeyID(k))
		}
	}
	return out, nil
}

func insertionFrom(ip rewrite.InsertionPoint) Insertion {
	return Insertion{ID: int(ip.ID), Seam: int(ip.SeamEdge), Depth: ip.Depth}
}

func insertionTo(in Insertion) rewrite.InsertionPoint {
	return rewrite.InsertionPoint{ID: dungeon.InsertionID(in.ID), SeamEdge: dungeon.EdgeID(in.Seam), Depth: in.Depth}
}

func fragmentFrom(c *rewrite.CycleInstance) Fragment {
	f := Fragment{
		Type:  string(c.Type),
		Depth: c.Depth,
		Entry: int(c.Entry),
		Exit:  int(c.Exit),
		Nodes: ints(c.Nodes),
		Edges: ints(c.Edges),
		ArcA:  ints(c.ArcA),
		ArcB:  ints(c.ArcB),
	}
	for _, ip := range c.Insertions {
		f.Insertions = append(f.Insertions, insertionFrom(ip))
	}
	return f
}

func fragmentTo(f Fragment) *rewrite.CycleInstance {
	c := rewrite.CycleInstance{
		Type:  template.CycleType(f.Type),
		Depth: f.Depth,
		Entry: dungeon.NodeID(f.Entry),
		Exit:  dungeon.NodeID(f.Exit),
		Nodes: ids[dungeon.NodeID](f.Nodes),
		Edges: ids[dungeon.EdgeID](f.Edges),
		ArcA:  ids[dungeon.EdgeID](f.ArcA),
		ArcB:  ids[dungeon.EdgeID](f.ArcB),
	}
	for _, in := range f.Insertions {
		c.Insertions = append(c.Insertions, insertionTo(in))
	}
	return rewrite.Restore(c)
}

func ints[T ~int](in []T) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}

func ids[T ~int](in []int) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = T(v)
	}
	return out
}

func nodeName(id int) string { return dungeon.NodeID(id).String() }
