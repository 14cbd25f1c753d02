package rewrite

import (
	"github.com/matzehuels/cyclegen/pkg/dungeon"
	errs "github.com/matzehuels/cyclegen/pkg/errors"
	"github.com/matzehuels/cyclegen/pkg/template"
)

// Engine stamps templates into one graph using one allocator. Both belong to
// a single generation run; an Engine must not be shared between runs.
type Engine struct {
	graph *dungeon.Graph
	alloc *dungeon.Allocator
}

// New returns an engine writing into g and minting ids from alloc.
func New(g *dungeon.Graph, alloc *dungeon.Allocator) *Engine {
	return &Engine{graph: g, alloc: alloc}
}

// Graph returns the graph the engine writes into.
func (e *Engine) Graph() *dungeon.Graph { return e.graph }

// Allocator returns the run's id allocator.
func (e *Engine) Allocator() *dungeon.Allocator { return e.alloc }

// Instantiate copies tmpl into the graph under fresh ids and returns the
// resulting instance. Every template insertion becomes an [InsertionPoint]
// at depth.
//
// The local-to-global maps are private to this call, so instantiating the
// same template twice never shares an id. An error means the template is
// malformed (an edge naming an undeclared node); the graph may then hold a
// partial copy and the run should be abandoned.
func (e *Engine) Instantiate(tmpl *template.CycleTemplate, depth int) (*CycleInstance, error) {
	inst := &CycleInstance{
		Type:    tmpl.Type(),
		Depth:   depth,
		nodeMap: make(map[template.TNodeID]dungeon.NodeID, tmpl.NodeCount()),
		edgeMap: make(map[template.TEdgeID]dungeon.EdgeID, tmpl.EdgeCount()),
	}

	for _, tn := range tmpl.Nodes() {
		id := e.alloc.NewNode()
		if err := e.graph.AddNode(dungeon.RoomNode{ID: id, Kind: tn.Kind, Label: tn.Label}); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "%s: add node %d", tmpl.Type(), tn.ID)
		}
		inst.nodeMap[tn.ID] = id
		inst.Nodes = append(inst.Nodes, id)
	}

	for _, te := range tmpl.Edges() {
		from, okFrom := inst.nodeMap[te.From]
		to, okTo := inst.nodeMap[te.To]
		if !okFrom || !okTo {
			return nil, errs.New(errs.ErrCodeInvalidTemplate, "%s: edge %d references undeclared node", tmpl.Type(), te.ID)
		}
		id := e.alloc.NewEdge()
		if err := e.graph.AddEdge(dungeon.RoomEdge{ID: id, From: from, To: to, Traversal: te.Traversal}); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "%s: add edge %d", tmpl.Type(), te.ID)
		}
		inst.edgeMap[te.ID] = id
		inst.Edges = append(inst.Edges, id)
	}

	var ok bool
	if inst.Entry, ok = inst.nodeMap[tmpl.Start()]; !ok {
		return nil, errs.New(errs.ErrCodeInvalidTemplate, "%s: undeclared start node", tmpl.Type())
	}
	if inst.Exit, ok = inst.nodeMap[tmpl.Goal()]; !ok {
		return nil, errs.New(errs.ErrCodeInvalidTemplate, "%s: undeclared goal node", tmpl.Type())
	}

	var err error
	if inst.ArcA, err = inst.translateArc(tmpl.ArcA()); err != nil {
		return nil, err
	}
	if inst.ArcB, err = inst.translateArc(tmpl.ArcB()); err != nil {
		return nil, err
	}

	for _, ins := range tmpl.Insertions() {
		seam, ok := inst.edgeMap[ins.Seam]
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidTemplate, "%s: insertion %d names undeclared edge %d", tmpl.Type(), ins.ID, ins.Seam)
		}
		inst.Insertions = append(inst.Insertions, InsertionPoint{
			ID:       e.alloc.NewInsertion(),
			SeamEdge: seam,
			Depth:    depth,
		})
	}
	return inst, nil
}

func (c *CycleInstance) translateArc(arc []template.TEdgeID) ([]dungeon.EdgeID, error) {
	out := make([]dungeon.EdgeID, 0, len(arc))
	for _, id := range arc {
		eid, ok := c.edgeMap[id]
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidTemplate, "%s: arc names undeclared edge %d", c.Type, id)
		}
		out = append(out, eid)
	}
	return out, nil
}

// Splice replaces the seam edge with inst. The seam's endpoints A and B stay
// in place with all their other edges; the seam itself is removed and two
// boundary edges are added:
//
//	A -> inst.Entry   carries the seam's traversal and gate
//	inst.Exit -> B    normal and ungated
//
// The instance's own start and goal rooms become ordinary rooms. Nothing
// else in the graph is touched.
//
// Splice fails with ErrCodeEdgeNotFound if seam is not in the graph and with
// ErrCodeNodeNotFound if the instance has not been instantiated into it. The
// seam is removed and the instance's rooms demoted only after both boundary
// edges are wired, so a failed Splice leaves the graph as it was.
func (e *Engine) Splice(seam dungeon.EdgeID, inst *CycleInstance) (Attachment, error) {
	old, ok := e.graph.Edge(seam)
	if !ok {
		return Attachment{}, errs.New(errs.ErrCodeEdgeNotFound, "seam edge %s not in graph", seam)
	}
	entry, okEntry := e.graph.Node(inst.Entry)
	exit, okExit := e.graph.Node(inst.Exit)
	if !okEntry || !okExit {
		return Attachment{}, errs.New(errs.ErrCodeNodeNotFound, "%s instance is not in the graph", inst.Type)
	}

	a, b := old.From, old.To
	att := Attachment{From: a, To: b, EntryEdge: e.alloc.NewEdge(), ExitEdge: e.alloc.NewEdge()}
	if err := e.graph.AddEdge(dungeon.RoomEdge{
		ID:        att.EntryEdge,
		From:      a,
		To:        inst.Entry,
		Traversal: old.Traversal,
		Gate:      old.Gate,
	}); err != nil {
		return Attachment{}, errs.Wrap(errs.ErrCodeInternal, err, "wire entry of %s", inst.Type)
	}
	if err := e.graph.AddEdge(dungeon.RoomEdge{
		ID:        att.ExitEdge,
		From:      inst.Exit,
		To:        b,
		Traversal: dungeon.TraversalNormal,
	}); err != nil {
		e.graph.RemoveEdge(att.EntryEdge)
		return Attachment{}, errs.Wrap(errs.ErrCodeInternal, err, "wire exit of %s", inst.Type)
	}

	// Both boundary edges are in place; nothing below can fail.
	e.graph.RemoveEdge(seam)
	entry.Kind = dungeon.KindNormal
	exit.Kind = dungeon.KindNormal
	return att, nil
}
