package rules

import (
	"github.com/matzehuels/cyclegen/pkg/dungeon"
	errs "github.com/matzehuels/cyclegen/pkg/errors"
	"github.com/matzehuels/cyclegen/pkg/rewrite"
	"github.com/matzehuels/cyclegen/pkg/template"
)

// Room resolves a template-local node of inst to its live room in g.
func Room(g *dungeon.Graph, inst *rewrite.CycleInstance, local template.TNodeID) (*dungeon.RoomNode, error) {
	id, ok := inst.NodeFor(local)
	if !ok {
		return nil, errs.New(errs.ErrCodeNodeNotFound, "%s instance has no local node %d", inst.Type, local)
	}
	n, ok := g.Node(id)
	if !ok {
		return nil, errs.New(errs.ErrCodeNodeNotFound, "node %s not in graph", id)
	}
	return n, nil
}

// Passage resolves a template-local edge of inst to its live edge in g.
func Passage(g *dungeon.Graph, inst *rewrite.CycleInstance, local template.TEdgeID) (*dungeon.RoomEdge, error) {
	id, ok := inst.EdgeFor(local)
	if !ok {
		return nil, errs.New(errs.ErrCodeEdgeNotFound, "%s instance has no local edge %d", inst.Type, local)
	}
	e, ok := g.Edge(id)
	if !ok {
		return nil, errs.New(errs.ErrCodeEdgeNotFound, "edge %s not in graph", id)
	}
	return e, nil
}

// Tag adds tag to a template-local room of inst.
func Tag(g *dungeon.Graph, inst *rewrite.CycleInstance, local template.TNodeID, tag dungeon.NodeTag) error {
	n, err := Room(g, inst, local)
	if err != nil {
		return err
	}
	n.AddTag(tag)
	return nil
}

// Lock puts a gate with a fresh id on a template-local edge of inst and
// returns it. Any existing gate is replaced. keys may be empty for a keyless
// barrier; a single key is stored as RequiredKey, more as RequiredKeys.
func Lock(g *dungeon.Graph, inst *rewrite.CycleInstance, alloc *dungeon.Allocator, local template.TEdgeID,
	kind dungeon.GateKind, strength dungeon.GateStrength, keys ...dungeon.KeyID) (*dungeon.EdgeGate, error) {
	e, err := Passage(g, inst, local)
	if err != nil {
		return nil, err
	}
	gate := &dungeon.EdgeGate{ID: alloc.NewGate(), Kind: kind, Strength: strength}
	switch len(keys) {
	case 0:
	case 1:
		gate.RequiredKey = keys[0]
	default:
		gate.RequiredKeys = append([]dungeon.KeyID(nil), keys...)
	}
	e.Gate = gate
	return gate, nil
}
