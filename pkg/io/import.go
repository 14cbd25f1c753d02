package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/cyclegen/pkg/dungeon"
	errs "github.com/matzehuels/cyclegen/pkg/errors"
	"github.com/matzehuels/cyclegen/pkg/generator"
	"github.com/matzehuels/cyclegen/pkg/graph"
	"github.com/matzehuels/cyclegen/pkg/template"
)

// patternFile is the on-disk format for user-defined patterns. Node and
// edge references are 1-based positions in the nodes and edges arrays.
type patternFile struct {
	Patterns []pattern `json:"patterns"`
}

type pattern struct {
	Type  string        `json:"type"`
	Nodes []patternNode `json:"nodes"`
	Edges []patternEdge `json:"edges"`
	Start int           `json:"start"`
	Goal  int           `json:"goal"`
	ArcA  []int         `json:"arc_a"`
	ArcB  []int         `json:"arc_b"`
	Seams []int         `json:"seams,omitempty"`
}

type patternNode struct {
	Kind  string `json:"kind"`
	Label string `json:"label,omitempty"`
}

type patternEdge struct {
	From      int    `json:"from"`
	To        int    `json:"to"`
	Traversal string `json:"traversal,omitempty"`
}

// ReadJSON decodes a result document from r and rebuilds the generation
// result. It returns an error if the JSON is malformed, names an unknown
// enumeration value, or describes an inconsistent graph.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*generator.GenerationResult, error) {
	var doc graph.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return graph.ToResult(doc)
}

// ImportJSON reads a result document from the file at path.
func ImportJSON(path string) (*generator.GenerationResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ReadPatterns decodes a pattern file and builds each template.
//
// Each pattern must name a valid cycle type, pass the checks of
// [template.Builder.Build] and have arcs that form paths. The first failure
// is returned with the pattern's type for context. Errors carry [errs.ErrCodeInvalidTemplate] or
// [errs.ErrCodeInvalidCycleType].
func ReadPatterns(r io.Reader) ([]*template.CycleTemplate, error) {
	var data patternFile
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode pattern file")
	}

	out := make([]*template.CycleTemplate, 0, len(data.Patterns))
	for i, p := range data.Patterns {
		t, err := p.build()
		if err != nil {
			return nil, fmt.Errorf("pattern %d (%s): %w", i, p.Type, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// ImportPatterns reads a pattern file at path.
func ImportPatterns(path string) ([]*template.CycleTemplate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadPatterns(f)
}

func (p pattern) build() (*template.CycleTemplate, error) {
	if err := errs.ValidateCycleType(p.Type); err != nil {
		return nil, err
	}

	b := template.NewBuilder(template.CycleType(p.Type))
	for _, n := range p.Nodes {
		kind, ok := dungeon.ParseNodeKind(n.Kind)
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidTemplate, "unknown node kind %q", n.Kind)
		}
		b.AddNode(kind, n.Label)
	}
	for _, e := range p.Edges {
		trav := dungeon.TraversalNormal
		if e.Traversal != "" {
			var ok bool
			if trav, ok = dungeon.ParseTraversal(e.Traversal); !ok {
				return nil, errs.New(errs.ErrCodeInvalidTemplate, "unknown traversal %q", e.Traversal)
			}
		}
		b.AddEdge(template.TNodeID(e.From), template.TNodeID(e.To), trav)
	}
	for _, s := range p.Seams {
		b.AddInsertion(template.TEdgeID(s))
	}
	t, err := b.Build(template.TNodeID(p.Start), template.TNodeID(p.Goal), edgeIDs(p.ArcA), edgeIDs(p.ArcB))
	if err != nil {
		return nil, err
	}
	if err := t.CheckKinds(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidTemplate, err, "%s", p.Type)
	}
	if err := t.CheckArcs(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidTemplate, err, "%s", p.Type)
	}
	return t, nil
}

func edgeIDs(in []int) []template.TEdgeID {
	out := make([]template.TEdgeID, len(in))
	for i, v := range in {
		out[i] = template.TEdgeID(v)
	}
	return out
}
