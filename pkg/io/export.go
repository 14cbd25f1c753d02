package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/cyclegen/pkg/generator"
	"github.com/matzehuels/cyclegen/pkg/graph"
	"github.com/matzehuels/cyclegen/pkg/template"
)

// WriteJSON encodes a generation result as its canonical JSON document and
// writes it to w. The output can be re-imported with [ReadJSON].
func WriteJSON(res *generator.GenerationResult, w io.Writer) error {
	return encode(graph.FromResult(res), w)
}

// ExportJSON writes a generation result to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(res *generator.GenerationResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(res, f)
}

// WritePatterns encodes templates in the pattern file format read by
// [ReadPatterns].
func WritePatterns(tmpls []*template.CycleTemplate, w io.Writer) error {
	out := patternFile{Patterns: make([]pattern, len(tmpls))}
	for i, t := range tmpls {
		out.Patterns[i] = patternFrom(t)
	}
	return encode(out, w)
}

// ExportPatterns writes templates to a pattern file at path.
func ExportPatterns(tmpls []*template.CycleTemplate, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WritePatterns(tmpls, f)
}

func encode(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func patternFrom(t *template.CycleTemplate) pattern {
	p := pattern{
		Type:  string(t.Type()),
		Start: int(t.Start()),
		Goal:  int(t.Goal()),
	}
	for _, n := range t.Nodes() {
		p.Nodes = append(p.Nodes, patternNode{Kind: n.Kind.String(), Label: n.Label})
	}
	for _, e := range t.Edges() {
		p.Edges = append(p.Edges, patternEdge{From: int(e.From), To: int(e.To), Traversal: e.Traversal.String()})
	}
	for _, id := range t.ArcA() {
		p.ArcA = append(p.ArcA, int(id))
	}
	for _, id := range t.ArcB() {
		p.ArcB = append(p.ArcB, int(id))
	}
	for _, ins := range t.Insertions() {
		p.Seams = append(p.Seams, int(ins.Seam))
	}
	return p
}
