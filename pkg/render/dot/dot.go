package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cyclegen/pkg/dungeon"
	"github.com/matzehuels/cyclegen/pkg/generator"
	"github.com/matzehuels/cyclegen/pkg/rewrite"
)

// Options configures DOT generation.
type Options struct {
	// Clusters draws every pattern instance as a nested subgraph, following
	// the derivation tree.
	Clusters bool

	// Labels adds room ids, tags and gate details to labels. When false,
	// rooms show only their template label.
	Labels bool
}

// ToDOT converts a generation result to Graphviz DOT source.
// Rooms and edges are emitted in id order, so equal results yield equal
// output.
func ToDOT(res *generator.GenerationResult, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("\n")

	g := res.Graph
	if opts.Clusters {
		tree := newFragmentTree(res)
		writeFragment(&buf, g, tree, 0, opts, "  ")
	} else {
		for _, n := range g.Nodes() {
			writeNode(&buf, n, opts, "  ")
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := fmtEdgeAttrs(e, opts.Labels)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From.String(), e.To.String())
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From.String(), e.To.String(), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// fragmentTree indexes the root fragment (0) and every spliced instance
// (1..n, in event order) with their child fragments.
type fragmentTree struct {
	frags    []*rewrite.CycleInstance
	children [][]int
}

func newFragmentTree(res *generator.GenerationResult) fragmentTree {
	t := fragmentTree{
		frags:    []*rewrite.CycleInstance{res.OverallFragment},
		children: [][]int{nil},
	}
	owner := make(map[dungeon.InsertionID]int)
	for _, ip := range res.OverallFragment.Insertions {
		owner[ip.ID] = 0
	}
	for _, ev := range res.Replacements {
		idx := len(t.frags)
		t.frags = append(t.frags, ev.Instance)
		t.children = append(t.children, nil)
		parent := owner[ev.Insertion.ID]
		t.children[parent] = append(t.children[parent], idx)
		for _, ip := range ev.Instance.Insertions {
			owner[ip.ID] = idx
		}
	}
	return t
}

func writeFragment(buf *bytes.Buffer, g *dungeon.Graph, t fragmentTree, idx int, opts Options, indent string) {
	f := t.frags[idx]
	inner := indent
	if idx > 0 {
		fmt.Fprintf(buf, "%ssubgraph cluster_%d {\n", indent, idx)
		inner = indent + "  "
		fmt.Fprintf(buf, "%slabel=%q;\n", inner, fmt.Sprintf("%s (depth %d)", f.Type, f.Depth))
		fmt.Fprintf(buf, "%sstyle=\"rounded,dashed\";\n", inner)
		fmt.Fprintf(buf, "%scolor=grey60;\n", inner)
	}
	for _, id := range f.Nodes {
		if n, ok := g.Node(id); ok {
			writeNode(buf, n, opts, inner)
		}
	}
	for _, c := range t.children[idx] {
		writeFragment(buf, g, t, c, opts, inner)
	}
	if idx > 0 {
		fmt.Fprintf(buf, "%s}\n", indent)
	}
}

func writeNode(buf *bytes.Buffer, n *dungeon.RoomNode, opts Options, indent string) {
	attrs := fmtNodeAttrs(n, fmtLabel(n, opts.Labels))
	fmt.Fprintf(buf, "%s%q [%s];\n", indent, n.ID.String(), strings.Join(attrs, ", "))
}

func fmtLabel(n *dungeon.RoomNode, detailed bool) string {
	name := n.Label
	if name == "" {
		name = n.ID.String()
	}
	if !detailed {
		return name
	}

	parts := []string{name}
	if n.Label != "" {
		parts = append(parts, n.ID.String())
	}
	for _, tag := range n.Tags {
		parts = append(parts, fmtTag(tag))
	}
	return strings.Join(parts, "\n")
}

func fmtTag(tag dungeon.NodeTag) string {
	if tag.Kind == dungeon.TagKey {
		return "key " + dungeon.KeyID(tag.Data).String()
	}
	return tag.Kind.String()
}

func fmtNodeAttrs(n *dungeon.RoomNode, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.Kind {
	case dungeon.KindStart:
		attrs = append(attrs, "shape=house", "fillcolor=palegreen")
		return attrs
	case dungeon.KindGoal:
		attrs = append(attrs, "shape=doubleoctagon", "fillcolor=gold")
		return attrs
	}
	for _, tag := range n.Tags {
		switch tag.Kind {
		case dungeon.TagKey:
			return append(attrs, "fillcolor=lightyellow")
		case dungeon.TagDanger:
			return append(attrs, "fillcolor=mistyrose")
		case dungeon.TagVista:
			return append(attrs, "fillcolor=lightcyan")
		case dungeon.TagSecret:
			return append(attrs, "style=\"rounded,filled,dashed\"")
		}
	}
	return attrs
}

func fmtEdgeAttrs(e *dungeon.RoomEdge, detailed bool) []string {
	var attrs []string
	switch e.Traversal {
	case dungeon.TraversalOneWay:
		attrs = append(attrs, "penwidth=2")
	case dungeon.TraversalSightlineBlocked:
		attrs = append(attrs, "style=dotted")
	}

	gate := e.Gate
	if gate == nil {
		return attrs
	}
	switch gate.Kind {
	case dungeon.GateLock:
		attrs = append(attrs, "color=firebrick")
	case dungeon.GateBarrier:
		attrs = append(attrs, "color=grey50")
	}
	if detailed {
		attrs = append(attrs, fmt.Sprintf("label=%q", fmtGate(gate)))
	}
	return attrs
}

func fmtGate(g *dungeon.EdgeGate) string {
	label := g.Kind.String() + " (" + g.Strength.String() + ")"
	if keys := g.Keys(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		label += " " + strings.Join(names, "+")
	}
	return label
}

// RenderSVG lays out DOT source with the embedded Graphviz and returns the
// SVG drawing.
func RenderSVG(src string) ([]byte, error) {
	svg, err := draw(context.Background(), src, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG lays out DOT source as a PNG at Graphviz's native resolution.
// It needs no external tools, unlike render.ToPNG.
func RenderPNG(src string) ([]byte, error) {
	return draw(context.Background(), src, graphviz.PNG)
}

func draw(ctx context.Context, src string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the drawing scales from a zero
// origin at its natural size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
