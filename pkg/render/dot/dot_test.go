package dot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/cyclegen/pkg/dungeon"
	"github.com/matzehuels/cyclegen/pkg/generator"
	"github.com/matzehuels/cyclegen/pkg/selector"
	"github.com/matzehuels/cyclegen/pkg/template"
	"github.com/matzehuels/cyclegen/pkg/template/builtin"
)

func generate(t *testing.T, sel selector.Selector, s generator.Settings) *generator.GenerationResult {
	t.Helper()
	lib, rr := builtin.Library()
	res, err := generator.New(lib, sel, rr, nil).Run(s)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	return res
}

func TestToDOT_Basic(t *testing.T) {
	res := generate(t, selector.Fixed(template.TwoAlternativePaths), generator.Settings{Seed: 1})

	dot := ToDOT(res, Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	for _, want := range []string{`"n1"`, `"n2"`, `"n3"`, `"n4"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing node %s", want)
		}
	}
	if !strings.Contains(dot, `"n1" -> "n3"`) {
		t.Error("ToDOT() output missing edge n1 -> n3")
	}
	if !strings.Contains(dot, "shape=house") || !strings.Contains(dot, "shape=doubleoctagon") {
		t.Error("ToDOT() output missing start/goal styling")
	}
	if strings.Contains(dot, "subgraph") {
		t.Error("ToDOT() without clusters emitted a subgraph")
	}
}

func TestToDOT_Deterministic(t *testing.T) {
	s := generator.Settings{Seed: 8, MaxDepth: 2, MaxInsertionsTotal: 10}
	lib, _ := builtin.Library()
	a := ToDOT(generate(t, selector.NewDefault(lib), s), Options{Clusters: true, Labels: true})
	b := ToDOT(generate(t, selector.NewDefault(lib), s), Options{Clusters: true, Labels: true})
	if a != b {
		t.Error("ToDOT() differs for equal results")
	}
}

func TestToDOT_Clusters(t *testing.T) {
	res := generate(t, selector.Fixed(template.TwoAlternativePaths),
		generator.Settings{Seed: 1, MaxDepth: 1, MaxInsertionsTotal: 3})

	dot := ToDOT(res, Options{Clusters: true})

	if got := strings.Count(dot, "subgraph cluster_"); got != len(res.Replacements) {
		t.Errorf("cluster count = %d, want %d", got, len(res.Replacements))
	}
	if !strings.Contains(dot, "two_alternative_paths (depth 2)") {
		t.Error("ToDOT() missing label of the nested depth-2 cluster")
	}
	// Every room is declared exactly once, whichever cluster owns it.
	for _, n := range res.Graph.Nodes() {
		decl := "\"" + n.ID.String() + "\" ["
		if got := strings.Count(dot, decl); got != 1 {
			t.Errorf("node %v declared %d times", n.ID, got)
		}
	}
}

func TestToDOT_LockAndLabels(t *testing.T) {
	res := generate(t, selector.Fixed(template.LockAndKey), generator.Settings{Seed: 1})

	plain := ToDOT(res, Options{})
	if !strings.Contains(plain, "color=firebrick") {
		t.Error("ToDOT() missing locked door colour")
	}
	if strings.Contains(plain, "lock (hard)") {
		t.Error("ToDOT() without labels printed gate details")
	}

	detailed := ToDOT(res, Options{Labels: true})
	if !strings.Contains(detailed, "lock (hard) k1") {
		t.Errorf("ToDOT() detailed missing gate label:\n%s", detailed)
	}
	if !strings.Contains(detailed, `key k1`) {
		t.Error("ToDOT() detailed missing key tag")
	}
}

func TestFmtLabel(t *testing.T) {
	tests := []struct {
		name     string
		node     dungeon.RoomNode
		detailed bool
		want     string
	}{
		{"label", dungeon.RoomNode{ID: 4, Label: "vista"}, false, "vista"},
		{"no label", dungeon.RoomNode{ID: 4}, false, "n4"},
		{"detailed", dungeon.RoomNode{ID: 4, Label: "key", Tags: []dungeon.NodeTag{dungeon.KeyTag(2)}}, true, "key\nn4\nkey k2"},
		{"detailed no label", dungeon.RoomNode{ID: 4, Tags: []dungeon.NodeTag{{Kind: dungeon.TagDanger}}}, true, "n4\ndanger"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmtLabel(&tt.node, tt.detailed); got != tt.want {
				t.Errorf("fmtLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFmtEdgeAttrs(t *testing.T) {
	tests := []struct {
		name string
		edge dungeon.RoomEdge
		want string
	}{
		{"plain", dungeon.RoomEdge{}, ""},
		{"one way", dungeon.RoomEdge{Traversal: dungeon.TraversalOneWay}, "penwidth=2"},
		{"sightline", dungeon.RoomEdge{Traversal: dungeon.TraversalSightlineBlocked}, "style=dotted"},
		{"barrier", dungeon.RoomEdge{Gate: &dungeon.EdgeGate{Kind: dungeon.GateBarrier}}, `color=grey50, label="barrier (soft)"`},
		{"multi key", dungeon.RoomEdge{Gate: &dungeon.EdgeGate{
			Kind: dungeon.GateLock, Strength: dungeon.StrengthHard, RequiredKeys: []dungeon.KeyID{1, 2},
		}}, `color=firebrick, label="lock (hard) k1+k2"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(fmtEdgeAttrs(&tt.edge, true), ", ")
			if got != tt.want {
				t.Errorf("fmtEdgeAttrs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %q, want %q", got, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() without viewBox = %q, want input unchanged", got)
	}
}

func TestRenderSVG(t *testing.T) {
	res := generate(t, selector.Fixed(template.LockAndKey), generator.Settings{Seed: 3})

	svg, err := RenderSVG(ToDOT(res, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte(`viewBox="0 0 `)) {
		t.Error("RenderSVG() output not normalized to a zero origin")
	}
}

func TestRenderPNG(t *testing.T) {
	res := generate(t, selector.Fixed(template.TwoAlternativePaths), generator.Settings{Seed: 1})

	png, err := RenderPNG(ToDOT(res, Options{}))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("RenderPNG() output starts with %q, want PNG signature", png[:min(len(png), 8)])
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG("digraph { a -> "); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
