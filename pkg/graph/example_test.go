package graph_test

import (
	"fmt"

	"github.com/matzehuels/cyclegen/pkg/generator"
	"github.com/matzehuels/cyclegen/pkg/graph"
	"github.com/matzehuels/cyclegen/pkg/selector"
	"github.com/matzehuels/cyclegen/pkg/template"
	"github.com/matzehuels/cyclegen/pkg/template/builtin"
)

func ExampleFromResult() {
	lib, rr := builtin.Library()
	d := generator.New(lib, selector.Fixed(template.TwoAlternativePaths), rr, nil)
	res, _ := d.Run(generator.Settings{Seed: 1, MaxDepth: 1, MaxInsertionsTotal: 3})

	doc := graph.FromResult(res)
	fmt.Println("overall:", doc.Overall)
	fmt.Println("nodes:", len(doc.Nodes), "edges:", len(doc.Edges), "events:", len(doc.Events))
	fmt.Println("first room:", doc.Nodes[0].DisplayLabel(), doc.Nodes[0].Kind)
	// Output:
	// overall: two_alternative_paths
	// nodes: 16 edges: 19 events: 3
	// first room: start start
}
