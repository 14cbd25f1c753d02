package generator_test

import (
	"fmt"

	"github.com/matzehuels/cyclegen/pkg/generator"
	"github.com/matzehuels/cyclegen/pkg/selector"
	"github.com/matzehuels/cyclegen/pkg/template"
	"github.com/matzehuels/cyclegen/pkg/template/builtin"
)

func ExampleDriver_Run() {
	lib, rr := builtin.Library()
	d := generator.New(lib, selector.Fixed(template.TwoAlternativePaths), rr, nil)

	res, err := d.Run(generator.Settings{Seed: 1, MaxDepth: 1, MaxInsertionsTotal: 3})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("Overall:", res.OverallType)
	fmt.Println("Rooms:", res.Stats.Nodes)
	fmt.Println("Edges:", res.Stats.Edges)
	for _, ev := range res.Replacements {
		fmt.Printf("%s at depth %d: %s -> %s\n", ev.Type, ev.Insertion.Depth, ev.ParentFrom, ev.ParentTo)
	}
	// Output:
	// Overall: two_alternative_paths
	// Rooms: 16
	// Edges: 19
	// two_alternative_paths at depth 0: n1 -> n3
	// two_alternative_paths at depth 0: n4 -> n2
	// two_alternative_paths at depth 1: n5 -> n7
}
