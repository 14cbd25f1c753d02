// Package pkg provides the libraries behind cyclegen, a generator of dungeon
// topologies built from nested cyclic patterns.
//
// # Overview
//
// A dungeon starts as a single cycle between a start room and a goal room.
// Chosen passages of that cycle are then replaced, one by one, by smaller
// cycles taken from a pattern library: two alternative paths, a lock and its
// key, a hidden shortcut, a dangerous detour. Every inserted pattern may be
// expanded in turn until a depth or insertion budget is spent. The pkg
// directory is organized into four areas:
//
//  1. Domain - [dungeon], [template], [rewrite], [rules], [selector], [generator]
//  2. Serialization - [graph] and [io]
//  3. Infrastructure - [cache], [store], [config], [observability], [errors]
//  4. Orchestration and output - [pipeline] and [render/dot]
//
// # Architecture
//
// The typical data flow through cyclegen:
//
//	Settings + pattern library
//	         ↓
//	    [generator] (pick a root pattern, drain the insertion queue)
//	         ↓
//	    [rewrite] (splice a pattern into a passage, apply its rule)
//	         ↓
//	    [dungeon] (rooms, passages, gates and keys)
//	         ↓
//	    JSON/DOT/SVG/PNG/PDF output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/cyclegen/pkg/generator"
//	    "github.com/matzehuels/cyclegen/pkg/render/dot"
//	    "github.com/matzehuels/cyclegen/pkg/selector"
//	    "github.com/matzehuels/cyclegen/pkg/template/builtin"
//	)
//
//	lib, rr := builtin.Library()
//	d := generator.New(lib, selector.NewDefault(lib), rr, nil)
//
//	res, _ := d.Run(generator.DefaultSettings())
//	svg, _ := dot.RenderSVG(dot.ToDOT(res, dot.Options{Clusters: true}))
//
// Most callers go through [pipeline.Runner] instead, which adds caching,
// extra pattern files and multi-format output on top of the driver.
//
// # Determinism
//
// A run is a pure function of its settings and the pattern library: the same
// seed yields the same rooms, passages and ids. The [cache] keys results on
// both, and [graph.Fingerprint] identifies a result by its content.
//
// [dungeon]: https://pkg.go.dev/github.com/matzehuels/cyclegen/pkg/dungeon
// [template]: https://pkg.go.dev/github.com/matzehuels/cyclegen/pkg/template
// [rewrite]: https://pkg.go.dev/github.com/matzehuels/cyclegen/pkg/rewrite
// [rules]: https://pkg.go.dev/github.com/matzehuels/cyclegen/pkg/rules
// [selector]: https://pkg.go.dev/github.com/matzehuels/cyclegen/pkg/selector
// [generator]: https://pkg.go.dev/github.com/matzehuels/cyclegen/pkg/generator
// [graph]: https://pkg.go.dev/github.com/matzehuels/cyclegen/pkg/graph
// [graph.Fingerprint]: https://pkg.go.dev/github.com/matzehuels/cyclegen/pkg/graph#Fingerprint
// [io]: https://pkg.go.dev/github.com/matzehuels/cyclegen/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/cyclegen/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/cyclegen/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/cyclegen/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/cyclegen/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/cyclegen/pkg/errors
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/cyclegen/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/cyclegen/pkg/pipeline#Runner
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/cyclegen/pkg/render/dot
package pkg
