// Package dot renders generated dungeons as Graphviz diagrams.
//
// # Usage
//
// Convert a result to DOT source, then render to SVG:
//
//	src := dot.ToDOT(res, dot.Options{Clusters: true})
//	svg, err := dot.RenderSVG(src)
//
// [RenderPNG] draws a PNG at Graphviz's native resolution. Scaled PNG and
// PDF output go through pkg/render.
//
// # Styling
//
// The start room is drawn as a green house and the goal as a gold octagon.
// Key rooms, dangerous rooms and vistas get a tinted fill; secret rooms a
// dashed outline. One-way passages are drawn bold, sightline-blocked ones
// dotted, locked doors red and barriers grey.
//
// With [Options].Clusters each pattern instance becomes a dashed subgraph
// labelled with its cycle type and depth, nested inside the instance whose
// seam it replaced. This makes the derivation tree visible in the drawing.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering (no Graphviz installation needed).
package dot
