// Package render converts the SVG drawings of [dot] to raster and print
// formats.
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert from librsvg:
//
//	svg, err := dot.RenderSVG(src)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// When the tool is missing both return an error with code
// errors.ErrCodeUnsupported. Callers that only need a PNG can fall back to
// [dot.RenderPNG], which draws at graphviz's native resolution.
//
// [dot]: github.com/matzehuels/cyclegen/pkg/render/dot
package render
