package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/cyclegen/pkg/generator"
	"github.com/matzehuels/cyclegen/pkg/graph"
	"github.com/matzehuels/cyclegen/pkg/render"
	"github.com/matzehuels/cyclegen/pkg/render/dot"
)

// Render exports a result in the requested formats. The DOT source and the
// SVG drawing are built at most once and shared by the formats derived from
// them. PNG falls back to Graphviz's own rasteriser when rsvg-convert is not
// installed; the scale is then ignored.
func Render(ctx context.Context, res *generator.GenerationResult, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	src := dot.ToDOT(res, dot.Options{Clusters: opts.Clusters, Labels: opts.Labels})
	var svg []byte
	if opts.NeedsSVG() {
		var err error
		if svg, err = dot.RenderSVG(src); err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = graph.MarshalResult(res)
		case FormatDOT:
			data = []byte(src)
		case FormatSVG:
			data = svg
		case FormatPNG:
			if render.Available() {
				data, err = render.ToPNG(ctx, svg, opts.Scale)
			} else {
				data, err = dot.RenderPNG(src)
			}
		case FormatPDF:
			data, err = render.ToPDF(ctx, svg)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
