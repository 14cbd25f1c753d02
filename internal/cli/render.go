package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	pio "github.com/matzehuels/cyclegen/pkg/io"
	"github.com/matzehuels/cyclegen/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path (or base path for multiple outputs)
	formats  string
	clusters bool
	labels   bool
	scale    float64
}

// renderCommand creates the render command, which exports a result saved by
// "generate -f json" in other formats.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:     "render [file]",
		Short:   "Render a saved dungeon to DOT, SVG, PNG or PDF",
		Example: `  cyclegen render run.json -f svg,png --clusters`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (default: input name)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "svg", "output format(s): svg, dot, png, pdf, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.clusters, "clusters", false, "group rooms by inserted pattern")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "show room ids, tags and gate details")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "png scale factor")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	c.Logger.Infof("Rendering %s", input)

	res, err := pio.ImportJSON(input)
	if err != nil {
		return err
	}
	c.Logger.Infof("Loaded dungeon: %d rooms, %d passages", res.Stats.Nodes, res.Stats.Edges)

	formats := parseFormats(opts.formats)
	artifacts, err := pipeline.Render(ctx, res, pipeline.Options{
		Formats:  formats,
		Clusters: opts.clusters,
		Labels:   opts.labels,
		Scale:    opts.scale,
	})
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = basePath(input)
		if len(formats) == 1 {
			output += "." + formats[0]
		}
	}
	return writeArtifacts(artifacts, formats, output)
}

// basePath strips the extension from input.
func basePath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input))
}
