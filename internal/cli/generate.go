package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cyclegen/pkg/generator"
	"github.com/matzehuels/cyclegen/pkg/pipeline"
	"github.com/matzehuels/cyclegen/pkg/store"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	settings generator.Settings
	overall  string
	patterns []string // extra pattern files
	formats  string
	output   string
	clusters bool
	labels   bool
	scale    float64
	refresh  bool // ignore cached results
	noCache  bool // disable the cache entirely
	archive  bool // save the result to the run archive
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{settings: generator.DefaultSettings(), scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a dungeon",
		Long: `Generate a dungeon from the pattern library.

Settings not given on the command line come from the config file, then from
the built-in defaults. Without --output a single artifact is written to stdout.`,
		Example: `  cyclegen generate --seed 7 -f svg -o dungeon.svg
  cyclegen generate --overall lock_and_key --max-depth 2 -f json,dot -o run
  cyclegen generate --patterns vaults.json --archive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.mergeSettings(cmd, &opts)
			return c.runGenerate(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.Int64Var(&opts.settings.Seed, "seed", opts.settings.Seed, "random seed")
	f.IntVar(&opts.settings.MaxDepth, "max-depth", opts.settings.MaxDepth, "deepest nesting level that is still expanded")
	f.IntVar(&opts.settings.MaxInsertionsTotal, "max-insertions", opts.settings.MaxInsertionsTotal, "maximum number of pattern insertions")
	f.IntVar(&opts.settings.MaxNodes, "max-nodes", opts.settings.MaxNodes, "maximum number of rooms (0 = unlimited)")
	f.StringVar(&opts.overall, "overall", "", "pattern type of the outermost cycle (default: random)")
	f.StringSliceVar(&opts.patterns, "patterns", nil, "pattern file(s) added to the built-in library")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): json (default), dot, svg, png, pdf (comma-separated)")
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.BoolVar(&opts.clusters, "clusters", false, "group rooms by inserted pattern (dot/svg)")
	f.BoolVar(&opts.labels, "labels", false, "show room ids, tags and gate details (dot/svg)")
	f.Float64Var(&opts.scale, "scale", opts.scale, "png scale factor")
	f.BoolVar(&opts.refresh, "refresh", false, "regenerate even if a cached result exists")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	f.BoolVar(&opts.archive, "archive", false, "save the result to the run archive")

	return cmd
}

// mergeSettings fills every generator flag the user did not set from the
// config file.
func (c *CLI) mergeSettings(cmd *cobra.Command, opts *generateOpts) {
	base := pipeline.Options{}
	c.cfg.Apply(&base)

	f := cmd.Flags()
	if !f.Changed("seed") {
		opts.settings.Seed = base.Settings.Seed
	}
	if !f.Changed("max-depth") {
		opts.settings.MaxDepth = base.Settings.MaxDepth
	}
	if !f.Changed("max-insertions") {
		opts.settings.MaxInsertionsTotal = base.Settings.MaxInsertionsTotal
	}
	if !f.Changed("max-nodes") {
		opts.settings.MaxNodes = base.Settings.MaxNodes
	}
	if !f.Changed("overall") {
		opts.overall = base.Overall
	}
}

func (c *CLI) runGenerate(ctx context.Context, opts generateOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache, opts.patterns)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{
		Settings: opts.settings,
		Overall:  opts.overall,
		Refresh:  opts.refresh,
		Formats:  parseFormats(opts.formats),
		Clusters: opts.clusters,
		Labels:   opts.labels,
		Scale:    opts.scale,
		Logger:   c.Logger,
	}

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %s dungeon", result.Generation.OverallType))

	if err := writeArtifacts(result.Artifacts, popts.Formats, opts.output); err != nil {
		return err
	}

	// Status lines would corrupt an artifact written to stdout.
	quiet := opts.output == ""

	if opts.archive {
		id, err := c.archive(ctx, result)
		if err != nil {
			return err
		}
		if quiet {
			c.Logger.Info("archived run", "id", id)
		} else {
			printKeyValue("Run", id)
		}
	}

	if !quiet {
		st := result.Generation.Stats
		printStats(st.Nodes, st.Edges, result.CacheInfo.GenerateHit)
		printDetail("%d insertions, %d discarded, %d left unexpanded, depth %d",
			st.Insertions, st.Discarded, st.Unexpanded, st.MaxDepth)
	}
	return nil
}

// archive saves the generated result to the run archive and returns its id.
func (c *CLI) archive(ctx context.Context, result *pipeline.Result) (string, error) {
	st, err := c.openStore(ctx)
	if err != nil {
		return "", err
	}
	defer st.Close()

	rec, err := store.NewRecord(result.Generation)
	if err != nil {
		return "", err
	}
	if err := st.Save(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}
