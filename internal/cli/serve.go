package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cyclegen/internal/server"
	"github.com/matzehuels/cyclegen/pkg/store"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		patterns []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API until interrupted.

The cache and run archive backends come from the [cache] and [store] sections
of the config file. The default archive keeps runs in memory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, false, patterns)
			if err != nil {
				return err
			}
			defer runner.Close()

			st, err := store.Open(ctx, c.cfg.StoreOptions())
			if err != nil {
				return err
			}
			defer st.Close()

			c.Logger.Info("serving", "cache", c.cfg.Cache.Backend, "store", c.cfg.Store.Backend,
				"types", len(runner.Library.Types()))
			return server.New(runner, st, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringSliceVar(&patterns, "patterns", nil, "pattern file(s) added to the built-in library")
	return cmd
}
