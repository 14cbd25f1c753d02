package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cyclegen/pkg/buildinfo"
	"github.com/matzehuels/cyclegen/pkg/cache"
	"github.com/matzehuels/cyclegen/pkg/config"
	pio "github.com/matzehuels/cyclegen/pkg/io"
	"github.com/matzehuels/cyclegen/pkg/pipeline"
	"github.com/matzehuels/cyclegen/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "cyclegen"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "cyclegen grows dungeon layouts from cyclic patterns",
		Long: `cyclegen generates dungeon topologies by recursively replacing passages
with small cyclic patterns: alternative routes, locked doors and their keys,
hidden shortcuts, dangerous detours. Runs are deterministic for a seed.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/cyclegen/config.toml)")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.typesCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.runsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Pattern files from the
// config and from patterns are added to the built-in library, in that order.
func (c *CLI) newRunner(ctx context.Context, noCache bool, patterns []string) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, c.cfg.Cache.Prefix), c.Logger)
	if ttl := c.cfg.Cache.TTL.Duration; ttl > 0 {
		runner.ResultTTL = ttl
	}

	for _, path := range append(slices.Clone(c.cfg.Generator.Patterns), patterns...) {
		tmpls, err := pio.ImportPatterns(expandHome(path))
		if err != nil {
			runner.Close()
			return nil, err
		}
		runner.AddPatterns(tmpls...)
		c.Logger.Debug("loaded patterns", "file", path, "count", len(tmpls))
	}
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil && c.cfg.Cache.Dir == "" && c.cfg.Cache.Backend == cache.BackendFile {
		return cache.NewNullCache(), nil
	}
	opts := c.cfg.CacheOptions(dir)
	opts.Dir = expandHome(opts.Dir)
	return cache.Open(ctx, opts)
}

// openStore opens the run archive. The CLI has no long-lived process, so a
// memory backend is replaced by the file backend.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	opts := c.cfg.StoreOptions()
	if opts.Backend == store.BackendMemory || opts.Backend == "" {
		opts.Backend = store.BackendFile
	}
	if opts.Dir != "" {
		opts.Dir = expandHome(opts.Dir)
	}
	return store.Open(ctx, opts)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/cyclegen/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	return strings.Split(s, ",")
}

// outputPath returns the file an artifact is written to. A single format
// writes to output as given; several formats share output as a base name.
func outputPath(output, format string, multi bool) string {
	if !multi {
		return output
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		output = strings.TrimSuffix(output, ext)
	}
	return output + "." + format
}

// writeArtifacts writes every artifact. An empty output prints a single
// artifact to stdout.
func writeArtifacts(artifacts map[string][]byte, formats []string, output string) error {
	if output == "" {
		if len(formats) != 1 {
			return fmt.Errorf("--output is required for several formats")
		}
		_, err := os.Stdout.Write(artifacts[formats[0]])
		return err
	}

	multi := len(formats) > 1
	for _, f := range formats {
		path := outputPath(output, f, multi)
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
