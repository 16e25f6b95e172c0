// Package cli implements the stackfetch command-line interface.
package cli

import (
	"context"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackfetch/pkg/artifacts"
	"github.com/matzehuels/stackfetch/pkg/buildinfo"
	"github.com/matzehuels/stackfetch/pkg/cache"
	"github.com/matzehuels/stackfetch/pkg/config"
	"github.com/matzehuels/stackfetch/pkg/engine/maven"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "stackfetch"

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
	cacheFlag  string
	noCache    bool
	workers    int
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Stackfetch resolves JVM and Scala dependencies and downloads their artifacts",
		Long:         `Stackfetch resolves Maven dependencies, Scala toolchains and build plugins, downloads the artifacts, and prints classpaths ready for a compiler or runner.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/stackfetch/config.toml)")
	flags.StringVar(&c.cacheFlag, "cache", "", "metadata cache backend: file, memory, redis, mongo or none")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the metadata cache")
	flags.IntVar(&c.workers, "workers", 0, "concurrent downloads (default from config)")

	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Runner Factory
// =============================================================================

// loadConfig reads the config file and applies command-line overrides.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.cacheFlag != "" {
		cfg.Cache.Backend = c.cacheFlag
	}
	if c.noCache {
		cfg.Cache.Backend = config.BackendNone
	}
	if c.workers > 0 {
		cfg.Workers = c.workers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newRunner opens the configured cache and builds a runner on the Maven
// engine. A nil keyer uses the default keys. The returned cache must be
// closed by the caller.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, keyer cache.Keyer) (*artifacts.Runner, cache.Cache, error) {
	dir, err := cfg.Cache.ResolveDir()
	if err != nil {
		return nil, nil, err
	}
	mc, err := cfg.Cache.OpenCache(ctx)
	if err != nil {
		return nil, nil, err
	}

	e := maven.New(maven.Options{
		Dir:     filepath.Join(dir, "artifacts"),
		Cache:   mc,
		Keyer:   keyer,
		TTL:     cfg.Cache.TTL,
		Workers: cfg.Workers,
		Logger:  c.Logger,
	})
	r := artifacts.NewRunner(e, c.Logger)
	r.Workers = cfg.Workers
	return r, mc, nil
}
