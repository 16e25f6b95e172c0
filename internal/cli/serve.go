package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackfetch/internal/server"
	"github.com/matzehuels/stackfetch/pkg/cache"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		scope   string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the fetch API over HTTP",
		Long: `Serve POST /v1/fetch and GET /healthz.

The server shares the configured metadata cache; use a redis or mongo backend
to share it between replicas, and --scope to keep deployments apart.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			repos, err := cfg.RepositoryList()
			if err != nil {
				return err
			}

			var keyer cache.Keyer
			if scope != "" {
				keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), scope+":")
			}
			runner, mc, err := c.newRunner(cmd.Context(), cfg, keyer)
			if err != nil {
				return err
			}
			defer mc.Close()

			printKeyValue("Address", addr)
			printKeyValue("Cache", cfg.Cache.Backend)

			s := server.New(server.Options{
				Runner:         runner,
				Repositories:   repos,
				Versions:       cfg.Versions,
				Logger:         c.Logger,
				RequestTimeout: timeout,
			})
			return s.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&scope, "scope", "", "cache key prefix for this deployment")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultRequestTimeout, "per-request fetch timeout")
	return cmd
}
