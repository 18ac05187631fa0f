package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phallocators/allocviz/internal/server"
	"github.com/phallocators/allocviz/pkg/cache"
	"github.com/phallocators/allocviz/pkg/pipeline"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		noCache  bool
		keyScope string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render pipeline over HTTP",
		Long: `Serve the render pipeline over HTTP.

Endpoints:
  GET  /healthz
  POST /v1/render?kind=auto&format=svg   body: snapshot JSON
  POST /v1/graph?format=svg              body: linked-list snapshot JSON

The server uses the [server] and [cache] sections of the config file. Use
--key-scope to share one Redis cache between several deployments.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.cfg.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			ch, err := newCache(ctx, c.cfg.Cache, noCache)
			if err != nil {
				return fmt.Errorf("initialize cache: %w", err)
			}
			var keyer cache.Keyer
			if keyScope != "" {
				keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), keyScope)
			}
			runner := pipeline.NewRunner(ch, keyer, c.Logger)
			defer runner.Close()

			srv := server.New(runner,
				server.WithLogger(c.Logger),
				server.WithLayouts(c.cfg.Layouts),
				server.WithMaxBodyBytes(cfg.MaxBodyBytes),
				server.WithTimeouts(cfg.ReadTimeout, cfg.WriteTimeout),
			)
			printInfo("Serving on %s", StyleHighlight.Render(cfg.Addr))
			return srv.ListenAndServe(ctx, cfg.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (overrides [server] addr)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&keyScope, "key-scope", "", "prefix for every cache key")

	return cmd
}
