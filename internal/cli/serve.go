package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lehmer/pkg/api"
)

// serveCommand creates the serve command, which runs the HTTP API until the
// process is interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the permutation engine over HTTP",
		Long: `Serve the permutation engine as a JSON API.

The listen address and timeouts come from the [server] section of the
config file; --addr overrides the address. The server shuts down
gracefully on interrupt.`,
		Example: `  lehmer serve
  lehmer serve --addr 127.0.0.1:9000

  curl -s localhost:8080/v1/permutations/at -d '{"items":["A","B","C"],"rank":3}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			sc := c.Config.Server
			if addr != "" {
				sc.Addr = addr
			}
			srv := api.NewServer(runner, c.Logger, api.Config{
				Addr:            sc.Addr,
				ReadTimeout:     sc.ReadTimeout.Duration,
				WriteTimeout:    sc.WriteTimeout.Duration,
				ShutdownTimeout: sc.ShutdownTimeout.Duration,
			})

			c.Logger.Info("serving", "addr", sc.Addr, "cache", c.cacheBackend(noCache))
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
