package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/lehmer/pkg/buildinfo"
	"github.com/matzehuels/lehmer/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Before any subcommand runs, the root command applies --verbose, loads the
// configuration file and attaches the logger to the command context. With
// --verbose, query, cache and HTTP events are logged at debug level until the
// command returns.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   appName,
		Short: "Lehmer ranks, unranks and enumerates permutations",
		Long: `Lehmer maps between permutations and their ranks in lexicographic
order using the factorial number system (Lehmer codes).

Every permutation of n items has a rank in [0, n!). Rank 0 is the input
order and rank n!-1 is the reversed order. Up to 20 items are supported.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)

			// Each invocation starts from the no-op hooks so a previous
			// verbose run in the same process does not leak into this one.
			observability.Reset()
			if verbose {
				hooks := newLogHooks(c.Logger)
				observability.SetQueryHooks(hooks)
				observability.SetCacheHooks(hooks)
				observability.SetHTTPHooks(hooks)
			}

			// Shell completion must work without a valid config file.
			if cmd.Name() != "completion" && cmd.Name() != cobra.ShellCompRequestCmd {
				if err := c.loadConfig(); err != nil {
					return err
				}
			}

			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			observability.Reset()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.server, "server", "", "send queries to a lehmer API server (e.g. http://localhost:8080)")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $LEHMER_CONFIG or ~/.config/lehmer/config.toml)")

	root.AddCommand(c.factorialCommand())
	root.AddCommand(c.atCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.rankCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
