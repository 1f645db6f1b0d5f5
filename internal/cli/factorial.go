package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// factorialCommand creates the factorial command.
func (c *CLI) factorialCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "factorial <n>",
		Short: "Print n! for 0 <= n <= 20",
		Long: `Print n factorial, the number of permutations of n items.

n! is exact for 0 <= n <= 20; larger values do not fit a signed 64-bit
integer and are rejected.`,
		Example: `  lehmer factorial 5
  lehmer factorial 20 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseN(args[0])
			if err != nil {
				return err
			}

			eng, err := c.newEngine(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer eng.Close()

			res, err := eng.Factorial(cmd.Context(), n)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Value)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}
