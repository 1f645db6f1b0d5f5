package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lehmer/pkg/query"
)

// rankCommand creates the rank command, the inverse of at.
func (c *CLI) rankCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "rank <items> <permutation>",
		Short: "Print the rank of an ordering of the items",
		Long: `Print the lexicographic rank of a permutation relative to the item order.

Both arguments are comma-separated lists. The permutation must contain
every item exactly once.`,
		Example: `  lehmer rank A,B,C B,C,A   # 3`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := c.newEngine(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer eng.Close()

			res, err := eng.Rank(cmd.Context(), query.RankOptions{
				Items:       parseList(args[0]),
				Permutation: parseList(args[1]),
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Rank)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}
