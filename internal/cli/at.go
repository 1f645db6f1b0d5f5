package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lehmer/pkg/query"
)

// atCommand creates the at command, which decodes a single rank.
func (c *CLI) atCommand() *cobra.Command {
	var (
		wrap   bool
		sep    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "at <rank> <items...>",
		Short: "Print the permutation with a given rank",
		Long: `Print the permutation of the items with the given lexicographic rank.

Ranks run from 0 (the items in input order) to n!-1 (the items reversed).
With --wrap, any rank is accepted and reduced modulo n!.`,
		Example: `  lehmer at 3 A B C        # B C A
  lehmer at 3 A,B,C
  lehmer at --wrap -- -1 A B C   # C B A`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rank, err := parseRank(args[0])
			if err != nil {
				return err
			}

			eng, err := c.newEngine(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer eng.Close()

			res, err := eng.At(cmd.Context(), query.AtOptions{
				Items: parseItems(args[1:]),
				Rank:  rank,
				Wrap:  wrap,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), joinPermutation(res.Permutation, sep))
			return err
		},
	}

	cmd.Flags().BoolVar(&wrap, "wrap", false, "reduce the rank modulo n! instead of rejecting it")
	cmd.Flags().StringVar(&sep, "sep", " ", "separator between items")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}
