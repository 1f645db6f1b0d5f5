package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lehmer/pkg/query"
)

// treeOpts holds the flags of the tree command.
type treeOpts struct {
	highlight int64
	format    string
	output    string
	noCache   bool
	refresh   bool
}

// treeCommand creates the tree command for visualizing the decision tree.
func (c *CLI) treeCommand() *cobra.Command {
	opts := treeOpts{highlight: query.NoHighlight, format: query.FormatSVG}

	cmd := &cobra.Command{
		Use:   "tree <items...>",
		Short: "Render the decision tree of all permutations",
		Long: `Render the decision tree that enumerates every permutation of the items.

Each level picks the next item from those remaining; leaves are labeled with
their rank and the permutation it decodes to. With --highlight, the path to
one rank is drawn in bold. Trees are limited to 5 items (120 leaves).`,
		Example: `  lehmer tree A B C -o tree.svg
  lehmer tree A,B,C,D --highlight 9 -o tree.svg

  # DOT output for further processing
  lehmer tree A B C --format dot | dot -Tpng > tree.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd.Context(), cmd.OutOrStdout(), parseItems(args), opts)
		},
	}

	cmd.Flags().Int64Var(&opts.highlight, "highlight", opts.highlight, "rank whose path is highlighted (-1 for none)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render and replace the cached tree")

	return cmd
}

func (c *CLI) runTree(ctx context.Context, w io.Writer, items []string, opts treeOpts) error {
	if err := query.ValidateFormat(opts.format); err != nil {
		return err
	}

	eng, err := c.newEngine(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	defer eng.Close()

	var spinner *Spinner
	if opts.output != "" {
		spinner = newSpinner(ctx, fmt.Sprintf("Rendering %s tree...", opts.format))
		spinner.Start()
	}

	res, err := eng.Tree(ctx, query.TreeOptions{
		Items:     items,
		Highlight: opts.highlight,
		Format:    opts.format,
		Refresh:   opts.refresh,
	})
	if spinner != nil {
		if err != nil {
			spinner.StopWithError("Render failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := writeOutput(w, opts.output, res.Data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if opts.output == "" {
		return nil
	}

	printSuccess("Decision tree rendered")
	printFile(opts.output)
	printKeyValue("Items", strconv.Itoa(len(items)))
	if opts.highlight != query.NoHighlight {
		printKeyValue("Highlight", strconv.FormatInt(opts.highlight, 10))
	}
	if res.CacheHit {
		printDetail("served from cache")
	}
	return nil
}
