package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lehmer/pkg/errors"
	"github.com/matzehuels/lehmer/pkg/query"
)

// listOpts holds the flags of the list command.
type listOpts struct {
	offset  int64
	limit   int64
	workers int
	asJSON  bool
	plain   bool
	noCache bool
	refresh bool
}

// listCommand creates the list command, which prints a window of ranks.
func (c *CLI) listCommand() *cobra.Command {
	var opts listOpts

	cmd := &cobra.Command{
		Use:   "list <items...>",
		Short: "List permutations in rank order",
		Long: `List a window of permutations in lexicographic rank order.

The window starts at --offset and holds at most --limit permutations; it
is clipped at n!. Windows are decoded in parallel and cached, so paging
through a large space repeatedly is cheap.`,
		Example: `  lehmer list A B C
  lehmer list A,B,C,D --offset 10 --limit 5
  lehmer list A B C --plain | fzf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runList(cmd.Context(), cmd.OutOrStdout(), parseItems(args), opts)
		},
	}

	cmd.Flags().Int64Var(&opts.offset, "offset", 0, "first rank to list")
	cmd.Flags().Int64Var(&opts.limit, "limit", 0, "number of permutations (default from config)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel decoders, local only (default from config or GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the page as JSON")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print one tab-separated line per permutation")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute and replace the cached page")
	cmd.MarkFlagsMutuallyExclusive("json", "plain")

	return cmd
}

func (c *CLI) runList(ctx context.Context, w io.Writer, items []string, opts listOpts) error {
	if c.server != "" && opts.workers > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "--workers cannot be used with --server; the server sets its own decoder count")
	}

	eng, err := c.newEngine(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	defer eng.Close()

	if runner, ok := eng.(*query.Runner); ok && opts.workers > 0 {
		runner.Workers = opts.workers
	}

	prog := newProgress(loggerFromContext(ctx))
	page, err := eng.Page(ctx, query.PageOptions{
		Items:   items,
		Offset:  opts.offset,
		Limit:   opts.limit,
		Refresh: opts.refresh,
	})
	if err != nil {
		return err
	}
	if !page.CacheHit && len(page.Permutations) > 0 {
		prog.done(fmt.Sprintf("Decoded %d permutations", len(page.Permutations)))
	}

	switch {
	case opts.asJSON:
		return writeJSON(w, page)
	case opts.plain:
		for i, p := range page.Permutations {
			if _, err := fmt.Fprintf(w, "%d\t%s\n", page.Offset+int64(i), joinPermutation(p, " ")); err != nil {
				return err
			}
		}
		return nil
	}

	if len(page.Permutations) > 0 {
		if _, err := fmt.Fprintln(w, permutationTable(page.Offset, page.Permutations, -1)); err != nil {
			return err
		}
	}
	printStats(page.Offset, len(page.Permutations), page.Total, page.CacheHit)
	if page.HasMore() {
		printNextStep("Next page", fmt.Sprintf("%s list --offset %d --limit %d %s",
			appName, page.NextOffset(), page.Limit, joinPermutation(items, " ")))
	}
	return nil
}
