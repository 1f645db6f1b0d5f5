package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lehmer/pkg/perm"
	"github.com/matzehuels/lehmer/pkg/query"
)

var browseDimStyle = lipgloss.NewStyle().Foreground(colorDim)

const minBrowseHeight = 5

// browseCommand creates the browse command, an interactive pager over every
// rank of the items.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		start   int64
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "browse <items...>",
		Short: "Page through all permutations interactively",
		Long: `Page through all permutations of the items in rank order.

Only the visible window is decoded, so even 20 items (about 2.4e18
permutations) can be browsed. Jump to the last rank with G or End.`,
		Example: `  lehmer browse A B C D
  lehmer browse A,B,C,D,E,F --start 700`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), parseItems(args), start, noCache)
		},
	}

	cmd.Flags().Int64Var(&start, "start", 0, "rank selected when the pager opens")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, items []string, start int64, noCache bool) error {
	if err := query.ValidateItems(items); err != nil {
		return err
	}

	eng, err := c.newEngine(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	defer eng.Close()

	m, err := newBrowseModel(ctx, eng, items, start)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return err
	}
	if bm, ok := final.(browseModel); ok && bm.err != nil {
		return bm.err
	}
	return nil
}

// pager loads windows of ranks for the browser.
type pager interface {
	Page(ctx context.Context, opts query.PageOptions) (*query.PageResult, error)
}

// pageMsg delivers a decoded window to the model.
type pageMsg struct {
	page *query.PageResult
}

// pageErrMsg reports a failed page load.
type pageErrMsg struct {
	err error
}

// browseModel is the bubbletea model of the pager. Cursor is the selected
// rank; Offset is the first rank on screen.
type browseModel struct {
	ctx   context.Context
	pages pager
	items []string

	Total  int64
	Cursor int64
	Offset int64
	Height int64

	page *query.PageResult
	err  error
}

func newBrowseModel(ctx context.Context, pages pager, items []string, start int64) (browseModel, error) {
	total, err := perm.Count(items)
	if err != nil {
		return browseModel{}, err
	}
	m := browseModel{
		ctx:    ctx,
		pages:  pages,
		items:  items,
		Total:  total,
		Height: 15,
	}
	m.Cursor = min(max(start, 0), total-1)
	m.Offset = m.Cursor
	return m, nil
}

func (m browseModel) Init() tea.Cmd {
	return m.load()
}

// load decodes the window starting at m.Offset.
func (m browseModel) load() tea.Cmd {
	offset, limit := m.Offset, m.Height
	return func() tea.Msg {
		page, err := m.pages.Page(m.ctx, query.PageOptions{
			Items:  m.items,
			Offset: offset,
			Limit:  limit,
		})
		if err != nil {
			return pageErrMsg{err: err}
		}
		return pageMsg{page: page}
	}
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			return m.moveTo(m.Cursor - 1)
		case "down", "j":
			return m.moveTo(m.Cursor + 1)
		case "pgup", "b":
			return m.moveTo(m.Cursor - m.Height)
		case "pgdown", "f", " ":
			return m.moveTo(m.Cursor + m.Height)
		case "home", "g":
			return m.moveTo(0)
		case "end", "G":
			return m.moveTo(m.Total - 1)
		}
	case tea.WindowSizeMsg:
		m.Height = max(int64(msg.Height)-8, minBrowseHeight)
		return m, m.load()
	case pageMsg:
		// Drop pages that arrive after the view has moved on.
		if msg.page.Offset == m.Offset {
			m.page = msg.page
		}
	case pageErrMsg:
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

// moveTo selects rank, scrolling the window when it leaves the screen.
func (m browseModel) moveTo(rank int64) (tea.Model, tea.Cmd) {
	rank = min(max(rank, 0), m.Total-1)
	if rank == m.Cursor {
		return m, nil
	}
	m.Cursor = rank

	switch {
	case rank < m.Offset:
		m.Offset = rank
	case rank >= m.Offset+m.Height:
		m.Offset = rank - m.Height + 1
	default:
		return m, nil
	}
	return m, m.load()
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Permutations of " + joinPermutation(m.items, " ")))
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render("↑/↓ move  pgup/pgdn page  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if m.page == nil {
		b.WriteString(browseDimStyle.Render("  decoding..."))
		return b.String()
	}

	b.WriteString(permutationTable(m.page.Offset, m.page.Permutations, m.Cursor))
	b.WriteString("\n\n")
	b.WriteString(browseDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, m.Total)))

	return b.String()
}
