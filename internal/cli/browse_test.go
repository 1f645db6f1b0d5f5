package cli

import (
	"context"
	"io"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/lehmer/pkg/cache"
	"github.com/matzehuels/lehmer/pkg/errors"
	"github.com/matzehuels/lehmer/pkg/query"
)

func newTestBrowser(t *testing.T, items []string, start int64) browseModel {
	t.Helper()
	runner := query.NewRunner(cache.NewMemoryCache(16), nil, log.New(io.Discard))
	m, err := newBrowseModel(context.Background(), runner, items, start)
	if err != nil {
		t.Fatalf("newBrowseModel: %v", err)
	}
	m.Height = 3
	return m
}

// step applies msg and runs the resulting command, if any, feeding its
// message back into the model.
func step(t *testing.T, m browseModel, msg tea.Msg) browseModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(browseModel)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, quit := out.(tea.QuitMsg); !quit {
				next, _ = m.Update(out)
				m = next.(browseModel)
			}
		}
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowseInitialPage(t *testing.T) {
	m := newTestBrowser(t, []string{"A", "B", "C"}, 0)
	msg := m.Init()()
	m = step(t, m, msg)

	if m.page == nil {
		t.Fatal("page not loaded")
	}
	want := [][]string{{"A", "B", "C"}, {"A", "C", "B"}, {"B", "A", "C"}}
	if len(m.page.Permutations) != len(want) {
		t.Fatalf("got %d permutations, want %d", len(m.page.Permutations), len(want))
	}
	for i := range want {
		if !slices.Equal(m.page.Permutations[i], want[i]) {
			t.Errorf("row %d = %v, want %v", i, m.page.Permutations[i], want[i])
		}
	}
	if !strings.Contains(m.View(), "[1/6]") {
		t.Errorf("view missing position:\n%s", m.View())
	}
}

func TestBrowseScrolls(t *testing.T) {
	m := newTestBrowser(t, []string{"A", "B", "C"}, 0)
	m = step(t, m, m.Init()())

	for range 3 {
		m = step(t, m, key("down"))
	}
	if m.Cursor != 3 || m.Offset != 1 {
		t.Fatalf("cursor=%d offset=%d, want 3 and 1", m.Cursor, m.Offset)
	}
	if m.page.Offset != 1 {
		t.Errorf("page offset = %d, want 1", m.page.Offset)
	}

	m = step(t, m, key("G"))
	if m.Cursor != 5 || m.Offset != 3 {
		t.Errorf("after G cursor=%d offset=%d, want 5 and 3", m.Cursor, m.Offset)
	}
	if got := m.page.Permutations[len(m.page.Permutations)-1]; !slices.Equal(got, []string{"C", "B", "A"}) {
		t.Errorf("last permutation = %v, want C B A", got)
	}

	m = step(t, m, key("down"))
	if m.Cursor != 5 {
		t.Errorf("cursor moved past the last rank: %d", m.Cursor)
	}

	m = step(t, m, key("g"))
	if m.Cursor != 0 || m.Offset != 0 {
		t.Errorf("after g cursor=%d offset=%d, want 0 and 0", m.Cursor, m.Offset)
	}
}

func TestBrowseStartIsClamped(t *testing.T) {
	m := newTestBrowser(t, []string{"A", "B"}, 99)
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.Cursor)
	}
	m = newTestBrowser(t, []string{"A", "B"}, -4)
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor)
	}
}

func TestBrowseDropsStalePages(t *testing.T) {
	m := newTestBrowser(t, []string{"A", "B", "C"}, 0)
	stale := &query.PageResult{Offset: 2, Permutations: [][]string{{"B", "A", "C"}}}
	next, _ := m.Update(pageMsg{page: stale})
	if next.(browseModel).page != nil {
		t.Error("page for another offset should be ignored")
	}
}

func TestBrowseErrorQuits(t *testing.T) {
	m := newTestBrowser(t, []string{"A"}, 0)
	next, cmd := m.Update(pageErrMsg{err: errors.New(errors.ErrCodeInternal, "boom")})
	if next.(browseModel).err == nil {
		t.Error("error should be recorded")
	}
	if cmd == nil {
		t.Fatal("error should quit the program")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.Quit")
	}
}

func TestBrowseRejectsTooManyItems(t *testing.T) {
	items := make([]string, 21)
	for i := range items {
		items[i] = string(rune('a' + i))
	}
	runner := query.NewRunner(nil, nil, log.New(io.Discard))
	if _, err := newBrowseModel(context.Background(), runner, items, 0); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("error = %v, want OUT_OF_RANGE", err)
	}
}
