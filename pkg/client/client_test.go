package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lehmer/pkg/api"
	"github.com/matzehuels/lehmer/pkg/cache"
	"github.com/matzehuels/lehmer/pkg/errors"
	"github.com/matzehuels/lehmer/pkg/query"
)

func newTestServer(t *testing.T) *Client {
	t.Helper()
	runner := query.NewRunner(cache.NewMemoryCache(64), nil, log.New(io.Discard))
	srv := httptest.NewServer(api.NewServer(runner, log.New(io.Discard), api.Config{}).Handler())
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", WithRetry(3, time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8080", "ftp://host", "http://"} {
		if _, err := New(raw); err == nil {
			t.Errorf("New(%q) should fail", raw)
		}
	}
}

func TestHealth(t *testing.T) {
	c := newTestServer(t)
	h, err := c.Health(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if h.Status != "ok" || h.Version == "" {
		t.Errorf("health = %+v", h)
	}
}

func TestFactorial(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	res, err := c.Factorial(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if res.N != 5 || res.Value != 120 {
		t.Errorf("Factorial(5) = %+v", res)
	}

	if _, err := c.Factorial(ctx, 21); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("Factorial(21) error = %v, want OUT_OF_RANGE", err)
	}
}

func TestAtAndRank(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()
	items := []string{"A", "B", "C"}

	at, err := c.At(ctx, query.AtOptions{Items: items, Rank: 3})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(at.Permutation, []string{"B", "C", "A"}) || at.Total != 6 {
		t.Errorf("At(3) = %+v", at)
	}

	rank, err := c.Rank(ctx, query.RankOptions{Items: items, Permutation: at.Permutation})
	if err != nil {
		t.Fatal(err)
	}
	if rank.Rank != 3 {
		t.Errorf("Rank = %d, want 3", rank.Rank)
	}

	if _, err := c.At(ctx, query.AtOptions{Items: items, Rank: 6}); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("At(6) error = %v, want OUT_OF_RANGE", err)
	}
	if _, err := c.At(ctx, query.AtOptions{Rank: 0}); !errors.Is(err, errors.ErrCodeNilInput) {
		t.Errorf("At without items error = %v, want NIL_INPUT", err)
	}
}

func TestPages(t *testing.T) {
	c := newTestServer(t)
	items := []string{"A", "B", "C", "D"}

	var all [][]string
	pages := 0
	for page, err := range c.Pages(context.Background(), query.PageOptions{Items: items, Limit: 10}) {
		if err != nil {
			t.Fatal(err)
		}
		if page.Offset != int64(len(all)) {
			t.Errorf("page offset = %d, want %d", page.Offset, len(all))
		}
		all = append(all, page.Permutations...)
		pages++
	}

	if pages != 3 || len(all) != 24 {
		t.Fatalf("got %d pages with %d permutations, want 3 and 24", pages, len(all))
	}
	if !slices.Equal(all[0], items) || !slices.Equal(all[23], []string{"D", "C", "B", "A"}) {
		t.Errorf("first = %v, last = %v", all[0], all[23])
	}
}

func TestPagesStopsOnError(t *testing.T) {
	c := newTestServer(t)
	n := 0
	for _, err := range c.Pages(context.Background(), query.PageOptions{Items: []string{"A"}, Offset: -1}) {
		n++
		if !errors.Is(err, errors.ErrCodeOutOfRange) {
			t.Errorf("error = %v, want OUT_OF_RANGE", err)
		}
	}
	if n != 1 {
		t.Errorf("iterations = %d, want 1", n)
	}
}

func TestTree(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()
	opts := query.TreeOptions{Items: []string{"A", "B", "C"}, Highlight: 2, Format: query.FormatDOT}

	first, err := c.Tree(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Format != query.FormatDOT || !strings.HasPrefix(string(first.Data), "digraph") {
		t.Errorf("tree = %s %q", first.Format, first.Data)
	}
	if first.CacheHit {
		t.Error("first render should miss the cache")
	}

	second, err := c.Tree(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second render should hit the cache")
	}
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	var mu sync.Mutex
	ids := map[string]bool{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ids[r.Header.Get(api.RequestIDHeader)] = true
		mu.Unlock()

		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, `{"error":{"code":"NETWORK_ERROR","message":"busy"}}`)
			return
		}
		_, _ = io.WriteString(w, `{"n":3,"value":6}`)
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithRetry(3, time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	res, err := c.Factorial(context.Background(), 3)
	if err != nil {
		t.Fatalf("Factorial after retries: %v", err)
	}
	if res.Value != 6 || calls.Load() != 3 {
		t.Errorf("value = %d after %d calls, want 6 after 3", res.Value, calls.Load())
	}
	if len(ids) != 1 {
		t.Errorf("retries should share one request ID, got %d", len(ids))
	}
}

func TestGivesUpAfterAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, _ := New(srv.URL, WithRetry(2, time.Millisecond))
	_, err := c.Factorial(context.Background(), 3)
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("error = %v, want NETWORK_ERROR", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":"INVALID_INPUT","message":"bad"}}`)
	}))
	defer srv.Close()

	c, _ := New(srv.URL, WithRetry(3, time.Millisecond))
	_, err := c.Factorial(context.Background(), 3)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestWithHeader(t *testing.T) {
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"status":"ok","version":"dev"}`)
	}))
	defer srv.Close()

	c, _ := New(srv.URL, WithHeader("Authorization", "Bearer token"))
	if _, err := c.Health(context.Background()); err != nil {
		t.Fatal(err)
	}
	if auth := <-got; auth != "Bearer token" {
		t.Errorf("Authorization = %q", auth)
	}
}

func TestContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, _ := New(srv.URL)
	if _, err := c.Health(ctx); err != context.Canceled {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
