// Package query runs permutation engine queries over string labels for the
// CLI, the terminal browser and the HTTP API.
//
// By routing every entry point through one [Runner] the three front ends
// share validation, caching, logging and observability hooks.
//
// # Queries
//
//   - Factorial: n! for 0 <= n <= 20
//   - At: the permutation with a given rank (optionally wrapping the rank)
//   - Page: a window of ranks, decoded in parallel and cached
//   - Rank: the rank of a given ordering of the items
//   - Tree: the decision tree as DOT or SVG, cached
//
// # Usage
//
//	runner := query.NewRunner(cache, nil, logger)
//	page, err := runner.Page(ctx, query.PageOptions{
//	    Items:  []string{"A", "B", "C"},
//	    Offset: 0,
//	    Limit:  10,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i, p := range page.Permutations {
//	    fmt.Println(page.Offset+int64(i), p)
//	}
package query

import (
	"github.com/matzehuels/lehmer/pkg/cache"
	"github.com/matzehuels/lehmer/pkg/errors"
	"github.com/matzehuels/lehmer/pkg/perm"
)

const (
	// DefaultPageLimit is the page size used when none is requested.
	DefaultPageLimit = 50

	// DefaultMaxPageLimit caps the page size a caller may request.
	DefaultMaxPageLimit = 10000

	// NoHighlight draws a decision tree without a highlighted path.
	NoHighlight int64 = -1
)

// Format constants for decision tree output.
const (
	FormatSVG = "svg"
	FormatDOT = "dot"
)

// ValidFormats is the set of supported tree formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatDOT: true,
}

// AtOptions selects a single permutation.
type AtOptions struct {
	Items []string `json:"items"`
	Rank  int64    `json:"rank"`
	// Wrap reduces Rank modulo n! instead of rejecting out-of-range ranks.
	Wrap bool `json:"wrap,omitempty"`
}

// PageOptions selects a window of ranks.
type PageOptions struct {
	Items  []string `json:"items"`
	Offset int64    `json:"offset"`
	// Limit <= 0 uses the runner's default page limit.
	Limit int64 `json:"limit,omitempty"`
	// Refresh bypasses the cache lookup and stores the fresh page.
	Refresh bool `json:"refresh,omitempty"`
}

// RankOptions asks for the rank of Permutation, an ordering of Items.
type RankOptions struct {
	Items       []string `json:"items"`
	Permutation []string `json:"permutation"`
}

// TreeOptions configures the decision tree output.
type TreeOptions struct {
	Items     []string `json:"items"`
	Highlight int64    `json:"highlight"`
	Format    string   `json:"format,omitempty"`
	Refresh   bool     `json:"refresh,omitempty"`
}

// FactorialResult is the answer to a factorial query.
type FactorialResult struct {
	N     int   `json:"n"`
	Value int64 `json:"value"`
}

// AtResult is a single decoded permutation.
type AtResult struct {
	// Rank is the rank actually decoded; it differs from the requested rank
	// only when wrapping.
	Rank        int64    `json:"rank"`
	Total       int64    `json:"total"`
	Permutation []string `json:"permutation"`
}

// PageResult is a window of permutations in rank order.
// Permutations[i] has rank Offset+i.
type PageResult struct {
	Offset       int64      `json:"offset"`
	Limit        int64      `json:"limit"`
	Total        int64      `json:"total"`
	Permutations [][]string `json:"permutations"`
	CacheHit     bool       `json:"cache_hit"`
}

// HasMore reports whether ranks remain after this page.
func (p *PageResult) HasMore() bool {
	return p.Offset+int64(len(p.Permutations)) < p.Total
}

// NextOffset returns the offset of the following page.
func (p *PageResult) NextOffset() int64 {
	return p.Offset + int64(len(p.Permutations))
}

// RankResult is the rank of a permutation.
type RankResult struct {
	Rank  int64 `json:"rank"`
	Total int64 `json:"total"`
}

// TreeResult is a rendered decision tree.
type TreeResult struct {
	Format   string `json:"format"`
	Data     []byte `json:"-"`
	CacheHit bool   `json:"cache_hit"`
}

// ValidateFormat checks that a tree format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, dot)", format)
	}
	return nil
}

// ValidateItems checks an item list for use with the engine.
func ValidateItems(items []string) error {
	return errors.ValidateLabels(items, perm.MaxN)
}

// Validate checks the options.
func (o *AtOptions) Validate() error {
	return ValidateItems(o.Items)
}

// ValidateAndSetDefaults checks the options and applies the default limit.
func (o *PageOptions) ValidateAndSetDefaults(defaultLimit, maxLimit int64) error {
	if err := ValidateItems(o.Items); err != nil {
		return err
	}
	if o.Offset < 0 {
		return errors.New(errors.ErrCodeOutOfRange, "offset must not be negative")
	}
	if o.Limit <= 0 {
		o.Limit = defaultLimit
	}
	if o.Limit > maxLimit {
		return errors.New(errors.ErrCodeOutOfRange, "limit %d exceeds maximum %d", o.Limit, maxLimit)
	}
	return nil
}

// Validate checks the options.
func (o *RankOptions) Validate() error {
	if err := ValidateItems(o.Items); err != nil {
		return err
	}
	if o.Permutation == nil {
		return errors.New(errors.ErrCodeNilInput, "permutation is required")
	}
	return nil
}

// ValidateAndSetDefaults checks the options and defaults the format to SVG.
func (o *TreeOptions) ValidateAndSetDefaults() error {
	if err := ValidateItems(o.Items); err != nil {
		return err
	}
	if o.Format == "" {
		o.Format = FormatSVG
	}
	return ValidateFormat(o.Format)
}

// KeyOpts returns cache key options for the page.
func (o *PageOptions) KeyOpts() cache.PageKeyOpts {
	return cache.PageKeyOpts{Offset: o.Offset, Limit: o.Limit}
}

// KeyOpts returns cache key options for the tree.
func (o *TreeOptions) KeyOpts() cache.TreeKeyOpts {
	return cache.TreeKeyOpts{Highlight: o.Highlight, Format: o.Format}
}
