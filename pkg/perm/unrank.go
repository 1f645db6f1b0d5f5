package perm

import (
	"iter"
	"slices"

	perrors "github.com/matzehuels/lehmer/pkg/errors"
)

// At returns the permutation of items at the given rank.
//
// rank must lie in [0, len(items)!). Rank 0 returns a copy of items in their
// original order and rank len(items)!-1 returns them reversed. items itself
// is never modified; the result is a new slice.
//
// Errors:
//   - ErrNilInput if items is nil
//   - ErrOutOfRange if len(items) > MaxN or rank is outside [0, len(items)!)
func At[T any](rank int64, items []T) ([]T, error) {
	if err := checkItems(items); err != nil {
		return nil, err
	}
	if err := checkRank(rank, len(items)); err != nil {
		return nil, err
	}
	return decode(rank, items), nil
}

// AtMod is At with rank taken modulo len(items)!. Negative ranks count back
// from the end, so -1 selects the reversed order.
//
// Use it when ranks come from an unbounded counter; use At when an
// out-of-range rank indicates a bug.
func AtMod[T any](rank int64, items []T) ([]T, error) {
	if err := checkItems(items); err != nil {
		return nil, err
	}
	total := factorials[len(items)]
	rank %= total
	if rank < 0 {
		rank += total
	}
	return decode(rank, items), nil
}

// Indices returns the permutation of [0, n) at the given rank.
func Indices(rank int64, n int) ([]int, error) {
	if n < 0 || n > MaxN {
		return nil, perrors.New(perrors.ErrCodeOutOfRange, "length %d outside [0, %d]", n, MaxN)
	}
	if err := checkRank(rank, n); err != nil {
		return nil, err
	}
	return decodeIndices(rank, n), nil
}

// Elements returns the permutation at rank as a lazy sequence. Each element
// pulled from the sequence costs one decoder step; stopping early skips the
// rest. Validation happens before Elements returns.
//
// The sequence can be ranged over any number of times.
func Elements[T any](rank int64, items []T) (iter.Seq[T], error) {
	if err := checkItems(items); err != nil {
		return nil, err
	}
	if err := checkRank(rank, len(items)); err != nil {
		return nil, err
	}
	return elements(rank, items), nil
}

func elements[T any](rank int64, items []T) iter.Seq[T] {
	return func(yield func(T) bool) {
		pool := Seq(len(items))
		r := rank
		for k := len(pool); k > 0; k-- {
			block := factorials[k-1]
			idx := int(r / block)
			r %= block
			p := pool[idx]
			pool = slices.Delete(pool, idx, idx+1)
			if !yield(items[p]) {
				return
			}
		}
	}
}

// decode assumes items and rank have been validated.
func decode[T any](rank int64, items []T) []T {
	out := make([]T, 0, len(items))
	for _, p := range decodeIndices(rank, len(items)) {
		out = append(out, items[p])
	}
	return out
}

// decodeIndices maps rank to a permutation of [0, n). The pool is local to
// the call.
func decodeIndices(rank int64, n int) []int {
	pool := Seq(n)
	out := make([]int, 0, n)
	for k := n; k > 0; k-- {
		block := factorials[k-1]
		idx := int(rank / block)
		rank %= block
		out = append(out, pool[idx])
		pool = slices.Delete(pool, idx, idx+1)
	}
	return out
}
