package perm

import (
	"context"
	"iter"
	"runtime"

	"golang.org/x/sync/errgroup"

	perrors "github.com/matzehuels/lehmer/pkg/errors"
)

// MaxCollect is the largest rank window Collect will materialize.
const MaxCollect = 1 << 22

// All returns every permutation of items in increasing rank order, starting
// with items in their original order. Permutations are decoded on demand, one
// per iteration step, and each is a fresh slice.
//
// The sequence is finite (len(items)! values) and restartable: ranging over it
// again yields the same permutations in the same order. items is not modified,
// but the caller must not mutate it while a range over the sequence is in
// progress.
func All[T any](items []T) (iter.Seq[[]T], error) {
	seq, err := Ranked(items)
	if err != nil {
		return nil, err
	}
	return func(yield func([]T) bool) {
		for _, p := range seq {
			if !yield(p) {
				return
			}
		}
	}, nil
}

// Lazy is All with each permutation itself exposed as a lazy element
// sequence (see Elements). Nothing is decoded until an inner sequence is
// ranged over.
func Lazy[T any](items []T) (iter.Seq[iter.Seq[T]], error) {
	if err := checkItems(items); err != nil {
		return nil, err
	}
	total := factorials[len(items)]
	return func(yield func(iter.Seq[T]) bool) {
		for r := int64(0); r < total; r++ {
			if !yield(elements(r, items)) {
				return
			}
		}
	}, nil
}

// Ranked returns every permutation of items paired with its rank.
func Ranked[T any](items []T) (iter.Seq2[int64, []T], error) {
	return Range(items, 0, 0)
}

// Range returns the permutations with ranks in [offset, offset+limit),
// truncated at len(items)!. A limit <= 0 means "until the last rank".
//
// offset must lie in [0, len(items)!]; an offset equal to len(items)! yields
// an empty sequence.
func Range[T any](items []T, offset, limit int64) (iter.Seq2[int64, []T], error) {
	if err := checkItems(items); err != nil {
		return nil, err
	}
	end, err := window(len(items), offset, limit)
	if err != nil {
		return nil, err
	}
	return func(yield func(int64, []T) bool) {
		for r := offset; r < end; r++ {
			if !yield(r, decode(r, items)) {
				return
			}
		}
	}, nil
}

// Collect materializes the permutations with ranks in [offset, offset+limit)
// using up to workers goroutines. Each worker decodes a contiguous slice of
// the rank window into its own part of the result, so the output is in rank
// order whatever the worker count. workers <= 0 uses GOMAXPROCS.
//
// Collect stops early and returns the context error if ctx is cancelled.
// Windows larger than MaxCollect fail with ErrOutOfRange.
func Collect[T any](ctx context.Context, items []T, offset, limit int64, workers int) ([][]T, error) {
	if err := checkItems(items); err != nil {
		return nil, err
	}
	end, err := window(len(items), offset, limit)
	if err != nil {
		return nil, err
	}

	count := end - offset
	if count > MaxCollect {
		return nil, perrors.New(perrors.ErrCodeOutOfRange, "window of %d permutations exceeds %d", count, MaxCollect)
	}

	result := make([][]T, count)
	if count == 0 {
		return result, nil
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = int(min(int64(workers), count))
	chunk := (count + int64(workers) - 1) / int64(workers)

	g, ctx := errgroup.WithContext(ctx)
	for lo := int64(0); lo < count; lo += chunk {
		hi := min(lo+chunk, count)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if (i-lo)%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				result[i] = decode(offset+i, items)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// window validates offset against n! and returns the exclusive end rank.
func window(n int, offset, limit int64) (int64, error) {
	total := factorials[n]
	if offset < 0 || offset > total {
		return 0, perrors.New(perrors.ErrCodeOutOfRange, "offset %d outside [0, %d]", offset, total)
	}
	if limit <= 0 || limit > total-offset {
		return total, nil
	}
	return offset + limit, nil
}
