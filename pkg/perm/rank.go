package perm

import (
	perrors "github.com/matzehuels/lehmer/pkg/errors"
)

// RankIndices returns the rank of perm, a permutation of [0, len(perm)).
// It is the inverse of Indices: RankIndices(Indices(r, n)) == r.
//
// perm must contain every value in [0, len(perm)) exactly once; otherwise
// RankIndices fails with ErrInvalidInput.
func RankIndices(perm []int) (int64, error) {
	if perm == nil {
		return 0, perrors.New(perrors.ErrCodeNilInput, "permutation is required")
	}
	n := len(perm)
	if n > MaxN {
		return 0, perrors.New(perrors.ErrCodeOutOfRange, "length %d exceeds %d", n, MaxN)
	}

	var used uint32
	var rank int64
	for i, p := range perm {
		if p < 0 || p >= n {
			return 0, perrors.New(perrors.ErrCodeInvalidInput, "index %d at position %d outside [0, %d)", p, i, n)
		}
		if used&(1<<p) != 0 {
			return 0, perrors.New(perrors.ErrCodeInvalidInput, "index %d repeated at position %d", p, i)
		}
		// Digit = number of still-unused indices smaller than p.
		digit := 0
		for q := 0; q < p; q++ {
			if used&(1<<q) == 0 {
				digit++
			}
		}
		used |= 1 << p
		rank += int64(digit) * factorials[n-1-i]
	}
	return rank, nil
}

// RankOf returns the rank of perm as a permutation of items.
//
// Each element of perm is matched with the leftmost unused equal element of
// items. When items contains duplicates several ranks produce the same
// values; RankOf returns the smallest of them.
//
// perm must be a rearrangement of items; otherwise RankOf fails with
// ErrInvalidInput.
func RankOf[T comparable](items, perm []T) (int64, error) {
	if err := checkItems(items); err != nil {
		return 0, err
	}
	if perm == nil {
		return 0, perrors.New(perrors.ErrCodeNilInput, "permutation is required")
	}
	if len(perm) != len(items) {
		return 0, perrors.New(perrors.ErrCodeInvalidInput, "permutation has %d elements, want %d", len(perm), len(items))
	}

	used := make([]bool, len(items))
	positions := make([]int, len(perm))
	for i, v := range perm {
		pos := -1
		for j, it := range items {
			if !used[j] && it == v {
				pos = j
				break
			}
		}
		if pos < 0 {
			return 0, perrors.New(perrors.ErrCodeInvalidInput, "element %v at position %d does not match any remaining item", v, i)
		}
		used[pos] = true
		positions[i] = pos
	}
	return RankIndices(positions)
}
