package perm

import (
	perrors "github.com/matzehuels/lehmer/pkg/errors"
)

// MaxN is the largest sequence length whose permutation count fits in an int64.
// 20! = 2432902008176640000; 21! overflows.
const MaxN = 20

// Sentinel errors. Errors returned by this package carry one of these codes
// and match with errors.Is.
var (
	// ErrOutOfRange is returned when n, a rank or an offset falls outside its domain.
	ErrOutOfRange = perrors.Sentinel(perrors.ErrCodeOutOfRange)

	// ErrNilInput is returned when a required sequence is nil.
	ErrNilInput = perrors.Sentinel(perrors.ErrCodeNilInput)

	// ErrInvalidInput is returned when a permutation to be ranked is malformed.
	ErrInvalidInput = perrors.Sentinel(perrors.ErrCodeInvalidInput)
)

var factorials = func() [MaxN + 1]int64 {
	var f [MaxN + 1]int64
	f[0] = 1
	for i := 1; i <= MaxN; i++ {
		f[i] = f[i-1] * int64(i)
	}
	return f
}()

// Seq returns a slice containing the sequence [0, 1, 2, ..., n-1].
// It is the initial pool of the decoder.
//
// For n <= 0, Seq returns an empty slice.
func Seq(n int) []int {
	if n < 0 {
		n = 0
	}
	result := make([]int, n)
	for i := range result {
		result[i] = i
	}
	return result
}

// Factorial returns n!, the product 1 × 2 × ... × n, with 0! = 1.
//
// n must satisfy 0 <= n <= MaxN. Anything else fails with ErrOutOfRange
// instead of returning a wrapped value.
func Factorial(n int) (int64, error) {
	if n < 0 || n > MaxN {
		return 0, perrors.New(perrors.ErrCodeOutOfRange, "factorial of %d outside [0, %d]", n, MaxN)
	}
	return factorials[n], nil
}

// Count returns the number of permutations of items, len(items)!.
func Count[T any](items []T) (int64, error) {
	if err := checkItems(items); err != nil {
		return 0, err
	}
	return factorials[len(items)], nil
}

// Generate returns permutations of [0, 1, ..., n-1] in rank order.
//
// If limit > 0, Generate returns at most limit permutations.
// If limit <= 0, Generate returns all n! permutations.
//
// Each returned slice is a separate allocation, safe to modify without
// affecting others. For n = 0 the result is [[]].
//
// Factorials grow quickly: always pass a limit when n is larger than about 10,
// or the result will exhaust memory.
func Generate(n, limit int) ([][]int, error) {
	if n < 0 || n > MaxN {
		return nil, perrors.New(perrors.ErrCodeOutOfRange, "length %d outside [0, %d]", n, MaxN)
	}

	items := Seq(n)
	seq, err := Range(items, 0, int64(limit))
	if err != nil {
		return nil, err
	}

	total := factorials[n]
	capacity := total
	if limit > 0 && int64(limit) < total {
		capacity = int64(limit)
	}
	result := make([][]int, 0, min(capacity, 1<<16))
	for _, p := range seq {
		result = append(result, p)
	}
	return result, nil
}

func checkItems[T any](items []T) error {
	if items == nil {
		return perrors.New(perrors.ErrCodeNilInput, "items are required")
	}
	if len(items) > MaxN {
		return perrors.New(perrors.ErrCodeOutOfRange, "length %d exceeds %d", len(items), MaxN)
	}
	return nil
}

func checkRank(rank int64, n int) error {
	if total := factorials[n]; rank < 0 || rank >= total {
		return perrors.New(perrors.ErrCodeOutOfRange, "rank %d outside [0, %d)", rank, total)
	}
	return nil
}
