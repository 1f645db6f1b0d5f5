// Package perm ranks, unranks and enumerates permutations using the
// factorial number system.
//
// # Overview
//
// Every permutation of n elements has a rank in [0, n!). Rank 0 is the input
// in its original order and rank n!-1 is the input reversed. The mapping is
// the Lehmer code: written in the factorial base (n-1)!, (n-2)!, ..., 0!,
// each digit of the rank selects one element from the pool of elements not
// yet placed.
//
//   - [Factorial]: n! for 0 <= n <= [MaxN], refusing values that would overflow
//   - [At]: the permutation at a given rank, without enumerating prior ranks
//   - [All]: every permutation in rank order, computed lazily
//   - [RankIndices] and [RankOf]: the inverse mapping
//
// # Worked Example
//
// For items A, B, C there are 3! = 6 ranks. Rank 3 in the factorial base is
// 1·2! + 1·1! + 0·0!:
//
//	pool [A B C]  digit 3/2! = 1  -> B, rank 3%2 = 1
//	pool [A C]    digit 1/1! = 1  -> C, rank 1%1 = 0
//	pool [A]      digit 0/0! = 0  -> A
//	result [B C A]
//
// # Inputs
//
// A nil slice is an absent input and fails with [ErrNilInput]. A non-nil empty
// slice is a valid sequence with exactly one permutation (rank 0). Inputs
// longer than [MaxN] fail with [ErrOutOfRange], since their permutation count
// does not fit in an int64.
//
// None of the functions mutate their input. Each decode owns its own working
// pool, so ranks can be decoded from many goroutines at once; [Collect] does
// this with a bounded worker group.
//
// # Errors
//
// Failures are *errors.Error values from [github.com/matzehuels/lehmer/pkg/errors]
// carrying the codes OUT_OF_RANGE, NIL_INPUT or INVALID_INPUT. Match them with
// the standard library:
//
//	if errors.Is(err, perm.ErrOutOfRange) {
//	    // rank or length outside its domain
//	}
//
// # Visualization
//
// [ToDOT] and [RenderSVG] draw the decision tree behind the decoder for small
// inputs, optionally highlighting the path that a single rank takes.
package perm
