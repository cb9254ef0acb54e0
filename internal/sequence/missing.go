// Package sequence computes the missing element of a permuted 1..N integer
// sequence with exactly one value removed.
//
// The computation XORs every integer in 1..N against every value still
// present. Values present in both ranges cancel (a XOR a = 0), so the
// accumulator ends up holding exactly the removed element. O(n) time, O(1)
// space, no materialized set.
//
// Precondition: exactly one value is missing. If nothing was removed the
// result is 0, which is never a member of 1..N; callers must treat that as
// a precondition violation, not a valid answer.
package sequence

import (
	"fmt"

	"github.com/vvka-141/petl/pkg/petl"
)

// Missing returns the value absent from present, which must hold the
// integers 1..bound in any order with exactly one element removed.
// Order of the remaining elements does not matter.
func Missing(bound int, present []int) (int, error) {
	if bound < 2 {
		return 0, fmt.Errorf("bound must be at least 2, got %d: %w", bound, petl.ErrInvalidBound)
	}
	if len(present) != bound-1 {
		return 0, fmt.Errorf("expected %d present values for bound %d, got %d: %w",
			bound-1, bound, len(present), petl.ErrInvalidBound)
	}

	acc := 0
	for i := 1; i <= bound; i++ {
		acc ^= i
	}
	for _, v := range present {
		if v < 1 || v > bound {
			return 0, fmt.Errorf("value %d is outside 1..%d: %w", v, bound, petl.ErrInvalidBound)
		}
		acc ^= v
	}
	return acc, nil
}

// MissingAfterExtract simulates removing extracted from the sequence
// 1..bound and returns the value the XOR scan recovers. The two must agree;
// this is the form the CLI exposes, where the sequence is generated
// internally rather than supplied.
func MissingAfterExtract(bound, extracted int) (int, error) {
	if bound < 2 {
		return 0, fmt.Errorf("bound must be at least 2, got %d: %w", bound, petl.ErrInvalidBound)
	}
	if extracted < 1 || extracted > bound {
		return 0, fmt.Errorf("extracted value %d is outside 1..%d: %w", extracted, bound, petl.ErrInvalidBound)
	}

	all := 0
	for i := 1; i <= bound; i++ {
		all ^= i
	}

	// XOR of the sequence with one element removed
	remaining := all ^ extracted

	return all ^ remaining, nil
}
