// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package algorithms

import (
	"errors"
	"fmt"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrMissingTarget is returned when a pair search has no target value.
	// It is a caller error, distinct from "no solution".
	ErrMissingTarget = errors.New("target value required for pair analysis")

	// ErrNegativeK is returned when top-K is asked for a negative count.
	ErrNegativeK = errors.New("k must not be negative")

	// ErrUnknownFamily is returned by Analyze and Stream for an unregistered family.
	ErrUnknownFamily = errors.New("unknown algorithm family")
)

// IsInputError reports whether err is a contract violation by the caller
// rather than an internal fault.
func IsInputError(err error) bool {
	return errors.Is(err, ErrMissingTarget) ||
		errors.Is(err, ErrNegativeK) ||
		errors.Is(err, ErrUnknownFamily)
}

// =============================================================================
// Input
// =============================================================================

// DefaultK is the top-K count used when the caller does not supply one.
const DefaultK = 1

// Input is the request-scoped data handed to an analysis.
//
// Which fields matter depends on the family:
//
//	duplicates, products, sequences  Numbers
//	frequency                        Numbers, K (absent = DefaultK)
//	pairs                            Numbers, Target (required)
//	anagrams, encoding               Strings
//
// Nil slices are treated as empty.
type Input struct {
	Numbers []int
	Strings []string
	Target  *int
	K       *int
}

// NumbersInput builds an Input over a number sequence.
func NumbersInput(nums ...int) Input {
	return Input{Numbers: nums}
}

// StringsInput builds an Input over a string sequence.
func StringsInput(strs ...string) Input {
	return Input{Strings: strs}
}

// WithTarget returns a copy of in with Target set.
func (in Input) WithTarget(target int) Input {
	in.Target = &target
	return in
}

// WithK returns a copy of in with K set.
func (in Input) WithK(k int) Input {
	in.K = &k
	return in
}

func (in Input) numberList() []int {
	if in.Numbers == nil {
		return []int{}
	}
	return in.Numbers
}

func (in Input) stringList() []string {
	if in.Strings == nil {
		return []string{}
	}
	return in.Strings
}

func (in Input) k() (int, error) {
	if in.K == nil {
		return DefaultK, nil
	}
	if *in.K < 0 {
		return 0, fmt.Errorf("%w: got %d", ErrNegativeK, *in.K)
	}
	return *in.K, nil
}

func (in Input) target() (int, error) {
	if in.Target == nil {
		return 0, ErrMissingTarget
	}
	return *in.Target, nil
}
