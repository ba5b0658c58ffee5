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
	"fmt"
	"iter"

	"github.com/AleutianAI/SmartPack/pkg/steptrace"
)

// StepFunc receives each trace line as the kernel produces it. Returning
// an error stops the kernel.
type StepFunc func(line string) error

type analyzer func(Input, StepFunc) (*Result, error)

type streamer func(Input) (iter.Seq[string], error)

// analyzers maps each family to its analysis. Read-only after init.
var analyzers = map[Family]analyzer{
	FamilyDuplicates: analyzeDuplicates,
	FamilyAnagrams:   analyzeAnagrams,
	FamilyFrequency:  analyzeTopK,
	FamilyPairs:      analyzeTwoSum,
	FamilyProducts:   analyzeProducts,
	FamilySequences:  analyzeSequences,
	FamilyEncoding:   analyzeEncoding,
}

// streamers maps each family to its narration stream. Read-only after init.
var streamers = map[Family]streamer{
	FamilyDuplicates: func(in Input) (iter.Seq[string], error) {
		return steptrace.Lines(walkDuplicates(in.numberList())), nil
	},
	FamilyAnagrams: func(in Input) (iter.Seq[string], error) {
		strs := in.stringList()
		if len(strs) == 2 {
			return steptrace.Lines(walkAnagramCheck(strs[0], strs[1])), nil
		}
		return steptrace.Lines(walkGroupAnagrams(strs)), nil
	},
	FamilyFrequency: func(in Input) (iter.Seq[string], error) {
		k, err := in.k()
		if err != nil {
			return nil, err
		}
		return steptrace.Lines(walkTopK(in.numberList(), k)), nil
	},
	FamilyPairs: func(in Input) (iter.Seq[string], error) {
		target, err := in.target()
		if err != nil {
			return nil, err
		}
		return steptrace.Lines(walkTwoSum(in.numberList(), target)), nil
	},
	FamilyProducts: func(in Input) (iter.Seq[string], error) {
		return steptrace.Lines(walkProducts(in.numberList())), nil
	},
	FamilySequences: func(in Input) (iter.Seq[string], error) {
		return steptrace.Lines(walkSequences(in.numberList(), ascendingOrder)), nil
	},
	FamilyEncoding: func(in Input) (iter.Seq[string], error) {
		return steptrace.Lines(walkCodec(in.stringList())), nil
	},
}

// Analyze runs the family's analysis over in.
//
// # Description
//
// The answer, step trace and visualization in the returned Result all
// come from a single execution of the family's kernel.
//
// # Outputs
//
//   - *Result: never nil when err is nil. Steps is never nil.
//   - error: ErrUnknownFamily, ErrMissingTarget or ErrNegativeK (possibly
//     wrapped). All are caller errors; see IsInputError.
//
// # Thread Safety
//
// Safe for concurrent use.
func Analyze(family Family, in Input) (*Result, error) {
	return AnalyzeLive(family, in, nil)
}

// AnalyzeLive is Analyze with onStep called for every trace line while
// the kernel runs, so a caller can forward steps before the Result exists.
//
// # Outputs
//
//   - *Result: as for Analyze. Nil when onStep failed.
//   - error: an input error as for Analyze, or the error returned by
//     onStep, unwrapped. Input errors are reported before any step.
func AnalyzeLive(family Family, in Input, onStep StepFunc) (*Result, error) {
	run, ok := analyzers[family]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}
	return run(in, onStep)
}

// Stream returns the family's step trace as a lazy sequence. Lines are
// produced as the kernel runs; breaking out of the range stops it.
// The lines are identical to Result.Steps for the same input.
func Stream(family Family, in Input) (iter.Seq[string], error) {
	run, ok := streamers[family]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}
	return run(in)
}
