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

type dupState struct {
	Found bool
}

// walkDuplicates scans left to right and stops at the first repeat.
func walkDuplicates(nums []int) iter.Seq[steptrace.Event[dupState]] {
	return func(yield func(steptrace.Event[dupState]) bool) {
		seen := make(map[int]struct{}, len(nums))
		var order []int

		if !yield(steptrace.Note(dupState{}, "Initialize empty hash set to track seen elements")) {
			return
		}
		for i, n := range nums {
			if _, ok := seen[n]; ok {
				yield(steptrace.Note(dupState{Found: true},
					"Step %d: Found %d already in set - DUPLICATE FOUND!", i+1, n))
				return
			}
			seen[n] = struct{}{}
			order = append(order, n)
			ev := steptrace.Lazy(dupState{}, func() string {
				return fmt.Sprintf("Step %d: Add %d to set, current set: %s", i+1, n, formatIntSet(order))
			})
			if !yield(ev) {
				return
			}
		}
		yield(steptrace.Note(dupState{}, "No duplicates found after scanning all elements"))
	}
}

// ContainsDuplicate reports whether any value appears more than once.
func ContainsDuplicate(nums []int) bool {
	final, _ := steptrace.Drain(walkDuplicates(nums))
	return final.Found
}

// AnalyzeDuplicates runs Contains Duplicate with trace and visualization.
//
// The trace stops at the first duplicate. The visualization is computed
// over the whole input, so duplicate_elements lists every repeated value.
func AnalyzeDuplicates(in Input) (*Result, error) {
	return analyzeDuplicates(in, nil)
}

func analyzeDuplicates(in Input, onStep StepFunc) (*Result, error) {
	nums := in.numberList()
	final, steps, err := steptrace.CollectLive(walkDuplicates(nums), onStep)
	if err != nil {
		return nil, err
	}
	return newResult(AlgorithmContainsDuplicate, final.Found, steps, projectDuplicates(nums)), nil
}

func projectDuplicates(nums []int) DuplicateVisualization {
	frequency := make(map[int]int)
	positions := make(map[int][]int)
	var order []int
	for i, n := range nums {
		if frequency[n] == 0 {
			order = append(order, n)
		}
		frequency[n]++
		positions[n] = append(positions[n], i)
	}

	dups := []int{}
	for _, n := range order {
		if frequency[n] > 1 {
			dups = append(dups, n)
		}
	}

	return DuplicateVisualization{
		Type:              kindDuplicates,
		Frequency:         frequency,
		Positions:         positions,
		HasDuplicates:     len(dups) > 0,
		DuplicateElements: dups,
	}
}
