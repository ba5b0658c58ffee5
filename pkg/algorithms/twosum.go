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
	"maps"

	"github.com/AleutianAI/SmartPack/pkg/steptrace"
)

// twoSumState describes one step of the scan. Visit is set for events that
// examine an element; Index aliases the kernel's live value→index map.
type twoSumState struct {
	Visit      bool
	Position   int
	Value      int
	Complement int
	Found      bool
	Index      map[int]int
	Solution   []int
}

func walkTwoSum(nums []int, target int) iter.Seq[steptrace.Event[twoSumState]] {
	return func(yield func(steptrace.Event[twoSumState]) bool) {
		none := twoSumState{}
		if !yield(steptrace.Note(none, "Target: %d", target)) {
			return
		}
		if !yield(steptrace.Note(none, "Initialize empty hash map for complements")) {
			return
		}

		index := make(map[int]int, len(nums))
		var order []int
		current := func() string { return formatIntMap(order, index) }

		for i, n := range nums {
			st := twoSumState{Visit: true, Position: i, Value: n, Complement: target - n, Index: index}

			if j, ok := index[st.Complement]; ok {
				st.Found = true
				if !yield(steptrace.Note(st, "Step %d: Found complement %d at index %d", i+1, st.Complement, j)) {
					return
				}
				yield(steptrace.Note(twoSumState{Solution: []int{j, i}},
					"Solution: indices [%d, %d] = [%d, %d]", j, i, nums[j], n))
				return
			}

			var ev steptrace.Event[twoSumState]
			if first, seen := index[n]; seen {
				ev = steptrace.Lazy(st, func() string {
					return fmt.Sprintf("Step %d: %d already recorded at index %d, keeping first index, current map: %s",
						i+1, n, first, current())
				})
			} else {
				index[n] = i
				order = append(order, n)
				ev = steptrace.Lazy(st, func() string {
					return fmt.Sprintf("Step %d: Add %d -> index %d to map, current map: %s", i+1, n, i, current())
				})
			}
			if !yield(ev) {
				return
			}
		}
		yield(steptrace.Note(none, "No solution found"))
	}
}

// TwoSum returns the indices [i, j], i < j, of the first pair in scan order
// whose values sum to target. Each value maps to the first index it was seen
// at. ok is false when no pair exists.
func TwoSum(nums []int, target int) (pair []int, ok bool) {
	final, _ := steptrace.Drain(walkTwoSum(nums, target))
	return final.Solution, final.Solution != nil
}

// AnalyzeTwoSum runs Two Sum with trace and visualization. A missing
// target is ErrMissingTarget; no solution is a nil result, not an error.
func AnalyzeTwoSum(in Input) (*Result, error) {
	return analyzeTwoSum(in, nil)
}

func analyzeTwoSum(in Input, onStep StepFunc) (*Result, error) {
	target, err := in.target()
	if err != nil {
		return nil, err
	}
	nums := in.numberList()

	path := []SearchStep{}
	project := func(ev steptrace.Event[twoSumState]) {
		st := ev.State
		if !st.Visit {
			return
		}
		path = append(path, SearchStep{
			Index:      st.Position,
			Value:      st.Value,
			Complement: st.Complement,
			Found:      st.Found,
			MapState:   maps.Clone(st.Index),
		})
	}

	final, steps, err := steptrace.CollectLive(walkTwoSum(nums, target), onStep, project)
	if err != nil {
		return nil, err
	}
	vis := TwoSumVisualization{
		Type:       kindTwoSum,
		Solution:   final.Solution,
		Target:     target,
		SearchPath: path,
		Array:      nums,
	}

	// A nil []int would marshal as null anyway; keep the interface nil too.
	var value any
	if final.Solution != nil {
		value = final.Solution
	}
	return newResult(AlgorithmTwoSum, value, steps, vis), nil
}
