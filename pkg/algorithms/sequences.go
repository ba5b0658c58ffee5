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
	"math"
	"slices"

	"github.com/AleutianAI/SmartPack/pkg/steptrace"
)

// sequenceState reports a finished run (RunDone) or the final answer.
type sequenceState struct {
	RunDone   bool
	Run       []int
	IsLongest bool
	Longest   int
	Best      []int
}

// startOrder controls the order sequence starts are visited in.
type startOrder int

const (
	// anyOrder visits starts in set iteration order.
	anyOrder startOrder = iota
	// ascendingOrder visits starts smallest first, for a reproducible trace.
	ascendingOrder
)

func walkSequences(nums []int, order startOrder) iter.Seq[steptrace.Event[sequenceState]] {
	return func(yield func(steptrace.Event[sequenceState]) bool) {
		if len(nums) == 0 {
			yield(steptrace.Note(sequenceState{}, "Empty array - longest consecutive sequence is 0"))
			return
		}

		none := sequenceState{}
		if !yield(steptrace.Note(none, "Input array: %v", nums)) {
			return
		}

		set := setOf(nums)
		ev := steptrace.Lazy(none, func() string {
			return "Convert to set for O(1) lookups: " + formatIntSet(slices.Sorted(maps.Keys(set)))
		})
		if !yield(ev) {
			return
		}

		starts := slices.Collect(maps.Keys(set))
		if order == ascendingOrder {
			slices.Sort(starts)
		}

		longest := 0
		best := []int{}
		for _, v := range starts {
			if _, ok := set[v-1]; ok && v != math.MinInt {
				continue
			}
			if !yield(steptrace.Note(none, "Found sequence start: %d (no %d in set)", v, v-1)) {
				return
			}

			run := []int{v}
			for cur := v; cur < math.MaxInt; cur++ {
				if _, ok := set[cur+1]; !ok {
					break
				}
				run = append(run, cur+1)
				if !yield(steptrace.Note(none, "Extend sequence: %v (length: %d)", run, len(run))) {
					return
				}
			}

			st := sequenceState{RunDone: true, Run: run, IsLongest: len(run) > longest}
			if st.IsLongest {
				longest, best = len(run), run
				ev = steptrace.Note(st, "New longest sequence: %v (length: %d)", run, len(run))
			} else {
				ev = steptrace.Quiet(st)
			}
			if !yield(ev) {
				return
			}
		}

		final := sequenceState{Longest: longest, Best: best}
		if !yield(steptrace.Note(final, "Final result: longest consecutive sequence length = %d", longest)) {
			return
		}
		yield(steptrace.Lazy(final, func() string { return fmt.Sprintf("Longest sequence: %v", best) }))
	}
}

// LongestConsecutive returns the length of the longest run of consecutive
// integers present in nums. Duplicates collapse; empty input yields 0.
func LongestConsecutive(nums []int) int {
	final, _ := steptrace.Drain(walkSequences(nums, anyOrder))
	return final.Longest
}

// AnalyzeSequences runs Longest Consecutive Sequence with trace and
// visualization. Starts are visited in ascending order.
func AnalyzeSequences(in Input) (*Result, error) {
	return analyzeSequences(in, nil)
}

func analyzeSequences(in Input, onStep StepFunc) (*Result, error) {
	nums := in.numberList()

	runs := []SequenceRun{}
	project := func(ev steptrace.Event[sequenceState]) {
		st := ev.State
		if !st.RunDone {
			return
		}
		runs = append(runs, SequenceRun{
			Sequence:  slices.Clone(st.Run),
			Start:     st.Run[0],
			Length:    len(st.Run),
			IsLongest: st.IsLongest,
		})
	}

	final, steps, err := steptrace.CollectLive(walkSequences(nums, ascendingOrder), onStep, project)
	if err != nil {
		return nil, err
	}

	unique := slices.Sorted(maps.Keys(setOf(nums)))
	if unique == nil {
		unique = []int{}
	}
	best := final.Best
	if best == nil {
		best = []int{}
	}
	vis := SequenceVisualization{
		Type:            kindSequences,
		Input:           nums,
		UniqueNumbers:   unique,
		Sequences:       runs,
		LongestLength:   final.Longest,
		LongestSequence: best,
		TotalSequences:  len(runs),
	}
	return newResult(AlgorithmLongestConsecutive, final.Longest, steps, vis), nil
}

func setOf(nums []int) map[int]struct{} {
	set := make(map[int]struct{}, len(nums))
	for _, n := range nums {
		set[n] = struct{}{}
	}
	return set
}
