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
	"container/heap"
	"fmt"
	"iter"
	"slices"
	"strconv"

	"github.com/AleutianAI/SmartPack/pkg/steptrace"
)

// =============================================================================
// Ranking
// =============================================================================

// freqEntry is a distinct value with its occurrence count.
type freqEntry struct {
	Value int
	Count int
}

func (e freqEntry) String() string {
	return fmt.Sprintf("(%d, %d)", e.Count, e.Value)
}

// outranks reports whether a places ahead of b in a top-K answer: higher
// count first, then smaller value.
func outranks(a, b freqEntry) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return a.Value < b.Value
}

// rankHeap is a min-heap whose root is the worst-ranked entry.
type rankHeap []freqEntry

func (h rankHeap) Len() int           { return len(h) }
func (h rankHeap) Less(i, j int) bool { return outranks(h[j], h[i]) }
func (h rankHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *rankHeap) Push(x any)        { *h = append(*h, x.(freqEntry)) }
func (h *rankHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// frequencyTable counts values in first-occurrence order.
type frequencyTable struct {
	order  []int
	counts map[int]int
}

func countFrequencies(nums []int) frequencyTable {
	ft := frequencyTable{counts: make(map[int]int)}
	for _, n := range nums {
		if ft.counts[n] == 0 {
			ft.order = append(ft.order, n)
		}
		ft.counts[n]++
	}
	return ft
}

// =============================================================================
// Top K Frequent
// =============================================================================

type topKState struct {
	Result []int
}

func walkTopK(nums []int, k int) iter.Seq[steptrace.Event[topKState]] {
	return func(yield func(steptrace.Event[topKState]) bool) {
		none := topKState{}
		ft := countFrequencies(nums)
		ev := steptrace.Lazy(none, func() string {
			return "Step 1: Count frequencies - " + formatIntMap(ft.order, ft.counts)
		})
		if !yield(ev) {
			return
		}
		if !yield(steptrace.Note(none, "Step 2: Find top %d frequent elements using min-heap", k)) {
			return
		}
		if k <= 0 {
			yield(steptrace.Note(topKState{Result: []int{}}, "Final result: []"))
			return
		}

		h := make(rankHeap, 0, k)
		for _, v := range ft.order {
			cand := freqEntry{Value: v, Count: ft.counts[v]}
			switch {
			case h.Len() < k:
				heap.Push(&h, cand)
				ev = steptrace.Lazy(none, func() string {
					return fmt.Sprintf("Add %s to heap: %s", cand, formatEntries(h))
				})
			case outranks(cand, h[0]):
				evicted := h[0]
				h[0] = cand
				heap.Fix(&h, 0)
				ev = steptrace.Lazy(none, func() string {
					return fmt.Sprintf("Replace %s with %s: %s", evicted, cand, formatEntries(h))
				})
			default:
				ev = steptrace.Note(none, "Skip %s: does not outrank heap minimum %s", cand, h[0])
			}
			if !yield(ev) {
				return
			}
		}

		ranked := slices.Clone(h)
		slices.SortFunc(ranked, func(a, b freqEntry) int {
			switch {
			case outranks(a, b):
				return -1
			case outranks(b, a):
				return 1
			}
			return 0
		})
		result := make([]int, len(ranked))
		for i, e := range ranked {
			result[i] = e.Value
		}
		yield(steptrace.Note(topKState{Result: result}, "Final result: %v", result))
	}
}

// TopKFrequent returns the k most frequent values, most frequent first.
// Equal counts rank the smaller value first. k <= 0 yields an empty slice.
func TopKFrequent(nums []int, k int) []int {
	final, _ := steptrace.Drain(walkTopK(nums, k))
	return final.Result
}

// AnalyzeTopK runs Top K Frequent with trace and visualization.
func AnalyzeTopK(in Input) (*Result, error) {
	return analyzeTopK(in, nil)
}

func analyzeTopK(in Input, onStep StepFunc) (*Result, error) {
	k, err := in.k()
	if err != nil {
		return nil, err
	}
	nums := in.numberList()
	final, steps, err := steptrace.CollectLive(walkTopK(nums, k), onStep)
	if err != nil {
		return nil, err
	}
	return newResult(AlgorithmTopKFrequent, final.Result, steps, projectTopK(nums, final.Result)), nil
}

func projectTopK(nums []int, top []int) TopKVisualization {
	ft := countFrequencies(nums)
	chart := ChartData{
		Labels:      make([]string, 0, len(ft.order)),
		Frequencies: make([]int, 0, len(ft.order)),
		TopKIndices: []int{},
	}
	for i, v := range ft.order {
		chart.Labels = append(chart.Labels, strconv.Itoa(v))
		chart.Frequencies = append(chart.Frequencies, ft.counts[v])
		if slices.Contains(top, v) {
			chart.TopKIndices = append(chart.TopKIndices, i)
		}
	}
	return TopKVisualization{
		Type:          kindTopK,
		FrequencyMap:  ft.counts,
		TopKElements:  top,
		ChartData:     chart,
		TotalUnique:   len(ft.order),
		TotalElements: len(nums),
	}
}
