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
	"iter"
	"slices"

	"github.com/AleutianAI/SmartPack/pkg/steptrace"
)

type productPass int

const (
	passNone productPass = iota
	passLeft
	passRight
)

// productState is one multiplication. For the left pass Value is the
// product of everything left of Index; for the right pass Factor is the
// product of everything right of Index.
type productState struct {
	Pass   productPass
	Index  int
	Value  int
	Factor int
	Result []int
}

// walkProducts computes each product without division, reusing the result
// array for the left products. Products wrap on int overflow.
func walkProducts(nums []int) iter.Seq[steptrace.Event[productState]] {
	return func(yield func(steptrace.Event[productState]) bool) {
		none := productState{}
		n := len(nums)
		result := make([]int, n)
		for i := range result {
			result[i] = 1
		}

		if !yield(steptrace.Note(none, "Input array: %v", nums)) {
			return
		}
		if !yield(steptrace.Note(none, "Initialize result array: %v", result)) {
			return
		}

		if !yield(steptrace.Note(none, "Left pass - multiply by elements to the left:")) {
			return
		}
		for i := 1; i < n; i++ {
			prev := result[i-1]
			result[i] = prev * nums[i-1]
			st := productState{Pass: passLeft, Index: i, Value: result[i]}
			if !yield(steptrace.Note(st, "result[%d] = result[%d] * nums[%d] = %d * %d = %d",
				i, i-1, i-1, prev, nums[i-1], result[i])) {
				return
			}
		}
		if !yield(steptrace.Note(none, "After left pass: %v", result)) {
			return
		}

		if !yield(steptrace.Note(none, "Right pass - multiply by elements to the right:")) {
			return
		}
		right := 1
		for i := n - 1; i >= 0; i-- {
			result[i] *= right
			st := productState{Pass: passRight, Index: i, Value: result[i], Factor: right}
			if !yield(steptrace.Note(st, "result[%d] *= right_product(%d) = %d", i, right, result[i])) {
				return
			}
			right *= nums[i]
			if !yield(steptrace.Note(none, "Update right_product: right_product * nums[%d] = %d", i, right)) {
				return
			}
		}

		yield(steptrace.Note(productState{Result: result}, "Final result: %v", result))
	}
}

// ProductExceptSelf returns out where out[i] is the product of every
// element except nums[i].
func ProductExceptSelf(nums []int) []int {
	final, _ := steptrace.Drain(walkProducts(nums))
	return final.Result
}

// AnalyzeProducts runs Product of Array Except Self with trace and
// visualization. The left and right product arrays are rebuilt from the
// pass events.
func AnalyzeProducts(in Input) (*Result, error) {
	return analyzeProducts(in, nil)
}

func analyzeProducts(in Input, onStep StepFunc) (*Result, error) {
	nums := in.numberList()
	n := len(nums)

	left := make([]int, n)
	right := make([]int, n)
	if n > 0 {
		left[0] = 1
	}
	passes := ProductPasses{LeftPass: [][2]int{}, RightPass: [][2]int{}}

	project := func(ev steptrace.Event[productState]) {
		st := ev.State
		switch st.Pass {
		case passLeft:
			left[st.Index] = st.Value
			passes.LeftPass = append(passes.LeftPass, [2]int{st.Index, st.Value})
		case passRight:
			right[st.Index] = st.Factor
			passes.RightPass = append(passes.RightPass, [2]int{st.Index, st.Value})
		}
	}

	final, steps, err := steptrace.CollectLive(walkProducts(nums), onStep, project)
	if err != nil {
		return nil, err
	}
	vis := ProductVisualization{
		Type:          kindProducts,
		Input:         nums,
		LeftProducts:  left,
		RightProducts: right,
		FinalResult:   slices.Clone(final.Result),
		Steps:         passes,
	}
	return newResult(AlgorithmProductExceptSelf, final.Result, steps, vis), nil
}
