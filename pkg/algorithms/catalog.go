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

import "slices"

// =============================================================================
// Families
// =============================================================================

// Family identifies one endpoint's worth of analysis. The string value is
// the last path segment of the endpoint (/analyze/<family>).
type Family string

const (
	FamilyDuplicates Family = "duplicates"
	FamilyAnagrams   Family = "anagrams"
	FamilyFrequency  Family = "frequency"
	FamilyPairs      Family = "pairs"
	FamilyProducts   Family = "products"
	FamilySequences  Family = "sequences"
	FamilyEncoding   Family = "encoding"
)

// familyOrder is the listing order for Families.
var familyOrder = []Family{
	FamilyDuplicates,
	FamilyAnagrams,
	FamilyFrequency,
	FamilyPairs,
	FamilyProducts,
	FamilySequences,
	FamilyEncoding,
}

// Families returns every registered family in listing order.
func Families() []Family {
	return slices.Clone(familyOrder)
}

// ParseFamily resolves a family from its endpoint segment.
func ParseFamily(s string) (Family, bool) {
	f := Family(s)
	if slices.Contains(familyOrder, f) {
		return f, true
	}
	return "", false
}

// TakesStrings reports whether the family analyzes Input.Strings rather
// than Input.Numbers.
func (f Family) TakesStrings() bool {
	return f == FamilyAnagrams || f == FamilyEncoding
}

// =============================================================================
// Descriptors
// =============================================================================

// Algorithm identifies a concrete algorithm. The anagrams family maps to
// two algorithms depending on input arity; every other family maps to one.
type Algorithm int

const (
	AlgorithmContainsDuplicate Algorithm = iota
	AlgorithmValidAnagram
	AlgorithmGroupAnagrams
	AlgorithmTopKFrequent
	AlgorithmTwoSum
	AlgorithmProductExceptSelf
	AlgorithmLongestConsecutive
	AlgorithmEncodeDecode
)

// Complexity is the asymptotic cost pair shown next to every result.
type Complexity struct {
	Time  string `json:"time"`
	Space string `json:"space"`
}

// Descriptor is the static metadata attached to an analysis result.
type Descriptor struct {
	Family      Family
	Label       string
	Complexity  Complexity
	Explanation string
}

// catalog is populated once and never written again.
var catalog = map[Algorithm]Descriptor{
	AlgorithmContainsDuplicate: {
		Family:      FamilyDuplicates,
		Label:       "Contains Duplicate (Hash Set)",
		Complexity:  Complexity{Time: "O(n)", Space: "O(n)"},
		Explanation: "Uses hash set to track seen elements in single pass",
	},
	AlgorithmValidAnagram: {
		Family:      FamilyAnagrams,
		Label:       "Valid Anagram (Frequency Count)",
		Complexity:  Complexity{Time: "O(n)", Space: "O(k)"},
		Explanation: "Compares per-character frequency counts of both strings",
	},
	AlgorithmGroupAnagrams: {
		Family:      FamilyAnagrams,
		Label:       "Group Anagrams (Hash Map)",
		Complexity:  Complexity{Time: "O(n*m log m)", Space: "O(n*m)"},
		Explanation: "Groups strings by their sorted character key",
	},
	AlgorithmTopKFrequent: {
		Family:      FamilyFrequency,
		Label:       "Top K Frequent Elements (Heap)",
		Complexity:  Complexity{Time: "O(n log k)", Space: "O(n + k)"},
		Explanation: "Uses frequency counter and min-heap for efficient top-K selection",
	},
	AlgorithmTwoSum: {
		Family:      FamilyPairs,
		Label:       "Two Sum (Hash Map)",
		Complexity:  Complexity{Time: "O(n)", Space: "O(n)"},
		Explanation: "Uses hash map to find complement in single pass",
	},
	AlgorithmProductExceptSelf: {
		Family:      FamilyProducts,
		Label:       "Product of Array Except Self",
		Complexity:  Complexity{Time: "O(n)", Space: "O(1)"},
		Explanation: "Uses left and right pass to calculate products without division",
	},
	AlgorithmLongestConsecutive: {
		Family:      FamilySequences,
		Label:       "Longest Consecutive Sequence (Hash Set)",
		Complexity:  Complexity{Time: "O(n)", Space: "O(n)"},
		Explanation: "Uses hash set to identify sequence starts and extend efficiently",
	},
	AlgorithmEncodeDecode: {
		Family:      FamilyEncoding,
		Label:       "Encode/Decode Strings (Length Prefix)",
		Complexity:  Complexity{Time: "O(n)", Space: "O(n)"},
		Explanation: "Uses length prefix encoding to handle arbitrary delimiters safely",
	},
}

// Describe returns the descriptor for a.
func Describe(a Algorithm) Descriptor {
	return catalog[a]
}

// =============================================================================
// Pattern Listing
// =============================================================================

// Pattern groups the algorithms by the technique they teach.
type Pattern struct {
	Pattern   string   `json:"pattern"`
	Features  []string `json:"features"`
	RealWorld []string `json:"real_world"`
	Blind75   []string `json:"blind75"`
}

var patterns = []Pattern{
	{
		Pattern:   "Hash Set/Map",
		Features:  []string{"Duplicate Detection", "Anagram Analysis", "Frequency Counting"},
		RealWorld: []string{"Database Deduplication", "Spam Detection", "Log Analysis"},
		Blind75:   []string{"Contains Duplicate", "Valid Anagram", "Group Anagrams"},
	},
	{
		Pattern:   "Two Pointers/Complement",
		Features:  []string{"Pair Finding", "Sum Calculations"},
		RealWorld: []string{"Recommendation Systems", "Financial Analysis"},
		Blind75:   []string{"Two Sum", "3Sum"},
	},
	{
		Pattern:   "Prefix/Suffix Arrays",
		Features:  []string{"Product Calculations", "Range Queries"},
		RealWorld: []string{"Stock Analysis", "Performance Metrics"},
		Blind75:   []string{"Product of Array Except Self"},
	},
	{
		Pattern:   "Union Find/Consecutive",
		Features:  []string{"Sequence Detection", "Graph Components"},
		RealWorld: []string{"Social Networks", "System Dependencies"},
		Blind75:   []string{"Longest Consecutive Sequence"},
	},
	{
		Pattern:   "String Processing",
		Features:  []string{"Safe Encoding", "Data Serialization"},
		RealWorld: []string{"API Design", "Data Storage"},
		Blind75:   []string{"Encode and Decode Strings"},
	},
}

// Patterns returns a deep copy of the static pattern listing.
func Patterns() []Pattern {
	out := make([]Pattern, len(patterns))
	for i, p := range patterns {
		out[i] = Pattern{
			Pattern:   p.Pattern,
			Features:  slices.Clone(p.Features),
			RealWorld: slices.Clone(p.RealWorld),
			Blind75:   slices.Clone(p.Blind75),
		}
	}
	return out
}
