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

// Result is everything an analysis produces for one request.
//
// Value holds the family's answer:
//
//	duplicates  bool
//	anagrams    bool (pairwise) or [][]string (grouping)
//	frequency   []int
//	pairs       []int of length 2, or nil when there is no solution
//	products    []int
//	sequences   int
//	encoding    CodecResult
type Result struct {
	Value         any
	Algorithm     Algorithm
	Descriptor    Descriptor
	Steps         []string
	Visualization Visualization
}

func newResult(a Algorithm, value any, steps []string, vis Visualization) *Result {
	if steps == nil {
		steps = []string{}
	}
	return &Result{
		Value:         value,
		Algorithm:     a,
		Descriptor:    Describe(a),
		Steps:         steps,
		Visualization: vis,
	}
}

// =============================================================================
// Visualization Variants
// =============================================================================

// Visualization is the closed set of front-end payloads. Only types in this
// package implement it; switch on the concrete type to consume one.
type Visualization interface {
	// Kind is the value of the payload's "type" field.
	Kind() string
	visualization()
}

// DuplicateVisualization backs the duplicates family.
type DuplicateVisualization struct {
	Type              string        `json:"type"`
	Frequency         map[int]int   `json:"frequency"`
	Positions         map[int][]int `json:"positions"`
	HasDuplicates     bool          `json:"has_duplicates"`
	DuplicateElements []int         `json:"duplicate_elements"`
}

// TextFrequency is one side of a pairwise anagram comparison.
type TextFrequency struct {
	Text      string         `json:"text"`
	Frequency map[string]int `json:"frequency"`
}

// AnagramCheckVisualization backs pairwise anagram validity.
type AnagramCheckVisualization struct {
	Type      string        `json:"type"`
	String1   TextFrequency `json:"string1"`
	String2   TextFrequency `json:"string2"`
	IsAnagram bool          `json:"is_anagram"`
}

// AnagramGroupsVisualization backs anagram grouping.
type AnagramGroupsVisualization struct {
	Type       string            `json:"type"`
	Groups     [][]string        `json:"groups"`
	Keys       map[string]string `json:"keys"`
	GroupCount int               `json:"group_count"`
}

// ChartData is a bar chart over distinct values in counting order.
type ChartData struct {
	Labels      []string `json:"labels"`
	Frequencies []int    `json:"frequencies"`
	TopKIndices []int    `json:"top_k_indices"`
}

// TopKVisualization backs the frequency family.
type TopKVisualization struct {
	Type          string      `json:"type"`
	FrequencyMap  map[int]int `json:"frequency_map"`
	TopKElements  []int       `json:"top_k_elements"`
	ChartData     ChartData   `json:"chart_data"`
	TotalUnique   int         `json:"total_unique"`
	TotalElements int         `json:"total_elements"`
}

// SearchStep is one element visited by Two Sum. MapState is the
// value→index map after the step.
type SearchStep struct {
	Index      int         `json:"index"`
	Value      int         `json:"value"`
	Complement int         `json:"complement"`
	Found      bool        `json:"found"`
	MapState   map[int]int `json:"map_state"`
}

// TwoSumVisualization backs the pairs family.
type TwoSumVisualization struct {
	Type       string       `json:"type"`
	Solution   []int        `json:"solution"`
	Target     int          `json:"target"`
	SearchPath []SearchStep `json:"search_path"`
	Array      []int        `json:"array"`
}

// ProductPasses lists each pass as [index, value] pairs.
type ProductPasses struct {
	LeftPass  [][2]int `json:"left_pass"`
	RightPass [][2]int `json:"right_pass"`
}

// ProductVisualization backs the products family. All slices are aligned
// by index.
type ProductVisualization struct {
	Type          string        `json:"type"`
	Input         []int         `json:"input"`
	LeftProducts  []int         `json:"left_products"`
	RightProducts []int         `json:"right_products"`
	FinalResult   []int         `json:"final_result"`
	Steps         ProductPasses `json:"steps"`
}

// SequenceRun is one consecutive run discovered from a sequence start.
type SequenceRun struct {
	Sequence  []int `json:"sequence"`
	Start     int   `json:"start"`
	Length    int   `json:"length"`
	IsLongest bool  `json:"is_longest"`
}

// SequenceVisualization backs the sequences family.
type SequenceVisualization struct {
	Type            string        `json:"type"`
	Input           []int         `json:"input"`
	UniqueNumbers   []int         `json:"unique_numbers"`
	Sequences       []SequenceRun `json:"sequences"`
	LongestLength   int           `json:"longest_length"`
	LongestSequence []int         `json:"longest_sequence"`
	TotalSequences  int           `json:"total_sequences"`
}

// EncodingStep describes one encoded string.
//
// Length counts characters. position and end_position are UTF-8 byte
// offsets into the encoded string, so [position, end_position) is the
// fragment's byte range. Browser clients indexing a JavaScript string
// must convert; the two agree only for ASCII.
type EncodingStep struct {
	StringIndex int    `json:"string_index"`
	Original    string `json:"original"`
	Length      int    `json:"length"` // characters
	Prefix      string `json:"prefix"`
	EncodedPart string `json:"encoded_part"`
	Position    int    `json:"position"`     // byte offset
	EndPosition int    `json:"end_position"` // byte offset, exclusive
}

// DecodingStep describes one decoded unit. [start_pos, end_pos) is the
// payload's UTF-8 byte range in the encoded string; Length is the parsed
// prefix in characters.
type DecodingStep struct {
	StringIndex int    `json:"string_index"`
	Length      int    `json:"length"`    // characters
	StartPos    int    `json:"start_pos"` // byte offset
	EndPos      int    `json:"end_pos"`   // byte offset, exclusive
	Decoded     string `json:"decoded"`
}

// CodecVisualization backs the encoding family.
type CodecVisualization struct {
	Type             string         `json:"type"`
	Input            []string       `json:"input"`
	Encoded          string         `json:"encoded"`
	Decoded          []string       `json:"decoded"`
	IsValid          bool           `json:"is_valid"`
	EncodingSteps    []EncodingStep `json:"encoding_steps"`
	DecodingSteps    []DecodingStep `json:"decoding_steps"`
	EncodedLength    int            `json:"encoded_length"`    // characters
	CompressionRatio float64        `json:"compression_ratio"` // characters over characters
}

const (
	kindDuplicates    = "duplicates"
	kindAnagramCheck  = "anagram_check"
	kindAnagramGroups = "anagram_groups"
	kindTopK          = "top_k"
	kindTwoSum        = "two_sum"
	kindProducts      = "product_except_self"
	kindSequences     = "consecutive_sequences"
	kindCodec         = "encode_decode"
)

func (DuplicateVisualization) Kind() string     { return kindDuplicates }
func (AnagramCheckVisualization) Kind() string  { return kindAnagramCheck }
func (AnagramGroupsVisualization) Kind() string { return kindAnagramGroups }
func (TopKVisualization) Kind() string          { return kindTopK }
func (TwoSumVisualization) Kind() string        { return kindTwoSum }
func (ProductVisualization) Kind() string       { return kindProducts }
func (SequenceVisualization) Kind() string      { return kindSequences }
func (CodecVisualization) Kind() string         { return kindCodec }

func (DuplicateVisualization) visualization()     {}
func (AnagramCheckVisualization) visualization()  {}
func (AnagramGroupsVisualization) visualization() {}
func (TopKVisualization) visualization()          {}
func (TwoSumVisualization) visualization()        {}
func (ProductVisualization) visualization()       {}
func (SequenceVisualization) visualization()      {}
func (CodecVisualization) visualization()         {}
