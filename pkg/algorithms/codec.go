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
	"iter"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/AleutianAI/SmartPack/pkg/steptrace"
)

// Wire format: every string s is written as "<n>#<s>" where n is the
// number of characters in s, with no separator between entries. A
// character is a UTF-8 code point; each byte that is not part of a valid
// encoding counts as one character of its own, as in
// utf8.RuneCountInString, so any byte string survives the round trip.
// Positions reported in the visualization are byte offsets.

const lengthDelimiter = '#'

// CodecResult is the answer of the encoding family.
type CodecResult struct {
	Encoded string   `json:"encoded"`
	Decoded []string `json:"decoded"`
	Valid   bool     `json:"valid"`
}

// codecState carries whichever part of the round trip an event belongs to.
type codecState struct {
	Encoding *EncodingStep
	Decoding *DecodingStep

	Encoded    string
	EncodeDone bool
	Decoded    []string
	DecodeDone bool

	Checked bool
	Valid   bool
}

// =============================================================================
// Encode
// =============================================================================

func walkEncode(strs []string) iter.Seq[steptrace.Event[codecState]] {
	return func(yield func(steptrace.Event[codecState]) bool) {
		if !yield(steptrace.Note(codecState{}, "Encoding process:")) {
			return
		}

		var b strings.Builder
		pos := 0
		for i, s := range strs {
			n := utf8.RuneCountInString(s)
			prefix := strconv.Itoa(n) + string(lengthDelimiter)
			b.WriteString(prefix)
			b.WriteString(s)

			step := &EncodingStep{
				StringIndex: i,
				Original:    s,
				Length:      n,
				Prefix:      prefix,
				EncodedPart: prefix + s,
				Position:    pos,
				EndPosition: pos + len(prefix) + len(s),
			}
			pos = step.EndPosition
			if !yield(steptrace.Note(codecState{Encoding: step},
				"String %d: %q -> length=%d -> %q", i, s, n, step.EncodedPart)) {
				return
			}
		}

		encoded := b.String()
		yield(steptrace.Note(codecState{Encoded: encoded, EncodeDone: true}, "Final encoded string: %q", encoded))
	}
}

// Encode joins strs into one length-prefixed string.
func Encode(strs []string) string {
	final, _ := steptrace.Drain(walkEncode(strs))
	return final.Encoded
}

// =============================================================================
// Decode
// =============================================================================

var errBadLength = errors.New("length prefix is not a decimal number")

// parseLength accepts one or more ASCII digits.
func parseLength(digits string) (int, error) {
	if digits == "" {
		return 0, errBadLength
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, errBadLength
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, errBadLength
	}
	return n, nil
}

// skipChars returns the byte offset n characters past start, or len(s)
// when s ends first. Invalid bytes count one character each.
func skipChars(s string, start, n int) int {
	i := start
	for ; n > 0 && i < len(s); n-- {
		_, width := utf8.DecodeRuneInString(s[i:])
		i += width
	}
	return i
}

// walkDecode reads units until the input is exhausted. A missing delimiter
// or a non-numeric prefix ends decoding with what was read so far; a length
// running past the end is clamped.
func walkDecode(encoded string) iter.Seq[steptrace.Event[codecState]] {
	return func(yield func(steptrace.Event[codecState]) bool) {
		none := codecState{}
		if !yield(steptrace.Note(none, "Decoding process:")) {
			return
		}

		out := []string{}
		for pos, idx := 0, 0; pos < len(encoded); idx++ {
			hash := strings.IndexByte(encoded[pos:], lengthDelimiter)
			if hash < 0 {
				if !yield(steptrace.Note(none,
					"Malformed input at position %d: no '#' delimiter found, stopping", pos)) {
					return
				}
				break
			}
			hash += pos

			n, err := parseLength(encoded[pos:hash])
			if err != nil {
				if !yield(steptrace.Note(none,
					"Malformed length prefix %q at position %d, stopping", encoded[pos:hash], pos)) {
					return
				}
				break
			}

			start := hash + 1
			end := skipChars(encoded, start, n)
			part := encoded[start:end]
			out = append(out, part)

			step := &DecodingStep{StringIndex: idx, Length: n, StartPos: start, EndPos: end, Decoded: part}
			if !yield(steptrace.Note(codecState{Decoding: step},
				"String %d: length=%d -> extract %q from position %d to %d", idx, n, part, start, end)) {
				return
			}
			pos = end
		}

		yield(steptrace.Note(codecState{Decoded: out, DecodeDone: true}, "Final decoded strings: %q", out))
	}
}

// Decode is the inverse of Encode. Malformed input yields the strings
// decoded before the fault.
func Decode(encoded string) []string {
	final, _ := steptrace.Drain(walkDecode(encoded))
	return final.Decoded
}

// =============================================================================
// Round Trip
// =============================================================================

// walkCodec encodes strs, decodes the result and checks it against strs.
func walkCodec(strs []string) iter.Seq[steptrace.Event[codecState]] {
	return func(yield func(steptrace.Event[codecState]) bool) {
		if !yield(steptrace.Note(codecState{}, "Input strings: %q", strs)) {
			return
		}

		var encoded string
		for ev := range walkEncode(strs) {
			if ev.State.EncodeDone {
				encoded = ev.State.Encoded
			}
			if !yield(ev) {
				return
			}
		}

		var decoded []string
		for ev := range walkDecode(encoded) {
			if ev.State.DecodeDone {
				decoded = ev.State.Decoded
			}
			if !yield(ev) {
				return
			}
		}

		valid := slices.Equal(decoded, strs)
		st := codecState{Encoded: encoded, Decoded: decoded, Checked: true, Valid: valid}
		yield(steptrace.Note(st, "Encoding/Decoding successful: %t", valid))
	}
}

// AnalyzeEncoding round-trips the input strings with trace and
// visualization.
func AnalyzeEncoding(in Input) (*Result, error) {
	return analyzeEncoding(in, nil)
}

func analyzeEncoding(in Input, onStep StepFunc) (*Result, error) {
	strs := in.stringList()

	encSteps := []EncodingStep{}
	decSteps := []DecodingStep{}
	project := func(ev steptrace.Event[codecState]) {
		if ev.State.Encoding != nil {
			encSteps = append(encSteps, *ev.State.Encoding)
		}
		if ev.State.Decoding != nil {
			decSteps = append(decSteps, *ev.State.Decoding)
		}
	}

	final, steps, err := steptrace.CollectLive(walkCodec(strs), onStep, project)
	if err != nil {
		return nil, err
	}

	encodedLen := utf8.RuneCountInString(final.Encoded)
	vis := CodecVisualization{
		Type:             kindCodec,
		Input:            strs,
		Encoded:          final.Encoded,
		Decoded:          final.Decoded,
		IsValid:          final.Valid,
		EncodingSteps:    encSteps,
		DecodingSteps:    decSteps,
		EncodedLength:    encodedLen,
		CompressionRatio: compressionRatio(strs, encodedLen),
	}
	value := CodecResult{Encoded: final.Encoded, Decoded: final.Decoded, Valid: final.Valid}
	return newResult(AlgorithmEncodeDecode, value, steps, vis), nil
}

// compressionRatio is encoded length over total input length, or 1 when
// the input has no characters.
func compressionRatio(strs []string, encodedLen int) float64 {
	total := 0
	for _, s := range strs {
		total += utf8.RuneCountInString(s)
	}
	if total == 0 {
		return 1
	}
	return float64(encodedLen) / float64(total)
}
