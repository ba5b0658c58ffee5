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
	"strings"
)

// Narration renders hash sets and maps in insertion order so a trace
// reads the same way the kernel filled the structure. fmt's map output
// sorts keys, which would hide that order.

// formatIntSet renders values as {a, b, c}.
func formatIntSet(order []int) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, v := range order {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", v)
	}
	b.WriteByte('}')
	return b.String()
}

// formatIntMap renders m as {k: v, ...} following the key order given.
func formatIntMap(order []int, m map[int]int) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range order {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d: %d", k, m[k])
	}
	b.WriteByte('}')
	return b.String()
}

// runeCounts is a character frequency table that remembers first
// occurrence order.
type runeCounts struct {
	order  []rune
	counts map[rune]int
}

func countRunes(s string) runeCounts {
	rc := runeCounts{counts: make(map[rune]int)}
	for _, r := range s {
		if rc.counts[r] == 0 {
			rc.order = append(rc.order, r)
		}
		rc.counts[r]++
	}
	return rc
}

// String renders the table as {'a': 3, 'n': 1}.
func (rc runeCounts) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, r := range rc.order {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: %d", r, rc.counts[r])
	}
	b.WriteByte('}')
	return b.String()
}

// byText keys the table by one-character strings for JSON.
func (rc runeCounts) byText() map[string]int {
	out := make(map[string]int, len(rc.counts))
	for r, n := range rc.counts {
		out[string(r)] = n
	}
	return out
}

// formatEntries renders heap entries as [(count, value), ...].
func formatEntries(entries []freqEntry) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range entries {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	b.WriteByte(']')
	return b.String()
}
