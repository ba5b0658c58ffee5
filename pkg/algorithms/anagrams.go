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
	"slices"
	"unicode/utf8"

	"github.com/AleutianAI/SmartPack/pkg/steptrace"
)

// =============================================================================
// Valid Anagram
// =============================================================================

type anagramCheckState struct {
	IsAnagram bool
}

// walkAnagramCheck compares two strings by code point frequency.
func walkAnagramCheck(s, t string) iter.Seq[steptrace.Event[anagramCheckState]] {
	return func(yield func(steptrace.Event[anagramCheckState]) bool) {
		none := anagramCheckState{}
		if !yield(steptrace.Note(none, "Comparing %q and %q for anagram validity", s, t)) {
			return
		}

		ls, lt := utf8.RuneCountInString(s), utf8.RuneCountInString(t)
		if ls != lt {
			yield(steptrace.Note(none, "Length mismatch: %d != %d - NOT ANAGRAMS", ls, lt))
			return
		}
		if !yield(steptrace.Note(none, "Length check: both strings have %d characters", ls)) {
			return
		}

		cs, ct := countRunes(s), countRunes(t)
		if !yield(steptrace.Note(none, "Character frequency in %q: %s", s, cs)) {
			return
		}
		if !yield(steptrace.Note(none, "Character frequency in %q: %s", t, ct)) {
			return
		}

		if maps.Equal(cs.counts, ct.counts) {
			yield(steptrace.Note(anagramCheckState{IsAnagram: true}, "Frequencies match - VALID ANAGRAMS!"))
			return
		}
		yield(steptrace.Note(none, "Frequencies don't match - NOT ANAGRAMS"))
	}
}

// IsAnagram reports whether s and t contain the same characters with the
// same multiplicities. Characters are Unicode code points.
func IsAnagram(s, t string) bool {
	final, _ := steptrace.Drain(walkAnagramCheck(s, t))
	return final.IsAnagram
}

// =============================================================================
// Group Anagrams
// =============================================================================

// anagramGroups accumulates groups in first-occurrence order of each key.
type anagramGroups struct {
	keyOrder []string
	members  map[string][]string
	keys     map[string]string
}

func (g *anagramGroups) groups() [][]string {
	out := make([][]string, 0, len(g.keyOrder))
	for _, k := range g.keyOrder {
		out = append(out, g.members[k])
	}
	return out
}

// sortedKey returns the string's code points in ascending order.
func sortedKey(s string) string {
	rs := []rune(s)
	slices.Sort(rs)
	return string(rs)
}

func walkGroupAnagrams(strs []string) iter.Seq[steptrace.Event[*anagramGroups]] {
	return func(yield func(steptrace.Event[*anagramGroups]) bool) {
		g := &anagramGroups{
			members: make(map[string][]string),
			keys:    make(map[string]string, len(strs)),
		}
		if !yield(steptrace.Note(g, "Grouping anagrams by sorted character key")) {
			return
		}
		for _, s := range strs {
			key := sortedKey(s)
			if _, ok := g.members[key]; !ok {
				g.keyOrder = append(g.keyOrder, key)
			}
			g.members[key] = append(g.members[key], s)
			g.keys[s] = key
			if !yield(steptrace.Note(g, "%q -> key: %q -> group: %q", s, key, g.members[key])) {
				return
			}
		}
		yield(steptrace.Lazy(g, func() string {
			return fmt.Sprintf("Final groups: %q", g.groups())
		}))
	}
}

// GroupAnagrams partitions strs into anagram classes. Groups appear in the
// order their first member appears in strs; members keep input order.
func GroupAnagrams(strs []string) [][]string {
	final, ok := steptrace.Drain(walkGroupAnagrams(strs))
	if !ok {
		return [][]string{}
	}
	return final.groups()
}

// =============================================================================
// Analysis
// =============================================================================

// AnalyzeAnagrams checks validity when given exactly two strings and
// groups otherwise.
func AnalyzeAnagrams(in Input) (*Result, error) {
	return analyzeAnagrams(in, nil)
}

func analyzeAnagrams(in Input, onStep StepFunc) (*Result, error) {
	strs := in.stringList()
	if len(strs) == 2 {
		s, t := strs[0], strs[1]
		final, steps, err := steptrace.CollectLive(walkAnagramCheck(s, t), onStep)
		if err != nil {
			return nil, err
		}
		vis := AnagramCheckVisualization{
			Type:      kindAnagramCheck,
			String1:   TextFrequency{Text: s, Frequency: countRunes(s).byText()},
			String2:   TextFrequency{Text: t, Frequency: countRunes(t).byText()},
			IsAnagram: final.IsAnagram,
		}
		return newResult(AlgorithmValidAnagram, final.IsAnagram, steps, vis), nil
	}

	final, steps, err := steptrace.CollectLive(walkGroupAnagrams(strs), onStep)
	if err != nil {
		return nil, err
	}
	groups := final.groups()
	vis := AnagramGroupsVisualization{
		Type:       kindAnagramGroups,
		Groups:     groups,
		Keys:       maps.Clone(final.keys),
		GroupCount: len(groups),
	}
	return newResult(AlgorithmGroupAnagrams, groups, steps, vis), nil
}
