// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package algorithms implements the instrumented array and hashing kernels
// behind the SmartPack pattern explorer.
//
// # Description
//
// Each algorithm family is written exactly once, as a walk function that
// yields steptrace events. Three things are derived from draining a walk:
//
//   - the canonical answer (ContainsDuplicate, TwoSum, ...), which drains
//     without rendering any narration;
//   - the step trace, recorded by a steptrace.Recorder;
//   - the visualization payload, built by a projector that observes the
//     same events (plus whole-input aggregates where a family needs them).
//
// Because all three come from the same execution, the trace cannot drift
// from the answer.
//
// # Families
//
//	duplicates  Contains Duplicate (hash set, early exit)
//	anagrams    Valid Anagram (2 strings) or Group Anagrams (any other count)
//	frequency   Top K Frequent Elements (bounded min-heap)
//	pairs       Two Sum (hash map of first indices)
//	products    Product of Array Except Self (left/right passes)
//	sequences   Longest Consecutive Sequence (sequence starts)
//	encoding    Encode/Decode Strings (length prefix)
//
// # Purity
//
// Nothing in this package logs, reads configuration, or performs I/O.
// Every exported function is safe for concurrent use.
package algorithms
