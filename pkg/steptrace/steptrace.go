// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package steptrace records the decisions an instrumented algorithm makes.
//
// # Description
//
// An instrumented kernel is written once as an iter.Seq of Event values.
// Every consumer (the plain answer, the narrated trace, the visualization
// snapshot) drains that same sequence, so the three can never disagree
// about the order of decisions.
//
//	kernel ──► iter.Seq[Event[S]] ──► Drain ──┬─► final state (answer)
//	                                          ├─► Recorder   (narration)
//	                                          └─► projector  (snapshots)
//
// # Live State
//
// Events may reference the kernel's working structures (maps, slices) to
// avoid copying them on every step. Observers run inside the yield, before
// the kernel resumes, so anything they read is consistent with the step.
// Observers must copy what they keep and must never mutate it.
//
// # Thread Safety
//
// Sequences are single-use and not safe for concurrent consumption. Build
// a fresh sequence per consumer.
package steptrace

import (
	"fmt"
	"iter"
)

// Event is one decision made by an instrumented kernel.
type Event[S any] struct {
	// State is the kernel's view of the step. It may alias live working
	// state; see the package documentation.
	State S

	narrate func() string
}

// Note builds an event whose narration is formatted on demand.
//
// The arguments are captured by value at the time Note is called; pass
// slices or maps only when the caller wants the formatted output to reflect
// their contents at narration time.
func Note[S any](state S, format string, args ...any) Event[S] {
	return Event[S]{
		State: state,
		narrate: func() string {
			return fmt.Sprintf(format, args...)
		},
	}
}

// Lazy builds an event whose narration is produced by fn.
func Lazy[S any](state S, fn func() string) Event[S] {
	return Event[S]{State: state, narrate: fn}
}

// Quiet builds a state-only event that contributes nothing to the trace.
func Quiet[S any](state S) Event[S] {
	return Event[S]{State: state}
}

// Narrated reports whether the event carries a narration line.
func (e Event[S]) Narrated() bool {
	return e.narrate != nil
}

// Narration renders the event's line, or "" for quiet events.
func (e Event[S]) Narration() string {
	if e.narrate == nil {
		return ""
	}
	return e.narrate()
}

// Drain consumes seq to completion.
//
// # Description
//
// Each observer is called, in order, for every event while the kernel is
// suspended inside its yield. The last event's state is returned together
// with true; an empty sequence returns the zero state and false.
//
// # Examples
//
//	rec := &steptrace.Recorder[dupState]{}
//	final, _ := steptrace.Drain(walkDuplicates(nums), rec.Observe)
//	return final.Found, rec.Steps()
func Drain[S any](seq iter.Seq[Event[S]], observers ...func(Event[S])) (S, bool) {
	var last S
	seen := false
	for ev := range seq {
		for _, observe := range observers {
			observe(ev)
		}
		last = ev.State
		seen = true
	}
	return last, seen
}

// Recorder collects narration lines in the order they were emitted.
// The zero value is ready to use.
type Recorder[S any] struct {
	steps []string
}

// Observe appends the event's narration. Quiet events are skipped.
func (r *Recorder[S]) Observe(ev Event[S]) {
	if !ev.Narrated() {
		return
	}
	r.steps = append(r.steps, ev.Narration())
}

// Steps returns the recorded lines. The result is never nil.
func (r *Recorder[S]) Steps() []string {
	if r.steps == nil {
		return []string{}
	}
	return r.steps
}

// Len returns the number of recorded lines.
func (r *Recorder[S]) Len() int {
	return len(r.steps)
}

// Collect drains seq and returns the final state and the full narration.
func Collect[S any](seq iter.Seq[Event[S]], observers ...func(Event[S])) (S, []string) {
	final, steps, _ := CollectLive(seq, nil, observers...)
	return final, steps
}

// CollectLive is Collect with a hook for each narration line. onLine runs
// right after the line is recorded, while the kernel is suspended. A
// non-nil error from onLine stops the kernel; CollectLive then returns
// that error with the state and lines reached so far. A nil onLine never
// stops the kernel.
func CollectLive[S any](seq iter.Seq[Event[S]], onLine func(string) error, observers ...func(Event[S])) (S, []string, error) {
	rec := &Recorder[S]{}
	var last S
	for ev := range seq {
		last = ev.State
		for _, observe := range observers {
			observe(ev)
		}
		if !ev.Narrated() {
			continue
		}
		line := ev.Narration()
		rec.steps = append(rec.steps, line)
		if onLine == nil {
			continue
		}
		if err := onLine(line); err != nil {
			return last, rec.Steps(), err
		}
	}
	return last, rec.Steps(), nil
}

// Lines adapts seq into a sequence of narration lines, skipping quiet
// events. Stopping the returned sequence early stops the kernel.
func Lines[S any](seq iter.Seq[Event[S]]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for ev := range seq {
			if !ev.Narrated() {
				continue
			}
			if !yield(ev.Narration()) {
				return
			}
		}
	}
}
