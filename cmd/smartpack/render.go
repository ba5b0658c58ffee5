// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/AleutianAI/SmartPack/pkg/algorithms"
)

// SmartPack palette.
var (
	colorTeal  = lipgloss.Color("#20B9B4")
	colorBrite = lipgloss.Color("#2CD7C7")
	colorSlate = lipgloss.Color("#5C7A84")
	colorRed   = lipgloss.Color("#E74C3C")
)

var styles = struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Muted  lipgloss.Style
	Index  lipgloss.Style
	Result lipgloss.Style
	Error  lipgloss.Style
	Box    lipgloss.Style
}{
	Title:  lipgloss.NewStyle().Bold(true).Foreground(colorBrite),
	Label:  lipgloss.NewStyle().Foreground(colorTeal),
	Muted:  lipgloss.NewStyle().Foreground(colorSlate),
	Index:  lipgloss.NewStyle().Foreground(colorSlate).Width(5).Align(lipgloss.Right),
	Result: lipgloss.NewStyle().Bold(true).Foreground(colorBrite),
	Error:  lipgloss.NewStyle().Foreground(colorRed),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorTeal).
		Padding(0, 1),
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// renderer writes analysis results for humans. Styling is applied only
// when styled is set; plain output is stable for scripts and tests.
type renderer struct {
	out    io.Writer
	styled bool
}

func newRenderer(out io.Writer, plain bool) *renderer {
	return &renderer{out: out, styled: !plain && isTerminal(out)}
}

func (r *renderer) style(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

// Result prints the descriptor, the numbered trace and the answer.
func (r *renderer) Result(res *algorithms.Result) error {
	var b strings.Builder

	header := fmt.Sprintf("%s\n%s %s   %s %s\n%s",
		r.style(styles.Title, res.Descriptor.Label),
		r.style(styles.Label, "Time:"), res.Descriptor.Complexity.Time,
		r.style(styles.Label, "Space:"), res.Descriptor.Complexity.Space,
		r.style(styles.Muted, res.Descriptor.Explanation))
	if r.styled {
		header = styles.Box.Render(header)
	}
	b.WriteString(header)
	b.WriteString("\n\n")

	b.WriteString(r.style(styles.Label, "Steps:"))
	b.WriteString("\n")
	for i, step := range res.Steps {
		idx := fmt.Sprintf("%4d.", i+1)
		if r.styled {
			idx = styles.Index.Render(fmt.Sprintf("%d.", i+1))
		}
		fmt.Fprintf(&b, "%s %s\n", idx, step)
	}
	if len(res.Steps) == 0 {
		b.WriteString(r.style(styles.Muted, "  (no steps)"))
		b.WriteString("\n")
	}

	value, err := json.Marshal(res.Value)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Fprintf(&b, "\n%s %s\n", r.style(styles.Label, "Result:"), r.style(styles.Result, string(value)))

	_, err = io.WriteString(r.out, b.String())
	return err
}

// Patterns prints the pattern listing.
func (r *renderer) Patterns(patterns []algorithms.Pattern) error {
	var b strings.Builder
	for i, p := range patterns {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.style(styles.Title, p.Pattern))
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s %s\n", r.style(styles.Label, "Features:  "), strings.Join(p.Features, ", "))
		fmt.Fprintf(&b, "  %s %s\n", r.style(styles.Label, "Real world:"), strings.Join(p.RealWorld, ", "))
		fmt.Fprintf(&b, "  %s %s\n", r.style(styles.Label, "Blind 75:  "), strings.Join(p.Blind75, ", "))
	}
	_, err := io.WriteString(r.out, b.String())
	return err
}

// Error prints a failure line.
func (r *renderer) Error(msg string, details []string) {
	fmt.Fprintln(r.out, r.style(styles.Error, "Error: "+msg))
	for _, d := range details {
		fmt.Fprintf(r.out, "  - %s\n", d)
	}
}
