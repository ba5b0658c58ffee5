// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"github.com/AleutianAI/SmartPack/pkg/algorithms"
)

// =============================================================================
// Streaming Request
// =============================================================================

// StreamRequest is the first message a client sends on /v1/analyze/ws.
//
// # Description
//
// Carries the family to run plus the union of every family's inputs.
// Fields the family does not read are ignored.
//
// # Examples
//
//	{"family": "pairs", "numbers": [3, 2, 4], "target": 6}
//	{"family": "encoding", "strings": ["a#b", ""]}
type StreamRequest struct {
	Family  string   `json:"family" validate:"required,dsa_family"`
	Numbers []int    `json:"numbers,omitempty" validate:"max=100000,dive,dsa_int_bound"`
	Strings []string `json:"strings,omitempty" validate:"max=100000,dive,max=10000"`
	Target  *int     `json:"target,omitempty" validate:"omitempty,dsa_int_bound"`
	K       *int     `json:"k,omitempty" validate:"omitempty,gte=0,lte=100000"`
}

// Validate validates the request fields.
func (r *StreamRequest) Validate() error {
	return analysisValidate.Struct(r)
}

// ToInput converts the request into the family and its analysis input.
// Call only after Validate succeeds.
func (r *StreamRequest) ToInput() (algorithms.Family, algorithms.Input) {
	family, _ := algorithms.ParseFamily(r.Family)
	return family, algorithms.Input{
		Numbers: r.Numbers,
		Strings: r.Strings,
		Target:  r.Target,
		K:       r.K,
	}
}

// =============================================================================
// Streaming Frames
// =============================================================================

// Frame types sent by the server.
const (
	FrameStep   = "step"
	FrameResult = "result"
	FrameError  = "error"
)

// StreamFrame is one server-to-client websocket message.
//
// A session sends zero or more "step" frames in trace order, then exactly
// one "result" or "error" frame.
type StreamFrame struct {
	Type      string            `json:"type"`
	SessionID string            `json:"session_id"`
	Index     int               `json:"index"`
	Step      string            `json:"step,omitempty"`
	Result    *AnalysisResponse `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
	Details   []string          `json:"details,omitempty"`
}

// StepFrame builds the frame for the index-th trace line.
func StepFrame(sessionID string, index int, step string) StreamFrame {
	return StreamFrame{Type: FrameStep, SessionID: sessionID, Index: index, Step: step}
}

// ResultFrame builds the closing frame of a successful session.
// Index is the number of step frames that preceded it.
func ResultFrame(sessionID string, steps int, resp AnalysisResponse) StreamFrame {
	return StreamFrame{Type: FrameResult, SessionID: sessionID, Index: steps, Result: &resp}
}

// ErrorFrame builds the closing frame of a failed session.
func ErrorFrame(sessionID, msg string, details []string) StreamFrame {
	return StreamFrame{Type: FrameError, SessionID: sessionID, Error: msg, Details: details}
}
