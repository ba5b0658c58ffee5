// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/SmartPack/pkg/algorithms"
)

func TestStreamRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     StreamRequest
		wantErr bool
	}{
		{name: "numeric family", req: StreamRequest{Family: "pairs", Numbers: []int{1, 2}, Target: intPtr(3)}},
		{name: "string family", req: StreamRequest{Family: "encoding", Strings: []string{"a"}}},
		{name: "no inputs", req: StreamRequest{Family: "sequences"}},
		{name: "missing family", req: StreamRequest{Numbers: []int{1}}, wantErr: true},
		{name: "unknown family", req: StreamRequest{Family: "graphs"}, wantErr: true},
		{name: "bad k", req: StreamRequest{Family: "frequency", K: intPtr(-1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStreamRequest_ToInput(t *testing.T) {
	req := StreamRequest{Family: "frequency", Numbers: []int{1, 1, 2}, K: intPtr(2)}
	require.NoError(t, req.Validate())

	family, in := req.ToInput()

	assert.Equal(t, algorithms.FamilyFrequency, family)
	assert.Equal(t, []int{1, 1, 2}, in.Numbers)
	require.NotNil(t, in.K)
	assert.Equal(t, 2, *in.K)
}

func TestStreamFrames(t *testing.T) {
	step := StepFrame("s1", 0, "Initialize empty hash set to track seen elements")
	assert.Equal(t, FrameStep, step.Type)
	assert.Equal(t, 0, step.Index)

	res := ResultFrame("s1", 3, AnalysisResponse{Algorithm: "x"})
	assert.Equal(t, FrameResult, res.Type)
	assert.Equal(t, 3, res.Index)
	require.NotNil(t, res.Result)
	assert.Equal(t, "x", res.Result.Algorithm)

	raw, err := json.Marshal(ErrorFrame("s1", "invalid request", []string{"family failed required"}))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"error","session_id":"s1","index":0,"error":"invalid request","details":["family failed required"]}`,
		string(raw))
}
