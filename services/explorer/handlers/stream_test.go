// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/SmartPack/pkg/algorithms"
	"github.com/AleutianAI/SmartPack/services/explorer/datatypes"
	"github.com/AleutianAI/SmartPack/services/explorer/observability"
)

// =============================================================================
// Test Helpers
// =============================================================================

func dialStream(t *testing.T, metrics *observability.AnalysisMetrics) *websocket.Conn {
	t.Helper()
	router := gin.New()
	router.GET("/v1/analyze/ws", HandleAnalyzeStream(metrics, nil))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/analyze/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

// clientFrame is datatypes.StreamFrame as a client decodes it.
type clientFrame struct {
	Type      string        `json:"type"`
	SessionID string        `json:"session_id"`
	Index     int           `json:"index"`
	Step      string        `json:"step"`
	Result    *wireResponse `json:"result"`
	Error     string        `json:"error"`
	Details   []string      `json:"details"`
}

// readUntilFinal reads frames until a result or error frame arrives.
func readUntilFinal(t *testing.T, ws *websocket.Conn) (steps []clientFrame, final clientFrame) {
	t.Helper()
	for {
		require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
		var frame clientFrame
		require.NoError(t, ws.ReadJSON(&frame))
		if frame.Type == datatypes.FrameStep {
			steps = append(steps, frame)
			continue
		}
		return steps, frame
	}
}

// =============================================================================
// Tests
// =============================================================================

func TestHandleAnalyzeStream_StepsThenResult(t *testing.T) {
	ws := dialStream(t, nil)

	require.NoError(t, ws.WriteJSON(datatypes.StreamRequest{Family: "duplicates", Numbers: []int{1, 2, 1}}))
	steps, final := readUntilFinal(t, ws)

	lines := make([]string, 0, len(steps))
	for i, s := range steps {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, steps[0].SessionID, s.SessionID)
		lines = append(lines, s.Step)
	}
	assert.Equal(t, []string{
		"Initialize empty hash set to track seen elements",
		"Step 1: Add 1 to set, current set: {1}",
		"Step 2: Add 2 to set, current set: {1, 2}",
		"Step 3: Found 1 already in set - DUPLICATE FOUND!",
	}, lines)

	require.Equal(t, datatypes.FrameResult, final.Type)
	assert.Equal(t, len(steps), final.Index)
	assert.NotEmpty(t, final.SessionID)
	require.NotNil(t, final.Result)
	assert.JSONEq(t, `true`, string(final.Result.Result))
	assert.Equal(t, lines, final.Result.Steps)
}

func TestHandleAnalyzeStream_StreamMatchesAnalyze(t *testing.T) {
	ws := dialStream(t, nil)
	in := algorithms.NumbersInput(100, 4, 200, 1, 3, 2)

	require.NoError(t, ws.WriteJSON(datatypes.StreamRequest{Family: "sequences", Numbers: in.Numbers}))
	steps, final := readUntilFinal(t, ws)

	want, err := algorithms.Analyze(algorithms.FamilySequences, in)
	require.NoError(t, err)
	require.Len(t, steps, len(want.Steps))
	for i, s := range steps {
		assert.Equal(t, want.Steps[i], s.Step)
	}
	require.Equal(t, datatypes.FrameResult, final.Type)
	assert.JSONEq(t, `4`, string(final.Result.Result))
}

func TestHandleAnalyzeStream_ErrorsKeepSessionOpen(t *testing.T) {
	ws := dialStream(t, nil)

	require.NoError(t, ws.WriteJSON(datatypes.StreamRequest{Family: "graphs"}))
	steps, final := readUntilFinal(t, ws)
	assert.Empty(t, steps)
	assert.Equal(t, datatypes.FrameError, final.Type)
	assert.Equal(t, "invalid request", final.Error)
	assert.Equal(t, []string{"family failed dsa_family"}, final.Details)

	require.NoError(t, ws.WriteJSON(datatypes.StreamRequest{Family: "pairs", Numbers: []int{1, 2}}))
	steps, final = readUntilFinal(t, ws)
	assert.Empty(t, steps)
	assert.Equal(t, datatypes.FrameError, final.Type)
	assert.Equal(t, algorithms.ErrMissingTarget.Error(), final.Error)

	target := 3
	require.NoError(t, ws.WriteJSON(datatypes.StreamRequest{Family: "pairs", Numbers: []int{1, 2}, Target: &target}))
	_, final = readUntilFinal(t, ws)
	assert.Equal(t, datatypes.FrameResult, final.Type)
}

func TestHandleAnalyzeStream_Metrics(t *testing.T) {
	metrics := newTestMetrics(t)
	ws := dialStream(t, metrics)

	require.NoError(t, ws.WriteJSON(datatypes.StreamRequest{Family: "encoding", Strings: []string{"ab"}}))
	_, final := readUntilFinal(t, ws)
	require.Equal(t, datatypes.FrameResult, final.Type)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("stream", "encoding", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ActiveStreams))

	require.NoError(t, ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.ActiveStreams) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
