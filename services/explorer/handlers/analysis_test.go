// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/SmartPack/pkg/algorithms"
	"github.com/AleutianAI/SmartPack/services/explorer/middleware"
	"github.com/AleutianAI/SmartPack/services/explorer/observability"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// =============================================================================
// Test Helpers
// =============================================================================

func newTestMetrics(t *testing.T) *observability.AnalysisMetrics {
	t.Helper()
	return observability.NewAnalysisMetrics(prometheus.NewRegistry())
}

func newAnalyzeRouter(metrics *observability.AnalysisMetrics, mw ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw...)
	for _, f := range algorithms.Families() {
		router.POST("/analyze/"+string(f), HandleAnalyze(f, metrics))
	}
	return router
}

type wireResponse struct {
	Result      json.RawMessage   `json:"result"`
	Algorithm   string            `json:"algorithm"`
	Complexity  map[string]string `json:"complexity"`
	Explanation string            `json:"explanation"`
	Steps       []string          `json:"steps"`
	Vis         map[string]any    `json:"visualization_data"`
}

func post(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) wireResponse {
	t.Helper()
	var resp wireResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// =============================================================================
// Success Paths
// =============================================================================

func TestHandleAnalyze_Duplicates(t *testing.T) {
	router := newAnalyzeRouter(nil)

	w := post(t, router, "/analyze/duplicates", `{"numbers": [1, 2, 3, 1]}`)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.JSONEq(t, `true`, string(resp.Result))
	assert.Equal(t, "Contains Duplicate (Hash Set)", resp.Algorithm)
	assert.Equal(t, map[string]string{"time": "O(n)", "space": "O(n)"}, resp.Complexity)
	assert.Equal(t, []string{
		"Initialize empty hash set to track seen elements",
		"Step 1: Add 1 to set, current set: {1}",
		"Step 2: Add 2 to set, current set: {1, 2}",
		"Step 3: Add 3 to set, current set: {1, 2, 3}",
		"Step 4: Found 1 already in set - DUPLICATE FOUND!",
	}, resp.Steps)
	assert.Equal(t, "duplicates", resp.Vis["type"])
	assert.Equal(t, true, resp.Vis["has_duplicates"])
}

func TestHandleAnalyze_EveryFamilySucceeds(t *testing.T) {
	router := newAnalyzeRouter(nil)

	tests := []struct {
		family string
		body   string
		result string
	}{
		{"duplicates", `{"numbers": [1, 2, 3]}`, `false`},
		{"anagrams", `{"strings": ["anagram", "nagaram"]}`, `true`},
		{"anagrams", `{"strings": ["eat", "tea", "tan", "ate", "nat", "bat"]}`,
			`[["eat","tea","ate"],["tan","nat"],["bat"]]`},
		{"frequency", `{"numbers": [1, 1, 1, 2, 2, 3], "k": 2}`, `[1, 2]`},
		{"frequency", `{"numbers": [4, 4, 5]}`, `[4]`},
		{"pairs", `{"numbers": [2, 7, 11, 15], "target": 9}`, `[0, 1]`},
		{"products", `{"numbers": [1, 2, 3, 4]}`, `[24, 12, 8, 6]`},
		{"sequences", `{"numbers": [100, 4, 200, 1, 3, 2]}`, `4`},
		{"encoding", `{"strings": ["a#b", ""]}`, `{"encoded": "3#a#b0#", "decoded": ["a#b", ""], "valid": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.family, func(t *testing.T) {
			w := post(t, router, "/analyze/"+tt.family, tt.body)

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			resp := decode(t, w)
			assert.JSONEq(t, tt.result, string(resp.Result))
			assert.NotEmpty(t, resp.Algorithm)
			assert.NotEmpty(t, resp.Explanation)
			assert.NotNil(t, resp.Steps)
			assert.NotEmpty(t, resp.Vis["type"])
		})
	}
}

func TestHandleAnalyze_NoSolutionIsNull(t *testing.T) {
	router := newAnalyzeRouter(nil)

	w := post(t, router, "/analyze/pairs", `{"numbers": [1, 2], "target": 10}`)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "null", string(resp.Result))
	assert.Equal(t, "No solution found", resp.Steps[len(resp.Steps)-1])
}

func TestHandleAnalyze_EmptyInputs(t *testing.T) {
	router := newAnalyzeRouter(nil)

	for _, f := range algorithms.Families() {
		body := `{"numbers": [], "target": 0}`
		if f.TakesStrings() {
			body = `{"strings": []}`
		}
		w := post(t, router, "/analyze/"+string(f), body)
		assert.Equal(t, http.StatusOK, w.Code, "family %s: %s", f, w.Body.String())
	}
}

// =============================================================================
// Error Paths
// =============================================================================

func TestHandleAnalyze_ClientErrors(t *testing.T) {
	router := newAnalyzeRouter(nil)

	tests := []struct {
		name      string
		path      string
		body      string
		wantError string
	}{
		{"malformed json", "/analyze/duplicates", `{"numbers": [1, 2`, "invalid request body"},
		{"wrong element type", "/analyze/duplicates", `{"numbers": ["a"]}`, "invalid request body"},
		{"missing numbers", "/analyze/sequences", `{}`, "invalid request body"},
		{"strings family given numbers", "/analyze/anagrams", `{"numbers": [1]}`, "invalid request body"},
		{"negative k", "/analyze/frequency", `{"numbers": [1], "k": -1}`, "invalid request body"},
		{"missing target", "/analyze/pairs", `{"numbers": [1, 2]}`, algorithms.ErrMissingTarget.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, router, tt.path, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestHandleAnalyze_ValidationDetails(t *testing.T) {
	router := newAnalyzeRouter(nil)

	w := post(t, router, "/analyze/frequency", `{"numbers": [1], "k": -3}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "invalid request body", "details": ["k failed gte"]}`, w.Body.String())
}

func TestHandleAnalyze_BodyTooLarge(t *testing.T) {
	router := newAnalyzeRouter(nil, middleware.BodyLimit(16))

	w := post(t, router, "/analyze/duplicates", `{"numbers": [1, 2, 3, 4, 5, 6, 7, 8, 9]}`)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

// =============================================================================
// Metrics
// =============================================================================

func TestHandleAnalyze_RecordsMetrics(t *testing.T) {
	metrics := newTestMetrics(t)
	router := newAnalyzeRouter(metrics)

	post(t, router, "/analyze/pairs", `{"numbers": [3, 3], "target": 6}`)
	post(t, router, "/analyze/pairs", `{"numbers": [3, 3]}`)
	post(t, router, "/analyze/pairs", `not json`)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("analyze", "pairs", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("analyze", "pairs", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ErrorsTotal.WithLabelValues("analyze", "bad_input")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ErrorsTotal.WithLabelValues("analyze", "validation")))
}
