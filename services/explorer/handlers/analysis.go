// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers contains the gin handlers for the explorer service.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/SmartPack/pkg/algorithms"
	"github.com/AleutianAI/SmartPack/services/explorer/datatypes"
	"github.com/AleutianAI/SmartPack/services/explorer/middleware"
	"github.com/AleutianAI/SmartPack/services/explorer/observability"
	"github.com/AleutianAI/SmartPack/services/explorer/telemetry"
)

// HandleAnalyze handles POST /analyze/<family>.
//
// # Description
//
// Binds the family's request body, runs the analysis once and returns the
// result, step trace and visualization.
//
// # Inputs
//
//   - family: Problem family served by this route.
//   - metrics: Analysis metrics. May be nil.
//
// # Outputs
//
//   - 200 with datatypes.AnalysisResponse. A pair search without a
//     solution is still 200, with "result": null.
//   - 400 on malformed JSON, validation failure, a missing target or a
//     negative k.
//   - 413 when the body exceeds the configured limit.
//   - 500 on any other failure.
//
// # Thread Safety
//
// Safe for concurrent use; no state is shared between requests.
func HandleAnalyze(family algorithms.Family, metrics *observability.AnalysisMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := telemetry.StartSpan(c.Request.Context(), "handlers.HandleAnalyze",
			trace.WithAttributes(attribute.String("dsa.family", string(family))))
		defer span.End()

		logger := telemetry.LoggerWithTrace(ctx, slog.Default()).With(
			"family", string(family),
			"request_id", middleware.GetRequestID(c),
		)

		in, err := bindInput(c, family)
		if err != nil {
			status := http.StatusBadRequest
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			metrics.RecordError(observability.EndpointAnalyze, observability.ErrorCodeValidation)
			metrics.RecordRequest(observability.EndpointAnalyze, string(family), false)
			telemetry.RecordError(span, err)
			logger.Warn("Invalid analysis request", "error", err)
			c.JSON(status, datatypes.ErrorResponse{
				Error:   "invalid request body",
				Details: datatypes.ValidationDetails(err),
			})
			return
		}

		start := time.Now()
		result, err := algorithms.Analyze(family, in)
		elapsed := time.Since(start)
		if err != nil {
			status, code, msg := http.StatusInternalServerError, observability.ErrorCodeInternal, "analysis failed"
			if algorithms.IsInputError(err) {
				status, code, msg = http.StatusBadRequest, observability.ErrorCodeBadInput, err.Error()
			}
			metrics.RecordError(observability.EndpointAnalyze, code)
			metrics.RecordRequest(observability.EndpointAnalyze, string(family), false)
			telemetry.RecordError(span, err)
			logger.Warn("Analysis failed", "error", err, "status", status)
			c.JSON(status, datatypes.ErrorResponse{Error: msg})
			return
		}

		metrics.RecordRequest(observability.EndpointAnalyze, string(family), true)
		metrics.RecordAnalysis(string(family), elapsed.Seconds(), inputSize(family, in), len(result.Steps))
		telemetry.AddSpanEvent(span, "analysis_complete",
			attribute.String("dsa.algorithm", result.Descriptor.Label),
			attribute.Int("dsa.steps", len(result.Steps)),
		)
		telemetry.SetSpanOK(span)
		logger.Info("Analysis complete",
			"algorithm", result.Descriptor.Label,
			"steps", len(result.Steps),
			"duration_ms", elapsed.Milliseconds(),
		)

		c.JSON(http.StatusOK, datatypes.NewAnalysisResponse(result))
	}
}

// bindInput decodes and validates the request body for family.
func bindInput(c *gin.Context, family algorithms.Family) (algorithms.Input, error) {
	if family.TakesStrings() {
		var req datatypes.StringAnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return algorithms.Input{}, err
		}
		if err := req.Validate(); err != nil {
			return algorithms.Input{}, err
		}
		return req.ToInput(), nil
	}

	var req datatypes.NumericAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return algorithms.Input{}, err
	}
	if err := req.Validate(); err != nil {
		return algorithms.Input{}, err
	}
	return req.ToInput(), nil
}

// inputSize is the element count the family actually reads.
func inputSize(family algorithms.Family, in algorithms.Input) int {
	if family.TakesStrings() {
		return len(in.Strings)
	}
	return len(in.Numbers)
}
