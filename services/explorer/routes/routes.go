// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/SmartPack/pkg/algorithms"
	"github.com/AleutianAI/SmartPack/services/explorer/handlers"
	"github.com/AleutianAI/SmartPack/services/explorer/observability"
	"github.com/AleutianAI/SmartPack/services/explorer/telemetry"
)

// Dependencies holds what the handlers need. Every field may be zero.
type Dependencies struct {
	// Version is reported by GET /.
	Version string

	// Metrics records analysis metrics.
	Metrics *observability.AnalysisMetrics

	// Stream records websocket frame and session counts.
	Stream *telemetry.StreamInstruments

	// MetricsHandler serves GET /metrics. Nil leaves the route unregistered.
	MetricsHandler http.Handler
}

// SetupRoutes registers every explorer endpoint on router.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/", handlers.HandleRoot(deps.Version))
	router.GET("/health", handlers.HealthCheck)
	if deps.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	analyze := router.Group("/analyze")
	{
		for _, family := range algorithms.Families() {
			analyze.POST("/"+string(family), handlers.HandleAnalyze(family, deps.Metrics))
		}
	}

	router.GET("/algorithms/mapping", handlers.HandlePatternMapping)

	// API version 1 group
	v1 := router.Group("/v1")
	{
		v1.GET("/analyze/ws", handlers.HandleAnalyzeStream(deps.Metrics, deps.Stream))
	}
}
