// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/SmartPack/pkg/algorithms"
	"github.com/AleutianAI/SmartPack/services/explorer/datatypes"
)

// ServiceMessage is the banner returned by GET /.
const ServiceMessage = "SmartPack DSA Pattern Explorer API"

// HandleRoot handles GET / with the service name and version.
func HandleRoot(version string) gin.HandlerFunc {
	info := datatypes.ServiceInfo{Message: ServiceMessage, Version: version}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, info)
	}
}

// HealthCheck handles GET /health.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandlePatternMapping handles GET /algorithms/mapping.
func HandlePatternMapping(c *gin.Context) {
	c.JSON(http.StatusOK, datatypes.PatternMappingResponse{Patterns: algorithms.Patterns()})
}
