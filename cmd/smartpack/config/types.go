// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads SmartPack CLI configuration from YAML and the
// environment.
package config

import (
	"time"

	"github.com/AleutianAI/SmartPack/services/explorer"
	"github.com/AleutianAI/SmartPack/services/explorer/telemetry"
)

// SmartPackConfig is the on-disk configuration file.
type SmartPackConfig struct {
	Server    ServerConfig     `yaml:"server"`
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// ServerConfig maps onto explorer.Config.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`             // e.g. 8000
	GinMode         string        `yaml:"gin_mode"`         // debug, release, test
	CORSOrigins     []string      `yaml:"cors_origins"`     // e.g. ["http://localhost:3000"]
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`   // e.g. 1048576
	RateLimit       float64       `yaml:"rate_limit"`       // requests per second, 0 = off
	RateBurst       int           `yaml:"rate_burst"`       // token bucket size
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // e.g. 10s
	DisableMetrics  bool          `yaml:"disable_metrics"`
}

// DefaultConfig returns the configuration written by "smartpack config init".
func DefaultConfig() SmartPackConfig {
	return SmartPackConfig{
		Server: ServerConfig{
			Port:            8000,
			GinMode:         "release",
			CORSOrigins:     []string{"*"},
			MaxBodyBytes:    1 << 20,
			ShutdownTimeout: 10 * time.Second,
		},
		Telemetry: telemetry.Config{
			ServiceName:    "smartpack",
			Environment:    "development",
			TraceExporter:  telemetry.ExporterNone,
			MetricExporter: telemetry.ExporterPrometheus,
			OTLPEndpoint:   "localhost:4317",
		},
	}
}

// ToExplorerConfig converts the file configuration into the service
// configuration. Zero values are left for explorer.New to default; the
// telemetry service version follows version.
func (c SmartPackConfig) ToExplorerConfig(version string) explorer.Config {
	c.Telemetry.ServiceVersion = version
	return explorer.Config{
		Host:            c.Server.Host,
		Port:            c.Server.Port,
		GinMode:         c.Server.GinMode,
		Version:         version,
		CORSOrigins:     c.Server.CORSOrigins,
		MaxBodyBytes:    c.Server.MaxBodyBytes,
		RateLimit:       c.Server.RateLimit,
		RateBurst:       c.Server.RateBurst,
		ShutdownTimeout: c.Server.ShutdownTimeout,
		DisableMetrics:  c.Server.DisableMetrics,
		Telemetry:       c.Telemetry,
	}
}
