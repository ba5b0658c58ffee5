// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by WriteDefault when the target file is
// already present and overwrite was not requested.
var ErrConfigExists = errors.New("config file already exists")

// Environment variables read by ApplyEnv.
const (
	EnvHost           = "SMARTPACK_HOST"
	EnvPort           = "SMARTPACK_PORT"
	EnvCORSOrigins    = "SMARTPACK_CORS_ORIGINS"
	EnvRateLimit      = "SMARTPACK_RATE_LIMIT"
	EnvDisableMetrics = "SMARTPACK_DISABLE_METRICS"
	EnvEnvironment    = "SMARTPACK_ENV"
	EnvGinMode        = "GIN_MODE"
	EnvServiceName    = "OTEL_SERVICE_NAME"
	EnvTraceExporter  = "OTEL_TRACES_EXPORTER"
	EnvMetricExporter = "OTEL_METRICS_EXPORTER"
	EnvOTLPEndpoint   = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// DefaultPath returns ~/.smartpack/smartpack.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".smartpack", "smartpack.yaml"), nil
}

// Load reads the configuration file at path over DefaultConfig.
//
// # Description
//
// Keys present in the file replace the defaults; absent keys keep them.
// An empty path means DefaultPath, and a missing file there is not an
// error. An explicit path must exist.
//
// # Outputs
//
//   - SmartPackConfig: Merged configuration
//   - error: Non-nil if the file cannot be read or parsed
func Load(path string) (SmartPackConfig, error) {
	cfg := DefaultConfig()

	optional := false
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path, optional = p, true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read the config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse the config file %s: %w", path, err)
	}
	return cfg, nil
}

// WriteDefault writes DefaultConfig to path, creating parent directories.
func WriteDefault(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create the config directory %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides cfg with any set environment variables. lookup is
// os.LookupEnv outside tests. Empty values are ignored.
func ApplyEnv(cfg *SmartPackConfig, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvHost); ok {
		cfg.Server.Host = v
	}
	if v, ok := get(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("invalid %s %q", EnvPort, v)
		}
		cfg.Server.Port = port
	}
	if v, ok := get(EnvCORSOrigins); ok {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.CORSOrigins = origins
	}
	if v, ok := get(EnvRateLimit); ok {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps < 0 {
			return fmt.Errorf("invalid %s %q", EnvRateLimit, v)
		}
		cfg.Server.RateLimit = rps
	}
	if v, ok := get(EnvDisableMetrics); ok {
		off, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvDisableMetrics, v, err)
		}
		cfg.Server.DisableMetrics = off
	}
	if v, ok := get(EnvGinMode); ok {
		cfg.Server.GinMode = v
	}
	if v, ok := get(EnvEnvironment); ok {
		cfg.Telemetry.Environment = v
	}
	if v, ok := get(EnvServiceName); ok {
		cfg.Telemetry.ServiceName = v
	}
	if v, ok := get(EnvTraceExporter); ok {
		cfg.Telemetry.TraceExporter = v
	}
	if v, ok := get(EnvMetricExporter); ok {
		cfg.Telemetry.MetricExporter = v
	}
	if v, ok := get(EnvOTLPEndpoint); ok {
		cfg.Telemetry.OTLPEndpoint = v
	}
	return nil
}
