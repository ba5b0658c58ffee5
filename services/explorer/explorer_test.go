// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package explorer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/SmartPack/services/explorer/middleware"
	"github.com/AleutianAI/SmartPack/services/explorer/telemetry"
)

// =============================================================================
// Test Helpers
// =============================================================================

// quietConfig returns a config that touches no exporters.
func quietConfig() Config {
	return Config{
		GinMode:        "test",
		DisableMetrics: true,
		Telemetry: telemetry.Config{
			TraceExporter:  telemetry.ExporterNone,
			MetricExporter: telemetry.ExporterNone,
		},
	}
}

func newTestService(t *testing.T, cfg Config) Service {
	t.Helper()
	svc, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })
	return svc
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

// =============================================================================
// Configuration Tests
// =============================================================================

func TestApplyConfigDefaults(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "")
	t.Setenv("OTEL_METRICS_EXPORTER", "")

	cfg := applyConfigDefaults(Config{})

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Zero(t, cfg.RateLimit)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "smartpack", cfg.Telemetry.ServiceName)
	assert.Equal(t, "1.0.0", cfg.Telemetry.ServiceVersion)
	assert.Equal(t, telemetry.ExporterNone, cfg.Telemetry.TraceExporter)
	assert.Equal(t, telemetry.ExporterPrometheus, cfg.Telemetry.MetricExporter)
}

func TestApplyConfigDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := applyConfigDefaults(Config{
		Port:           9000,
		RateLimit:      5,
		CORSOrigins:    []string{"http://a.example"},
		DisableMetrics: true,
		Telemetry:      telemetry.Config{TraceExporter: telemetry.ExporterStdout},
	})

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 10, cfg.RateBurst)
	assert.Equal(t, []string{"http://a.example"}, cfg.CORSOrigins)
	assert.Equal(t, telemetry.ExporterStdout, cfg.Telemetry.TraceExporter)
	assert.Equal(t, telemetry.ExporterNone, cfg.Telemetry.MetricExporter)
}

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNew_ServesRoutes(t *testing.T) {
	svc := newTestService(t, quietConfig())

	w := httptest.NewRecorder()
	svc.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze/sequences", strings.NewReader(`{"numbers": [3, 1, 2]}`))
	req.Header.Set("Content-Type", "application/json")
	svc.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"result":3`)
}

func TestNew_MetricsDisabled(t *testing.T) {
	svc := newTestService(t, quietConfig())

	w := httptest.NewRecorder()
	svc.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNew_MetricsEnabled(t *testing.T) {
	cfg := quietConfig()
	cfg.DisableMetrics = false
	svc := newTestService(t, cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze/duplicates", strings.NewReader(`{"numbers": [1, 1]}`))
	req.Header.Set("Content-Type", "application/json")
	svc.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	svc.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "smartpack_analysis_requests_total")
}

func TestNew_BodyLimitApplied(t *testing.T) {
	cfg := quietConfig()
	cfg.MaxBodyBytes = 32
	svc := newTestService(t, cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze/duplicates",
		strings.NewReader(`{"numbers": [1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12]}`))
	req.Header.Set("Content-Type", "application/json")
	svc.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestNew_UnknownExporter(t *testing.T) {
	cfg := quietConfig()
	cfg.Telemetry.TraceExporter = "carrier-pigeon"

	_, err := New(cfg)

	assert.ErrorIs(t, err, telemetry.ErrUnknownExporter)
}

func TestNew_InvalidCORSOrigin(t *testing.T) {
	cfg := quietConfig()
	cfg.CORSOrigins = []string{"app.example"}

	_, err := New(cfg)

	assert.ErrorContains(t, err, "invalid CORS origins")
}

func TestShutdown_Idempotent(t *testing.T) {
	svc, err := New(quietConfig())
	require.NoError(t, err)

	assert.NoError(t, svc.Shutdown(context.Background()))
	assert.NoError(t, svc.Shutdown(context.Background()))
}

// =============================================================================
// Run Tests
// =============================================================================

func TestRun_GracefulShutdown(t *testing.T) {
	cfg := quietConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = freePort(t)
	svc := newTestService(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Port)
	assert.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestRun_PortInUse(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	cfg := quietConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = l.Addr().(*net.TCPAddr).Port
	svc := newTestService(t, cfg)

	err = svc.Run(context.Background())

	require.Error(t, err)
	var opErr *net.OpError
	assert.True(t, errors.As(err, &opErr), "want a listen error, got %v", err)
}
