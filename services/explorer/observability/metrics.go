// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the explorer service.
//
// # Description
//
// This package implements Prometheus metrics for monitoring pattern
// analyses. Metrics include:
//   - Request and error counters (by endpoint and family)
//   - Latency and trace-length histograms
//   - Input size histogram
//   - Active websocket stream gauge
//
// # Integration
//
// Metrics registered on the default registry are exposed via /metrics.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "smartpack"

// Subsystem for analysis metrics
const analysisSubsystem = "analysis"

// AnalysisMetrics holds all Prometheus metrics for pattern analyses.
//
// # Fields
//
//   - RequestsTotal: Counter of analyses by endpoint, family and status
//   - ErrorsTotal: Counter of errors by endpoint and error code
//   - DurationSeconds: Histogram of kernel run time
//   - TraceSteps: Histogram of narrated steps per analysis
//   - InputSize: Histogram of input element counts
//   - ActiveStreams: Gauge of open websocket streams
//
// # Thread Safety
//
// All operations are thread-safe. A nil *AnalysisMetrics is a valid no-op.
type AnalysisMetrics struct {
	// RequestsTotal counts analyses by endpoint, family, and status.
	// Labels: endpoint (analyze, stream), family, status (success, error)
	RequestsTotal *prometheus.CounterVec

	// ErrorsTotal counts errors by endpoint and error code.
	// Labels: endpoint, error_code (validation, bad_input, internal, ...)
	ErrorsTotal *prometheus.CounterVec

	// DurationSeconds measures time spent running the kernel.
	// Labels: family
	DurationSeconds *prometheus.HistogramVec

	// TraceSteps measures how many narration lines an analysis produced.
	// Labels: family
	TraceSteps *prometheus.HistogramVec

	// InputSize measures the number of input elements.
	// Labels: family
	InputSize *prometheus.HistogramVec

	// ActiveStreams tracks currently open websocket streams.
	ActiveStreams prometheus.Gauge
}

// DefaultMetrics is the singleton instance of AnalysisMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *AnalysisMetrics

var initOnce sync.Once

// InitMetrics initializes the default metrics instance on the default
// Prometheus registry. Repeated calls return the same instance.
//
// # Examples
//
//	func main() {
//	    metrics := observability.InitMetrics()
//	    // ... pass metrics to handlers ...
//	}
func InitMetrics() *AnalysisMetrics {
	initOnce.Do(func() {
		DefaultMetrics = NewAnalysisMetrics(prometheus.DefaultRegisterer)
	})
	return DefaultMetrics
}

// NewAnalysisMetrics creates and registers the metrics with reg.
//
// # Inputs
//
//   - reg: Registerer to add collectors to. Tests pass prometheus.NewRegistry().
//
// # Limitations
//
//   - Panics if the same registerer already holds these collectors.
func NewAnalysisMetrics(reg prometheus.Registerer) *AnalysisMetrics {
	factory := promauto.With(reg)

	return &AnalysisMetrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analysisSubsystem,
				Name:      "requests_total",
				Help:      "Total number of analyses by endpoint, family and status",
			},
			[]string{"endpoint", "family", "status"},
		),

		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analysisSubsystem,
				Name:      "errors_total",
				Help:      "Total analysis errors by endpoint and error code",
			},
			[]string{"endpoint", "error_code"},
		),

		DurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: analysisSubsystem,
				Name:      "duration_seconds",
				Help:      "Time spent running an analysis in seconds",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"family"},
		),

		TraceSteps: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: analysisSubsystem,
				Name:      "trace_steps",
				Help:      "Number of narrated steps per analysis",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"family"},
		),

		InputSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: analysisSubsystem,
				Name:      "input_size",
				Help:      "Number of input elements per analysis",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"family"},
		),

		ActiveStreams: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: analysisSubsystem,
				Name:      "active_streams",
				Help:      "Number of currently open websocket streams",
			},
		),
	}
}

// =============================================================================
// Error Codes
// =============================================================================

// ErrorCode represents a categorized error type for metrics.
type ErrorCode string

const (
	// ErrorCodeValidation indicates the request body failed binding or validation.
	ErrorCodeValidation ErrorCode = "validation"

	// ErrorCodeBadInput indicates the analysis rejected the input.
	ErrorCodeBadInput ErrorCode = "bad_input"

	// ErrorCodeInternal indicates an unexpected failure.
	ErrorCodeInternal ErrorCode = "internal"

	// ErrorCodeUpgrade indicates the websocket handshake failed.
	ErrorCodeUpgrade ErrorCode = "upgrade"

	// ErrorCodeClientDisconnect indicates the client went away mid-stream.
	ErrorCodeClientDisconnect ErrorCode = "client_disconnect"
)

// =============================================================================
// Endpoint Names
// =============================================================================

// Endpoint represents a handler for metrics labeling.
type Endpoint string

const (
	// EndpointAnalyze is the JSON analysis endpoint family.
	EndpointAnalyze Endpoint = "analyze"

	// EndpointStream is the websocket step-streaming endpoint.
	EndpointStream Endpoint = "stream"
)

// =============================================================================
// Helper Methods
// =============================================================================

// RecordRequest records a completed analysis request.
func (m *AnalysisMetrics) RecordRequest(endpoint Endpoint, family string, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	m.RequestsTotal.WithLabelValues(string(endpoint), family, status).Inc()
}

// RecordError records an analysis error.
func (m *AnalysisMetrics) RecordError(endpoint Endpoint, code ErrorCode) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(string(endpoint), string(code)).Inc()
}

// RecordAnalysis records the shape of a successful analysis.
//
// # Inputs
//
//   - family: Problem family that ran.
//   - seconds: Kernel run time.
//   - inputSize: Number of input elements.
//   - steps: Number of narrated steps produced.
func (m *AnalysisMetrics) RecordAnalysis(family string, seconds float64, inputSize, steps int) {
	if m == nil {
		return
	}
	m.DurationSeconds.WithLabelValues(family).Observe(seconds)
	m.InputSize.WithLabelValues(family).Observe(float64(inputSize))
	m.TraceSteps.WithLabelValues(family).Observe(float64(steps))
}

// StreamStarted increments the active streams gauge.
func (m *AnalysisMetrics) StreamStarted() {
	if m == nil {
		return
	}
	m.ActiveStreams.Inc()
}

// StreamEnded decrements the active streams gauge.
func (m *AnalysisMetrics) StreamEnded() {
	if m == nil {
		return
	}
	m.ActiveStreams.Dec()
}
