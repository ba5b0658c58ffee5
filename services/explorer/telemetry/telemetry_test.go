// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package telemetry

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("SMARTPACK_ENV", "")
	t.Setenv("OTEL_TRACES_EXPORTER", "")
	t.Setenv("OTEL_METRICS_EXPORTER", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	cfg := DefaultConfig()

	if cfg.ServiceName != "smartpack" {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "smartpack")
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "development")
	}
	if cfg.TraceExporter != ExporterNone {
		t.Errorf("TraceExporter = %q, want %q", cfg.TraceExporter, ExporterNone)
	}
	if cfg.MetricExporter != ExporterPrometheus {
		t.Errorf("MetricExporter = %q, want %q", cfg.MetricExporter, ExporterPrometheus)
	}
	if cfg.OTLPEndpoint != "localhost:4317" {
		t.Errorf("OTLPEndpoint = %q, want %q", cfg.OTLPEndpoint, "localhost:4317")
	}
}

func TestDefaultConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SMARTPACK_ENV", "production")
	t.Setenv("OTEL_TRACES_EXPORTER", "otlp")
	t.Setenv("OTEL_METRICS_EXPORTER", "stdout")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")

	cfg := DefaultConfig()

	if cfg.Environment != "production" {
		t.Errorf("Environment = %q, want production", cfg.Environment)
	}
	if cfg.TraceExporter != ExporterOTLP {
		t.Errorf("TraceExporter = %q, want otlp", cfg.TraceExporter)
	}
	if cfg.MetricExporter != ExporterStdout {
		t.Errorf("MetricExporter = %q, want stdout", cfg.MetricExporter)
	}
	if cfg.OTLPEndpoint != "collector:4317" {
		t.Errorf("OTLPEndpoint = %q, want collector:4317", cfg.OTLPEndpoint)
	}
}

func TestInit_NilContext(t *testing.T) {
	//nolint:staticcheck // nil context is the case under test
	_, err := Init(nil, DefaultConfig())
	if !errors.Is(err, ErrNilContext) {
		t.Fatalf("Init(nil) error = %v, want ErrNilContext", err)
	}
}

func TestInit_NoExporters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TraceExporter = ExporterNone
	cfg.MetricExporter = ExporterNone

	shutdown, err := Init(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
}

func TestInit_StdoutExporters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TraceExporter = ExporterStdout
	cfg.MetricExporter = ExporterStdout

	shutdown, err := Init(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	_, span := StartSpan(context.Background(), "telemetry.test")
	span.End()

	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
}

func TestInit_UnknownExporter(t *testing.T) {
	tests := []struct {
		name   string
		traces string
		metric string
	}{
		{name: "trace exporter", traces: "zipkin", metric: ExporterNone},
		{name: "metric exporter", traces: ExporterNone, metric: "statsd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.TraceExporter = tt.traces
			cfg.MetricExporter = tt.metric

			_, err := Init(context.Background(), cfg)
			if !errors.Is(err, ErrUnknownExporter) {
				t.Errorf("Init() error = %v, want ErrUnknownExporter", err)
			}
		})
	}
}

func TestNewResource_Attributes(t *testing.T) {
	cfg := Config{ServiceName: "smartpack", ServiceVersion: "2.1.0", Environment: "staging"}

	res := newResource(cfg)

	want := map[string]string{
		"service.name":           "smartpack",
		"service.version":        "2.1.0",
		"deployment.environment": "staging",
	}
	for key, val := range want {
		got, ok := res.Set().Value(attribute.Key(key))
		if !ok || got.AsString() != val {
			t.Errorf("resource %s = %q (present %v), want %q", key, got.AsString(), ok, val)
		}
	}
}

func TestShutdownChain_RunsInOrderAndJoinsErrors(t *testing.T) {
	var order []string
	errFlush := errors.New("flush failed")
	chain := shutdownChain{
		func(context.Context) error {
			order = append(order, "provider")
			return errFlush
		},
		func(context.Context) error {
			order = append(order, "conn")
			return nil
		},
	}

	err := chain.run(context.Background())

	if !errors.Is(err, errFlush) {
		t.Errorf("run() error = %v, want %v", err, errFlush)
	}
	if len(order) != 2 || order[0] != "provider" || order[1] != "conn" {
		t.Errorf("run() order = %v, want [provider conn]", order)
	}
	if err := (shutdownChain{}).run(context.Background()); err != nil {
		t.Errorf("empty chain error = %v", err)
	}
}

func TestStreamInstruments(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(ctx) })

	inst, err := NewStreamInstruments(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewStreamInstruments() error = %v", err)
	}

	inst.SessionOpened(ctx)
	inst.FrameSent(ctx, "step")
	inst.FrameSent(ctx, "step")
	inst.FrameSent(ctx, "result")
	inst.SessionOpened(ctx)
	inst.SessionClosed(ctx)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric %s has data %T, want Sum[int64]", m.Name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				totals[m.Name] += dp.Value
			}
		}
	}

	if got := totals["smartpack_stream_frames_total"]; got != 3 {
		t.Errorf("frames total = %d, want 3", got)
	}
	if got := totals["smartpack_stream_sessions"]; got != 1 {
		t.Errorf("open sessions = %d, want 1", got)
	}
}

func TestStreamInstruments_NilSafe(t *testing.T) {
	var inst *StreamInstruments
	ctx := context.Background()

	inst.FrameSent(ctx, "step")
	inst.SessionOpened(ctx)
	inst.SessionClosed(ctx)
}
