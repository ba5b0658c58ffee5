// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Sentinel errors returned by Init.
var (
	// ErrNilContext is returned when Init is called with a nil context.
	ErrNilContext = errors.New("telemetry: nil context")

	// ErrUnknownExporter is returned for an unrecognised exporter name.
	ErrUnknownExporter = errors.New("telemetry: unknown exporter type")
)

// Exporter names accepted in Config.
const (
	ExporterNone       = "none"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterPrometheus = "prometheus"
)

// Config selects the exporters the explorer reports to.
type Config struct {
	// ServiceName is the service.name resource attribute. Default: "smartpack"
	ServiceName string `json:"service_name" yaml:"service_name"`

	// ServiceVersion is the service.version resource attribute.
	ServiceVersion string `json:"service_version" yaml:"service_version"`

	// Environment is the deployment.environment resource attribute.
	Environment string `json:"environment" yaml:"environment"`

	// TraceExporter is ExporterOTLP, ExporterStdout or ExporterNone.
	TraceExporter string `json:"trace_exporter" yaml:"trace_exporter"`

	// MetricExporter is ExporterPrometheus, ExporterStdout or ExporterNone.
	MetricExporter string `json:"metric_exporter" yaml:"metric_exporter"`

	// OTLPEndpoint is the collector's gRPC address (host:port).
	OTLPEndpoint string `json:"otlp_endpoint" yaml:"otlp_endpoint"`
}

// DefaultConfig returns the explorer's defaults: no tracing, Prometheus
// metrics on /metrics. SMARTPACK_ENV, OTEL_TRACES_EXPORTER,
// OTEL_METRICS_EXPORTER and OTEL_EXPORTER_OTLP_ENDPOINT override the
// matching field when set.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "smartpack",
		ServiceVersion: "1.0.0",
		Environment:    envOr("SMARTPACK_ENV", "development"),
		TraceExporter:  envOr("OTEL_TRACES_EXPORTER", ExporterNone),
		MetricExporter: envOr("OTEL_METRICS_EXPORTER", ExporterPrometheus),
		OTLPEndpoint:   envOr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}
}

// Init installs the global tracer provider, meter provider and W3C
// propagator for the explorer.
//
// # Description
//
// Analysis spans go to the trace exporter; the stream instruments and
// otelgin's HTTP metrics go to the metric exporter. An exporter set to
// ExporterNone leaves the corresponding global provider untouched, so
// spans and instruments become no-ops.
//
// # Outputs
//
//   - shutdown: flushes the providers, then closes the OTLP connection.
//     Safe to call when nothing was installed.
//   - error: ErrNilContext, or ErrUnknownExporter (wrapped) for an exporter
//     name this package does not know.
//
// # Thread Safety
//
// Call once per process; the Prometheus exporter registers on the default
// registry.
func Init(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	var chain shutdownChain
	res := newResource(cfg)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	if cfg.TraceExporter != ExporterNone {
		tp, closeConn, err := newTracerProvider(ctx, cfg, res)
		if err != nil {
			return nil, fmt.Errorf("init tracer: %w", err)
		}
		otel.SetTracerProvider(tp)
		chain = append(chain, tp.Shutdown, closeConn)
	}

	if cfg.MetricExporter != ExporterNone {
		mp, err := newMeterProvider(cfg, res)
		if err != nil {
			_ = chain.run(ctx)
			return nil, fmt.Errorf("init meter: %w", err)
		}
		otel.SetMeterProvider(mp)
		chain = append(chain, mp.Shutdown)
	}

	return chain.run, nil
}

// shutdownChain runs cleanups in registration order and joins their errors.
type shutdownChain []func(context.Context) error

func (c shutdownChain) run(ctx context.Context) error {
	errs := make([]error, 0, len(c))
	for _, fn := range c {
		errs = append(errs, fn(ctx))
	}
	return errors.Join(errs...)
}

// newResource describes the explorer process with semantic-convention keys.
func newResource(cfg Config) *resource.Resource {
	return resource.NewWithAttributes(semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironment(cfg.Environment),
	)
}

// newTracerProvider builds a batching, always-sampling provider. For OTLP
// it dials the collector without TLS; the returned closer releases that
// connection and must run after the provider has flushed.
func newTracerProvider(ctx context.Context, cfg Config, res *resource.Resource) (*trace.TracerProvider, func(context.Context) error, error) {
	closeConn := func(context.Context) error { return nil }

	var exporter trace.SpanExporter
	switch cfg.TraceExporter {
	case ExporterOTLP:
		conn, err := grpc.NewClient(cfg.OTLPEndpoint,
			grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, nil, fmt.Errorf("dial collector %s: %w", cfg.OTLPEndpoint, err)
		}
		exporter, err = otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("create otlp exporter: %w", err)
		}
		closeConn = func(context.Context) error { return conn.Close() }

	case ExporterStdout:
		var err error
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, nil, fmt.Errorf("create stdout exporter: %w", err)
		}

	default:
		return nil, nil, fmt.Errorf("%w: trace exporter %q", ErrUnknownExporter, cfg.TraceExporter)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.AlwaysSample()),
	)
	return tp, closeConn, nil
}

var (
	prometheusHandler   http.Handler
	prometheusHandlerMu sync.RWMutex
)

// MetricsHandler returns the /metrics handler installed by Init, or nil
// when the Prometheus exporter is off. It serves the default registry, so
// the OTel instruments and the client_golang analysis collectors share
// one scrape.
func MetricsHandler() http.Handler {
	prometheusHandlerMu.RLock()
	defer prometheusHandlerMu.RUnlock()
	return prometheusHandler
}

// newMeterProvider builds the provider for the configured metric exporter.
func newMeterProvider(cfg Config, res *resource.Resource) (*metric.MeterProvider, error) {
	var reader metric.Reader
	switch cfg.MetricExporter {
	case ExporterPrometheus:
		exporter, err := promexporter.New()
		if err != nil {
			return nil, fmt.Errorf("create prometheus exporter: %w", err)
		}
		prometheusHandlerMu.Lock()
		prometheusHandler = promhttp.Handler()
		prometheusHandlerMu.Unlock()
		reader = exporter

	case ExporterStdout:
		exporter, err := stdoutmetric.New(stdoutmetric.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout metric exporter: %w", err)
		}
		reader = metric.NewPeriodicReader(exporter)

	default:
		return nil, fmt.Errorf("%w: metric exporter %q", ErrUnknownExporter, cfg.MetricExporter)
	}

	return metric.NewMeterProvider(metric.WithResource(res), metric.WithReader(reader)), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
