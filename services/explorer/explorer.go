// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package explorer provides the SmartPack HTTP service.
//
// This package wires the algorithm core to HTTP: routing, middleware,
// telemetry and Prometheus metrics, and the server lifecycle.
//
// # Usage
//
//	svc, err := explorer.New(explorer.Config{Port: 8000})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	if err := svc.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package explorer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/SmartPack/services/explorer/middleware"
	"github.com/AleutianAI/SmartPack/services/explorer/observability"
	"github.com/AleutianAI/SmartPack/services/explorer/routes"
	"github.com/AleutianAI/SmartPack/services/explorer/telemetry"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Service defines the contract for the explorer service.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Run() blocks and should
// only be called once per instance.
type Service interface {
	// Run serves HTTP until ctx is cancelled or the server fails, then
	// shuts down gracefully within Config.ShutdownTimeout and flushes
	// telemetry. A cancelled ctx is a clean exit and returns nil.
	Run(ctx context.Context) error

	// Router returns the underlying Gin engine for testing.
	Router() *gin.Engine

	// Shutdown flushes telemetry without serving. Run calls it on exit;
	// call it directly only when Run is never called. Safe to call twice.
	Shutdown(ctx context.Context) error
}

// =============================================================================
// Configuration
// =============================================================================

// Config holds explorer configuration options.
//
// # Optional Fields
//
// All fields are optional with defaults applied by New().
//
// # Examples
//
//	// Minimal config (uses all defaults)
//	cfg := Config{}
//
//	// Public deployment
//	cfg := Config{
//	    Port:        8080,
//	    CORSOrigins: []string{"https://smartpack.example"},
//	    RateLimit:   50,
//	    RateBurst:   100,
//	}
type Config struct {
	// Host is the interface to bind. Default: "" (all interfaces)
	Host string

	// Port is the HTTP server port. Default: 8000
	Port int

	// GinMode sets the Gin framework mode ("debug", "release", "test").
	// Default: leaves Gin's own GIN_MODE handling untouched.
	GinMode string

	// Version is reported by GET /. Default: "1.0.0"
	Version string

	// CORSOrigins lists allowed browser origins, each with an http:// or
	// https:// scheme, or the single entry "*". Default: ["*"]
	CORSOrigins []string

	// MaxBodyBytes caps request bodies. Default: 1 MiB
	MaxBodyBytes int64

	// RateLimit is the process-wide requests per second. Default: 0 (off)
	RateLimit float64

	// RateBurst is the token bucket size. Default: 2 * RateLimit, at least 1
	RateBurst int

	// ShutdownTimeout bounds graceful shutdown. Default: 10s
	ShutdownTimeout time.Duration

	// DisableMetrics turns off Prometheus metrics and GET /metrics.
	DisableMetrics bool

	// Telemetry configures OpenTelemetry. Empty fields take the values of
	// telemetry.DefaultConfig().
	Telemetry telemetry.Config
}

// =============================================================================
// Implementation
// =============================================================================

// service implements Service for production use.
//
// # Thread Safety
//
// Thread-safe after construction. All fields are read-only after New()
// returns, except shutdownOnce which guards telemetry shutdown.
type service struct {
	config            Config
	router            *gin.Engine
	metrics           *observability.AnalysisMetrics
	telemetryShutdown func(context.Context) error
	shutdownOnce      sync.Once
	shutdownErr       error
}

// =============================================================================
// Constructor
// =============================================================================

// New creates a new explorer Service with the given configuration.
//
// # Description
//
// New initializes all explorer components:
//  1. Applies default configuration for missing values
//  2. Initializes OpenTelemetry tracing and metrics
//  3. Initializes Prometheus metrics
//  4. Sets up HTTP middleware and routes
//
// # Outputs
//
//   - Service: Ready-to-run explorer service
//   - error: Non-nil if telemetry initialization fails
func New(cfg Config) (Service, error) {
	s := &service{
		config: applyConfigDefaults(cfg),
	}

	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}

	shutdown, err := telemetry.Init(context.Background(), s.config.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	s.telemetryShutdown = shutdown

	if !s.config.DisableMetrics {
		s.metrics = observability.InitMetrics()
		slog.Info("Initialized Prometheus metrics for analyses")
	}

	if err := s.initRouter(); err != nil {
		_ = s.Shutdown(context.Background())
		return nil, err
	}

	return s, nil
}

// =============================================================================
// Service Interface Methods
// =============================================================================

// Run starts the HTTP server and blocks until ctx is cancelled or the
// server fails.
func (s *service) Run(ctx context.Context) error {
	defer func() {
		if err := s.Shutdown(context.Background()); err != nil {
			slog.Warn("Telemetry shutdown error", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port)),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Starting explorer server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		slog.Info("Shutting down explorer server", "timeout", s.config.ShutdownTimeout)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Router returns the underlying Gin engine for testing.
func (s *service) Router() *gin.Engine {
	return s.router
}

// Shutdown flushes and stops the telemetry providers once.
func (s *service) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		if s.telemetryShutdown != nil {
			s.shutdownErr = s.telemetryShutdown(ctx)
		}
	})
	return s.shutdownErr
}

// =============================================================================
// Private Initialization Methods
// =============================================================================

// applyConfigDefaults fills in missing configuration values.
func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.RateLimit > 0 && cfg.RateBurst <= 0 {
		cfg.RateBurst = max(1, int(2*cfg.RateLimit))
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	defaults := telemetry.DefaultConfig()
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = defaults.ServiceName
	}
	if cfg.Telemetry.ServiceVersion == "" {
		cfg.Telemetry.ServiceVersion = cfg.Version
	}
	if cfg.Telemetry.Environment == "" {
		cfg.Telemetry.Environment = defaults.Environment
	}
	if cfg.Telemetry.TraceExporter == "" {
		cfg.Telemetry.TraceExporter = defaults.TraceExporter
	}
	if cfg.Telemetry.MetricExporter == "" {
		cfg.Telemetry.MetricExporter = defaults.MetricExporter
	}
	if cfg.Telemetry.OTLPEndpoint == "" {
		cfg.Telemetry.OTLPEndpoint = defaults.OTLPEndpoint
	}
	if cfg.DisableMetrics {
		cfg.Telemetry.MetricExporter = telemetry.ExporterNone
	}

	return cfg
}

// initRouter sets up the Gin HTTP router with middleware and routes.
func (s *service) initRouter() error {
	stream, err := telemetry.NewStreamInstruments(otel.Meter(telemetry.TracerName))
	if err != nil {
		return fmt.Errorf("failed to create stream instruments: %w", err)
	}

	corsMiddleware, err := middleware.CORS(s.config.CORSOrigins)
	if err != nil {
		return fmt.Errorf("invalid CORS origins: %w", err)
	}

	s.router = gin.Default()
	s.router.Use(
		otelgin.Middleware(s.config.Telemetry.ServiceName),
		middleware.RequestID(),
		corsMiddleware,
		middleware.RateLimit(s.config.RateLimit, s.config.RateBurst),
		middleware.BodyLimit(s.config.MaxBodyBytes),
	)

	deps := routes.Dependencies{
		Version: s.config.Version,
		Metrics: s.metrics,
		Stream:  stream,
	}
	if !s.config.DisableMetrics {
		deps.MetricsHandler = telemetry.MetricsHandler()
		if deps.MetricsHandler == nil {
			deps.MetricsHandler = promhttp.Handler()
		}
	}

	routes.SetupRoutes(s.router, deps)
	return nil
}

var _ Service = (*service)(nil)
