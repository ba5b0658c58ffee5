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
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// StreamInstruments are the OTel instruments for websocket step streaming.
//
// Thread Safety: Safe for concurrent use after creation.
type StreamInstruments struct {
	// FramesSent counts step and result frames written to clients.
	FramesSent metric.Int64Counter

	// OpenSessions tracks websocket sessions currently connected.
	OpenSessions metric.Int64UpDownCounter
}

// NewStreamInstruments registers the streaming instruments with meter.
//
// Example:
//
//	inst, err := telemetry.NewStreamInstruments(otel.Meter(telemetry.TracerName))
//	if err != nil {
//	    return fmt.Errorf("create instruments: %w", err)
//	}
func NewStreamInstruments(meter metric.Meter) (*StreamInstruments, error) {
	frames, err := meter.Int64Counter(
		"smartpack_stream_frames_total",
		metric.WithDescription("Websocket frames sent, by frame type"),
	)
	if err != nil {
		return nil, fmt.Errorf("create frames counter: %w", err)
	}

	sessions, err := meter.Int64UpDownCounter(
		"smartpack_stream_sessions",
		metric.WithDescription("Websocket sessions currently open"),
	)
	if err != nil {
		return nil, fmt.Errorf("create sessions counter: %w", err)
	}

	return &StreamInstruments{FramesSent: frames, OpenSessions: sessions}, nil
}

// FrameSent records one frame of the given type ("step", "result", "error").
func (s *StreamInstruments) FrameSent(ctx context.Context, frameType string) {
	if s == nil {
		return
	}
	s.FramesSent.Add(ctx, 1, metric.WithAttributes(attribute.String("frame_type", frameType)))
}

// SessionOpened increments the open sessions counter.
func (s *StreamInstruments) SessionOpened(ctx context.Context) {
	if s == nil {
		return
	}
	s.OpenSessions.Add(ctx, 1)
}

// SessionClosed decrements the open sessions counter.
func (s *StreamInstruments) SessionClosed(ctx context.Context) {
	if s == nil {
		return
	}
	s.OpenSessions.Add(ctx, -1)
}
