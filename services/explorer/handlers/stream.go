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
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/SmartPack/pkg/algorithms"
	"github.com/AleutianAI/SmartPack/services/explorer/datatypes"
	"github.com/AleutianAI/SmartPack/services/explorer/observability"
	"github.com/AleutianAI/SmartPack/services/explorer/telemetry"
)

const (
	// writeWait bounds a single frame write.
	writeWait = 10 * time.Second

	// maxStreamMessageBytes caps one client request message.
	maxStreamMessageBytes = 1 << 20
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  64 * 1024,
	WriteBufferSize: 64 * 1024,
}

// frameWriter writes frames to one connection and counts them.
type frameWriter struct {
	ctx  context.Context
	ws   *websocket.Conn
	inst *telemetry.StreamInstruments
}

func (w frameWriter) send(frame datatypes.StreamFrame) error {
	if err := w.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := w.ws.WriteJSON(frame); err != nil {
		slog.Warn("Failed to write WebSocket JSON", "error", err)
		return err
	}
	w.inst.FrameSent(w.ctx, frame.Type)
	return nil
}

// HandleAnalyzeStream handles GET /v1/analyze/ws.
//
// # Description
//
// Upgrades to a websocket and serves any number of analyses on it. For each
// datatypes.StreamRequest the client sends, the server writes one "step"
// frame per trace line as the kernel produces it, then one "result" frame
// with the full analysis. An invalid request gets a single "error" frame
// and the session stays open.
//
// # Inputs
//
//   - metrics: Analysis metrics. May be nil.
//   - inst: OTel stream instruments. May be nil.
//
// # Limitations
//
//   - Requests on one connection are served sequentially.
func HandleAnalyzeStream(metrics *observability.AnalysisMetrics, inst *telemetry.StreamInstruments) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			metrics.RecordError(observability.EndpointStream, observability.ErrorCodeUpgrade)
			slog.Error("failed to upgrade the websocket", "error", err)
			return
		}
		defer ws.Close()
		ws.SetReadLimit(maxStreamMessageBytes)

		ctx := c.Request.Context()
		sessionID := uuid.NewString()
		logger := slog.Default().With("session_id", sessionID)

		metrics.StreamStarted()
		inst.SessionOpened(ctx)
		defer func() {
			metrics.StreamEnded()
			inst.SessionClosed(ctx)
		}()
		logger.Info("New websocket session started")

		out := frameWriter{ctx: ctx, ws: ws, inst: inst}
		for {
			var req datatypes.StreamRequest
			if err := ws.ReadJSON(&req); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					metrics.RecordError(observability.EndpointStream, observability.ErrorCodeClientDisconnect)
				}
				logger.Info("Websocket client disconnected", "error", err.Error())
				return
			}
			if err := serveStreamRequest(ctx, out, sessionID, req, metrics, logger); err != nil {
				return
			}
		}
	}
}

// serveStreamRequest answers one request. It returns an error only when
// the connection can no longer be written to.
func serveStreamRequest(ctx context.Context, out frameWriter, sessionID string,
	req datatypes.StreamRequest, metrics *observability.AnalysisMetrics, logger *slog.Logger) error {

	ctx, span := telemetry.StartSpan(ctx, "handlers.HandleAnalyzeStream",
		trace.WithAttributes(
			attribute.String("dsa.family", req.Family),
			attribute.String("session.id", sessionID),
		))
	defer span.End()
	out.ctx = ctx
	logger = telemetry.LoggerWithTrace(ctx, logger).With("family", req.Family)

	fail := func(err error, code observability.ErrorCode, msg string, details []string) error {
		metrics.RecordError(observability.EndpointStream, code)
		metrics.RecordRequest(observability.EndpointStream, req.Family, false)
		telemetry.RecordError(span, err)
		logger.Warn("Stream request rejected", "error", err)
		return out.send(datatypes.ErrorFrame(sessionID, msg, details))
	}

	if err := req.Validate(); err != nil {
		return fail(err, observability.ErrorCodeValidation, "invalid request", datatypes.ValidationDetails(err))
	}
	family, in := req.ToInput()

	start := time.Now()
	sent := 0
	var writeErr error
	result, err := algorithms.AnalyzeLive(family, in, func(line string) error {
		if err := out.send(datatypes.StepFrame(sessionID, sent, line)); err != nil {
			writeErr = err
			return err
		}
		sent++
		return nil
	})
	if writeErr != nil {
		telemetry.RecordError(span, writeErr)
		return writeErr
	}
	if err != nil {
		return fail(err, observability.ErrorCodeBadInput, err.Error(), nil)
	}
	elapsed := time.Since(start)

	metrics.RecordRequest(observability.EndpointStream, req.Family, true)
	metrics.RecordAnalysis(req.Family, elapsed.Seconds(), inputSize(family, in), len(result.Steps))
	telemetry.AddSpanEvent(span, "stream_complete", attribute.Int("dsa.steps", sent))
	telemetry.SetSpanOK(span)
	logger.Info("Stream complete", "steps", sent, "duration_ms", elapsed.Milliseconds())

	return out.send(datatypes.ResultFrame(sessionID, sent, datatypes.NewAnalysisResponse(result)))
}
