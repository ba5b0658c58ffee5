// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging provides structured logging for SmartPack binaries.
//
// Records always go to one stream (stderr by default) and, when LogDir is
// set, are also appended as JSON to a daily file:
//
//	┌───────────────────────────────────────────┐
//	│                 Logger                    │
//	│  ┌─────────────┐     ┌─────────────────┐  │
//	│  │   stream    │     │    log file     │  │
//	│  │ (JSON/text) │     │ (JSON, optional)│  │
//	│  └─────────────┘     └─────────────────┘  │
//	└───────────────────────────────────────────┘
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:   "info",
//	    LogDir:  "~/.smartpack/logs",
//	    Service: "smartpack",
//	})
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//	slog.SetDefault(logger.Slog())
//
// # Thread Safety
//
// Logger is safe for concurrent use.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Config configures a Logger. The zero value logs JSON at info to stderr.
type Config struct {
	// Level is "debug", "info", "warn" or "error". Empty means info.
	Level string

	// Output receives every record. Nil means os.Stderr.
	Output io.Writer

	// Text switches Output to slog's text format. Files are always JSON.
	Text bool

	// LogDir enables file logging to {LogDir}/{Service}_{date}.log.
	// A leading ~ is expanded to the home directory.
	LogDir string

	// Service is attached to every record as "service". Default: "smartpack"
	Service string
}

// Logger wraps an slog.Logger and owns the optional log file.
type Logger struct {
	slog *slog.Logger
	path string

	mu   sync.Mutex
	file *os.File
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// New creates a Logger.
//
// # Outputs
//
//   - *Logger: Ready to use; call Close to release the log file
//   - error: Non-nil if the level is invalid or the log file cannot be opened
func New(cfg Config) (*Logger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	if cfg.Service == "" {
		cfg.Service = "smartpack"
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var stream slog.Handler
	if cfg.Text {
		stream = slog.NewTextHandler(cfg.Output, opts)
	} else {
		stream = slog.NewJSONHandler(cfg.Output, opts)
	}
	handlers := []slog.Handler{stream}

	l := &Logger{}
	if cfg.LogDir != "" {
		dir := expandHome(cfg.LogDir)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
		l.path = filepath.Join(dir, fmt.Sprintf("%s_%s.log", cfg.Service, time.Now().Format("2006-01-02")))
		file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = file
		handlers = append(handlers, slog.NewJSONHandler(file, opts))
	}

	var h slog.Handler = &fanoutHandler{handlers: handlers}
	if len(handlers) == 1 {
		h = handlers[0]
	}
	l.slog = slog.New(h.WithAttrs([]slog.Attr{slog.String("service", cfg.Service)}))
	return l, nil
}

// Slog returns the underlying logger.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// FilePath returns the log file path, or "" when file logging is off.
func (l *Logger) FilePath() string {
	return l.path
}

// Close syncs and closes the log file. Safe to call more than once.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := errors.Join(l.file.Sync(), l.file.Close())
	l.file = nil
	return err
}

// fanoutHandler sends each record to every handler enabled for its level.
type fanoutHandler struct {
	handlers []slog.Handler
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			errs = append(errs, handler.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: next}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return &fanoutHandler{handlers: next}
}

// expandHome expands a leading ~ to the user's home directory.
func expandHome(path string) string {
	if rest, ok := strings.CutPrefix(path, "~"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return path
}
