// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// =============================================================================
// Level Tests
// =============================================================================

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// =============================================================================
// Logger Tests
// =============================================================================

func decodeLines(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", sc.Text(), err)
		}
		out = append(out, entry)
	}
	return out
}

func TestNew_StreamOnly(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Output: &buf})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer logger.Close()

	logger.Slog().Info("dropped")
	logger.Slog().Warn("kept", "family", "pairs")

	entries := decodeLines(t, buf.Bytes())
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0]["msg"] != "kept" || entries[0]["family"] != "pairs" {
		t.Errorf("unexpected entry %v", entries[0])
	}
	if entries[0]["service"] != "smartpack" {
		t.Errorf("service = %v, want smartpack", entries[0]["service"])
	}
	if logger.FilePath() != "" {
		t.Errorf("FilePath() = %q, want empty", logger.FilePath())
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Output: &buf, Text: true, Service: "cli"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Slog().Info("hello")

	if !strings.Contains(buf.String(), "msg=hello") || !strings.Contains(buf.String(), "service=cli") {
		t.Errorf("unexpected text output %q", buf.String())
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(Config{Level: "chatty"}); err == nil {
		t.Fatal("New() expected an error for an invalid level")
	}
}

func TestNew_FileLogging(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var buf bytes.Buffer
	logger, err := New(Config{Output: &buf, LogDir: dir, Service: "explorer"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Slog().With("request_id", "r-1").Info("Analysis complete", "steps", 4)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	path := logger.FilePath()
	if !strings.HasPrefix(filepath.Base(path), "explorer_") || filepath.Dir(path) != dir {
		t.Errorf("unexpected log path %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	for name, raw := range map[string][]byte{"stream": buf.Bytes(), "file": data} {
		entries := decodeLines(t, raw)
		if len(entries) != 1 {
			t.Fatalf("%s: got %d entries, want 1", name, len(entries))
		}
		e := entries[0]
		if e["msg"] != "Analysis complete" || e["request_id"] != "r-1" || e["steps"] != 4.0 {
			t.Errorf("%s: unexpected entry %v", name, e)
		}
	}
}

func TestNew_FileLoggingGroups(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Output: &buf, LogDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer logger.Close()

	logger.Slog().WithGroup("http").Info("served", "status", 200)

	entries := decodeLines(t, buf.Bytes())
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	group, ok := entries[0]["http"].(map[string]any)
	if !ok || group["status"] != 200.0 {
		t.Errorf("unexpected grouped entry %v", entries[0])
	}
}

func TestNew_LogDirIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	if _, err := New(Config{LogDir: filepath.Join(file, "logs")}); err == nil {
		t.Fatal("New() expected an error when the log directory cannot be created")
	}
}

func TestClose_Idempotent(t *testing.T) {
	logger, err := New(Config{Output: &bytes.Buffer{}, LogDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("first Close() failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}
}

func TestLogger_ConcurrentUse(t *testing.T) {
	var mu sync.Mutex
	var buf bytes.Buffer
	logger, err := New(Config{Output: writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		return buf.Write(p)
	}), LogDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer logger.Close()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Slog().Info("tick", "i", i)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if got := len(decodeLines(t, buf.Bytes())); got != 20 {
		t.Errorf("got %d entries, want 20", got)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := expandHome("~/.smartpack/logs"); got != filepath.Join(home, ".smartpack", "logs") {
		t.Errorf("expandHome(~) = %q", got)
	}
	if got := expandHome("/var/log"); got != "/var/log" {
		t.Errorf("expandHome(/var/log) = %q", got)
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
