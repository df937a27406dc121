package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{" Error ", LevelError, false},
		{"verbose", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseLevel(%q) expected error, got %q", tt.input, level)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLevel(%q) unexpected error: %v", tt.input, err)
			}
			if level != tt.expected {
				t.Errorf("ParseLevel(%q) = %q, expected %q", tt.input, level, tt.expected)
			}
		})
	}
}

func TestLoggerLevelGate(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelWarn, &buf)

	log.Debug("debug message", nil)
	log.Info("info message", nil)
	log.Warn("warn message", nil)
	log.Error("error message", nil, errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "warn message") {
		t.Errorf("expected first line to be the warning, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "boom") {
		t.Errorf("expected error line to carry the error, got %q", lines[1])
	}
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelDebug, &buf)

	log.Info("forced doors", Fields{"artist": "DJ Test", "day": "2025-06-12"})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not valid JSON: %v", err)
	}
	if entry.Level != string(LevelInfo) {
		t.Errorf("expected level INFO, got %q", entry.Level)
	}
	if entry.Message != "forced doors" {
		t.Errorf("unexpected message: %q", entry.Message)
	}
	if entry.Fields["artist"] != "DJ Test" {
		t.Errorf("expected artist field, got %v", entry.Fields)
	}
	if entry.Timestamp == "" {
		t.Error("expected timestamp to be set")
	}
}

func TestCounters(t *testing.T) {
	c := NewCounters()

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			c.Incr("created")
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
	c.Incr("deleted")

	if got := c.Get("created"); got != 10 {
		t.Errorf("expected created=10, got %d", got)
	}
	if got := c.Get("deleted"); got != 1 {
		t.Errorf("expected deleted=1, got %d", got)
	}
	if got := c.Get("updated"); got != 0 {
		t.Errorf("expected missing counter to read 0, got %d", got)
	}

	snap := c.Snapshot()
	if snap["created"] != int64(10) {
		t.Errorf("snapshot mismatch: %v", snap)
	}
}
