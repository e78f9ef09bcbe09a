package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger()
	if logger == nil || logger.Logger == nil {
		t.Fatal("NewLogger() returned an incomplete logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected slog.Level
	}{
		{"debug level", "DEBUG", slog.LevelDebug},
		{"info level", "INFO", slog.LevelInfo},
		{"warn level", "WARN", slog.LevelWarn},
		{"warning level", "WARNING", slog.LevelWarn},
		{"error level", "ERROR", slog.LevelError},
		{"lowercase debug", "debug", slog.LevelDebug},
		{"padded", "  error ", slog.LevelError},
		{"invalid level", "INVALID", slog.LevelInfo},
		{"empty value", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if level := ParseLevel(tt.value); level != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.value, level, tt.expected)
			}
		})
	}
}

func TestLogLevelFromEnv(t *testing.T) {
	t.Setenv(LevelEnv, "warn")
	if level := getLogLevelFromEnv(); level != slog.LevelWarn {
		t.Errorf("getLogLevelFromEnv() = %v, want WARN", level)
	}
}

func TestSessionID(t *testing.T) {
	t.Run("generate session ID", func(t *testing.T) {
		id1 := GenerateSessionID()
		id2 := GenerateSessionID()
		if id1 == id2 {
			t.Error("GenerateSessionID() returned duplicate IDs")
		}
		if len(id1) != 16 {
			t.Errorf("GenerateSessionID() returned wrong length: %d", len(id1))
		}
	})

	t.Run("context with session ID", func(t *testing.T) {
		ctx := WithSessionID(context.Background(), "level-3")
		if got := GetSessionID(ctx); got != "level-3" {
			t.Errorf("GetSessionID() = %q, want %q", got, "level-3")
		}
	})

	t.Run("context without session ID", func(t *testing.T) {
		if id := GetSessionID(context.Background()); id != "" {
			t.Errorf("GetSessionID() = %q, want empty string", id)
		}
	})

	t.Run("auto-generate session ID", func(t *testing.T) {
		ctx := WithSessionID(context.Background(), "")
		if id := GetSessionID(ctx); len(id) != 16 {
			t.Errorf("auto-generated session ID = %q", id)
		}
	})
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelDebug)
	ctx := WithSessionID(context.Background(), "test-id-123")

	decode := func(t *testing.T) map[string]interface{} {
		t.Helper()
		var entry map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("Failed to parse log JSON: %v", err)
		}
		return entry
	}

	t.Run("info logging", func(t *testing.T) {
		buf.Reset()
		logger.Info(ctx, "ball shot", "speed", 4.5)
		entry := decode(t)
		if entry["msg"] != "ball shot" || entry["level"] != "INFO" {
			t.Errorf("unexpected entry %v", entry)
		}
		if entry["session_id"] != "test-id-123" {
			t.Errorf("Expected session_id 'test-id-123', got %v", entry["session_id"])
		}
		if entry["speed"] != 4.5 {
			t.Errorf("Expected speed 4.5, got %v", entry["speed"])
		}
	})

	t.Run("error logging", func(t *testing.T) {
		buf.Reset()
		logger.Error(ctx, "level load failed", errors.New("boom"), "path", "level_1.txt")
		entry := decode(t)
		if entry["level"] != "ERROR" || entry["error"] != "boom" {
			t.Errorf("unexpected entry %v", entry)
		}
	})

	t.Run("debug logging", func(t *testing.T) {
		buf.Reset()
		logger.Debug(ctx, "step")
		if entry := decode(t); entry["level"] != "DEBUG" {
			t.Errorf("Expected level 'DEBUG', got %v", entry["level"])
		}
	})

	t.Run("warn logging", func(t *testing.T) {
		buf.Reset()
		logger.Warn(ctx, "seeding short")
		if entry := decode(t); entry["level"] != "WARN" {
			t.Errorf("Expected level 'WARN', got %v", entry["level"])
		}
	})
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelWarn)
	logger.Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Errorf("info entry written at WARN level: %s", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error(context.Background(), "nothing", errors.New("x"))
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("Discard() logger should not be enabled at ERROR")
	}
}

func TestWrapError(t *testing.T) {
	t.Run("wrap nil error", func(t *testing.T) {
		if result := WrapError(nil, "context"); result != nil {
			t.Errorf("WrapError(nil) should return nil, got %v", result)
		}
	})

	t.Run("wrap error with context", func(t *testing.T) {
		originalErr := errors.New("original error")
		wrapped := WrapError(originalErr, "additional context")
		if wrapped.Error() != "additional context: original error" {
			t.Errorf("WrapError() = %q", wrapped.Error())
		}
		if !errors.Is(wrapped, originalErr) {
			t.Error("WrapError() should preserve original error")
		}
	})

	t.Run("wrap error with formatted context", func(t *testing.T) {
		wrapped := WrapError(errors.New("original error"), "level %d", 42)
		if wrapped.Error() != "level 42: original error" {
			t.Errorf("WrapError() = %q", wrapped.Error())
		}
	})
}

func TestLogWithoutSessionID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelInfo)
	logger.Info(context.Background(), "test message")
	if strings.Contains(buf.String(), "session_id") {
		t.Error("Log should not contain session_id when none is set in context")
	}
}
