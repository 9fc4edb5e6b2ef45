package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARNING", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseLogLevel(tt.input)
			if result != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Level != "INFO" {
		t.Errorf("Default level = %q, want %q", config.Level, "INFO")
	}
	if !config.ConsoleEnabled {
		t.Error("Default ConsoleEnabled = false, want true")
	}
	if config.ConsoleFormat != "text" {
		t.Errorf("Default ConsoleFormat = %q, want %q", config.ConsoleFormat, "text")
	}
	if config.FileEnabled {
		t.Error("Default FileEnabled = true, want false")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("LOG_CONSOLE_FORMAT", "json")
	t.Setenv("LOG_FILE_ENABLED", "true")
	t.Setenv("LOG_FILE_PATH", "/custom/path.log")

	config := DefaultConfig()
	config.ApplyEnv()

	if config.Level != "ERROR" {
		t.Errorf("Level = %q, want %q (from env var)", config.Level, "ERROR")
	}
	if config.ConsoleFormat != "json" {
		t.Errorf("ConsoleFormat = %q, want %q (from env var)", config.ConsoleFormat, "json")
	}
	if !config.FileEnabled {
		t.Error("FileEnabled = false, want true (from env var)")
	}
	if config.FilePath != "/custom/path.log" {
		t.Errorf("FilePath = %q, want %q (from env var)", config.FilePath, "/custom/path.log")
	}
}

func TestApplyEnvIgnoresBadBool(t *testing.T) {
	t.Setenv("LOG_FILE_ENABLED", "sometimes")

	config := DefaultConfig()
	config.ApplyEnv()

	if config.FileEnabled {
		t.Error("FileEnabled = true, want false for unparseable env value")
	}
}

func TestNewNeverReturnsNil(t *testing.T) {
	// Even with everything disabled the logger must be usable.
	log := New(Config{Level: "INFO"})
	if log == nil {
		t.Fatal("New returned nil")
	}
	log.Info("smoke")
}

func TestMultiHandler(t *testing.T) {
	var buf1, buf2 bytes.Buffer

	handler1 := slog.NewTextHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelInfo})
	handler2 := slog.NewTextHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelInfo})

	log := slog.New(newMultiHandler(handler1, handler2))
	log.Info("fan-out test", "field", "value")

	for i, out := range []string{buf1.String(), buf2.String()} {
		if !strings.Contains(out, "fan-out test") {
			t.Errorf("handler %d did not receive message", i+1)
		}
		if !strings.Contains(out, "field=value") {
			t.Errorf("handler %d missing structured field", i+1)
		}
	}
}

func TestMultiHandlerLevels(t *testing.T) {
	var debugBuf, errorBuf bytes.Buffer

	debugHandler := slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug})
	errorHandler := slog.NewTextHandler(&errorBuf, &slog.HandlerOptions{Level: slog.LevelError})
	mh := newMultiHandler(debugHandler, errorHandler)

	// Enabled when any underlying handler is.
	if !mh.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("multi-handler should be enabled at DEBUG")
	}

	log := slog.New(mh)
	log.Debug("debug only")

	if !strings.Contains(debugBuf.String(), "debug only") {
		t.Error("debug handler missed a debug record")
	}
	if strings.Contains(errorBuf.String(), "debug only") {
		t.Error("error handler received a debug record")
	}
}

func TestMultiHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	log := slog.New(newMultiHandler(handler)).With("run", 7)
	log.Info("attributed")

	if !strings.Contains(buf.String(), "run=7") {
		t.Errorf("output missing inherited attribute: %s", buf.String())
	}
}
