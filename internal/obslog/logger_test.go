// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package obslog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("with config", func(t *testing.T) {
		config := &Config{Level: slog.LevelDebug, Format: FormatJSON, Output: os.Stdout, Version: "1.0.0"}

		logger := NewLogger(config)
		require.NotNil(t, logger)

		sl, ok := logger.(*slogLogger)
		assert.True(t, ok)
		assert.NotNil(t, sl.logger)
	})

	t.Run("with nil config", func(t *testing.T) {
		logger := NewLogger(nil)
		require.NotNil(t, logger)
	})
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	require.NotNil(t, config)
	assert.Equal(t, slog.LevelInfo, config.Level)
	assert.Equal(t, FormatText, config.Format)
	assert.Equal(t, os.Stderr, config.Output)
}

func TestSlogLogger_LogMethods(t *testing.T) {
	logger := NewLogger(&Config{Level: slog.LevelDebug, Format: FormatJSON, Output: os.Stdout, Version: "test"})

	logger.Debug("debug message", "key", "value")
	logger.Info("info message", "key", "value")
	logger.Warn("warn message", "key", "value")
	logger.Error("error message", "key", "value")
}

func TestSlogLogger_With(t *testing.T) {
	logger := NewLogger(&Config{Level: slog.LevelDebug, Format: FormatText, Output: os.Stdout, Version: "test"})

	newLogger := logger.With("phase", "solve", "job_id", 0)
	assert.NotEqual(t, logger, newLogger)
	assert.IsType(t, &slogLogger{}, newLogger)
}

func TestSlogLogger_WithContext(t *testing.T) {
	logger := NewLogger(&Config{Level: slog.LevelDebug, Format: FormatText, Output: os.Stdout, Version: "test"})

	t.Run("context with round id", func(t *testing.T) {
		ctx := WithRoundID(context.Background(), "round-1")
		contextLogger := logger.WithContext(ctx)
		assert.NotEqual(t, logger, contextLogger)
		assert.IsType(t, &slogLogger{}, contextLogger)
	})

	t.Run("context without round id", func(t *testing.T) {
		contextLogger := logger.WithContext(context.Background())
		assert.Equal(t, logger, contextLogger)
	})
}

func TestLogDuration(t *testing.T) {
	logger := NewLogger(&Config{Level: slog.LevelDebug, Format: FormatText, Output: os.Stdout, Version: "test"})
	start := time.Now().Add(-100 * time.Millisecond)

	LogDuration(logger, start, "solve")
}

func TestLogError(t *testing.T) {
	logger := NewLogger(&Config{Level: slog.LevelDebug, Format: FormatText, Output: os.Stdout, Version: "test"})

	t.Run("with error", func(t *testing.T) {
		LogError(logger, errors.New("no room left"), "solve", "job_id", 0)
	})

	t.Run("with nil error", func(t *testing.T) {
		LogError(logger, nil, "solve", "job_id", 0)
	})
}

func TestSanitizeLogValue(t *testing.T) {
	got := sanitizeLogValue("echo hi\n--extra-flag")
	assert.Equal(t, "echo hi --extra-flag", got)
	assert.Equal(t, 42, sanitizeLogValue(42))
}

func TestNoOpLogger(t *testing.T) {
	logger := NoOpLogger{}

	logger.Debug("test")
	logger.Info("test")
	logger.Warn("test")
	logger.Error("test")

	assert.Equal(t, NoOpLogger{}, logger.With("key", "value"))
	assert.Equal(t, NoOpLogger{}, logger.WithContext(context.Background()))
}

func TestDefaultLogger(t *testing.T) {
	assert.NotNil(t, DefaultLogger)
	DefaultLogger.Info("test message")
}

func TestSetDefaultLogger(t *testing.T) {
	original := DefaultLogger
	defer SetDefaultLogger(original)

	newLogger := NoOpLogger{}
	SetDefaultLogger(newLogger)
	assert.Equal(t, newLogger, DefaultLogger)
}

func TestLoggerInterface(t *testing.T) {
	var _ Logger = (*slogLogger)(nil)
	var _ Logger = NoOpLogger{}
}

func TestLoggerOutput(t *testing.T) {
	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
		logger := &slogLogger{logger: slog.New(handler).With("service", "taskmap", "version", "test")}

		logger.Info("test message", "key", "value")

		output := buf.String()
		assert.Contains(t, output, "test message")
		assert.Contains(t, output, "key=value")
		assert.Contains(t, output, "service=taskmap")
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
		logger := &slogLogger{logger: slog.New(handler).With("service", "taskmap", "version", "test")}

		logger.Info("test message", "key", "value")

		output := buf.String()
		assert.True(t, json.Valid([]byte(output)), "output should be valid JSON")
		assert.Contains(t, output, "\"key\":\"value\"")
		assert.Contains(t, output, "\"service\":\"taskmap\"")
	})
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		name        string
		level       slog.Level
		shouldLog   []string
		shouldntLog []string
	}{
		{name: "debug level", level: slog.LevelDebug, shouldLog: []string{"debug", "info", "warn", "error"}},
		{name: "info level", level: slog.LevelInfo, shouldLog: []string{"info", "warn", "error"}, shouldntLog: []string{"debug"}},
		{name: "warn level", level: slog.LevelWarn, shouldLog: []string{"warn", "error"}, shouldntLog: []string{"debug", "info"}},
		{name: "error level", level: slog.LevelError, shouldLog: []string{"error"}, shouldntLog: []string{"debug", "info", "warn"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: tt.level})
			logger := &slogLogger{logger: slog.New(handler)}

			logger.Debug("debug message")
			logger.Info("info message")
			logger.Warn("warn message")
			logger.Error("error message")

			output := buf.String()
			for _, should := range tt.shouldLog {
				assert.Contains(t, output, should+" message")
			}
			for _, shouldnt := range tt.shouldntLog {
				assert.NotContains(t, output, shouldnt+" message")
			}
		})
	}
}
