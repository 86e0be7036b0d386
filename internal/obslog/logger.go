// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package obslog provides structured logging for taskmap's pipeline
// stages: job-file loading, discovery, placement, emission.
package obslog

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode"
)

// Logger is the interface used throughout taskmap for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithContext(ctx context.Context) Logger
}

// slogLogger wraps slog.Logger to implement Logger.
type slogLogger struct {
	logger *slog.Logger
}

// NewLogger creates a new logger with the specified configuration.
func NewLogger(config *Config) Logger {
	if config == nil {
		config = DefaultConfig()
	}

	opts := &slog.HandlerOptions{
		Level: config.Level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	switch config.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(config.Output, opts)
	default:
		handler = slog.NewTextHandler(config.Output, opts)
	}

	logger := slog.New(handler).With("service", "taskmap", "version", config.Version)

	return &slogLogger{logger: logger}
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

// WithContext attaches the discovery round id carried on ctx, if any.
func (l *slogLogger) WithContext(ctx context.Context) Logger {
	if roundID, ok := ctx.Value(roundIDKey{}).(string); ok && roundID != "" {
		return l.With("round_id", roundID)
	}
	return l
}

// roundIDKey is the context key under which WithRoundID stores a
// discovery round correlation id for WithContext to add to log lines.
type roundIDKey struct{}

// WithRoundID returns a context carrying the discovery round id for
// WithContext to pick up.
func WithRoundID(ctx context.Context, roundID string) context.Context {
	return context.WithValue(ctx, roundIDKey{}, roundID)
}

// Config holds logger configuration.
type Config struct {
	Level   slog.Level
	Format  Format
	Output  *os.File
	Version string
}

// Format represents the log output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// DefaultConfig returns a default logger configuration: text to stderr at
// info level.
func DefaultConfig() *Config {
	return &Config{
		Level:   slog.LevelInfo,
		Format:  FormatText,
		Output:  os.Stderr,
		Version: "unknown",
	}
}

// NoOpLogger discards all log messages; used by callers (tests, library
// embedding) that don't want taskmap's logging.
type NoOpLogger struct{}

func (NoOpLogger) Debug(msg string, args ...any)          {}
func (NoOpLogger) Info(msg string, args ...any)           {}
func (NoOpLogger) Warn(msg string, args ...any)           {}
func (NoOpLogger) Error(msg string, args ...any)          {}
func (NoOpLogger) With(args ...any) Logger                { return NoOpLogger{} }
func (NoOpLogger) WithContext(ctx context.Context) Logger { return NoOpLogger{} }

// DefaultLogger is the package-level logger used by callers that don't
// construct their own.
var DefaultLogger = NewLogger(DefaultConfig())

// SetDefaultLogger replaces the package-level default logger.
func SetDefaultLogger(logger Logger) {
	DefaultLogger = logger
}

// sanitizeLogValue strips control characters from a value read out of a
// user-supplied job file before it reaches a log line.
func sanitizeLogValue(value any) any {
	str, ok := value.(string)
	if !ok {
		return value
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return ' '
		}
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, str)
}

// LogDuration logs the duration of a pipeline phase (discovery, solve,
// emit).
func LogDuration(logger Logger, start time.Time, phase string) {
	logger.Info("phase completed",
		"phase", phase,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// LogError logs a fatal pipeline error with its offending entity, after
// sanitizing any user-supplied fields.
func LogError(logger Logger, err error, phase string, fields ...any) {
	if err == nil {
		return
	}
	base := []any{"phase", phase, "error", err.Error()}
	for i, f := range fields {
		if i%2 == 1 {
			fields[i] = sanitizeLogValue(f)
		}
	}
	logger.Error("phase failed", append(base, fields...)...)
}
