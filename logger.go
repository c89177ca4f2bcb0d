package rangeread

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with rangeread-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithBackend adds a backend field to the logger.
func (l *Logger) WithBackend(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("backend", name),
	}
}

// WithFile adds a file field to the logger.
func (l *Logger) WithFile(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("file", name),
	}
}

// LogRead logs a completed scatter read.
func (l *Logger) LogRead(ctx context.Context, ranges, bytes int, elapsed time.Duration, err error) {
	if err != nil {
		l.DebugContext(ctx, "read failed",
			"ranges", ranges,
			"bytes", bytes,
			"elapsed", elapsed,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "read completed",
			"ranges", ranges,
			"bytes", bytes,
			"elapsed", elapsed,
		)
	}
}

// LogHint logs a page-cache hint. Failed hints are warnings: the read that
// follows does not depend on them.
func (l *Logger) LogHint(ctx context.Context, kind string, offset uint64, length int, err error) {
	if err != nil {
		l.WarnContext(ctx, "page cache hint failed",
			"hint", kind,
			"offset", offset,
			"length", length,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "page cache hint issued",
			"hint", kind,
			"offset", offset,
			"length", length,
		)
	}
}
