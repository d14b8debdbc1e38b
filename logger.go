package numidx

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with numidx-specific context.
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithField returns a Logger that tags every subsequent record with
// the index field it concerns.
func (l *Logger) WithField(field string) *Logger {
	return &Logger{Logger: l.Logger.With("field", field)}
}

// LogPut logs a Put operation.
func (l *Logger) LogPut(ctx context.Context, field string, id uint64, value uint32, err error) {
	if err != nil {
		l.ErrorContext(ctx, "put failed",
			"field", field,
			"id", id,
			"value", value,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "put completed",
			"field", field,
			"id", id,
			"value", value,
		)
	}
}

// LogRemove logs a Remove operation.
func (l *Logger) LogRemove(ctx context.Context, field string, id uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "remove failed",
			"field", field,
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "remove completed",
			"field", field,
			"id", id,
		)
	}
}

// LogRangeScan logs a Range scan, including each per-value scan made
// by In. CheckRange does not log through it.
func (l *Logger) LogRangeScan(ctx context.Context, field string, min, max uint32, matched int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "range scan failed",
			"field", field,
			"min", min,
			"max", max,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "range scan completed",
			"field", field,
			"min", min,
			"max", max,
			"matched", matched,
		)
	}
}

// LogBackpressure logs a writer admission timeout.
func (l *Logger) LogBackpressure(ctx context.Context, field string) {
	l.WarnContext(ctx, "writer backpressure",
		"field", field,
	)
}

// LogSnapshot logs a snapshot export operation.
func (l *Logger) LogSnapshot(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot exported",
			"name", name,
		)
	}
}
