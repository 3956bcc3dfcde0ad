// Package logging provides structured logging for cmd/sqliteviz using the
// standard library's log/slog. The decode core never logs; only the CLI
// front-end does.
package logging

import (
	"context"
	"log/slog"
	"os"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// CorrelationIDKey is the context key for a per-invocation correlation ID.
const CorrelationIDKey ContextKey = "correlation_id"

var defaultLogger *slog.Logger

func init() {
	Init(slog.LevelInfo)
}

// Init (re)initializes the global JSON logger at the given level.
func Init(level slog.Level) {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// WithCorrelationID attaches a correlation ID to ctx.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, id)
}

// FromContext returns a logger carrying ctx's correlation ID, if any.
func FromContext(ctx context.Context) *slog.Logger {
	logger := defaultLogger
	if id, ok := ctx.Value(CorrelationIDKey).(string); ok && id != "" {
		logger = logger.With("correlation_id", id)
	}
	return logger
}

// Get returns the global logger instance.
func Get() *slog.Logger { return defaultLogger }
