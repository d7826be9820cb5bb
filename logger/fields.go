package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for structured logging.
// Use these constants instead of raw strings so log queries stay stable.
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldCount     = "count"

	// Files and lines
	FieldFile    = "file"
	FieldArchive = "archive"
	FieldLine    = "line"
	FieldRaw     = "raw"

	// Decoding
	FieldReason   = "reason"
	FieldKind     = "kind"
	FieldField    = "field"
	FieldToken    = "token"
	FieldAID      = "aid"
	FieldExponent = "exponent"
	FieldNumber   = "number"
)

type contextKey string

const (
	queueFileKey contextKey = "logger_queue_file"
	componentKey contextKey = "logger_component"
)

// WithQueueFile adds the queue file path to the context for logging
func WithQueueFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, queueFileKey, path)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for Infow/Warnw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if path, ok := ctx.Value(queueFileKey).(string); ok && path != "" {
		fields = append(fields, FieldFile, path)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}

	return fields
}

// LoggerFromContext returns the global logger enriched with fields from ctx.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	q := worktodo.NewQueue(path, worktodo.WithQueueLogger(logger.ComponentLogger("queue")))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
