package observability

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// PipelineLogger is a structured logger for ingestion runs. It wraps
// slog.Logger, stamps every entry with the run environment, redacts
// credential-bearing fields, and attaches OpenTelemetry trace identifiers
// when a span is present in the context.
type PipelineLogger struct {
	logger          *slog.Logger
	environment     string
	redactSensitive bool
}

// NewPipelineLogger creates a PipelineLogger writing through the given
// handler. The environment tag appears on every entry.
func NewPipelineLogger(handler slog.Handler, environment string) *PipelineLogger {
	return &PipelineLogger{
		logger:          slog.New(handler),
		environment:     environment,
		redactSensitive: true,
	}
}

// Debug logs a debug-level message. Debug entries are not redacted.
func (l *PipelineLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.withContext(ctx).Debug(msg, args...)
}

// Info logs an info-level message with credential redaction.
func (l *PipelineLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.redactSensitive {
		args = redactSensitiveData(args)
	}
	l.withContext(ctx).Info(msg, args...)
}

// Warn logs a warning-level message with credential redaction.
func (l *PipelineLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.redactSensitive {
		args = redactSensitiveData(args)
	}
	l.withContext(ctx).Warn(msg, args...)
}

// Error logs an error-level message with credential redaction.
func (l *PipelineLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.redactSensitive {
		args = redactSensitiveData(args)
	}
	l.withContext(ctx).Error(msg, args...)
}

// withContext returns a slog.Logger carrying the environment tag plus
// trace_id/span_id extracted from any OpenTelemetry span in the context.
func (l *PipelineLogger) withContext(ctx context.Context) *slog.Logger {
	logger := l.logger.With(slog.String("environment", l.environment))

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		spanCtx := span.SpanContext()
		logger = logger.With(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}

	return logger
}

// NewHandler builds a slog.Handler from the configured format and level.
// Format "text" yields a human-readable handler; everything else is JSON.
func NewHandler(w io.Writer, format, level string) slog.Handler {
	lvl := ParseLevel(level)
	if strings.EqualFold(format, "text") {
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
}

// ParseLevel maps a config string to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// sensitiveFields are log keys whose values are replaced with "[REDACTED]"
// to keep credentials out of log sinks.
var sensitiveFields = map[string]bool{
	"apikey":   true,
	"password": true,
	"secret":   true,
	"token":    true,
}

// redactSensitiveData redacts credential-bearing fields in log arguments.
func redactSensitiveData(args []any) []any {
	if len(args)%2 != 0 {
		return args
	}

	redacted := make([]any, len(args))
	copy(redacted, args)

	for i := 0; i < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			normalizedKey := strings.ToLower(strings.ReplaceAll(key, "_", ""))
			if sensitiveFields[normalizedKey] {
				redacted[i+1] = "[REDACTED]"
			}
		}
	}

	return redacted
}
