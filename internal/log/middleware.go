package log

import (
	"context"
	"log/slog"
	"net/http"
)

type ContextKey string

const LoggerContextKey ContextKey = "logger"

// NewContext returns ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext returns the request logger, or one over slog.Default.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{Logger: slog.Default(), component: "unknown"}
}

// Middleware puts logger into every request context.
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), logger)))
		})
	}
}

// RequestIDMiddleware enriches the context logger with the request ID.
func RequestIDMiddleware(extractRequestID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := FromContext(r.Context()).With(FieldRequestID, extractRequestID(r))
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), logger)))
		})
	}
}

// StructuredLogger emits the domain events every entry point logs the same
// way.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// LogHTTPEnd logs a finished request at a level derived from the status.
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, statusCode int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	if statusCode >= 500 {
		level = slog.LevelError
	} else if statusCode >= 400 {
		level = slog.LevelWarn
	}

	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")).
		WithHTTPResponse(statusCode, durationMs).
		WithClientIP(clientIP).
		WithComponent(ComponentHTTP)

	sl.logger.Logger.Log(ctx, level, "HTTP request completed", fields.ToSlice()...)
}

func (sl *StructuredLogger) LogTransactionCreated(ctx context.Context, id, kind, category string, amountCents int64) {
	fields := NewFields().
		WithTransaction(id, kind, category, amountCents).
		WithOperation(OpCreate).
		WithComponent(ComponentLedger)
	sl.logger.Logger.InfoContext(ctx, "Transaction recorded", fields.ToSlice()...)
}

func (sl *StructuredLogger) LogTransactionRemoved(ctx context.Context, id string, removed bool) {
	fields := NewFields().
		WithOperation(OpDelete).
		WithComponent(ComponentLedger)
	fields[FieldTransactionID] = id
	fields[FieldSuccess] = removed
	sl.logger.Logger.InfoContext(ctx, "Transaction removal requested", fields.ToSlice()...)
}

func (sl *StructuredLogger) LogGoalCreated(ctx context.Context, goalID string, targetCents int64) {
	fields := NewFields().
		WithOperation(OpCreate).
		WithComponent(ComponentGoal)
	fields[FieldGoalID] = goalID
	fields["target_cents"] = targetCents
	sl.logger.Logger.InfoContext(ctx, "Goal created", fields.ToSlice()...)
}

func (sl *StructuredLogger) LogContribution(ctx context.Context, goalID string, amountCents, currentCents int64) {
	fields := NewFields().
		WithGoal(goalID, amountCents).
		WithOperation(OpContribute).
		WithComponent(ComponentGoal)
	fields["current_cents"] = currentCents
	sl.logger.Logger.InfoContext(ctx, "Goal contribution recorded", fields.ToSlice()...)
}

// LogError logs err with its component, operation and category.
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component, operation, errorType string) {
	fields := NewFields().
		WithError(err).
		WithErrorType(errorType).
		WithOperation(operation).
		WithComponent(component)
	sl.logger.Logger.ErrorContext(ctx, msg, fields.ToSlice()...)
}
