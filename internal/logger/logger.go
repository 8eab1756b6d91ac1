package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

func init() {
	defaultLogger = New(os.Getenv("ENV"), os.Stdout)
	slog.SetDefault(defaultLogger)
}

// New builds a logger for the given environment. Production gets JSON at
// info level; everything else gets text at debug level.
func New(env string, w io.Writer) *slog.Logger {
	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
	return slog.New(handler)
}

// Logger returns the default logger
func Logger() *slog.Logger {
	return defaultLogger
}

// Context keys
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
	jobKey       contextKey = "job"
)

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithUserID adds user ID to context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// WithJob tags the context with a background job name so every log line
// from one cron run carries it.
func WithJob(ctx context.Context, job string) context.Context {
	return context.WithValue(ctx, jobKey, job)
}

// FromContext returns a logger with context values
func FromContext(ctx context.Context) *slog.Logger {
	l := defaultLogger

	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		l = l.With("request_id", requestID)
	}

	if userID, ok := ctx.Value(userIDKey).(string); ok && userID != "" {
		l = l.With("user_id", userID)
	}

	if job, ok := ctx.Value(jobKey).(string); ok && job != "" {
		l = l.With("job", job)
	}

	return l
}

// Convenience functions

func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}
