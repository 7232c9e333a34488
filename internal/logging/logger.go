// Package logging configures the process logger and hands out request-scoped
// loggers that carry the request id set by the HTTP middleware.
package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var std = logrus.New()

// requestIDKey is the key used to store request ID in context
type requestIDKey struct{}

// Init sets formatter, level and output of the process logger.
// Production logs are JSON, everything else uses the text formatter.
func Init(environment, level string, out io.Writer) *logrus.Logger {
	if out == nil {
		out = os.Stdout
	}
	std.SetOutput(out)

	if environment == "production" {
		std.SetFormatter(&logrus.JSONFormatter{})
	} else {
		std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	std.SetLevel(lvl)

	return std
}

// L returns the process logger.
func L() *logrus.Logger {
	return std
}

// WithRequestID stores the request id in a standard context.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request ID from a standard context
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// FromContext returns a log entry tagged with the request id, if any.
func FromContext(ctx context.Context) *logrus.Entry {
	rid := RequestID(ctx)
	if rid == "" {
		rid = "unknown"
	}
	return std.WithField("request_id", rid)
}

// Logger provides operation-tagged logging for services and handlers.
type Logger struct {
	entry *logrus.Entry
}

// NewLogger creates a logger with request context
func NewLogger(ctx context.Context) *Logger {
	return &Logger{entry: FromContext(ctx)}
}

// LogError logs an error with context
func (l *Logger) LogError(operation string, err error) {
	l.entry.WithField("operation", operation).WithError(err).Error("operation failed")
}

// LogInfof logs a formatted info message with context
func (l *Logger) LogInfof(operation string, format string, args ...interface{}) {
	l.entry.WithField("operation", operation).Infof(format, args...)
}

// LogWarnf logs a formatted warning with context
func (l *Logger) LogWarnf(operation string, format string, args ...interface{}) {
	l.entry.WithField("operation", operation).Warnf(format, args...)
}
