// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	var handler slog.Handler
	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithSession returns a logger annotated with the session key.
func (l *Logger) WithSession(sessionKey string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("session_key", sessionKey)),
	}
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// ValidationEvent logs an email validation outcome.
func (l *Logger) ValidationEvent(sessionKey, email string, valid bool, confidence string, attempt int) {
	if valid {
		l.Info("email_validation",
			slog.String("session_key", sessionKey),
			slog.String("email", email),
			slog.Bool("valid", valid),
			slog.String("confidence", confidence),
			slog.Int("attempt", attempt),
		)
	} else {
		l.Warn("email_validation",
			slog.String("session_key", sessionKey),
			slog.String("email", email),
			slog.Bool("valid", valid),
			slog.String("confidence", confidence),
			slog.Int("attempt", attempt),
		)
	}
}

// CollaboratorError logs a failure from an external collaborator.
func (l *Logger) CollaboratorError(collaborator, operation string, err error) {
	l.Error("collaborator_error",
		slog.String("collaborator", collaborator),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
