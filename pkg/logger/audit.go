package logger

import (
	"context"
	"log/slog"
	"time"
)

// AuditEvent represents a security audit event
type AuditEvent struct {
	EventType     string
	ClientIP      string
	Success       bool
	FailureReason string
	AttemptCount  int
	DigestPrefix  string
}

// AuditLogger provides audit logging functionality
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{
		logger: logger,
	}
}

// LogAuthAttempt logs one login attempt. The credential itself is never
// logged; DigestPrefix carries a truncated digest for correlation only.
func (al *AuditLogger) LogAuthAttempt(event AuditEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "auth"),
		slog.String("event_type", event.EventType),
		slog.Bool("success", event.Success),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	if event.ClientIP != "" {
		attrs = append(attrs, slog.String("client_ip", event.ClientIP))
	}
	if event.FailureReason != "" {
		attrs = append(attrs, slog.String("failure_reason", event.FailureReason))
	}
	if event.AttemptCount > 0 {
		attrs = append(attrs, slog.Int("attempt_count", event.AttemptCount))
	}
	if event.DigestPrefix != "" {
		attrs = append(attrs, slog.String("credential_digest", event.DigestPrefix))
	}

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}

	al.logger.LogAttrs(context.Background(), level, "auth_attempt", attrs...)
}
