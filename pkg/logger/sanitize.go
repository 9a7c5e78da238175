package logger

import (
	"log/slog"
	"strings"
)

// DigestPrefix shortens a credential digest to a loggable prefix. Full
// digests never reach the logs, only enough to correlate repeated attempts.
func DigestPrefix(digest string) string {
	const prefixLen = 8
	if len(digest) <= prefixLen {
		return digest
	}
	return digest[:prefixLen]
}

// RedactedAttr returns a redacted slog attribute for sensitive values.
// In production, returns "[REDACTED]"; in development, returns the actual value
func RedactedAttr(key, value, env string) slog.Attr {
	if env == "production" {
		return slog.String(key, "[REDACTED]")
	}
	return slog.String(key, value)
}

// SanitizeQueryString checks if query string contains sensitive parameters
// and returns true if the entire query string should be redacted
func SanitizeQueryString(rawQuery string) bool {
	sensitiveParams := []string{
		"password",
		"token",
		"secret",
		"api_key",
		"apikey",
		"auth",
		"salt",
		"hash",
	}

	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}
