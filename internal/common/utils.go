package common

import (
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// ParseLogLevel maps a --log-level value onto a slog level.
// "warning" is accepted as an alias of "warn".
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", s)
	}
}

// NewLogger builds the JSON logger used by every command.
// quiet forces the error level regardless of level.
func NewLogger(w io.Writer, level slog.Level, quiet bool) *slog.Logger {
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// IsRemote reports whether an input path should be fetched over HTTP.
func IsRemote(path string) bool {
	p := strings.ToLower(path)
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}
