package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"

	"github.com/heartmarshall/flipflop-backend/internal/config"
)

// NewLogger creates a *slog.Logger based on the provided LogConfig
// and sets it as the default logger via slog.SetDefault.
//
// Format "json" produces structured JSON output (production).
// Format "text" produces human-readable output with source info (development).
// Level is one of: debug, info, warn, error (case-insensitive); defaults to info.
// Attributes named like credentials (token, password, secret...) are
// replaced with a placeholder in every sink.
// Output goes to os.Stderr. When File is set, JSON records are also appended
// to that file; if it cannot be opened the logger falls back to stderr only.
// The file stays open for the life of the process.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	var file io.Writer
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			slog.Error("failed to open log file, using stderr only",
				slog.String("file", cfg.File),
				slog.String("error", err.Error()),
			)
		} else {
			file = f
		}
	}

	logger := newLogger(cfg, os.Stderr, file)
	slog.SetDefault(logger)

	return logger
}

// redactedKeys are attribute names whose values never reach a log sink.
var redactedKeys = map[string]bool{
	"token":         true,
	"access_token":  true,
	"refresh_token": true,
	"authorization": true,
	"password":      true,
	"secret":        true,
	"client_secret": true,
	"api_key":       true,
	"credentials":   true,
}

const redacted = "[REDACTED]"

func redact(_ []string, a slog.Attr) slog.Attr {
	if redactedKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redacted)
	}
	return a
}

// newLogger builds the handler chain. file may be nil.
func newLogger(cfg config.LogConfig, stderr, file io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)

	opts := &slog.HandlerOptions{
		Level:       level,
		AddSource:   strings.EqualFold(cfg.Format, "text"),
		ReplaceAttr: redact,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(stderr, opts)
	} else {
		handler = slog.NewTextHandler(stderr, opts)
	}

	if file != nil {
		fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level, ReplaceAttr: redact})
		handler = slogmulti.Fanout(handler, fileHandler)
	}

	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
