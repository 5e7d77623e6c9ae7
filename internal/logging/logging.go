// Package logging builds the slog loggers used across claudia.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"claudia/internal/config"
)

// New returns a text logger configured from cfg. A non-empty cfg.File wins
// over fallback; verbose forces debug level. The returned closer is never nil.
func New(cfg config.LogConfig, verbose bool, fallback io.Writer) (*slog.Logger, io.Closer, error) {
	level := LevelFromString(cfg.Level)
	if verbose {
		level = slog.LevelDebug
	}

	if cfg.File == "" {
		if fallback == nil {
			return Discard(), io.NopCloser(nil), nil
		}
		return newLogger(fallback, level), io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
	}
	return newLogger(f, level), f, nil
}

// Discard drops every record
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(100)}))
}

// LevelFromString maps debug, info, warn and error (any case). Anything else
// is warn, the CLI default.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
