// Package logging installs a colored structured logger built on tint as the
// default slog logger.
//
// Usage:
//
//	level, err := logging.ParseLevel(cfg.LogLevel)
//	logging.Setup(os.Stderr, level)
//
// Levels: debug, info, warn, error (empty means info).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// New returns a tint logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level <= slog.LevelDebug,
	}))
}

// Setup makes a tint logger writing to w the default logger.
func Setup(w io.Writer, level slog.Level) {
	slog.SetDefault(New(w, level))
}
