// Package log configures structured logging for purevision. Components
// receive explicit *slog.Logger handles at construction; this package only
// owns handler setup and level selection.
package log

import (
	"log/slog"
	"os"
	"sync"
)

var (
	logger *slog.Logger
	once   sync.Once
)

// Init sets up the global logger at the given level ("debug", "info",
// "warn", "error"; anything else means info). Subsequent calls are no-ops.
func Init(level string) {
	once.Do(func() {
		var lvl slog.Level
		switch level {
		case "debug":
			lvl = slog.LevelDebug
		case "warn":
			lvl = slog.LevelWarn
		case "error":
			lvl = slog.LevelError
		default:
			lvl = slog.LevelInfo
		}

		opts := &slog.HandlerOptions{Level: lvl}
		if os.Getenv("PUREVISION_LOG_JSON") != "" {
			logger = slog.New(slog.NewJSONHandler(os.Stderr, opts))
		} else {
			logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
		}
		slog.SetDefault(logger)
	})
}

// L returns the global logger, initializing at info level if needed.
func L() *slog.Logger {
	if logger == nil {
		Init("info")
	}
	return logger
}

// Named returns a logger tagged with a component name, for handing to
// components that take an explicit logging handle.
func Named(component string) *slog.Logger {
	return L().With("component", component)
}
