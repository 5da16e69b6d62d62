// Package monitor wires process-wide logging. Startup installs the custom
// slog handler as the default logger before anything else runs.
package monitor

import (
	"log/slog"
	"os"
)

// Startup configures the default slog logger with the given minimum level.
// Accepted levels: "debug", "info", "warn", "error"; anything else means info.
func Startup(level string) {
	handler := NewCustomHandler(os.Stdout, slog.HandlerOptions{
		Level: parseLevel(level),
	})
	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch level {
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
