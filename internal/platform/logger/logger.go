package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. JSON output so log shippers don't need a
// custom parser; level stays at Info outside dev.
func New(env string) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
