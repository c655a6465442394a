package logger

import (
	"log/slog"
	"os"
)

// New creates a JSON-formatted logger writing to stderr at the given
// level, keeping stdout free for previews and reports.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}
