package observability

import (
	"log/slog"
	"os"
)

// NewLogger builds a JSON slog logger. Debug level is enabled in dev.
func NewLogger(env string) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(handler)
}
