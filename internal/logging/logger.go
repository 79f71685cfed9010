package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup installs a JSON slog logger on stdout as the process default.
func Setup(env string) *slog.Logger {
	logger := slog.New(NewJSONHandler(os.Stdout, env))
	slog.SetDefault(logger)
	return logger
}

// NewJSONHandler logs INFO+ in production and DEBUG+ elsewhere.
func NewJSONHandler(w io.Writer, env string) slog.Handler {
	level := slog.LevelDebug
	if strings.EqualFold(env, "production") {
		level = slog.LevelInfo
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}
