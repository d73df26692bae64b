package cli

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel converts a level name to a slog.Level, defaulting to info
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewLogger creates a text logger writing to every writer in outputs
func NewLogger(level string, outputs ...io.Writer) *slog.Logger {
	var w io.Writer = io.Discard
	switch len(outputs) {
	case 0:
	case 1:
		w = outputs[0]
	default:
		w = io.MultiWriter(outputs...)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}
