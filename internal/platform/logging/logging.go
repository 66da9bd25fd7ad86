// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup builds a slog.Logger writing JSON (default) or text to w and installs it as the default logger.
// If w is nil, logs go to os.Stdout.
func Setup(format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var h slog.Handler
	if format == "text" {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(h).With("service", "courtier_backend")
	slog.SetDefault(logger)
	return logger
}
