package testutil

import (
	"io"
	"log/slog"
)

// NewLogger returns a debug-level text logger writing to w, for tests that
// assert on log output.
func NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
