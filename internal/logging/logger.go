// Package logging wires the server's slog output: JSON lines on stdout
// for the platform collector, plus error-level records batched into the
// system_logs table so support can trace incidents per company.
package logging

import (
	"log/slog"
	"os"
)

// Setup installs the stdout JSON handler as the default logger. The
// database handler is attached later in main, once the pool is up, via
// NewMultiHandler.
func Setup() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}
