package logging

import (
	"log/slog"
	"os"
)

// Setup installs the boot-time logger: JSON lines on stdout, INFO and
// up. Once the database is connected, main swaps the default for a
// MultiHandler that also feeds the system_logs table.
func Setup() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}
