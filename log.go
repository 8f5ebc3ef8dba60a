package uikit

import (
	"log/slog"
	"os"
)

// logLevel controls the log level for widget debug logging.
// Default is LevelInfo, which suppresses Debug messages.
var logLevel = new(slog.LevelVar)

// SetVerbose enables or disables debug logging.
// Call this from main() after reading config or flags.
func SetVerbose(v bool) {
	if v {
		logLevel.Set(slog.LevelDebug)
	} else {
		logLevel.Set(slog.LevelInfo)
	}
}

// Verbose returns true if debug logging is enabled.
func Verbose() bool {
	return logLevel.Level() <= slog.LevelDebug
}

// NewLogHandler returns the text handler used by this package, honoring
// SetVerbose. Applications can pass it to slog.SetDefault so the other
// packages log the same way.
func NewLogHandler() slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
}

var logger = slog.New(NewLogHandler())
