package logging

import (
	"io"
	"log/slog"
	"strings"
)

const envProduction = "production"

// Setup installs the process-wide slog logger. Production emits JSON; every other
// environment gets the human readable text handler.
func Setup(appEnv, logLevel string, out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(logLevel),
		AddSource: appEnv != envProduction && ParseLevel(logLevel) == slog.LevelDebug,
	}

	var handler slog.Handler = slog.NewTextHandler(out, opts)
	if appEnv == envProduction {
		handler = slog.NewJSONHandler(out, opts)
	}

	logger := slog.New(handler).With("service", "chatrelay")
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a level name to its slog level, defaulting to info.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARNING", "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
