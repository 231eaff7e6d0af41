package logger

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	charm "github.com/charmbracelet/log"
)

const (
	// EnvVarLogLevel is the environment variable name for setting the log level.
	EnvVarLogLevel = "LOG_LEVEL"

	// EnvVarLogFormat selects the log format: "json" (default) or "text".
	EnvVarLogFormat = "LOG_FORMAT"
)

// New creates a logger writing to w in the given format. The "text" format
// renders human readable, colored lines for terminals; anything else is JSON.
func New(w io.Writer, module, version, level, format string) *slog.Logger {
	lev := ParseLogLevel(level)

	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		h = charm.NewWithOptions(w, charm.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           charmLevel(lev),
			Prefix:          module,
		})
	} else {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     lev,
			AddSource: lev <= slog.LevelDebug,
		})
	}

	return slog.New(h).With("module", module, "version", version)
}

// NewLogLogger creates a standard library log.Logger backed by slog, used
// as the http.Server error log.
func NewLogLogger(level slog.Level, withSource bool) *log.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: withSource,
	})

	return slog.NewLogLogger(handler, level)
}

// ParseLogLevel converts a level name into a slog.Level.
// Unrecognized names map to slog.LevelInfo.
func ParseLogLevel(level string) slog.Level {
	var lev slog.Level

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lev = slog.LevelDebug
	case "warn", "warning":
		lev = slog.LevelWarn
	case "error":
		lev = slog.LevelError
	default:
		lev = slog.LevelInfo
	}

	return lev
}

func charmLevel(l slog.Level) charm.Level {
	switch {
	case l <= slog.LevelDebug:
		return charm.DebugLevel
	case l <= slog.LevelInfo:
		return charm.InfoLevel
	case l <= slog.LevelWarn:
		return charm.WarnLevel
	default:
		return charm.ErrorLevel
	}
}
