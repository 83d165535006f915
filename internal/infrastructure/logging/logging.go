package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options select the sink and verbosity of the service logger.
type Options struct {
	Service string
	Level   string
	// File enables a size-rotated log file instead of stdout.
	File string
}

// ParseLevel maps LOG_LEVEL values onto slog levels; unknown values are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func writer(file string) io.Writer {
	if strings.TrimSpace(file) == "" {
		return os.Stdout
	}
	return &lumberjack.Logger{
		Filename:   file,
		MaxSize:    100, // MB
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
}

// New builds a JSON logger tagged with the service name.
func New(w io.Writer, service string, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.TimeKey {
				return slog.Attr{Key: "timestamp", Value: attr.Value}
			}
			if attr.Key == slog.MessageKey {
				return slog.Attr{Key: "message", Value: attr.Value}
			}
			return attr
		},
	})
	return slog.New(handler).With(slog.String("service", service))
}

// Setup installs the logger as the slog default and bridges the standard
// library logger into it, so gorm and echo output lands in the same sink.
func Setup(opts Options) *slog.Logger {
	base := New(writer(opts.File), opts.Service, ParseLevel(opts.Level))
	slog.SetDefault(base)

	log.SetOutput(slog.NewLogLogger(base.Handler(), slog.LevelInfo).Writer())
	log.SetFlags(0)
	log.SetPrefix("")
	return base
}

// Discard is a logger for tests and tools that want silence.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
