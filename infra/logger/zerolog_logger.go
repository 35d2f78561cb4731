package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config selects the level and output format of the process logger.
type Config struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json or console
}

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	base zerolog.Logger
	log  zerolog.Logger
}

// NewZerologLogger creates a ZerologLogger using the APP_ENV environment variable
// to determine the output format. All logs include the provided component field.
func NewZerologLogger(component string) Logger {
	l, _ := NewWithConfig(component, Config{}, os.Stderr)
	return l
}

// NewWithConfig builds a logger writing to out. An empty format falls back
// to console output when APP_ENV=dev and JSON otherwise; an empty level
// means info.
func NewWithConfig(component string, cfg Config, out io.Writer) (Logger, error) {
	if out == nil {
		out = os.Stderr
	}
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		lv, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return NopLogger{}, fmt.Errorf("log level %q: %w", cfg.Level, err)
		}
		level = lv
	}
	format := strings.ToLower(cfg.Format)
	if format == "" && strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		format = "console"
	}
	switch format {
	case "", "json":
	case "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	default:
		return NopLogger{}, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	base := zerolog.New(out).Level(level)
	return newComponent(base, component), nil
}

func newComponent(base zerolog.Logger, component string) *ZerologLogger {
	return &ZerologLogger{
		base: base,
		log:  base.With().Timestamp().Str("component", component).Logger(),
	}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}

// Named returns a logger sharing the output and level but with a new
// component field.
func (l *ZerologLogger) Named(component string) Logger {
	return newComponent(l.base, component)
}
