package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const simpleTimeFormat = "02-01-2006 15:04:05"

// New constructs a zerolog logger for the runtime environment. Development
// environments get console output, everything else JSON.
func New(env, level string, writers ...io.Writer) (zerolog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	zerolog.DurationFieldUnit = time.Millisecond

	var output io.Writer
	switch {
	case len(writers) > 0:
		output = io.MultiWriter(writers...)
	case strings.EqualFold(env, "development") || strings.EqualFold(env, "dev"):
		output = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: simpleTimeFormat}
	default:
		output = os.Stderr
	}

	return zerolog.New(output).With().Timestamp().Logger().Level(lvl), nil
}

func parseLevel(level string) (zerolog.Level, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		level = zerolog.InfoLevel.String()
	}
	return zerolog.ParseLevel(strings.ToLower(level))
}
