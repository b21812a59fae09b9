package logger

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	globalLogger zerolog.Logger
	once         sync.Once
)

// GetLogger returns the process-wide logger. Level and format come from the
// LOG_LEVEL and LOG_FORMAT environment variables; the defaults are info and
// json. LOG_FORMAT=console switches to human readable output for local runs.
func GetLogger() zerolog.Logger {
	once.Do(func() {
		level := zerolog.InfoLevel
		if raw := os.Getenv("LOG_LEVEL"); raw != "" {
			if parsed, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil {
				level = parsed
			}
		}

		var base zerolog.Logger
		if strings.EqualFold(os.Getenv("LOG_FORMAT"), "console") {
			base = zerolog.New(zerolog.ConsoleWriter{
				Out:        os.Stdout,
				TimeFormat: time.RFC3339,
			})
		} else {
			base = zerolog.New(os.Stdout)
		}

		zerolog.SetGlobalLevel(level)
		globalLogger = base.With().
			Timestamp().
			Str("service", "agent-api").
			Logger().
			Level(level)
	})
	return globalLogger
}
