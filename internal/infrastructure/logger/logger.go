// Package logger configures the process wide zerolog logger.
package logger

import (
	"fmt"
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

// GetLogger returns the process logger. Before New has run it falls
// back to a console logger at info level, so early code paths can
// still log.
func GetLogger() zerolog.Logger {
	once.Do(func() {
		globalLogger = build("console").Level(zerolog.InfoLevel)
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})
	return globalLogger
}

// New configures the process logger from the LOG_LEVEL and LOG_FORMAT
// settings. Format is "json" for production or "console" for local use.
func New(level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse log level %q: %w", level, err)
	}

	format = strings.ToLower(format)
	if format != "json" && format != "console" {
		return zerolog.Logger{}, fmt.Errorf("unsupported log format %q", format)
	}

	// Trip the fallback initializer so a later GetLogger call cannot
	// clobber the configured logger.
	once.Do(func() {})
	zerolog.SetGlobalLevel(lvl)
	globalLogger = build(format).Level(lvl)
	return globalLogger, nil
}

func build(format string) zerolog.Logger {
	if format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
