// Package logger provides the module logger.  By default it writes human
// readable logs to stderr; it can be replaced or disabled by the caller.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()
}

// Logger returns the module logger.
func Logger() zerolog.Logger {
	return logger
}

// Set overrides the module logger.
func Set(l zerolog.Logger) {
	logger = l
}

// Disable silences the module logger.
func Disable() {
	logger = zerolog.Nop()
}
