// Package log configures the process-wide structured logger, its
// level settable from the command line rather than a hot-reloadable
// config tree.
package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// logger is the process-wide structured logger. Every package that
// needs to log imports this package and calls log.Logger() rather than
// holding its own handle.
var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
	With().Timestamp().Logger()

// Logger returns the process-wide logger.
func Logger() *zerolog.Logger { return &logger }

// SetLevel parses level (e.g. "debug", "info", "warn", "error") and
// applies it globally. An empty level leaves the current level
// untouched and returns nil; an unrecognised one leaves it untouched
// and returns the parse error.
func SetLevel(level string) error {
	if level == "" {
		return nil
	}
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(l)
	return nil
}
