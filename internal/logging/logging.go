// Package logging sets up the zerolog logger used by the CLI. Library
// packages stay silent and return errors; all reporting happens here.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to stderr at the given level. With json
// false the output is the human-readable console format.
func New(level string, json bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("logging: invalid level %q: %w", level, err)
	}

	var out io.Writer = os.Stderr
	if !json {
		out = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.TimeOnly,
		}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}
