// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup points the global logger at w with the given level ("debug", "info",
// "warn", ...) and format ("console" or "json").
func Setup(w io.Writer, level, format string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(lvl)

	switch strings.ToLower(format) {
	case "json":
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	case "", "console":
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	default:
		return fmt.Errorf("unknown log format %q (want console or json)", format)
	}
	return nil
}
