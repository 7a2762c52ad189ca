package util

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevelFromString parses a zerolog level, falling back to debug on unknown input.
func LogLevelFromString(s string) zerolog.Level {
	l, err := zerolog.ParseLevel(s)
	if err != nil {
		log.Error().Err(err).Msgf("Failed to parse log level, defaulting to %s", zerolog.DebugLevel)
		return zerolog.DebugLevel
	}

	return l
}

// ConfigureGlobalLogger sets up the global zerolog logger. All log output goes
// to stderr so stdout stays reserved for command results.
func ConfigureGlobalLogger(level zerolog.Level, prettyPrintConsole bool, logCaller bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	if prettyPrintConsole {
		out = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		}
	}

	ctx := zerolog.New(out).With().Timestamp()
	if logCaller {
		ctx = ctx.Caller()
	}

	log.Logger = ctx.Logger()
}
