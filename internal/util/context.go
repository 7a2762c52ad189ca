package util

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// runIDField is the log field carrying the id of one command run.
const runIDField = "run_id"

// LogFromContext returns the logger attached to ctx, falling back to the
// global logger if none was attached.
func LogFromContext(ctx context.Context) *zerolog.Logger {
	l := log.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		// log.Ctx returns a disabled logger if none was attached
		global := log.Logger
		return &global
	}

	return l
}

// WithRunID attaches a context logger tagging every entry with runID.
func WithRunID(ctx context.Context, runID string) context.Context {
	l := LogFromContext(ctx).With().Str(runIDField, runID).Logger()

	return l.WithContext(ctx)
}
