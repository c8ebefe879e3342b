package log

import (
	"context"

	"github.com/go-kit/kit/log"
)

type key int

const (
	loggerKey key = iota
	runKey
)

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger in ctx, tagged with the run ID when one is set.
// Without a logger it returns a no-op logger.
func FromContext(ctx context.Context) Logger {
	v, ok := ctx.Value(loggerKey).(Logger)
	if !ok {
		return log.NewNopLogger()
	}

	if id := RunID(ctx); id != "" {
		return log.With(v, "run_id", id)
	}
	return v
}
