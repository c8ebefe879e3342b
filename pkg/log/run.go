package log

import (
	"context"

	"ulidgen.io/pkg/ulid"
)

// NewRunContext tags ctx with a new run ID, so every line logged
// through FromContext during one invocation can be correlated.
func NewRunContext(ctx context.Context) (context.Context, error) {
	id, err := ulid.NewFromContext(ctx)
	if err != nil {
		return ctx, err
	}
	return context.WithValue(ctx, runKey, id.String()), nil
}

// RunID returns the run ID in ctx, or an empty string.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runKey).(string)
	return id
}
