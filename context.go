package dpipes

import (
	"context"

	"github.com/google/uuid"
)

// runIDKey is an unexported type for context keys to avoid collisions.
type runIDKey struct{}

// WithRunID returns a context carrying a fresh run correlation ID. If the
// context already carries one it is returned unchanged. Logging and tracing
// middleware attach the run ID to their output.
func WithRunID(ctx context.Context) context.Context {
	if RunIDFromContext(ctx) != "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey{}, uuid.NewString())
}

// RunIDFromContext returns the run correlation ID, or "" if none is set.
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok {
		return id
	}
	return ""
}
