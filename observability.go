package dpipes

import (
	"context"
	"time"

	"github.com/kbukum/dpipes/logger"
	"github.com/kbukum/dpipes/observability"
)

// WithTracing wraps a pipe function with OpenTelemetry span creation.
// Each invocation creates a span named "{prefix}.{stageName}".
func WithTracing[T any](fn Func[T], stageName, prefix string) Func[T] {
	return func(ctx context.Context, v T, args Args) (T, error) {
		ctx, span := observability.StartSpan(ctx, prefix+"."+stageName)
		defer span.End()

		observability.SetSpanAttribute(ctx, observability.AttrStageName, stageName)
		if runID := RunIDFromContext(ctx); runID != "" {
			observability.SetSpanAttribute(ctx, observability.AttrRunID, runID)
		}

		out, err := fn(ctx, v, args)
		if err != nil {
			observability.SetSpanError(ctx, err)
		}
		return out, err
	}
}

// WithMetrics wraps a pipe function with metric recording.
// Records stage count, duration, and errors.
func WithMetrics[T any](fn Func[T], stageName string, metrics *observability.Metrics) Func[T] {
	return func(ctx context.Context, v T, args Args) (T, error) {
		start := time.Now()
		out, err := fn(ctx, v, args)
		duration := time.Since(start)

		status := "ok"
		if err != nil {
			status = "error"
			metrics.RecordError(ctx, "run", stageName)
		}
		metrics.RecordStage(ctx, stageName, status, duration)

		return out, err
	}
}

// WithLogging wraps a pipe function with execution logging.
// Logs: stage name, duration, run ID when present, and success/error status.
func WithLogging[T any](fn Func[T], stageName string, log *logger.Logger) Func[T] {
	return func(ctx context.Context, v T, args Args) (T, error) {
		start := time.Now()
		out, err := fn(ctx, v, args)
		duration := time.Since(start)

		fields := map[string]interface{}{
			"stage":    stageName,
			"duration": duration.String(),
		}
		if runID := RunIDFromContext(ctx); runID != "" {
			fields["run_id"] = runID
		}

		if err != nil {
			fields["error"] = err.Error()
			log.Error("stage failed", fields)
		} else {
			log.Debug("stage completed", fields)
		}

		return out, err
	}
}
