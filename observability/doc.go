// Package observability provides OpenTelemetry tracing and metrics
// integration for pipeline execution.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("retail-pipes"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "dpipes.clean_colnames")
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, &meterCfg)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("retail-pipes"))
//	metrics.RecordStage(ctx, "clean_colnames", "ok", duration)
package observability
