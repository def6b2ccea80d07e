// SPDX-License-Identifier: BSD-3-Clause

// Package telemetry sets up in-process OpenTelemetry tracing and metrics for
// the control core. There is no OTLP exporter: spans and metric instruments
// exist for the process's own use (correlating log lines via pkg/log), never
// pushed over a network. The provider's manual metric reader is internal;
// no function of this package exposes it or collects from it.
//
//	shutdown, err := telemetry.Setup(ctx, telemetry.WithServiceName("motionctl"))
//	defer shutdown(ctx)
//
//	tracer := telemetry.GetTracer("motionctl")
//	ctx, span := tracer.Start(ctx, "dispatch_cycle")
//	defer span.End()
package telemetry
