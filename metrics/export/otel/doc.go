// Package otel provides OpenTelemetry metric exporter bindings for authsess
// counters.
//
// [NewOTelExporter] registers an Int64ObservableCounter per authsess metric.
// A single callback reads [authsess.Engine.MetricsSnapshot] on each
// collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate engine state.
package otel
