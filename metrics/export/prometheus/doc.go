// Package prometheus provides Prometheus collectors for authsess metrics.
//
// [NewPrometheusExporter] accepts an [authsess.Engine] and exposes an
// [http.Handler] that renders all authsess counters in Prometheus text
// exposition format. Counter names are prefixed authsess_*_total.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
