// Package telemetry provides Prometheus metrics and OpenTelemetry tracing for
// the trellis runtime.
//
// Both are optional. A nil *Metrics or *Tracer is valid and records nothing,
// so the scheduler and reconciler can call them unconditionally:
//
//	reg := prometheus.NewRegistry()
//	m := telemetry.NewMetrics(telemetry.WithRegistry(reg))
//	rt := reactive.NewRuntime(reactive.WithMetrics(m))
//
// Metrics collected:
//   - trellis_flushes_total: Counter of scheduler flushes
//   - trellis_flush_duration_seconds: Histogram of flush duration
//   - trellis_flush_watchers: Histogram of watchers run per flush
//   - trellis_watcher_runs_total: Counter of watcher runs by kind (render, user, computed)
//   - trellis_update_loop_aborts_total: Counter of watchers dropped by the loop guard
//   - trellis_patch_ops_total: Counter of reconciler operations by op
//   - trellis_patch_duration_seconds: Histogram of patch duration
package telemetry
