// Package metrics provides Prometheus instrumentation for attachstore:
// remote operation counts and latencies, flush outcomes, and pending-queue
// depth. The collector owns its own registry and can expose it over HTTP.
// A nil *Collector is valid and records nothing, so instrumentation stays
// optional for callers.
package metrics
