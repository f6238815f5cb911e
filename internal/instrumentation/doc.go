// Package instrumentation provides OpenTelemetry-based observability:
// Prometheus-exported metrics for HTTP traffic, calendar API operations
// and the OAuth flow, plus optional OTLP trace export.
//
// A single Provider is constructed at startup and shared; when
// instrumentation is disabled the metrics recorder degrades to a no-op so
// callers never need nil checks.
package instrumentation
