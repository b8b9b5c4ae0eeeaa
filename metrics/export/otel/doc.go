// Package otel bridges hiyauth engine counters into OpenTelemetry observable
// instruments. Counter values are pulled from MetricsSnapshot on each
// collection cycle, so the bridge adds no overhead to request paths.
package otel
