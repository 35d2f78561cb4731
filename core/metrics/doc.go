// Package metrics defines the sink interfaces through which the scheduling
// engine reports its activity. MetricsSink is the required interface; the
// other recorders are optional and discovered by type assertion. Sinks are
// built from configuration through a registry populated by infra/metrics.
package metrics
