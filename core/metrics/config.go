package metrics

import "github.com/kilianp07/resplan/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// Textfile, when set, receives a Prometheus text exposition of the
	// default registry after each CLI run.
	Textfile string `json:"textfile"`
}
