package engine

import (
	"fmt"

	"github.com/kilianp07/resplan/core/baseline"
	"github.com/kilianp07/resplan/core/conflict"
	"github.com/kilianp07/resplan/core/leveling"
	"github.com/kilianp07/resplan/core/model"
)

// Config defines the tunables of the scheduling engine.
type Config struct {
	// DefaultCapacityHours applies to resources declared without a capacity.
	DefaultCapacityHours float64 `json:"default_capacity_hours"`
	// SearchLimitDays bounds the auto-scheduler's search for a free slot.
	SearchLimitDays int `json:"search_limit_days"`
	// VarianceThresholdDays is the slip tolerated by baseline comparison.
	// Nil selects baseline.DefaultThresholdDays; 0 tolerates no slip.
	VarianceThresholdDays *int                `json:"variance_threshold_days"`
	Severity              conflict.Thresholds `json:"severity"`
}

// VarianceThreshold returns the effective baseline slip tolerance.
func (c Config) VarianceThreshold() int {
	if c.VarianceThresholdDays == nil {
		return baseline.DefaultThresholdDays
	}
	return *c.VarianceThresholdDays
}

// DefaultConfig returns the standard engine settings.
func DefaultConfig() Config {
	c := Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.DefaultCapacityHours == 0 {
		c.DefaultCapacityHours = model.DefaultCapacityHours
	}
	if c.SearchLimitDays == 0 {
		c.SearchLimitDays = leveling.DefaultSearchLimit
	}
	if c.VarianceThresholdDays == nil {
		d := baseline.DefaultThresholdDays
		c.VarianceThresholdDays = &d
	}
	c.Severity.SetDefaults()
}

// Validate checks ranges.
func (c Config) Validate() error {
	if c.DefaultCapacityHours < 0 {
		return fmt.Errorf("default_capacity_hours must not be negative")
	}
	if c.SearchLimitDays < 1 {
		return fmt.Errorf("search_limit_days must be positive")
	}
	if c.VarianceThreshold() < 0 {
		return fmt.Errorf("variance_threshold_days must not be negative")
	}
	if err := c.Severity.Validate(); err != nil {
		return fmt.Errorf("severity: %w", err)
	}
	return nil
}
