package conflict

import (
	"fmt"
	"time"
)

// Severity classifies how far a resource is over its daily capacity.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// Rank orders severities from minor (1) to critical (3).
func (s Severity) Rank() int {
	switch s {
	case SeverityMinor:
		return 1
	case SeverityMajor:
		return 2
	case SeverityCritical:
		return 3
	}
	return 0
}

// ResourceConflict is a day on which a resource is allocated beyond its
// capacity. TotalAllocation is the share of capacity consumed in percent.
type ResourceConflict struct {
	ResourceID       string    `json:"resource_id"`
	Date             time.Time `json:"date"`
	ConflictingTasks []string  `json:"conflicting_tasks"`
	AllocatedHours   float64   `json:"allocated_hours"`
	Capacity         float64   `json:"capacity"`
	TotalAllocation  float64   `json:"total_allocation"`
	Severity         Severity  `json:"severity"`
}

// Thresholds bound the allocation ratios of each severity. An allocation up
// to Major times capacity is minor, up to Critical times capacity is major,
// and anything above is critical.
type Thresholds struct {
	Major    float64 `json:"major_ratio"`
	Critical float64 `json:"critical_ratio"`
}

// DefaultThresholds returns the 120% / 150% classification.
func DefaultThresholds() Thresholds {
	return Thresholds{Major: 1.2, Critical: 1.5}
}

// SetDefaults fills unset ratios.
func (t *Thresholds) SetDefaults() {
	d := DefaultThresholds()
	if t.Major == 0 {
		t.Major = d.Major
	}
	if t.Critical == 0 {
		t.Critical = d.Critical
	}
}

// Validate checks that ratios are above 1 and ordered.
func (t Thresholds) Validate() error {
	if t.Major <= 1 {
		return fmt.Errorf("major_ratio must be above 1, got %v", t.Major)
	}
	if t.Critical < t.Major {
		return fmt.Errorf("critical_ratio %v must not be below major_ratio %v", t.Critical, t.Major)
	}
	return nil
}

// Classify returns the severity of allocatedHours against capacity. It must
// only be called for over-allocated buckets.
func (t Thresholds) Classify(allocatedHours, capacity float64) Severity {
	switch {
	case allocatedHours <= capacity*t.Major:
		return SeverityMinor
	case allocatedHours <= capacity*t.Critical:
		return SeverityMajor
	default:
		return SeverityCritical
	}
}
