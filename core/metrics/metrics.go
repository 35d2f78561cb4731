package metrics

import "time"

// AnalysisEvent describes one critical path computation.
type AnalysisEvent struct {
	Tasks         int
	CriticalTasks int
	DurationDays  int
	Elapsed       time.Duration
	Time          time.Time
}

// MetricsSink records engine activity for observability purposes.
type MetricsSink interface {
	RecordAnalysis(ev AnalysisEvent) error
}

// ConflictEvent is one over-allocated resource day.
type ConflictEvent struct {
	ResourceID      string
	Date            time.Time
	Severity        string
	AllocationRatio float64 // allocated hours / capacity
	Tasks           int
}

// ConflictRecorder records detected conflicts. It is called once per run,
// possibly with an empty slice.
type ConflictRecorder interface {
	RecordConflicts(evs []ConflictEvent) error
}

// ScheduleEvent summarises an auto-scheduling run.
type ScheduleEvent struct {
	Tasks        int
	Unresolved   int
	MakespanDays int
	ShiftDays    []int
	Elapsed      time.Duration
	Time         time.Time
}

// ScheduleRecorder records auto-scheduling runs.
type ScheduleRecorder interface {
	RecordSchedule(ev ScheduleEvent) error
}

// UtilizationEvent is the utilization of one resource over a window.
type UtilizationEvent struct {
	ResourceID string
	Rate       float64 // percent
	From       time.Time
	To         time.Time
}

// UtilizationRecorder records utilization reports.
type UtilizationRecorder interface {
	RecordUtilization(evs []UtilizationEvent) error
}

// ComparisonEvent counts baseline comparison outcomes per status.
type ComparisonEvent struct {
	BaselineID string
	Statuses   map[string]int
	Time       time.Time
}

// ComparisonRecorder records baseline comparisons.
type ComparisonRecorder interface {
	RecordComparison(ev ComparisonEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordAnalysis(AnalysisEvent) error         { return nil }
func (NopSink) RecordConflicts([]ConflictEvent) error      { return nil }
func (NopSink) RecordSchedule(ScheduleEvent) error         { return nil }
func (NopSink) RecordUtilization([]UtilizationEvent) error { return nil }
func (NopSink) RecordComparison(ComparisonEvent) error     { return nil }
