// Package engine is the entry point to the scheduling core. It validates
// input at the boundary, runs the analyzers and reports their activity
// through a logger and a metrics sink. An Engine holds no mutable state and
// can be shared between goroutines as long as its logger and sink can.
package engine

import (
	"fmt"
	"time"

	"github.com/kilianp07/resplan/core/baseline"
	"github.com/kilianp07/resplan/core/conflict"
	"github.com/kilianp07/resplan/core/cpm"
	"github.com/kilianp07/resplan/core/leveling"
	"github.com/kilianp07/resplan/core/logger"
	"github.com/kilianp07/resplan/core/metrics"
	"github.com/kilianp07/resplan/core/model"
	"github.com/kilianp07/resplan/core/utilization"
)

// Engine runs critical path analysis, conflict detection, utilization
// reporting, auto-scheduling and baseline comparison.
type Engine struct {
	cfg     Config
	log     logger.Logger
	sink    metrics.MetricsSink
	leveler leveling.Leveler
	now     func() time.Time
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithSink sets the metrics sink.
func WithSink(s metrics.MetricsSink) Option {
	return func(e *Engine) {
		if s != nil {
			e.sink = s
		}
	}
}

// WithLeveler replaces the greedy auto-scheduler.
func WithLeveler(l leveling.Leveler) Option {
	return func(e *Engine) {
		if l != nil {
			e.leveler = l
		}
	}
}

// WithClock sets the time source used for empty analyses and baselines.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New builds an Engine. Zero config values take their defaults.
func New(cfg Config, opts ...Option) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	e := &Engine{
		cfg:  cfg,
		log:  logger.Nop{},
		sink: metrics.NopSink{},
		now:  time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	if e.leveler == nil {
		e.leveler = leveling.NewGreedy(cfg.SearchLimitDays)
	}
	return e, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// CriticalPath computes earliest and latest dates, float and the critical
// path of the tasks.
func (e *Engine) CriticalPath(tasks []model.Task) (*cpm.Analysis, error) {
	if err := model.ValidateTasks(tasks); err != nil {
		return nil, err
	}
	began := time.Now()
	a, err := cpm.Analyze(tasks, e.now())
	if err != nil {
		e.log.Errorf("critical path: %v", err)
		return nil, err
	}
	elapsed := time.Since(began)
	e.log.Debugw("critical path computed", map[string]any{
		"tasks":         len(a.Nodes),
		"critical":      len(a.CriticalPath),
		"duration_days": a.ProjectDuration,
		"elapsed_ms":    elapsed.Milliseconds(),
	})
	e.record(e.sink.RecordAnalysis(metrics.AnalysisEvent{
		Tasks:         len(a.Nodes),
		CriticalTasks: len(a.CriticalPath),
		DurationDays:  a.ProjectDuration,
		Elapsed:       elapsed,
		Time:          e.now(),
	}))
	return a, nil
}

// Conflicts lists every resource day allocated beyond capacity.
func (e *Engine) Conflicts(tasks []model.Task, resources []model.Resource) ([]conflict.ResourceConflict, error) {
	if err := validate(tasks, resources); err != nil {
		return nil, err
	}
	cs := conflict.Detect(tasks, resources, e.cfg.Severity)
	if len(cs) > 0 {
		e.log.Infof("%d resource conflicts detected, worst %s", len(cs), conflict.MaxSeverity(cs))
	}
	if rec, ok := e.sink.(metrics.ConflictRecorder); ok {
		evs := make([]metrics.ConflictEvent, len(cs))
		for i, c := range cs {
			evs[i] = metrics.ConflictEvent{
				ResourceID:      c.ResourceID,
				Date:            c.Date,
				Severity:        string(c.Severity),
				AllocationRatio: c.TotalAllocation / 100,
				Tasks:           len(c.ConflictingTasks),
			}
		}
		e.record(rec.RecordConflicts(evs))
	}
	return cs, nil
}

// Utilization reports allocation against capacity over [from, to].
func (e *Engine) Utilization(tasks []model.Task, resources []model.Resource, from, to time.Time) (*utilization.Report, error) {
	if err := validate(tasks, resources); err != nil {
		return nil, err
	}
	rep, err := utilization.Calculate(tasks, resources, from, to)
	if err != nil {
		return nil, err
	}
	if len(rep.Summary.Overloaded) > 0 {
		e.log.Infof("overloaded resources between %s and %s: %v",
			model.FormatDay(from), model.FormatDay(to), rep.Summary.Overloaded)
	}
	if rec, ok := e.sink.(metrics.UtilizationRecorder); ok {
		evs := make([]metrics.UtilizationEvent, len(rep.Resources))
		for i, u := range rep.Resources {
			evs[i] = metrics.UtilizationEvent{ResourceID: u.ResourceID, Rate: u.UtilizationRate, From: rep.From, To: rep.To}
		}
		e.record(rec.RecordUtilization(evs))
	}
	return rep, nil
}

// AutoSchedule recomputes start and end dates so that tasks follow their
// dependencies and fit resource capacity, starting no earlier than
// projectStart.
func (e *Engine) AutoSchedule(tasks []model.Task, resources []model.Resource, projectStart time.Time) (*leveling.Result, error) {
	if err := validate(tasks, resources); err != nil {
		return nil, err
	}
	began := time.Now()
	res, err := e.leveler.Level(tasks, resources, projectStart)
	if err != nil {
		e.log.Errorf("auto-schedule: %v", err)
		return nil, err
	}
	elapsed := time.Since(began)
	for _, id := range res.Unresolved {
		e.log.Warnf("no slot for task %s, kept at dependency-feasible start", id)
	}
	shifts := make([]int, len(res.Placements))
	for i, p := range res.Placements {
		shifts[i] = p.ShiftDays
	}
	e.log.Debugw("auto-schedule computed", map[string]any{
		"tasks":      len(res.Tasks),
		"unresolved": len(res.Unresolved),
		"makespan":   res.Makespan(),
	})
	if rec, ok := e.sink.(metrics.ScheduleRecorder); ok {
		e.record(rec.RecordSchedule(metrics.ScheduleEvent{
			Tasks:        len(res.Tasks),
			Unresolved:   len(res.Unresolved),
			MakespanDays: res.Makespan(),
			ShiftDays:    shifts,
			Elapsed:      elapsed,
			Time:         e.now(),
		}))
	}
	return res, nil
}

// CreateBaseline snapshots tasks under name.
func (e *Engine) CreateBaseline(tasks []model.Task, name string) (*baseline.Baseline, error) {
	if err := model.ValidateTasks(tasks); err != nil {
		return nil, err
	}
	b := baseline.Create(tasks, name, e.now())
	e.log.Infof("baseline %s (%q) captured with %d tasks", b.ID(), name, b.Len())
	return b, nil
}

// Compare measures current tasks against b.
func (e *Engine) Compare(tasks []model.Task, b *baseline.Baseline) ([]baseline.Comparison, error) {
	if b == nil {
		return nil, fmt.Errorf("compare: nil baseline")
	}
	if err := model.ValidateTasks(tasks); err != nil {
		return nil, err
	}
	cs := baseline.CompareWithThreshold(tasks, b, e.cfg.VarianceThreshold())
	if missing := baseline.Missing(tasks, b); len(missing) > 0 {
		e.log.Debugf("baseline %s tasks absent from current schedule: %v", b.ID(), missing)
	}
	if rec, ok := e.sink.(metrics.ComparisonRecorder); ok {
		counts := make(map[string]int)
		for s, n := range baseline.Tally(cs) {
			counts[string(s)] = n
		}
		e.record(rec.RecordComparison(metrics.ComparisonEvent{BaselineID: b.ID(), Statuses: counts, Time: e.now()}))
	}
	return cs, nil
}

func (e *Engine) record(err error) {
	if err != nil {
		e.log.Warnf("metrics sink: %v", err)
	}
}

func validate(tasks []model.Task, resources []model.Resource) error {
	if err := model.ValidateTasks(tasks); err != nil {
		return err
	}
	return model.ValidateResources(resources)
}
