package metrics

import (
	"errors"
	"sort"

	coremetrics "github.com/kilianp07/resplan/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records engine activity in Prometheus metrics.
type PromSink struct {
	analyses      prometheus.Counter
	analysisTime  prometheus.Histogram
	criticalTasks prometheus.Gauge
	duration      prometheus.Gauge
	conflicts     *prometheus.CounterVec
	overloadDays  *prometheus.GaugeVec
	unresolved    prometheus.Gauge
	makespan      prometheus.Gauge
	shifts        prometheus.Histogram
	utilization   *prometheus.GaugeVec
	comparisons   *prometheus.CounterVec
}

// NewPromSink registers the metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Metrics
// already registered by a previous sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	var err error
	if s.analyses, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "resplan_analyses_total",
		Help: "Number of critical path analyses",
	})); err != nil {
		return nil, err
	}
	if s.analysisTime, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "resplan_analysis_duration_seconds",
		Help:    "Time spent computing the critical path",
		Buckets: prometheus.DefBuckets,
	})); err != nil {
		return nil, err
	}
	if s.criticalTasks, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "resplan_critical_tasks",
		Help: "Number of tasks on the critical path of the last analysis",
	})); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "resplan_project_duration_days",
		Help: "Project duration of the last analysis",
	})); err != nil {
		return nil, err
	}
	if s.conflicts, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resplan_conflicts_total",
		Help: "Over-allocated resource days detected",
	}, []string{"resource_id", "severity"})); err != nil {
		return nil, err
	}
	if s.overloadDays, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "resplan_resource_conflict_days",
		Help: "Over-allocated days per resource in the last detection run",
	}, []string{"resource_id"})); err != nil {
		return nil, err
	}
	if s.unresolved, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "resplan_schedule_unresolved_tasks",
		Help: "Tasks the last auto-schedule run could not place within capacity",
	})); err != nil {
		return nil, err
	}
	if s.makespan, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "resplan_schedule_makespan_days",
		Help: "Calendar days spanned by the last auto-schedule run",
	})); err != nil {
		return nil, err
	}
	if s.shifts, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "resplan_schedule_shift_days",
		Help:    "Days each task moved during auto-scheduling",
		Buckets: []float64{-7, -1, 0, 1, 2, 5, 10, 30, 90},
	})); err != nil {
		return nil, err
	}
	if s.utilization, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "resplan_resource_utilization_percent",
		Help: "Allocated hours over capacity in the last utilization window",
	}, []string{"resource_id"})); err != nil {
		return nil, err
	}
	if s.comparisons, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resplan_baseline_tasks_total",
		Help: "Tasks compared against a baseline by outcome",
	}, []string{"status"})); err != nil {
		return nil, err
	}
	return s, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordAnalysis updates the analysis counter and gauges.
func (s *PromSink) RecordAnalysis(ev coremetrics.AnalysisEvent) error {
	s.analyses.Inc()
	s.analysisTime.Observe(ev.Elapsed.Seconds())
	s.criticalTasks.Set(float64(ev.CriticalTasks))
	s.duration.Set(float64(ev.DurationDays))
	return nil
}

// RecordConflicts counts conflicts and resets the per-resource day gauge.
func (s *PromSink) RecordConflicts(evs []coremetrics.ConflictEvent) error {
	s.overloadDays.Reset()
	days := make(map[string]int)
	for _, ev := range evs {
		s.conflicts.WithLabelValues(ev.ResourceID, ev.Severity).Inc()
		days[ev.ResourceID]++
	}
	for id, n := range days {
		s.overloadDays.WithLabelValues(id).Set(float64(n))
	}
	return nil
}

// RecordSchedule records the outcome of a leveling run.
func (s *PromSink) RecordSchedule(ev coremetrics.ScheduleEvent) error {
	s.unresolved.Set(float64(ev.Unresolved))
	s.makespan.Set(float64(ev.MakespanDays))
	for _, d := range ev.ShiftDays {
		s.shifts.Observe(float64(d))
	}
	return nil
}

// RecordUtilization replaces the utilization gauges.
func (s *PromSink) RecordUtilization(evs []coremetrics.UtilizationEvent) error {
	s.utilization.Reset()
	for _, ev := range evs {
		s.utilization.WithLabelValues(ev.ResourceID).Set(ev.Rate)
	}
	return nil
}

// RecordComparison counts compared tasks per status.
func (s *PromSink) RecordComparison(ev coremetrics.ComparisonEvent) error {
	statuses := make([]string, 0, len(ev.Statuses))
	for st := range ev.Statuses {
		statuses = append(statuses, st)
	}
	sort.Strings(statuses)
	for _, st := range statuses {
		s.comparisons.WithLabelValues(st).Add(float64(ev.Statuses[st]))
	}
	return nil
}
