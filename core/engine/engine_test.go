package engine

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/resplan/core/baseline"
	"github.com/kilianp07/resplan/core/conflict"
	"github.com/kilianp07/resplan/core/graph"
	"github.com/kilianp07/resplan/core/leveling"
	"github.com/kilianp07/resplan/core/logger"
	"github.com/kilianp07/resplan/core/metrics"
	"github.com/kilianp07/resplan/core/model"
)

type recordingSink struct {
	mu          sync.Mutex
	analyses    []metrics.AnalysisEvent
	conflicts   [][]metrics.ConflictEvent
	schedules   []metrics.ScheduleEvent
	utilization [][]metrics.UtilizationEvent
	comparisons []metrics.ComparisonEvent
	err         error
}

func (s *recordingSink) RecordAnalysis(ev metrics.AnalysisEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses = append(s.analyses, ev)
	return s.err
}

func (s *recordingSink) RecordConflicts(evs []metrics.ConflictEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conflicts = append(s.conflicts, evs)
	return s.err
}

func (s *recordingSink) RecordSchedule(ev metrics.ScheduleEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules = append(s.schedules, ev)
	return s.err
}

func (s *recordingSink) RecordUtilization(evs []metrics.UtilizationEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.utilization = append(s.utilization, evs)
	return s.err
}

func (s *recordingSink) RecordComparison(ev metrics.ComparisonEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comparisons = append(s.comparisons, ev)
	return s.err
}

type captureLogger struct {
	logger.Nop
	mu    sync.Mutex
	warns []string
}

func (c *captureLogger) Warnf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warns = append(c.warns, fmt.Sprintf(format, args...))
}

func day(s string) time.Time {
	d, err := model.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func work(id, start, end string, hours float64, resources []string, deps ...string) model.Task {
	return model.Task{
		ID: id, Name: id, Type: model.TypeTask,
		Start: day(start), End: day(end),
		EstimatedHours: hours, Resources: resources, Dependencies: deps,
	}
}

var fixedNow = func() time.Time { return day("2024-01-01").Add(9 * time.Hour) }

func newEngine(t *testing.T, opts ...Option) (*Engine, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	e, err := New(Config{}, append([]Option{WithSink(sink), WithClock(fixedNow)}, opts...)...)
	require.NoError(t, err)
	return e, sink
}

func TestNew_DefaultsAndValidation(t *testing.T) {
	e, err := New(Config{})
	require.NoError(t, err)
	cfg := e.Config()
	assert.Equal(t, model.DefaultCapacityHours, cfg.DefaultCapacityHours)
	assert.Equal(t, leveling.DefaultSearchLimit, cfg.SearchLimitDays)
	require.NotNil(t, cfg.VarianceThresholdDays)
	assert.Equal(t, baseline.DefaultThresholdDays, cfg.VarianceThreshold())
	assert.Equal(t, conflict.DefaultThresholds(), cfg.Severity)

	_, err = New(Config{SearchLimitDays: -1})
	assert.Error(t, err)
	_, err = New(Config{Severity: conflict.Thresholds{Major: 2, Critical: 1.5}})
	assert.Error(t, err)
}

func TestCriticalPath_RecordsAnalysis(t *testing.T) {
	e, sink := newEngine(t)
	tasks := []model.Task{
		work("a", "2024-01-01", "2024-01-03", 0, nil),
		work("b", "2024-01-03", "2024-01-05", 0, nil, "a"),
	}
	a, err := e.CriticalPath(tasks)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, a.CriticalPath)
	require.Len(t, sink.analyses, 1)
	assert.Equal(t, 2, sink.analyses[0].Tasks)
	assert.Equal(t, 2, sink.analyses[0].CriticalTasks)
	assert.Equal(t, a.ProjectDuration, sink.analyses[0].DurationDays)
}

func TestCriticalPath_RejectsInvalidTask(t *testing.T) {
	e, sink := newEngine(t)
	bad := work("a", "2024-01-05", "2024-01-01", 0, nil)
	_, err := e.CriticalPath([]model.Task{bad})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalid))
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "a", ve.ID)
	assert.Empty(t, sink.analyses)
}

func TestCriticalPath_Cycle(t *testing.T) {
	e, _ := newEngine(t)
	_, err := e.CriticalPath([]model.Task{
		work("a", "2024-01-01", "2024-01-02", 0, nil, "b"),
		work("b", "2024-01-01", "2024-01-02", 0, nil, "a"),
	})
	assert.ErrorIs(t, err, graph.ErrCycle)
}

func TestConflicts_UsesConfiguredThresholds(t *testing.T) {
	sink := &recordingSink{}
	e, err := New(Config{Severity: conflict.Thresholds{Major: 1.1, Critical: 1.3}}, WithSink(sink))
	require.NoError(t, err)
	tasks := []model.Task{
		work("t1", "2024-01-01", "2024-01-01", 5, []string{"r"}),
		work("t2", "2024-01-01", "2024-01-01", 5, []string{"r"}),
	}
	cs, err := e.Conflicts(tasks, []model.Resource{{ID: "r", Capacity: 8}})
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, conflict.SeverityMajor, cs[0].Severity)
	require.Len(t, sink.conflicts, 1)
	require.Len(t, sink.conflicts[0], 1)
	assert.InDelta(t, 1.25, sink.conflicts[0][0].AllocationRatio, 1e-9)
	assert.Equal(t, 2, sink.conflicts[0][0].Tasks)
}

func TestConflicts_RecordedEvenWhenNone(t *testing.T) {
	e, sink := newEngine(t)
	cs, err := e.Conflicts(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, cs)
	require.Len(t, sink.conflicts, 1)
	assert.Empty(t, sink.conflicts[0])
}

func TestConflicts_RejectsNegativeCapacity(t *testing.T) {
	e, _ := newEngine(t)
	_, err := e.Conflicts(nil, []model.Resource{{ID: "r", Capacity: -1}})
	assert.ErrorIs(t, err, model.ErrInvalid)
}

func TestRepeatedResourceIsRejected(t *testing.T) {
	e, _ := newEngine(t)
	tasks := []model.Task{work("dup", "2025-01-01", "2025-01-01", 6, []string{"r", "r"})}
	rs := []model.Resource{{ID: "r", Capacity: 8}}

	_, err := e.Conflicts(tasks, rs)
	assert.ErrorIs(t, err, model.ErrInvalid)
	_, err = e.AutoSchedule(tasks, rs, day("2025-01-01"))
	assert.ErrorIs(t, err, model.ErrInvalid)
	_, err = e.Utilization(tasks, rs, day("2025-01-01"), day("2025-01-01"))
	assert.ErrorIs(t, err, model.ErrInvalid)
}

func TestUtilization_RecordsRates(t *testing.T) {
	e, sink := newEngine(t)
	tasks := []model.Task{work("t", "2024-01-01", "2024-01-02", 8, []string{"r"})}
	rep, err := e.Utilization(tasks, []model.Resource{{ID: "r", Capacity: 8}}, day("2024-01-01"), day("2024-01-02"))
	require.NoError(t, err)
	u, ok := rep.Resource("r")
	require.True(t, ok)
	assert.InDelta(t, 50.0, u.UtilizationRate, 1e-9)
	require.Len(t, sink.utilization, 1)
	assert.InDelta(t, 50.0, sink.utilization[0][0].Rate, 1e-9)
}

func TestAutoSchedule_ReportsUnresolved(t *testing.T) {
	log := &captureLogger{}
	e, sink := newEngine(t, WithLogger(log))
	tasks := []model.Task{
		work("ok", "2024-01-01", "2024-01-01", 4, []string{"r"}),
		work("huge", "2024-01-01", "2024-01-01", 20, []string{"r"}),
	}
	res, err := e.AutoSchedule(tasks, []model.Resource{{ID: "r", Capacity: 8}}, day("2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, []string{"huge"}, res.Unresolved)
	require.Len(t, sink.schedules, 1)
	assert.Equal(t, 2, sink.schedules[0].Tasks)
	assert.Equal(t, 1, sink.schedules[0].Unresolved)
	assert.Len(t, sink.schedules[0].ShiftDays, 2)
	require.Len(t, log.warns, 1)
	assert.Contains(t, log.warns[0], "huge")
}

type fixedLeveler struct {
	called     bool
	unresolved []string
}

func (f *fixedLeveler) Level(tasks []model.Task, _ []model.Resource, _ time.Time) (*leveling.Result, error) {
	f.called = true
	return &leveling.Result{Tasks: model.CloneTasks(tasks), Unresolved: f.unresolved}, nil
}

func TestAutoSchedule_CustomLeveler(t *testing.T) {
	lv := &fixedLeveler{unresolved: []string{"a"}}
	log := &captureLogger{}
	e, _ := newEngine(t, WithLeveler(lv), WithLogger(log))
	_, err := e.AutoSchedule([]model.Task{work("a", "2024-01-01", "2024-01-01", 1, nil)}, nil, day("2024-01-01"))
	require.NoError(t, err)
	assert.True(t, lv.called)
	require.Len(t, log.warns, 1)
	assert.Contains(t, log.warns[0], "task a")
	assert.NotContains(t, log.warns[0], "365")
}

func TestBaselineRoundTrip(t *testing.T) {
	e, sink := newEngine(t)
	tasks := []model.Task{
		work("a", "2024-01-01", "2024-01-03", 0, nil),
		work("b", "2024-01-04", "2024-01-06", 0, nil, "a"),
	}
	b, err := e.CreateBaseline(tasks, "v1")
	require.NoError(t, err)
	assert.Equal(t, fixedNow(), b.CreatedAt())

	tasks[1] = tasks[1].Shift(day("2024-01-10"))
	cs, err := e.Compare(tasks, b)
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.Equal(t, baseline.StatusOnTrack, cs[0].Status)
	assert.Equal(t, baseline.StatusBehind, cs[1].Status)
	require.Len(t, sink.comparisons, 1)
	assert.Equal(t, b.ID(), sink.comparisons[0].BaselineID)
	assert.Equal(t, 1, sink.comparisons[0].Statuses["behind"])
	assert.Equal(t, 1, sink.comparisons[0].Statuses["on-track"])

	_, err = e.Compare(tasks, nil)
	assert.Error(t, err)
}

func TestCompare_ZeroThresholdIsStrict(t *testing.T) {
	zero := 0
	strict, err := New(Config{VarianceThresholdDays: &zero}, WithClock(fixedNow))
	require.NoError(t, err)
	assert.Equal(t, 0, strict.Config().VarianceThreshold())
	lenient, _ := newEngine(t)

	tasks := []model.Task{work("a", "2024-01-01", "2024-01-03", 0, nil)}
	b, err := strict.CreateBaseline(tasks, "v1")
	require.NoError(t, err)
	slipped := []model.Task{tasks[0].Shift(day("2024-01-02"))}

	cs, err := strict.Compare(slipped, b)
	require.NoError(t, err)
	assert.Equal(t, baseline.StatusBehind, cs[0].Status)
	cs, err = lenient.Compare(slipped, b)
	require.NoError(t, err)
	assert.Equal(t, baseline.StatusOnTrack, cs[0].Status)
}

func TestSinkErrorsAreNotFatal(t *testing.T) {
	log := &captureLogger{}
	e, sink := newEngine(t, WithLogger(log))
	sink.err = errors.New("boom")
	_, err := e.CriticalPath([]model.Task{work("a", "2024-01-01", "2024-01-01", 0, nil)})
	require.NoError(t, err)
	require.Len(t, log.warns, 1)
	assert.Contains(t, log.warns[0], "boom")
}

func TestValidate_Report(t *testing.T) {
	log := &captureLogger{}
	e, _ := newEngine(t, WithLogger(log))
	tasks := []model.Task{
		work("a", "2024-01-01", "2024-01-02", 4, []string{"r", "ghost"}, "missing"),
		work("b", "2024-01-01", "2024-01-02", 0, nil, "c"),
		work("c", "2024-01-01", "2024-01-02", 0, nil, "b"),
	}
	rep, err := e.Validate(tasks, []model.Resource{{ID: "r", Capacity: 8}, {ID: "idle", Capacity: 0}})
	require.NoError(t, err)
	assert.False(t, rep.Clean())
	assert.False(t, rep.Schedulable())
	assert.Equal(t, []graph.Dangling{{TaskID: "a", DependencyID: "missing"}}, rep.DanglingDependencies)
	assert.Equal(t, []ResourceRef{{TaskID: "a", ResourceID: "ghost"}}, rep.DanglingResources)
	assert.Equal(t, []string{"idle"}, rep.ZeroCapacity)
	assert.Equal(t, [][]string{{"b", "c", "b"}}, rep.Cycles)
	require.Len(t, log.warns, 4)
	assert.Contains(t, log.warns[0], "missing")
	assert.Contains(t, log.warns[1], "ghost")
	assert.Contains(t, log.warns[2], "idle")
}

func TestValidate_Clean(t *testing.T) {
	e, _ := newEngine(t)
	rep, err := e.Validate([]model.Task{work("a", "2024-01-01", "2024-01-02", 4, []string{"r"})},
		[]model.Resource{{ID: "r", Capacity: 8}})
	require.NoError(t, err)
	assert.True(t, rep.Clean())
	assert.True(t, rep.Schedulable())
}

func TestValidate_DuplicateIDs(t *testing.T) {
	e, _ := newEngine(t)
	a := work("a", "2024-01-01", "2024-01-02", 0, nil)
	_, err := e.Validate([]model.Task{a, a}, nil)
	assert.ErrorIs(t, err, model.ErrInvalid)
}
