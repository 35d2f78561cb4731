package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(f float64) *float64 { return &f }

func TestDayArithmetic(t *testing.T) {
	a := day("2025-03-28")
	b := day("2025-04-02")
	assert.Equal(t, 5, DaysBetween(a, b))
	assert.Equal(t, -5, DaysBetween(b, a))
	assert.Equal(t, b, AddDays(a, 5))
	local := time.Date(2025, 3, 28, 23, 30, 0, 0, time.FixedZone("x", 2*3600))
	assert.Equal(t, a, Day(local))

	var days []string
	EachDay(a, AddDays(a, 2), func(d time.Time) { days = append(days, FormatDay(d)) })
	assert.Equal(t, []string{"2025-03-28", "2025-03-29", "2025-03-30"}, days)
}

func TestParseDayLayouts(t *testing.T) {
	for _, s := range []string{"2025-01-06", "2025-01-06T10:00:00Z", "2025/01/06"} {
		got, err := ParseDay(s)
		require.NoError(t, err, s)
		assert.Equal(t, "2025-01-06", FormatDay(got))
	}
	_, err := ParseDay("06.01.2025")
	assert.Error(t, err)
}

func TestTaskDurations(t *testing.T) {
	single := Task{ID: "a", Start: day("2025-01-06"), End: day("2025-01-06"), EstimatedHours: 8}
	assert.Equal(t, 1, single.SpanDays())
	assert.Equal(t, 1, single.CalendarDays())
	assert.Equal(t, 8.0, single.DailyHours())

	week := Task{ID: "b", Start: day("2025-01-06"), End: day("2025-01-10"), EstimatedHours: 40}
	assert.Equal(t, 4, week.SpanDays())
	assert.Equal(t, 5, week.CalendarDays())
	assert.Equal(t, 8.0, week.DailyHours())
	assert.True(t, week.ActiveOn(day("2025-01-10")))
	assert.False(t, week.ActiveOn(day("2025-01-11")))
}

func TestShiftPreservesLength(t *testing.T) {
	task := Task{ID: "a", Start: day("2025-01-06"), End: day("2025-01-08"), Resources: []string{"r"}}
	moved := task.Shift(day("2025-02-01"))
	assert.Equal(t, day("2025-02-03"), moved.End)
	moved.Resources[0] = "changed"
	assert.Equal(t, "r", task.Resources[0])
}

func TestCloneIsDeep(t *testing.T) {
	tasks := []Task{{ID: "a", Dependencies: []string{"x"}}}
	c := CloneTasks(tasks)
	c[0].Dependencies[0] = "y"
	assert.Equal(t, "x", tasks[0].Dependencies[0])
}

func TestTaskRejectsRepeatedResource(t *testing.T) {
	task := Task{ID: "a", Type: TypeTask, Start: day("2025-01-01"), End: day("2025-01-01"), Resources: []string{"r", "q", "r"}}
	err := task.Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "resources", verr.Field)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, []string{"r", "q"}, task.ResourceSet())
}

func TestTaskInputNormalize(t *testing.T) {
	in := TaskInput{
		ID:           " build ",
		Start:        "2025-01-06",
		End:          "2025-01-09",
		Dependencies: []string{"a", "a", " ", "b"},
		Progress:     ptr(40),
	}
	task, err := in.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "build", task.ID)
	assert.Equal(t, "build", task.Name)
	assert.Equal(t, TypeTask, task.Type)
	assert.Equal(t, []string{"a", "b"}, task.Dependencies)
	assert.Equal(t, 40.0, task.Progress)
	assert.Zero(t, task.EstimatedHours)
}

func TestTaskInputRejects(t *testing.T) {
	cases := map[string]TaskInput{
		"missing id":     {Start: "2025-01-01", End: "2025-01-01"},
		"bad start":      {ID: "a", Start: "soon", End: "2025-01-01"},
		"end before":     {ID: "a", Start: "2025-01-05", End: "2025-01-01"},
		"progress":       {ID: "a", Start: "2025-01-01", End: "2025-01-01", Progress: ptr(120)},
		"negative hours": {ID: "a", Start: "2025-01-01", End: "2025-01-01", EstimatedHours: ptr(-1)},
		"type":           {ID: "a", Type: "epic", Start: "2025-01-01", End: "2025-01-01"},
	}
	for name, in := range cases {
		_, err := in.Normalize()
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}

func TestResourceDefaults(t *testing.T) {
	rs, err := NormalizeResources([]ResourceInput{
		{ID: "alice"},
		{ID: "bob", Capacity: ptr(0)},
	}, DefaultCapacityHours)
	require.NoError(t, err)
	assert.Equal(t, 8.0, rs[0].Capacity)
	assert.Equal(t, 0.0, rs[1].Capacity)
	assert.Equal(t, "alice", rs[0].Name)

	_, err = NormalizeResources([]ResourceInput{{ID: "a"}, {ID: "a"}}, 8)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "id", verr.Field)
}

func TestNormalizeTasksDuplicate(t *testing.T) {
	_, err := NormalizeTasks([]TaskInput{
		{ID: "a", Start: "2025-01-01", End: "2025-01-02"},
		{ID: "a", Start: "2025-01-01", End: "2025-01-02"},
	})
	assert.ErrorIs(t, err, ErrInvalid)
}
