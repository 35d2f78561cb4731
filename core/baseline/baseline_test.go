package baseline

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/resplan/core/model"
)

func day(s string) time.Time {
	d, err := model.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func task(id, start, end string, progress float64) model.Task {
	return model.Task{ID: id, Name: id, Type: model.TypeTask, Start: day(start), End: day(end), Progress: progress, Resources: []string{"r"}}
}

var captured = time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC)

func TestCompare_AgainstOwnBaseline(t *testing.T) {
	tasks := []model.Task{task("a", "2025-01-06", "2025-01-10", 10), task("b", "2025-01-13", "2025-01-14", 0)}
	b := Create(tasks, "x", captured)

	cs := Compare(tasks, b)
	require.Len(t, cs, 2)
	for _, c := range cs {
		assert.Equal(t, StatusOnTrack, c.Status, c.TaskID)
		assert.Equal(t, Variance{}, c.Variance, c.TaskID)
		require.NotNil(t, c.Baseline)
	}
}

func TestCreate_DeepCopies(t *testing.T) {
	tasks := []model.Task{task("a", "2025-01-06", "2025-01-10", 10)}
	b := Create(tasks, "v1", captured)
	tasks[0].Name = "renamed"
	tasks[0].Resources[0] = "other"

	got, ok := b.Task("a")
	require.True(t, ok)
	assert.Equal(t, "a", got.Name)
	assert.Equal(t, "r", got.Resources[0])

	got.Name = "mutated"
	again, _ := b.Task("a")
	assert.Equal(t, "a", again.Name)
	assert.NotEmpty(t, b.ID())
	assert.Equal(t, "v1", b.Name())
	assert.Equal(t, captured, b.CreatedAt())
}

func TestCompare_Statuses(t *testing.T) {
	base := Create([]model.Task{
		task("late", "2025-01-06", "2025-01-10", 50),
		task("early", "2025-01-06", "2025-01-10", 0),
		task("slight", "2025-01-06", "2025-01-10", 0),
		task("renamed", "2025-01-06", "2025-01-10", 0),
		task("longer", "2025-01-06", "2025-01-10", 0),
		task("dropped", "2025-01-06", "2025-01-10", 0),
	}, "plan", captured)

	renamed := task("renamed", "2025-01-06", "2025-01-10", 0)
	renamed.Name = "Renamed task"
	current := []model.Task{
		task("late", "2025-01-09", "2025-01-13", 60),
		task("early", "2025-01-01", "2025-01-05", 0),
		task("slight", "2025-01-08", "2025-01-12", 0),
		renamed,
		task("longer", "2025-01-06", "2025-01-14", 0),
		task("new", "2025-01-06", "2025-01-10", 0),
	}
	cs := Compare(current, base)
	require.Len(t, cs, len(current))

	want := map[string]Status{
		"late":    StatusBehind,
		"early":   StatusAhead,
		"slight":  StatusOnTrack,
		"renamed": StatusScopeChanged,
		"longer":  StatusScopeChanged,
		"new":     StatusScopeChanged,
	}
	for _, c := range cs {
		assert.Equal(t, want[c.TaskID], c.Status, c.TaskID)
	}
	assert.Equal(t, Variance{Start: 3, End: 3, Progress: 10}, cs[0].Variance)
	assert.Equal(t, Variance{Start: -5, End: -5}, cs[1].Variance)
	assert.Nil(t, cs[5].Baseline)
	assert.Equal(t, Variance{}, cs[5].Variance)

	tally := Tally(cs)
	assert.Equal(t, 3, tally[StatusScopeChanged])
	assert.Equal(t, []string{"dropped"}, Missing(current, base))
}

func TestCompare_NilBaseline(t *testing.T) {
	current := []model.Task{task("a", "2025-01-06", "2025-01-10", 0)}
	cs := Compare(current, nil)
	require.NotNil(t, cs)
	assert.Empty(t, cs)
	assert.Empty(t, Missing(current, nil))
}

func TestCompareWithThreshold(t *testing.T) {
	base := Create([]model.Task{task("a", "2025-01-06", "2025-01-10", 0)}, "plan", captured)
	current := []model.Task{task("a", "2025-01-08", "2025-01-12", 0)}
	assert.Equal(t, StatusOnTrack, CompareWithThreshold(current, base, 2)[0].Status)
	assert.Equal(t, StatusBehind, CompareWithThreshold(current, base, 1)[0].Status)
}

func TestBaselineJSONRoundTrip(t *testing.T) {
	b := Create([]model.Task{task("a", "2025-01-06", "2025-01-10", 0)}, "plan", captured)
	data, err := json.Marshal(b)
	require.NoError(t, err)

	var back Baseline
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, b.ID(), back.ID())
	assert.Equal(t, b.Summary(), back.Summary())
	_, ok := back.Task("a")
	assert.True(t, ok)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer func() { _ = s.Close() }()

	older := Create(nil, "first", captured)
	newer := Create(nil, "second", captured.Add(time.Hour))
	require.NoError(t, s.Save(ctx, newer))
	require.NoError(t, s.Save(ctx, older))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Name)

	got, err := s.Get(ctx, newer.ID())
	require.NoError(t, err)
	assert.Equal(t, "second", got.Name())

	require.NoError(t, s.Delete(ctx, newer.ID()))
	_, err = s.Get(ctx, newer.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "nope"), ErrNotFound)
}
