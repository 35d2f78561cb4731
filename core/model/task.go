package model

import (
	"fmt"
	"time"
)

// TaskType distinguishes regular work items from displayed-only entries.
type TaskType string

const (
	TypeTask      TaskType = "task"
	TypeMilestone TaskType = "milestone"
	TypeProject   TaskType = "project"
)

// Valid reports whether t is a known task type. The empty type is read as
// TypeTask.
func (t TaskType) Valid() bool {
	switch t {
	case "", TypeTask, TypeMilestone, TypeProject:
		return true
	}
	return false
}

// IsWork reports whether tasks of this type take part in critical path
// analysis.
func (t TaskType) IsWork() bool { return t == "" || t == TypeTask }

// Task is a unit of scheduled work. Start and End are calendar days in UTC.
// Dependencies lists the ids of tasks that must finish before this task starts.
type Task struct {
	ID             string    `json:"id" yaml:"id"`
	Name           string    `json:"name" yaml:"name"`
	Type           TaskType  `json:"type" yaml:"type"`
	Start          time.Time `json:"start" yaml:"start"`
	End            time.Time `json:"end" yaml:"end"`
	Progress       float64   `json:"progress" yaml:"progress"`
	Dependencies   []string  `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Resources      []string  `json:"resources,omitempty" yaml:"resources,omitempty"`
	EstimatedHours float64   `json:"estimated_hours" yaml:"estimated_hours"`
	Priority       string    `json:"priority,omitempty" yaml:"priority,omitempty"`
	Status         string    `json:"status,omitempty" yaml:"status,omitempty"`
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	if t.Dependencies != nil {
		c.Dependencies = append([]string(nil), t.Dependencies...)
	}
	if t.Resources != nil {
		c.Resources = append([]string(nil), t.Resources...)
	}
	return c
}

// SpanDays is the nominal length of the task in days, never less than one.
func (t Task) SpanDays() int {
	d := DaysBetween(t.Start, t.End)
	if d < 1 {
		return 1
	}
	return d
}

// CalendarDays is the number of calendar days the task occupies, counting
// both the start and the end day.
func (t Task) CalendarDays() int {
	d := DaysBetween(t.Start, t.End) + 1
	if d < 1 {
		return 1
	}
	return d
}

// DailyHours spreads EstimatedHours evenly over the calendar days of the task.
func (t Task) DailyHours() float64 {
	return t.EstimatedHours / float64(t.CalendarDays())
}

// ActiveOn reports whether day falls within [Start, End].
func (t Task) ActiveOn(day time.Time) bool {
	day = Day(day)
	return !day.Before(Day(t.Start)) && !day.After(Day(t.End))
}

// Shift returns a copy of the task moved to start on the given day with its
// length preserved.
func (t Task) Shift(start time.Time) Task {
	c := t.Clone()
	length := DaysBetween(t.Start, t.End)
	c.Start = Day(start)
	c.End = AddDays(c.Start, length)
	return c
}

// Uses reports whether the task requires the given resource.
func (t Task) Uses(resourceID string) bool {
	for _, r := range t.Resources {
		if r == resourceID {
			return true
		}
	}
	return false
}

// ResourceSet returns the task's resource ids with repeats removed, in
// first-seen order.
func (t Task) ResourceSet() []string {
	if len(t.Resources) < 2 {
		return t.Resources
	}
	seen := make(map[string]bool, len(t.Resources))
	out := make([]string, 0, len(t.Resources))
	for _, r := range t.Resources {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

func (t Task) String() string {
	return fmt.Sprintf("%s[%s..%s]", t.ID, FormatDay(t.Start), FormatDay(t.End))
}

// CloneTasks deep-copies a task slice.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// IndexTasks maps task ids to their position in tasks.
func IndexTasks(tasks []Task) map[string]int {
	idx := make(map[string]int, len(tasks))
	for i, t := range tasks {
		idx[t.ID] = i
	}
	return idx
}
