// Package leveling computes start dates that honour both dependency order
// and resource capacity.
package leveling

import (
	"time"

	"github.com/kilianp07/resplan/core/model"
)

// DefaultSearchLimit bounds the day-by-day search for a free slot.
const DefaultSearchLimit = 365

// Leveler reschedules a task set. Implementations must not mutate their
// inputs and must fail on dependency cycles.
type Leveler interface {
	Level(tasks []model.Task, resources []model.Resource, projectStart time.Time) (*Result, error)
}

// Placement records where a task ended up.
type Placement struct {
	TaskID     string    `json:"task_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	ShiftDays  int       `json:"shift_days"` // new start minus original start
	Unresolved bool      `json:"unresolved,omitempty"`
}

// Result is a rescheduled task set. Tasks keeps the input order; Order is
// the sequence in which tasks were placed.
type Result struct {
	Tasks      []model.Task `json:"tasks"`
	Order      []string     `json:"order"`
	Placements []Placement  `json:"placements"`
	Unresolved []string     `json:"unresolved"`
}

// Placement returns the placement of the given task.
func (r *Result) Placement(taskID string) (Placement, bool) {
	for _, p := range r.Placements {
		if p.TaskID == taskID {
			return p, true
		}
	}
	return Placement{}, false
}

// Makespan is the number of calendar days from the earliest start to the
// latest end of the rescheduled tasks, both included.
func (r *Result) Makespan() int {
	if len(r.Tasks) == 0 {
		return 0
	}
	first, last := r.Tasks[0].Start, r.Tasks[0].End
	for _, t := range r.Tasks[1:] {
		if t.Start.Before(first) {
			first = t.Start
		}
		if t.End.After(last) {
			last = t.End
		}
	}
	return model.DaysBetween(first, last) + 1
}
