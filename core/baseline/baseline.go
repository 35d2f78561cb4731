// Package baseline freezes schedules and measures later schedules against
// them.
package baseline

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/resplan/core/model"
)

// Baseline is an immutable snapshot of a task list. Accessors hand out
// copies so a stored baseline can never drift.
type Baseline struct {
	id        string
	name      string
	createdAt time.Time
	tasks     []model.Task
	index     map[string]int
}

// Create deep-copies tasks into a new baseline with a random id.
func Create(tasks []model.Task, name string, now time.Time) *Baseline {
	return Restore(uuid.NewString(), name, now, tasks)
}

// Restore rebuilds a baseline from persisted fields.
func Restore(id, name string, createdAt time.Time, tasks []model.Task) *Baseline {
	cp := model.CloneTasks(tasks)
	if cp == nil {
		cp = []model.Task{}
	}
	return &Baseline{id: id, name: name, createdAt: createdAt.UTC(), tasks: cp, index: model.IndexTasks(cp)}
}

func (b *Baseline) ID() string           { return b.id }
func (b *Baseline) Name() string         { return b.name }
func (b *Baseline) CreatedAt() time.Time { return b.createdAt }
func (b *Baseline) Len() int             { return len(b.tasks) }

// Tasks returns a copy of the captured tasks.
func (b *Baseline) Tasks() []model.Task { return model.CloneTasks(b.tasks) }

// Task returns a copy of the captured task with the given id.
func (b *Baseline) Task(id string) (model.Task, bool) {
	i, ok := b.index[id]
	if !ok {
		return model.Task{}, false
	}
	return b.tasks[i].Clone(), true
}

// Summary describes a baseline without its tasks.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	TaskCount int       `json:"task_count"`
}

// Summary returns the baseline header.
func (b *Baseline) Summary() Summary {
	return Summary{ID: b.id, Name: b.name, CreatedAt: b.createdAt, TaskCount: len(b.tasks)}
}

type record struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	CreatedAt time.Time    `json:"created_at"`
	Tasks     []model.Task `json:"tasks"`
}

// MarshalJSON implements json.Marshaler.
func (b *Baseline) MarshalJSON() ([]byte, error) {
	return json.Marshal(record{ID: b.id, Name: b.name, CreatedAt: b.createdAt, Tasks: b.tasks})
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Baseline) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*b = *Restore(r.ID, r.Name, r.CreatedAt, r.Tasks)
	return nil
}
