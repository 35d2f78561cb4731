package model

import "strings"

// TaskInput is the loosely typed form of a task as supplied by external
// callers. Only ID, Start and End are required; the optional fields take
// their defaults during normalization.
type TaskInput struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Type           string   `json:"type,omitempty" yaml:"type,omitempty"`
	Start          string   `json:"start" yaml:"start"`
	End            string   `json:"end" yaml:"end"`
	Progress       *float64 `json:"progress,omitempty" yaml:"progress,omitempty"`
	Dependencies   []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Resources      []string `json:"resources,omitempty" yaml:"resources,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty" yaml:"estimated_hours,omitempty"`
	Priority       string   `json:"priority,omitempty" yaml:"priority,omitempty"`
	Status         string   `json:"status,omitempty" yaml:"status,omitempty"`
}

// ResourceInput is the external form of a resource. A nil Capacity means the
// capacity was not declared.
type ResourceInput struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Capacity *float64 `json:"capacity,omitempty" yaml:"capacity,omitempty"`
}

// Normalize converts the input into a validated Task.
func (in TaskInput) Normalize() (Task, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return Task{}, taskErr("", "id", "is required")
	}
	start, err := ParseDay(in.Start)
	if err != nil {
		return Task{}, taskErr(id, "start", "%v", err)
	}
	end, err := ParseDay(in.End)
	if err != nil {
		return Task{}, taskErr(id, "end", "%v", err)
	}
	t := Task{
		ID:           id,
		Name:         in.Name,
		Type:         TaskType(strings.ToLower(strings.TrimSpace(in.Type))),
		Start:        start,
		End:          end,
		Dependencies: dedupe(in.Dependencies),
		Resources:    dedupe(in.Resources),
		Priority:     in.Priority,
		Status:       in.Status,
	}
	if t.Type == "" {
		t.Type = TypeTask
	}
	if t.Name == "" {
		t.Name = id
	}
	if in.Progress != nil {
		t.Progress = *in.Progress
	}
	if in.EstimatedHours != nil {
		t.EstimatedHours = *in.EstimatedHours
	}
	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Normalize converts the input into a validated Resource, applying
// defaultCapacity when none was declared.
func (in ResourceInput) Normalize(defaultCapacity float64) (Resource, error) {
	r := Resource{ID: strings.TrimSpace(in.ID), Name: in.Name, Capacity: defaultCapacity}
	if in.Capacity != nil {
		r.Capacity = *in.Capacity
	}
	if r.Name == "" {
		r.Name = r.ID
	}
	if err := r.Validate(); err != nil {
		return Resource{}, err
	}
	return r, nil
}

// NormalizeTasks normalizes every input and rejects duplicate ids.
func NormalizeTasks(in []TaskInput) ([]Task, error) {
	tasks := make([]Task, 0, len(in))
	for _, ti := range in {
		t, err := ti.Normalize()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := ValidateTasks(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// NormalizeResources normalizes every input and rejects duplicate ids.
func NormalizeResources(in []ResourceInput, defaultCapacity float64) ([]Resource, error) {
	resources := make([]Resource, 0, len(in))
	for _, ri := range in {
		r, err := ri.Normalize(defaultCapacity)
		if err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}
	if err := ValidateResources(resources); err != nil {
		return nil, err
	}
	return resources, nil
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
