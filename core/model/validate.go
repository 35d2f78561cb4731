package model

// Validate checks the invariants of a single task.
func (t Task) Validate() error {
	if t.ID == "" {
		return taskErr("", "id", "is required")
	}
	if !t.Type.Valid() {
		return taskErr(t.ID, "type", "unknown type %q", t.Type)
	}
	if t.Start.IsZero() || t.End.IsZero() {
		return taskErr(t.ID, "dates", "start and end are required")
	}
	if Day(t.End).Before(Day(t.Start)) {
		return taskErr(t.ID, "end", "%s is before start %s", FormatDay(t.End), FormatDay(t.Start))
	}
	if t.Progress < 0 || t.Progress > 100 {
		return taskErr(t.ID, "progress", "%.1f outside [0,100]", t.Progress)
	}
	if t.EstimatedHours < 0 {
		return taskErr(t.ID, "estimated_hours", "must not be negative")
	}
	seen := make(map[string]bool, len(t.Resources))
	for _, r := range t.Resources {
		if seen[r] {
			return taskErr(t.ID, "resources", "duplicate resource %q", r)
		}
		seen[r] = true
	}
	return nil
}

// Validate checks the invariants of a single resource.
func (r Resource) Validate() error {
	if r.ID == "" {
		return resourceErr("", "id", "is required")
	}
	if r.Capacity < 0 {
		return resourceErr(r.ID, "capacity", "must not be negative")
	}
	return nil
}

// ValidateTasks validates every task and rejects duplicate ids. Dependency
// and resource references are not checked here.
func ValidateTasks(tasks []Task) error {
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return err
		}
		if seen[t.ID] {
			return taskErr(t.ID, "id", "duplicate id")
		}
		seen[t.ID] = true
	}
	return nil
}

// ValidateResources validates every resource and rejects duplicate ids.
func ValidateResources(resources []Resource) error {
	seen := make(map[string]bool, len(resources))
	for _, r := range resources {
		if err := r.Validate(); err != nil {
			return err
		}
		if seen[r.ID] {
			return resourceErr(r.ID, "id", "duplicate id")
		}
		seen[r.ID] = true
	}
	return nil
}
