package cpm

import "time"

// Analysis holds the complete critical path analysis.
type Analysis struct {
	Nodes           []Node    `json:"nodes"` // topological order
	CriticalPath    []string  `json:"critical_path"`
	ProjectDuration int       `json:"project_duration_days"`
	ProjectStart    time.Time `json:"project_start"`
	ProjectEnd      time.Time `json:"project_end"`
}

// Node holds the scheduling window of a single task.
type Node struct {
	TaskID         string    `json:"task_id"`
	EarliestStart  time.Time `json:"earliest_start"`
	EarliestFinish time.Time `json:"earliest_finish"`
	LatestStart    time.Time `json:"latest_start"`
	LatestFinish   time.Time `json:"latest_finish"`
	TotalFloat     int       `json:"total_float_days"`
	IsCritical     bool      `json:"is_critical"`
}

// Node returns the node computed for the given task.
func (a *Analysis) Node(taskID string) (Node, bool) {
	for _, n := range a.Nodes {
		if n.TaskID == taskID {
			return n, true
		}
	}
	return Node{}, false
}

// IsCritical reports whether the task is on the critical path.
func (a *Analysis) IsCritical(taskID string) bool {
	n, ok := a.Node(taskID)
	return ok && n.IsCritical
}
