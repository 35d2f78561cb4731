// Package cpm implements the critical path method over task dependencies.
package cpm

import (
	"fmt"
	"time"

	"github.com/kilianp07/resplan/core/graph"
	"github.com/kilianp07/resplan/core/model"
)

// Analyze performs critical path analysis on the tasks of type task; other
// task types are left out. Every task lasts at least one day. Dependencies
// on tasks outside the analysed set impose no constraint. now is reported as
// project start and end when there is nothing to analyse.
func Analyze(tasks []model.Task, now time.Time) (*Analysis, error) {
	var work []model.Task
	for _, t := range tasks {
		if t.Type.IsWork() {
			work = append(work, t)
		}
	}
	if len(work) == 0 {
		day := model.Day(now)
		return &Analysis{Nodes: []Node{}, CriticalPath: []string{}, ProjectStart: day, ProjectEnd: day}, nil
	}

	g := graph.Build(work)
	order, err := g.TopoSort()
	if err != nil {
		return nil, fmt.Errorf("critical path: %w", err)
	}

	nodes := make(map[string]*Node, len(order))
	span := make(map[string]int, len(order))
	for _, id := range order {
		t, _ := g.Task(id)
		span[id] = t.SpanDays()
		nodes[id] = &Node{TaskID: id}
	}

	// Forward pass: ES = max(EF of predecessors), or the task's own start.
	var projectStart, projectEnd time.Time
	for i, id := range order {
		n := nodes[id]
		preds := g.Predecessors(id)
		if len(preds) == 0 {
			t, _ := g.Task(id)
			n.EarliestStart = model.Day(t.Start)
		} else {
			for j, p := range preds {
				if ef := nodes[p].EarliestFinish; j == 0 || ef.After(n.EarliestStart) {
					n.EarliestStart = ef
				}
			}
		}
		n.EarliestFinish = model.AddDays(n.EarliestStart, span[id])
		if i == 0 || n.EarliestStart.Before(projectStart) {
			projectStart = n.EarliestStart
		}
		if i == 0 || n.EarliestFinish.After(projectEnd) {
			projectEnd = n.EarliestFinish
		}
	}

	// Backward pass in reverse topological order: LF = min(LS of successors).
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		n := nodes[id]
		succs := g.Successors(id)
		if len(succs) == 0 {
			n.LatestFinish = projectEnd
		} else {
			for j, s := range succs {
				if ls := nodes[s].LatestStart; j == 0 || ls.Before(n.LatestFinish) {
					n.LatestFinish = ls
				}
			}
		}
		n.LatestStart = model.AddDays(n.LatestFinish, -span[id])
		n.TotalFloat = model.DaysBetween(n.EarliestStart, n.LatestStart)
		n.IsCritical = n.TotalFloat <= 0
	}

	a := &Analysis{
		Nodes:           make([]Node, 0, len(order)),
		CriticalPath:    []string{},
		ProjectDuration: model.DaysBetween(projectStart, projectEnd),
		ProjectStart:    projectStart,
		ProjectEnd:      projectEnd,
	}
	for _, id := range order {
		a.Nodes = append(a.Nodes, *nodes[id])
		if nodes[id].IsCritical {
			a.CriticalPath = append(a.CriticalPath, id)
		}
	}
	return a, nil
}
