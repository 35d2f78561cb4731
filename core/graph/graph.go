package graph

import (
	"github.com/kilianp07/resplan/core/model"
)

// Dangling is a dependency reference to a task that is not in the graph.
type Dangling struct {
	TaskID       string `json:"task_id"`
	DependencyID string `json:"dependency_id"`
}

// Graph is an immutable view of task dependencies.
type Graph struct {
	ids      []string
	tasks    map[string]model.Task
	preds    map[string][]string
	succs    map[string][]string
	dangling []Dangling
}

// Build indexes tasks and their dependency edges. Input order is kept and
// drives every traversal, so results are deterministic for a given slice.
func Build(tasks []model.Task) *Graph {
	g := &Graph{
		ids:   make([]string, 0, len(tasks)),
		tasks: make(map[string]model.Task, len(tasks)),
		preds: make(map[string][]string, len(tasks)),
		succs: make(map[string][]string, len(tasks)),
	}
	for _, t := range tasks {
		if _, dup := g.tasks[t.ID]; dup {
			continue
		}
		g.ids = append(g.ids, t.ID)
		g.tasks[t.ID] = t
	}
	for _, id := range g.ids {
		seen := make(map[string]bool)
		for _, dep := range g.tasks[id].Dependencies {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			if _, ok := g.tasks[dep]; !ok {
				g.dangling = append(g.dangling, Dangling{TaskID: id, DependencyID: dep})
				continue
			}
			g.preds[id] = append(g.preds[id], dep)
			g.succs[dep] = append(g.succs[dep], id)
		}
	}
	return g
}

// Len returns the number of tasks in the graph.
func (g *Graph) Len() int { return len(g.ids) }

// IDs returns task ids in input order.
func (g *Graph) IDs() []string { return append([]string(nil), g.ids...) }

// Task returns the task with the given id.
func (g *Graph) Task(id string) (model.Task, bool) {
	t, ok := g.tasks[id]
	return t, ok
}

// Predecessors returns the resolved dependencies of id.
func (g *Graph) Predecessors(id string) []string { return g.preds[id] }

// Successors returns the tasks that depend on id.
func (g *Graph) Successors(id string) []string { return g.succs[id] }

// Dangling returns dependency references that did not resolve.
func (g *Graph) Dangling() []Dangling { return append([]Dangling(nil), g.dangling...) }

const (
	unvisited = iota
	visiting
	done
)

type frame struct {
	id   string
	next int
}

// TopoSort orders tasks so that every dependency precedes its dependents.
// It runs a depth-first search with an explicit stack; meeting a task that
// is still being visited means a cycle and the sort fails.
func (g *Graph) TopoSort() ([]string, error) {
	state := make(map[string]int, len(g.ids))
	order := make([]string, 0, len(g.ids))
	for _, root := range g.ids {
		if state[root] != unvisited {
			continue
		}
		stack := []frame{{id: root}}
		state[root] = visiting
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			preds := g.preds[top.id]
			if top.next < len(preds) {
				dep := preds[top.next]
				top.next++
				switch state[dep] {
				case visiting:
					return nil, cycleFromStack(stack, dep)
				case unvisited:
					state[dep] = visiting
					stack = append(stack, frame{id: dep})
				}
				continue
			}
			state[top.id] = done
			order = append(order, top.id)
			stack = stack[:len(stack)-1]
		}
	}
	return order, nil
}

// cycleFromStack extracts the cycle closed by an edge back to entry. The
// stack walks from dependents towards dependencies, so the path is reversed
// to read in execution order.
func cycleFromStack(stack []frame, entry string) *CycleError {
	start := 0
	for i, f := range stack {
		if f.id == entry {
			start = i
			break
		}
	}
	path := make([]string, 0, len(stack)-start+1)
	for i := len(stack) - 1; i >= start; i-- {
		path = append(path, stack[i].id)
	}
	path = append([]string{entry}, path...)
	return &CycleError{Entry: entry, Path: path}
}
