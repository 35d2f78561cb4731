package engine

import (
	"errors"

	"github.com/kilianp07/resplan/core/graph"
	"github.com/kilianp07/resplan/core/model"
)

// ResourceRef is a task assignment naming a resource that is not on the
// roster.
type ResourceRef struct {
	TaskID     string `json:"task_id"`
	ResourceID string `json:"resource_id"`
}

// Report lists structural problems in a project. None of them prevents
// analysis except cycles: dangling references are ignored by every
// analyzer and zero-capacity resources conflict on every booked day.
type Report struct {
	DanglingDependencies []graph.Dangling `json:"dangling_dependencies"`
	DanglingResources    []ResourceRef    `json:"dangling_resources"`
	ZeroCapacity         []string         `json:"zero_capacity"`
	Cycles               [][]string       `json:"cycles"`
}

// Clean reports whether no problem was found.
func (r *Report) Clean() bool {
	return len(r.DanglingDependencies) == 0 && len(r.DanglingResources) == 0 &&
		len(r.ZeroCapacity) == 0 && len(r.Cycles) == 0
}

// Schedulable reports whether the dependency graph is acyclic.
func (r *Report) Schedulable() bool { return len(r.Cycles) == 0 }

// Validate checks field level validity, returning a *model.ValidationError
// for the first offending entity, and then inspects the project structure.
func (e *Engine) Validate(tasks []model.Task, resources []model.Resource) (*Report, error) {
	if err := validate(tasks, resources); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			e.log.Debugf("invalid %s %q: %s", ve.Entity, ve.ID, ve.Msg)
		}
		return nil, err
	}
	g := graph.Build(tasks)
	rep := &Report{
		DanglingDependencies: g.Dangling(),
		DanglingResources:    []ResourceRef{},
		ZeroCapacity:         []string{},
		Cycles:               g.Cycles(),
	}
	if rep.DanglingDependencies == nil {
		rep.DanglingDependencies = []graph.Dangling{}
	}
	if rep.Cycles == nil {
		rep.Cycles = [][]string{}
	}
	roster := model.IndexResources(resources)
	for _, t := range tasks {
		for _, rid := range t.Resources {
			if _, ok := roster[rid]; !ok {
				rep.DanglingResources = append(rep.DanglingResources, ResourceRef{TaskID: t.ID, ResourceID: rid})
			}
		}
	}
	for _, r := range resources {
		if r.Capacity == 0 {
			rep.ZeroCapacity = append(rep.ZeroCapacity, r.ID)
		}
	}
	for _, d := range rep.DanglingDependencies {
		e.log.Warnf("task %s depends on unknown task %s", d.TaskID, d.DependencyID)
	}
	for _, ref := range rep.DanglingResources {
		e.log.Warnf("task %s is assigned unknown resource %s", ref.TaskID, ref.ResourceID)
	}
	for _, id := range rep.ZeroCapacity {
		e.log.Warnf("resource %s has no capacity", id)
	}
	for _, c := range rep.Cycles {
		e.log.Warnf("dependency cycle: %v", c)
	}
	return rep, nil
}
