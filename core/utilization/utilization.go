// Package utilization aggregates resource allocation against capacity over a
// date window.
package utilization

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/resplan/core/model"
)

// TaskAllocation is the share of one task that falls inside the window.
type TaskAllocation struct {
	TaskID      string  `json:"task_id"`
	OverlapDays int     `json:"overlap_days"`
	Hours       float64 `json:"hours"`
}

// Resource is the utilization of a single resource. UtilizationRate is in
// percent and is 0 when the resource has no capacity.
type Resource struct {
	ResourceID      string           `json:"resource_id"`
	TotalCapacity   float64          `json:"total_capacity"`
	TotalAllocated  float64          `json:"total_allocated"`
	UtilizationRate float64          `json:"utilization_rate"`
	Tasks           []TaskAllocation `json:"tasks"`
}

// Summary describes the spread of utilization across resources.
type Summary struct {
	MeanRate   float64  `json:"mean_rate"`
	StdDevRate float64  `json:"stddev_rate"`
	MaxRate    float64  `json:"max_rate"`
	Overloaded []string `json:"overloaded"`
}

// Report is the utilization of every roster resource over [From, To].
type Report struct {
	From      time.Time  `json:"from"`
	To        time.Time  `json:"to"`
	Days      int        `json:"days"`
	Resources []Resource `json:"resources"`
	Summary   Summary    `json:"summary"`
}

// Resource returns the entry for the given resource id.
func (r *Report) Resource(id string) (Resource, bool) {
	for _, u := range r.Resources {
		if u.ResourceID == id {
			return u, true
		}
	}
	return Resource{}, false
}

// Calculate pro-rates each task's estimated hours by the number of its
// calendar days inside the window. Tasks that do not intersect the window
// are left out of the breakdown.
func Calculate(tasks []model.Task, resources []model.Resource, from, to time.Time) (*Report, error) {
	from, to = model.Day(from), model.Day(to)
	if to.Before(from) {
		return nil, fmt.Errorf("utilization window ends %s before it starts %s", model.FormatDay(to), model.FormatDay(from))
	}
	days := model.DaysBetween(from, to) + 1

	rep := &Report{From: from, To: to, Days: days, Resources: make([]Resource, 0, len(resources))}
	pos := make(map[string]int, len(resources))
	for _, r := range resources {
		if _, dup := pos[r.ID]; dup {
			continue
		}
		pos[r.ID] = len(rep.Resources)
		rep.Resources = append(rep.Resources, Resource{
			ResourceID:    r.ID,
			TotalCapacity: r.Capacity * float64(days),
			Tasks:         []TaskAllocation{},
		})
	}

	for _, t := range tasks {
		overlap := overlapDays(t, from, to)
		if overlap == 0 {
			continue
		}
		hours := t.EstimatedHours * float64(overlap) / float64(t.CalendarDays())
		for _, rid := range t.ResourceSet() {
			i, ok := pos[rid]
			if !ok {
				continue
			}
			u := &rep.Resources[i]
			u.TotalAllocated += hours
			u.Tasks = append(u.Tasks, TaskAllocation{TaskID: t.ID, OverlapDays: overlap, Hours: hours})
		}
	}

	for i := range rep.Resources {
		u := &rep.Resources[i]
		if u.TotalCapacity > 0 {
			u.UtilizationRate = u.TotalAllocated / u.TotalCapacity * 100
		}
	}
	rep.Summary = summarize(rep.Resources)
	return rep, nil
}

func overlapDays(t model.Task, from, to time.Time) int {
	start, end := model.Day(t.Start), model.Day(t.End)
	if start.Before(from) {
		start = from
	}
	if end.After(to) {
		end = to
	}
	if end.Before(start) {
		return 0
	}
	return model.DaysBetween(start, end) + 1
}

func summarize(us []Resource) Summary {
	s := Summary{Overloaded: []string{}}
	if len(us) == 0 {
		return s
	}
	rates := make([]float64, len(us))
	for i, u := range us {
		rates[i] = u.UtilizationRate
		if u.UtilizationRate > 100 {
			s.Overloaded = append(s.Overloaded, u.ResourceID)
		}
	}
	s.MeanRate = stat.Mean(rates, nil)
	s.MaxRate = floats.Max(rates)
	if len(rates) > 1 {
		s.StdDevRate = stat.PopStdDev(rates, nil)
	}
	return s
}
