// Package conflict detects days on which resources are allocated beyond
// their capacity.
package conflict

import (
	"sort"
	"time"

	"github.com/kilianp07/resplan/core/model"
)

// tolerance absorbs floating point noise from spreading hours over days.
const tolerance = 1e-9

type bucketKey struct {
	resource string
	day      int64
}

type bucket struct {
	date  time.Time
	hours float64
	tasks []string
}

// Detect spreads each task's estimated hours evenly over its calendar days
// and returns one conflict per resource and day where the allocated hours
// exceed capacity. Resources missing from the roster are skipped and a
// resource listed twice on one task counts once. Results are ordered by
// roster position, then date.
func Detect(tasks []model.Task, resources []model.Resource, th Thresholds) []ResourceConflict {
	roster := model.IndexResources(resources)
	buckets := make(map[bucketKey]*bucket)

	for _, t := range tasks {
		daily := t.DailyHours()
		for _, rid := range t.ResourceSet() {
			if _, ok := roster[rid]; !ok {
				continue
			}
			model.EachDay(t.Start, t.End, func(d time.Time) {
				k := bucketKey{resource: rid, day: d.Unix()}
				b, ok := buckets[k]
				if !ok {
					b = &bucket{date: d}
					buckets[k] = b
				}
				b.hours += daily
				b.tasks = append(b.tasks, t.ID)
			})
		}
	}

	rank := make(map[string]int, len(resources))
	for i, r := range resources {
		if _, seen := rank[r.ID]; !seen {
			rank[r.ID] = i
		}
	}

	var out []ResourceConflict
	for k, b := range buckets {
		r := roster[k.resource]
		if b.hours <= r.Capacity+tolerance {
			continue
		}
		c := ResourceConflict{
			ResourceID:       r.ID,
			Date:             b.date,
			ConflictingTasks: b.tasks,
			AllocatedHours:   b.hours,
			Capacity:         r.Capacity,
			Severity:         th.Classify(b.hours, r.Capacity),
		}
		if r.Capacity > 0 {
			c.TotalAllocation = b.hours / r.Capacity * 100
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := rank[out[i].ResourceID], rank[out[j].ResourceID]
		if ri != rj {
			return ri < rj
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// MaxSeverity returns the most severe classification in conflicts, or the
// empty severity when there are none.
func MaxSeverity(conflicts []ResourceConflict) Severity {
	var worst Severity
	for _, c := range conflicts {
		if c.Severity.Rank() > worst.Rank() {
			worst = c.Severity
		}
	}
	return worst
}

// CountBySeverity tallies conflicts per severity.
func CountBySeverity(conflicts []ResourceConflict) map[Severity]int {
	counts := make(map[Severity]int, 3)
	for _, c := range conflicts {
		counts[c.Severity]++
	}
	return counts
}
