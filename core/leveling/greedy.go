package leveling

import (
	"fmt"
	"time"

	"github.com/kilianp07/resplan/core/graph"
	"github.com/kilianp07/resplan/core/model"
)

const epsilon = 1e-9

// Greedy places tasks one at a time in topological order. Each task starts
// on the first day, no earlier than the project start and the end of its
// dependencies, on which every resource it needs has room for its daily
// hours over its whole span. Later tasks see earlier placements. The result
// is feasible but its makespan is not guaranteed to be minimal.
//
// When no such day is found within SearchLimit days the task is placed at
// its dependency-feasible start and reported as unresolved.
type Greedy struct {
	SearchLimit int
}

// NewGreedy returns a Greedy leveler with the given search bound; values
// below 1 select DefaultSearchLimit.
func NewGreedy(limit int) Greedy {
	if limit < 1 {
		limit = DefaultSearchLimit
	}
	return Greedy{SearchLimit: limit}
}

// ledger accumulates placed hours per resource and day.
type ledger map[string]map[int64]float64

func (l ledger) load(resource string, d time.Time) float64 {
	return l[resource][d.Unix()]
}

func (l ledger) add(resource string, t model.Task) {
	days, ok := l[resource]
	if !ok {
		days = make(map[int64]float64)
		l[resource] = days
	}
	daily := t.DailyHours()
	model.EachDay(t.Start, t.End, func(d time.Time) {
		days[d.Unix()] += daily
	})
}

// Level implements Leveler.
func (g Greedy) Level(tasks []model.Task, resources []model.Resource, projectStart time.Time) (*Result, error) {
	limit := g.SearchLimit
	if limit < 1 {
		limit = DefaultSearchLimit
	}
	dg := graph.Build(tasks)
	order, err := dg.TopoSort()
	if err != nil {
		return nil, fmt.Errorf("auto-schedule: %w", err)
	}

	roster := model.IndexResources(resources)
	floor := model.Day(projectStart)
	booked := make(ledger)
	placed := make(map[string]model.Task, len(order))
	res := &Result{Order: order, Placements: make([]Placement, 0, len(order)), Unresolved: []string{}}

	for _, id := range order {
		t, _ := dg.Task(id)
		earliest := floor
		for _, dep := range dg.Predecessors(id) {
			if end := placed[dep].End; end.After(earliest) {
				earliest = end
			}
		}

		needs := required(t, roster)
		start, ok := earliest, true
		if len(needs) > 0 {
			start, ok = g.firstSlot(t, needs, booked, earliest, limit)
			if !ok {
				start = earliest
			}
		}

		moved := t.Shift(start)
		placed[id] = moved
		for _, r := range needs {
			booked.add(r.ID, moved)
		}
		p := Placement{
			TaskID:    id,
			Start:     moved.Start,
			End:       moved.End,
			ShiftDays: model.DaysBetween(t.Start, moved.Start),
		}
		if !ok {
			p.Unresolved = true
			res.Unresolved = append(res.Unresolved, id)
		}
		res.Placements = append(res.Placements, p)
	}

	res.Tasks = make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if p, ok := placed[t.ID]; ok {
			res.Tasks = append(res.Tasks, p)
			delete(placed, t.ID) // duplicates keep the first placement only
		}
	}
	return res, nil
}

func required(t model.Task, roster map[string]model.Resource) []model.Resource {
	var out []model.Resource
	for _, rid := range t.ResourceSet() {
		if r, ok := roster[rid]; ok {
			out = append(out, r)
		}
	}
	return out
}

// firstSlot scans forward from earliest for the first start day on which
// every needed resource can absorb the task.
func (g Greedy) firstSlot(t model.Task, needs []model.Resource, booked ledger, earliest time.Time, limit int) (time.Time, bool) {
	daily := t.DailyHours()
	length := model.DaysBetween(t.Start, t.End)
	for i := 0; i < limit; i++ {
		start := model.AddDays(earliest, i)
		if fitsAll(needs, booked, daily, start, model.AddDays(start, length)) {
			return start, true
		}
	}
	return time.Time{}, false
}

func fitsAll(needs []model.Resource, booked ledger, daily float64, from, to time.Time) bool {
	for _, r := range needs {
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			if booked.load(r.ID, d)+daily > r.Capacity+epsilon {
				return false
			}
		}
	}
	return true
}
