package baseline

import "github.com/kilianp07/resplan/core/model"

// Status classifies a task against its baseline.
type Status string

const (
	StatusOnTrack      Status = "on-track"
	StatusAhead        Status = "ahead"
	StatusBehind       Status = "behind"
	StatusScopeChanged Status = "scope-changed"
)

// DefaultThresholdDays is the slip tolerated before a task counts as ahead
// or behind.
const DefaultThresholdDays = 2

// Variance holds current minus baseline values. Start and End are in days,
// Progress in percentage points.
type Variance struct {
	Start    int     `json:"start"`
	End      int     `json:"end"`
	Progress float64 `json:"progress"`
}

// Comparison is the outcome for one current task. Baseline is nil when the
// task did not exist at capture time.
type Comparison struct {
	TaskID   string      `json:"task_id"`
	Current  model.Task  `json:"current"`
	Baseline *model.Task `json:"baseline"`
	Variance Variance    `json:"variance"`
	Status   Status      `json:"status"`
}

// Compare measures every current task against b using DefaultThresholdDays.
func Compare(current []model.Task, b *Baseline) []Comparison {
	return CompareWithThreshold(current, b, DefaultThresholdDays)
}

// CompareWithThreshold measures every current task against b. A task moving
// more than threshold days at either end is behind when it now ends later
// and ahead otherwise; a renamed task, or one whose length changed by more
// than threshold days, is scope-changed. Tasks that only exist in the
// baseline are not reported. A nil baseline yields no comparisons.
func CompareWithThreshold(current []model.Task, b *Baseline, threshold int) []Comparison {
	if b == nil {
		return []Comparison{}
	}
	out := make([]Comparison, 0, len(current))
	for _, cur := range current {
		c := Comparison{TaskID: cur.ID, Current: cur.Clone(), Status: StatusOnTrack}
		base, ok := b.Task(cur.ID)
		if !ok {
			c.Status = StatusScopeChanged
			out = append(out, c)
			continue
		}
		c.Baseline = &base
		c.Variance = Variance{
			Start:    model.DaysBetween(base.Start, cur.Start),
			End:      model.DaysBetween(base.End, cur.End),
			Progress: cur.Progress - base.Progress,
		}
		if abs(c.Variance.Start) > threshold || abs(c.Variance.End) > threshold {
			if c.Variance.End > 0 {
				c.Status = StatusBehind
			} else {
				c.Status = StatusAhead
			}
		}
		lengthChange := model.DaysBetween(cur.Start, cur.End) - model.DaysBetween(base.Start, base.End)
		if cur.Name != base.Name || abs(lengthChange) > threshold {
			c.Status = StatusScopeChanged
		}
		out = append(out, c)
	}
	return out
}

// Tally counts comparisons per status.
func Tally(cs []Comparison) map[Status]int {
	counts := make(map[Status]int, 4)
	for _, c := range cs {
		counts[c.Status]++
	}
	return counts
}

// Missing lists baseline task ids absent from current, in baseline order.
func Missing(current []model.Task, b *Baseline) []string {
	if b == nil {
		return nil
	}
	have := model.IndexTasks(current)
	var out []string
	for _, t := range b.tasks {
		if _, ok := have[t.ID]; !ok {
			out = append(out, t.ID)
		}
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
