package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/kilianp07/resplan/core/baseline"
	"github.com/kilianp07/resplan/core/model"
)

// TaskLines renders tasks one per line, sorted by id, in a form meant for
// line diffs.
func TaskLines(tasks []model.Task) []string {
	sorted := model.CloneTasks(tasks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	lines := make([]string, len(sorted))
	for i, t := range sorted {
		lines[i] = fmt.Sprintf("%s %q %s..%s progress=%.0f hours=%g deps=[%s] resources=[%s]",
			t.ID, t.Name, model.FormatDay(t.Start), model.FormatDay(t.End), t.Progress, t.EstimatedHours,
			strings.Join(t.Dependencies, ","), strings.Join(t.Resources, ","))
	}
	return lines
}

// BaselineDiff returns a unified diff from the baseline tasks to current.
// It is empty when nothing changed.
func BaselineDiff(b *baseline.Baseline, current []model.Task) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        withNewlines(TaskLines(b.Tasks())),
		B:        withNewlines(TaskLines(current)),
		FromFile: "baseline/" + b.Name(),
		ToFile:   "current",
		Context:  1,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff baseline %s: %w", b.ID(), err)
	}
	return text, nil
}

func withNewlines(lines []string) []string {
	for i := range lines {
		lines[i] += "\n"
	}
	return lines
}
