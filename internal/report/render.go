// Package report renders engine results for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/kilianp07/resplan/core/baseline"
	"github.com/kilianp07/resplan/core/conflict"
	"github.com/kilianp07/resplan/core/cpm"
	"github.com/kilianp07/resplan/core/engine"
	"github.com/kilianp07/resplan/core/leveling"
	"github.com/kilianp07/resplan/core/model"
	"github.com/kilianp07/resplan/core/utilization"
)

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
}

var day = model.FormatDay

// CriticalPath prints the schedule window of every task, critical ones
// highlighted.
func CriticalPath(w io.Writer, a *cpm.Analysis) error {
	fmt.Fprintf(w, "%s %s → %s, %d days\n", BoldCyan("Project"),
		day(a.ProjectStart), day(a.ProjectEnd), a.ProjectDuration)
	if len(a.CriticalPath) > 0 {
		fmt.Fprintf(w, "%s %s\n", Bold("Critical path:"), strings.Join(a.CriticalPath, " → "))
	}
	fmt.Fprintln(w)
	tw := table(w)
	fmt.Fprintln(tw, "TASK\tES\tEF\tLS\tLF\tFLOAT\t")
	for _, n := range a.Nodes {
		id := n.TaskID
		if n.IsCritical {
			id = BoldRed(id)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t\n", id,
			day(n.EarliestStart), day(n.EarliestFinish), day(n.LatestStart), day(n.LatestFinish), n.TotalFloat)
	}
	return tw.Flush()
}

// Conflicts prints one line per over-allocated resource day.
func Conflicts(w io.Writer, cs []conflict.ResourceConflict) error {
	if len(cs) == 0 {
		fmt.Fprintln(w, Green("No resource conflicts."))
		return nil
	}
	counts := conflict.CountBySeverity(cs)
	fmt.Fprintf(w, "%s %d (%d critical, %d major, %d minor)\n\n", Bold("Conflicts:"), len(cs),
		counts[conflict.SeverityCritical], counts[conflict.SeverityMajor], counts[conflict.SeverityMinor])
	tw := table(w)
	fmt.Fprintln(tw, "RESOURCE\tDATE\tHOURS\tCAPACITY\tLOAD\tSEVERITY\tTASKS\t")
	for _, c := range cs {
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%.1f\t%.0f%%\t%s\t%s\t\n", c.ResourceID, day(c.Date),
			c.AllocatedHours, c.Capacity, c.TotalAllocation, Severity(c.Severity), strings.Join(c.ConflictingTasks, ","))
	}
	return tw.Flush()
}

// Utilization prints the per-resource rates and their summary.
func Utilization(w io.Writer, r *utilization.Report) error {
	fmt.Fprintf(w, "%s %s → %s (%d days)\n\n", BoldCyan("Utilization"), day(r.From), day(r.To), r.Days)
	tw := table(w)
	fmt.Fprintln(tw, "RESOURCE\tALLOCATED\tCAPACITY\tRATE\tTASKS\t")
	for _, u := range r.Resources {
		rate := fmt.Sprintf("%.1f%%", u.UtilizationRate)
		if u.UtilizationRate > 100 {
			rate = Red(rate)
		}
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%s\t%d\t\n", u.ResourceID, u.TotalAllocated, u.TotalCapacity, rate, len(u.Tasks))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	s := r.Summary
	fmt.Fprintf(w, "\n%s mean %.1f%%, stddev %.1f, max %.1f%%\n", Dim("summary:"), s.MeanRate, s.StdDevRate, s.MaxRate)
	if len(s.Overloaded) > 0 {
		fmt.Fprintf(w, "%s %s\n", BoldRed("overloaded:"), strings.Join(s.Overloaded, ", "))
	}
	return nil
}

// Schedule prints the placement of every task in placement order.
func Schedule(w io.Writer, r *leveling.Result) error {
	fmt.Fprintf(w, "%s %d tasks, %d days\n\n", BoldCyan("Schedule"), len(r.Tasks), r.Makespan())
	tw := table(w)
	fmt.Fprintln(tw, "TASK\tSTART\tEND\tSHIFT\t\t")
	for _, p := range r.Placements {
		note := ""
		if p.Unresolved {
			note = BoldRed("over capacity")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%+d\t%s\t\n", p.TaskID, day(p.Start), day(p.End), p.ShiftDays, note)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(r.Unresolved) > 0 {
		fmt.Fprintf(w, "\n%s %s\n", BoldYellow("unresolved:"), strings.Join(r.Unresolved, ", "))
	}
	return nil
}

// Comparisons prints the variance of every task against a baseline.
func Comparisons(w io.Writer, b *baseline.Baseline, cs []baseline.Comparison) error {
	fmt.Fprintf(w, "%s %s (%s, %s)\n\n", BoldCyan("Baseline"), b.Name(), b.ID(), b.CreatedAt().Format("2006-01-02 15:04"))
	tw := table(w)
	fmt.Fprintln(tw, "TASK\tSTART\tEND\tPROGRESS\tSTATUS\t")
	for _, c := range cs {
		if c.Baseline == nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t%s\t\n", c.TaskID, Status(c.Status))
			continue
		}
		fmt.Fprintf(tw, "%s\t%+dd\t%+dd\t%+.1f\t%s\t\n", c.TaskID,
			c.Variance.Start, c.Variance.End, c.Variance.Progress, Status(c.Status))
	}
	return tw.Flush()
}

// Baselines lists stored baselines.
func Baselines(w io.Writer, list []baseline.Summary) error {
	if len(list) == 0 {
		fmt.Fprintln(w, Dim("No baselines."))
		return nil
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tCREATED\tTASKS\t")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t\n", s.ID, s.Name, s.CreatedAt.Format("2006-01-02 15:04"), s.TaskCount)
	}
	return tw.Flush()
}

// Validation prints the structural problems of a project.
func Validation(w io.Writer, r *engine.Report) error {
	if r.Clean() {
		fmt.Fprintln(w, Green("Project is valid."))
		return nil
	}
	for _, c := range r.Cycles {
		fmt.Fprintf(w, "%s %s\n", BoldRed("cycle:"), strings.Join(c, " → "))
	}
	for _, d := range r.DanglingDependencies {
		fmt.Fprintf(w, "%s task %s depends on unknown task %s\n", Yellow("warning:"), d.TaskID, d.DependencyID)
	}
	for _, d := range r.DanglingResources {
		fmt.Fprintf(w, "%s task %s uses unknown resource %s\n", Yellow("warning:"), d.TaskID, d.ResourceID)
	}
	for _, id := range r.ZeroCapacity {
		fmt.Fprintf(w, "%s resource %s has no capacity\n", Yellow("warning:"), id)
	}
	return nil
}
