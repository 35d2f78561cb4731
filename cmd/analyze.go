package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/resplan/app"
	"github.com/kilianp07/resplan/core/engine"
	"github.com/kilianp07/resplan/core/model"
	"github.com/kilianp07/resplan/internal/report"
)

func newAnalyzeCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <project>",
		Short: "Compute the critical path and task float",
		Args:  cobra.ExactArgs(1),
		RunE: o.withService(func(cmd *cobra.Command, svc *app.Service, args []string) error {
			p, err := loadProject(svc, args[0])
			if err != nil {
				return err
			}
			a, err := svc.Engine.CriticalPath(p.Tasks)
			if err != nil {
				return err
			}
			return o.emit(cmd, a, func(w io.Writer) error { return report.CriticalPath(w, a) })
		}),
	}
}

func newConflictsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts <project>",
		Short: "List resource days allocated beyond capacity",
		Args:  cobra.ExactArgs(1),
		RunE: o.withService(func(cmd *cobra.Command, svc *app.Service, args []string) error {
			p, err := loadProject(svc, args[0])
			if err != nil {
				return err
			}
			cs, err := svc.Engine.Conflicts(p.Tasks, p.Resources)
			if err != nil {
				return err
			}
			return o.emit(cmd, cs, func(w io.Writer) error { return report.Conflicts(w, cs) })
		}),
	}
}

func newUtilizationCmd(o *rootOptions) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "utilization <project>",
		Short: "Report allocated hours against capacity per resource",
		Long: "Report allocated hours against capacity per resource over a date window.\n" +
			"The window defaults to the span of the project.",
		Args: cobra.ExactArgs(1),
		RunE: o.withService(func(cmd *cobra.Command, svc *app.Service, args []string) error {
			p, err := loadProject(svc, args[0])
			if err != nil {
				return err
			}
			first, last := span(p.Tasks)
			if !p.Start.IsZero() && p.Start.Before(first) {
				first = p.Start
			}
			start, err := parseDayFlag("from", from, first)
			if err != nil {
				return err
			}
			end, err := parseDayFlag("to", to, last)
			if err != nil {
				return err
			}
			rep, err := svc.Engine.Utilization(p.Tasks, p.Resources, start, end)
			if err != nil {
				return err
			}
			return o.emit(cmd, rep, func(w io.Writer) error { return report.Utilization(w, rep) })
		}),
	}
	cmd.Flags().StringVar(&from, "from", "", "first day of the window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day of the window (YYYY-MM-DD)")
	return cmd
}

func span(tasks []model.Task) (first, last time.Time) {
	for i, t := range tasks {
		if i == 0 || t.Start.Before(first) {
			first = t.Start
		}
		if i == 0 || t.End.After(last) {
			last = t.End
		}
	}
	return first, last
}

func newValidateCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <project>",
		Short: "Check a project for cycles and dangling references",
		Args:  cobra.ExactArgs(1),
		RunE: o.withService(func(cmd *cobra.Command, svc *app.Service, args []string) error {
			p, err := loadProject(svc, args[0])
			if err != nil {
				return err
			}
			rep, err := svc.Engine.Validate(p.Tasks, p.Resources)
			if err != nil {
				return err
			}
			if err := o.emit(cmd, rep, func(w io.Writer) error { return report.Validation(w, rep) }); err != nil {
				return err
			}
			return checkSchedulable(rep)
		}),
	}
}

func checkSchedulable(rep *engine.Report) error {
	if rep.Schedulable() {
		return nil
	}
	return fmt.Errorf("project has %d dependency cycle(s)", len(rep.Cycles))
}
