package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kilianp07/resplan/app"
	"github.com/kilianp07/resplan/core/baseline"
	"github.com/kilianp07/resplan/internal/report"
)

func newBaselineCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Capture schedule snapshots and compare against them",
	}
	cmd.AddCommand(
		newBaselineCreateCmd(o),
		newBaselineListCmd(o),
		newBaselineShowCmd(o),
		newBaselineCompareCmd(o),
		newBaselineDeleteCmd(o),
	)
	return cmd
}

func newBaselineCreateCmd(o *rootOptions) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "create <project>",
		Short: "Snapshot the current tasks of a project",
		Args:  cobra.ExactArgs(1),
		RunE: o.withService(func(cmd *cobra.Command, svc *app.Service, args []string) error {
			p, err := loadProject(svc, args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = p.Name
			}
			b, err := svc.Engine.CreateBaseline(p.Tasks, name)
			if err != nil {
				return err
			}
			if _, ok := svc.Store.(*baseline.MemoryStore); ok {
				svc.Logger().Warnf("baseline store is in-memory, %s will not outlive this command", b.ID())
			}
			if err := svc.Store.Save(cmd.Context(), b); err != nil {
				return fmt.Errorf("save baseline: %w", err)
			}
			sum := b.Summary()
			return o.emit(cmd, sum, func(w io.Writer) error {
				return report.Baselines(w, []baseline.Summary{sum})
			})
		}),
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "baseline name, defaults to the project name")
	return cmd
}

func newBaselineListCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored baselines",
		Args:  cobra.NoArgs,
		RunE: o.withService(func(cmd *cobra.Command, svc *app.Service, _ []string) error {
			list, err := svc.Store.List(cmd.Context())
			if err != nil {
				return err
			}
			return o.emit(cmd, list, func(w io.Writer) error { return report.Baselines(w, list) })
		}),
	}
}

func newBaselineShowCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print the tasks captured in a baseline",
		Args:  cobra.ExactArgs(1),
		RunE: o.withService(func(cmd *cobra.Command, svc *app.Service, args []string) error {
			b, err := svc.Store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return o.emit(cmd, b, func(w io.Writer) error {
				if err := report.Baselines(w, []baseline.Summary{b.Summary()}); err != nil {
					return err
				}
				fmt.Fprintln(w)
				for _, line := range report.TaskLines(b.Tasks()) {
					fmt.Fprintln(w, line)
				}
				return nil
			})
		}),
	}
}

type comparisonOutput struct {
	Baseline    baseline.Summary        `json:"baseline"`
	Comparisons []baseline.Comparison   `json:"comparisons"`
	Statuses    map[baseline.Status]int `json:"statuses"`
	Missing     []string                `json:"missing"`
	Diff        string                  `json:"diff,omitempty"`
}

func newBaselineCompareCmd(o *rootOptions) *cobra.Command {
	var diff bool
	cmd := &cobra.Command{
		Use:   "compare <project> <id>",
		Short: "Compare the current tasks of a project against a baseline",
		Args:  cobra.ExactArgs(2),
		RunE: o.withService(func(cmd *cobra.Command, svc *app.Service, args []string) error {
			p, err := loadProject(svc, args[0])
			if err != nil {
				return err
			}
			b, err := svc.Store.Get(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			cs, err := svc.Engine.Compare(p.Tasks, b)
			if err != nil {
				return err
			}
			out := comparisonOutput{
				Baseline:    b.Summary(),
				Comparisons: cs,
				Statuses:    baseline.Tally(cs),
				Missing:     baseline.Missing(p.Tasks, b),
			}
			if out.Missing == nil {
				out.Missing = []string{}
			}
			if diff {
				if out.Diff, err = report.BaselineDiff(b, p.Tasks); err != nil {
					return err
				}
			}
			return o.emit(cmd, out, func(w io.Writer) error {
				if err := report.Comparisons(w, b, cs); err != nil {
					return err
				}
				for _, id := range out.Missing {
					fmt.Fprintf(w, "%s %s\n", report.Dim("removed:"), id)
				}
				if out.Diff != "" {
					fmt.Fprintf(w, "\n%s", out.Diff)
				}
				return nil
			})
		}),
	}
	cmd.Flags().BoolVar(&diff, "diff", false, "include a unified diff of task lines")
	return cmd
}

func newBaselineDeleteCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a stored baseline",
		Args:  cobra.ExactArgs(1),
		RunE: o.withService(func(cmd *cobra.Command, svc *app.Service, args []string) error {
			if err := svc.Store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			svc.Logger().Infof("baseline %s deleted", args[0])
			return nil
		}),
	}
}
