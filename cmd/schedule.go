package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kilianp07/resplan/app"
	"github.com/kilianp07/resplan/core/project"
	"github.com/kilianp07/resplan/internal/report"
)

func newScheduleCmd(o *rootOptions) *cobra.Command {
	var start, output string
	cmd := &cobra.Command{
		Use:   "schedule <project>",
		Short: "Level resources and recompute task dates",
		Long: "Reschedule every task so that dependencies are honoured and no resource\n" +
			"is booked beyond its daily capacity. Tasks that cannot fit within the\n" +
			"search horizon are kept at their earliest dependency-feasible start and\n" +
			"reported as unresolved.",
		Args: cobra.ExactArgs(1),
		RunE: o.withService(func(cmd *cobra.Command, svc *app.Service, args []string) error {
			p, err := loadProject(svc, args[0])
			if err != nil {
				return err
			}
			floor, err := parseDayFlag("start", start, p.Start)
			if err != nil {
				return err
			}
			res, err := svc.Engine.AutoSchedule(p.Tasks, p.Resources, floor)
			if err != nil {
				return err
			}
			if output != "" {
				out := p.WithTasks(res.Tasks)
				out.Start = floor
				if err := project.Save(output, out.ToFile()); err != nil {
					return fmt.Errorf("write schedule: %w", err)
				}
				svc.Logger().Infof("rescheduled project written to %s", output)
			}
			return o.emit(cmd, res, func(w io.Writer) error { return report.Schedule(w, res) })
		}),
	}
	cmd.Flags().StringVar(&start, "start", "", "earliest start for any task (YYYY-MM-DD), defaults to the project start")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the rescheduled project to this .yaml or .json file")
	return cmd
}
