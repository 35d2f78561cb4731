package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/resplan/app"
	"github.com/kilianp07/resplan/config"
	"github.com/kilianp07/resplan/core/model"
	"github.com/kilianp07/resplan/core/project"
	"github.com/kilianp07/resplan/internal/report"
)

type rootOptions struct {
	cfgPath     string
	format      string
	noColor     bool
	metricsFile string
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "resplan",
		Short:         "Critical path, resource conflicts and leveling for project schedules",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if o.format != "text" && o.format != "json" {
				return fmt.Errorf("unknown output format %q", o.format)
			}
			if o.noColor {
				report.SetColor(false)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&o.cfgPath, "config", "c", "resplan.yaml", "configuration file")
	cmd.PersistentFlags().StringVarP(&o.format, "format", "f", "text", "output format: text or json")
	cmd.PersistentFlags().BoolVar(&o.noColor, "no-color", false, "disable colored output")
	cmd.PersistentFlags().StringVar(&o.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	cmd.AddCommand(
		newAnalyzeCmd(o),
		newConflictsCmd(o),
		newUtilizationCmd(o),
		newValidateCmd(o),
		newScheduleCmd(o),
		newBaselineCmd(o),
	)
	return cmd
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// runFunc is a command body with a ready service.
type runFunc func(cmd *cobra.Command, svc *app.Service, args []string) error

// withService loads configuration, builds the service for the duration of
// one command and closes it afterwards.
func (o *rootOptions) withService(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		cfg, err := config.Load(o.cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if o.metricsFile != "" {
			cfg.Metrics.Textfile = o.metricsFile
		}
		svc, err := app.New(cfg, app.WithLogOutput(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer func() {
			if cerr := svc.Close(); cerr != nil {
				svc.Logger().Errorf("service close: %v", cerr)
				if err == nil {
					err = cerr
				}
			}
		}()
		return fn(cmd, svc, args)
	}
}

// emit writes v as JSON or through the text renderer.
func (o *rootOptions) emit(cmd *cobra.Command, v any, text func(io.Writer) error) error {
	if o.format == "json" {
		return report.JSON(cmd.OutOrStdout(), v)
	}
	return text(cmd.OutOrStdout())
}

func loadProject(svc *app.Service, path string) (*project.Project, error) {
	p, err := svc.LoadProject(path)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	return p, nil
}

func parseDayFlag(name, value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := model.ParseDay(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}
