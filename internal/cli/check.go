package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/rthealth/internal/config"
	"github.com/mrz1836/rthealth/internal/doctor"
	"github.com/mrz1836/rthealth/internal/errors"
	"github.com/mrz1836/rthealth/internal/report"
	"github.com/mrz1836/rthealth/internal/tui"
)

// addCheckCommand adds the check command to the root command.
func addCheckCommand(root *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "check [name...]",
		Short: "Run health checks",
		Long: `Run the named checks, or every check when no name is given.
Checks always run one after another in a fixed order; a failing check never
stops the ones after it.

Examples:
  rthealth check              # same as plain 'rthealth'
  rthealth check python       # only the Python provider
  rthealth check node -o yaml # YAML documents, one per finding`,
		ValidArgs: doctor.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChecks(cmd.Context(), cmd, args)
		},
	}
	root.AddCommand(cmd)
}

// runChecks runs the selected checks and prints the summary table.
// It returns ErrChecksFailed when any check reported an error.
func (a *app) runChecks(ctx context.Context, cmd *cobra.Command, names []string) error {
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}

	logger := GetLogger()

	checks, err := doctor.Select(names)
	if err != nil {
		return err
	}

	format := a.output(cmd)
	tui.CheckNoColor()
	out := tui.NewOutput(a.stdout, format)
	rep := report.New(report.WithRenderer(out), report.WithLogger(logger))

	workDir, err := os.Getwd()
	if err != nil {
		logger.Debug().Err(err).Msg("failed to resolve working directory")
		workDir = ""
	}

	timeout := a.timeout(cmd)
	r := a.newRunner(logger, timeout)
	if a.showProgress(format) {
		r = withProgress(r, progressOutput())
	}
	d := doctor.New(r, rep, checks,
		doctor.WithSettings(a.settings(workDir)),
		doctor.WithTimeout(timeout),
		doctor.WithLogger(logger),
	)
	result := d.Run(ctx)

	if format == tui.FormatText {
		out.Section("Summary")
	}
	out.Table(tui.SummaryRows(result.Summary))

	logger.Debug().
		Int("checks", len(result.Outcomes)).
		Int("errors", result.Summary.Total.Error).
		Int("warnings", result.Summary.Total.Warn).
		Msg("health checks finished")

	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	if result.HasErrors() {
		return errors.ErrChecksFailed
	}
	return nil
}

// settings resolves each check's CheckContext from the loaded configuration.
func (a *app) settings(workDir string) doctor.SettingsFunc {
	cfg := a.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return func(name string) doctor.CheckContext {
		cs := cfg.CheckSettings(name)
		return doctor.CheckContext{
			WorkDir:     workDir,
			Disabled:    cs.Disabled,
			HostProgram: cs.HostProg,
			Package:     cs.Package,
		}
	}
}
