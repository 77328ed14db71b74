// Package cli provides the command-line interface for rthealth.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/rthealth/internal/config"
	"github.com/mrz1836/rthealth/internal/constants"
	"github.com/mrz1836/rthealth/internal/errors"
	"github.com/mrz1836/rthealth/internal/runner"
	"github.com/mrz1836/rthealth/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the initialized logger for use by subcommands.
// It is set during PersistentPreRunE and read through GetLogger.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the initialized logger for use by subcommands.
// Before the root command's PersistentPreRunE has run it returns a logger
// that discards everything. Safe for concurrent use.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// RunnerFactory builds the command runner used by a check run.
type RunnerFactory func(logger zerolog.Logger, timeout time.Duration) runner.Runner

// defaultRunnerFactory runs real processes.
func defaultRunnerFactory(logger zerolog.Logger, timeout time.Duration) runner.Runner {
	return runner.NewExecRunner(runner.WithLogger(logger), runner.WithDefaultTimeout(timeout))
}

// app carries state shared by the commands of one invocation.
type app struct {
	flags     *GlobalFlags
	cfg       *config.Config
	newRunner RunnerFactory
	stdout    io.Writer
}

// output returns the effective output format: the flag when given, else config.
func (a *app) output(cmd *cobra.Command) string {
	if f := cmd.Root().PersistentFlags().Lookup("output"); f != nil && f.Changed {
		return a.flags.Output
	}
	if a.cfg != nil && a.cfg.Output != "" {
		return a.cfg.Output
	}
	return a.flags.Output
}

// timeout returns the effective per-command timeout.
func (a *app) timeout(cmd *cobra.Command) time.Duration {
	if f := cmd.Root().PersistentFlags().Lookup("timeout"); f != nil && f.Changed {
		return a.flags.Timeout
	}
	if a.cfg != nil {
		return a.cfg.Runner.Timeout
	}
	return a.flags.Timeout
}

// newRootCmd creates the root command with the real process runner.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	return newRootCmdWith(flags, info, defaultRunnerFactory, os.Stdout)
}

// newRootCmdWith creates the root command with an injectable runner and stdout.
func newRootCmdWith(flags *GlobalFlags, info BuildInfo, factory RunnerFactory, stdout io.Writer) *cobra.Command {
	v := viper.New()
	a := &app{flags: flags, newRunner: factory, stdout: stdout}

	cmd := &cobra.Command{
		Use:   "rthealth",
		Short: "Check optional language runtimes and their host packages",
		Long: `rthealth probes the Node.js, Python, Ruby and Perl runtimes on this machine,
checks that each one is recent enough, and compares the installed companion
host package against the newest version published in its registry.

Findings are graded ok / info / warning / error. The exit status is 1 when any
check reported an error.

Examples:
  rthealth                    # run every check
  rthealth check node ruby    # run selected checks
  rthealth -o json            # one JSON object per finding
  rthealth hints perl         # show the install guide for a check`,
		Version: formatVersion(info),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runChecks(cmd.Context(), cmd, nil)
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			flags.Verbose = v.GetBool("verbose")
			flags.Quiet = v.GetBool("quiet")

			globalLoggerMu.Lock()
			globalLogger = InitLogger(flags.Verbose, flags.Quiet)
			globalLoggerMu.Unlock()

			ctx := GetLogger().WithContext(cmd.Context())
			cfg, err := config.Load(ctx, flags.Config)
			if err != nil {
				return err
			}
			a.cfg = cfg

			if format := a.output(cmd); !tui.IsValidFormat(format) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, format, tui.ValidFormats())
			}
			if t := a.timeout(cmd); t < constants.MinCommandTimeout || t > constants.MaxCommandTimeout {
				return errors.NewExitCode2Error(fmt.Errorf("%w: --timeout must be between %s and %s, got %s",
					errors.ErrInvalidArgument, constants.MinCommandTimeout, constants.MaxCommandTimeout, t))
			}
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			CloseLogFile()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	addCheckCommand(cmd, a)
	addListCommand(cmd, a)
	addHintsCommand(cmd, a)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		printError(cmd.ErrOrStderr(), err)
	}
	return err
}

// printError writes err followed by the user-facing explanation and suggested
// action when the error is a known sentinel.
func printError(w io.Writer, err error) {
	tui.CheckNoColor()
	styles := tui.NewOutputStyles()

	_, _ = fmt.Fprintln(w, styles.Error.Render(tui.IconError+" Error: "+err.Error()))
	message, action := errors.Actionable(err)
	if message != "" && message != err.Error() {
		_, _ = fmt.Fprintln(w, "  "+message)
	}
	if action != "" {
		_, _ = fmt.Fprintln(w, styles.Dim.Render("  "+tui.IconHint+" "+action))
	}
}
