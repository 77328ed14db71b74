package cli

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/mrz1836/rthealth/internal/runner"
	"github.com/mrz1836/rthealth/internal/tui"
)

// progressOutput returns where the probe spinner draws, or nil when stderr is
// not an interactive terminal.
var progressOutput = func() io.Writer { //nolint:gochecknoglobals // Replaced in tests
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return os.Stderr
	}
	return nil
}

// spinningRunner shows the command line of each probe while it runs.
type spinningRunner struct {
	runner.Runner
	spinner *tui.Spinner
}

// withProgress wraps r so every Run draws a spinner on w. A nil w returns r unchanged.
func withProgress(r runner.Runner, w io.Writer) runner.Runner {
	if w == nil {
		return r
	}
	return &spinningRunner{Runner: r, spinner: tui.NewSpinner(w)}
}

// Run implements runner.Runner.
func (s *spinningRunner) Run(ctx context.Context, cmd runner.Command, input []byte, opts runner.Options) *runner.Result {
	s.spinner.Start(runner.Format(cmd))
	defer s.spinner.Stop()
	return s.Runner.Run(ctx, cmd, input, opts)
}

// showProgress reports whether a text run should draw the probe spinner.
func (a *app) showProgress(format string) bool {
	return format == tui.FormatText && !a.flags.Verbose && !a.flags.Quiet
}
