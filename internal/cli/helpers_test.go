package cli

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/rthealth/internal/runner"
	"github.com/mrz1836/rthealth/internal/testutil"
)

// cliRun captures one invocation of the root command.
type cliRun struct {
	stdout  string
	err     error
	timeout time.Duration
}

// isolateEnv points rthealth at an empty home and working directory and
// disables color so output is stable.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("RTHEALTH_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	t.Chdir(t.TempDir())
	t.Cleanup(CloseLogFile)
}

// executeWith runs the root command against sr with the given arguments.
func executeWith(t *testing.T, sr runner.Runner, args ...string) cliRun {
	t.Helper()

	var run cliRun
	factory := func(_ zerolog.Logger, timeout time.Duration) runner.Runner {
		run.timeout = timeout
		return sr
	}

	var stdout bytes.Buffer
	cmd := newRootCmdWith(&GlobalFlags{}, BuildInfo{Version: "test"}, factory, &stdout)
	cmd.SetOut(&stdout)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	run.err = cmd.ExecuteContext(context.Background())
	run.stdout = stdout.String()
	return run
}

// healthyNode scripts a passing node check.
func healthyNode() *testutil.ScriptedRunner {
	return testutil.NewScriptedRunner().
		On("node -v", testutil.Success("v16.14.0\n")).
		On("npm ls --global --json neovim", testutil.Success(`{"dependencies":{"neovim":{"version":"5.3.0"}}}`)).
		On("npm info neovim version --json", testutil.Success(`"5.3.0"`))
}
