package cli

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/rthealth/internal/errors"
	"github.com/mrz1836/rthealth/internal/testutil"
)

func TestCheck_DefaultRunsEveryCheck(t *testing.T) {
	isolateEnv(t)
	for _, name := range []string{"PYTHON", "RUBY", "PERL"} {
		t.Setenv("RTHEALTH_CHECKS_"+name+"_DISABLED", "true")
	}

	sr := healthyNode()
	run := executeWith(t, sr)

	require.NoError(t, run.err)
	assert.Contains(t, run.stdout, "neovim 5.3.0 is up to date")
	assert.Contains(t, run.stdout, "Python check is disabled")
	assert.Contains(t, run.stdout, "Perl check is disabled")
	assert.Contains(t, run.stdout, "Summary")
	assert.Contains(t, run.stdout, "Total")
	assert.Len(t, sr.Calls(), 4, "disabled checks launch nothing")
}

func TestCheck_SelectedByName(t *testing.T) {
	isolateEnv(t)

	sr := healthyNode()
	run := executeWith(t, sr, "check", "node")

	require.NoError(t, run.err)
	assert.NotContains(t, run.stdout, "Python")
	assert.Equal(t, "node -v", sr.Commands()[0])
}

func TestCheck_ErrorFindingExitsOne(t *testing.T) {
	isolateEnv(t)

	sr := testutil.NewScriptedRunner().On("node -v", testutil.LaunchFailure())
	run := executeWith(t, sr, "check", "node")

	require.ErrorIs(t, run.err, errors.ErrChecksFailed)
	assert.Equal(t, ExitError, ExitCodeForError(run.err))
	assert.Contains(t, run.stdout, "could not be started")
	assert.Contains(t, run.stdout, "▸ Check your internet connection")
}

func TestCheck_WarningExitsZero(t *testing.T) {
	isolateEnv(t)

	sr := testutil.NewScriptedRunner().On("node -v", testutil.Success("v4.2.0\n"))
	run := executeWith(t, sr, "check", "node")

	require.NoError(t, run.err)
	assert.Contains(t, run.stdout, "too old")
}

func TestCheck_UpgradeHintRendersOnce(t *testing.T) {
	isolateEnv(t)

	sr := testutil.NewScriptedRunner().
		On("node -v", testutil.Success("v16.14.0\n")).
		On("npm ls --global --json neovim", testutil.Success(`{"dependencies":{"neovim":{"version":"2.0.0"}}}`)).
		On("npm info neovim version --json", testutil.Success(`"2.1.0"`))
	run := executeWith(t, sr, "check", "node")

	require.NoError(t, run.err)
	assert.Contains(t, run.stdout, "    ▸ Run: npm install -g neovim@latest\n")
	assert.NotContains(t, run.stdout, "Try:")
}

func TestCheck_UnknownCheck(t *testing.T) {
	isolateEnv(t)

	sr := testutil.NewScriptedRunner()
	run := executeWith(t, sr, "check", "lua")

	require.ErrorIs(t, run.err, errors.ErrUnknownCheck)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(run.err))
	assert.Empty(t, sr.Calls())
}

func TestCheck_JSONOutput(t *testing.T) {
	isolateEnv(t)

	run := executeWith(t, healthyNode(), "check", "node", "-o", "json")
	require.NoError(t, run.err)

	var types []string
	scanner := bufio.NewScanner(strings.NewReader(run.stdout))
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line), scanner.Text())
		types = append(types, line["type"].(string))
	}
	assert.Equal(t, []string{"section", "info", "ok", "table"}, types)
}

func TestCheck_YAMLOutput(t *testing.T) {
	isolateEnv(t)

	run := executeWith(t, healthyNode(), "check", "node", "-o", "yaml")
	require.NoError(t, run.err)

	assert.Contains(t, run.stdout, "type: section")
	assert.Contains(t, run.stdout, "message: Node.js provider")
	assert.Contains(t, run.stdout, "---")
}

func TestCheck_OutputFromConfig(t *testing.T) {
	isolateEnv(t)
	require.NoError(t, os.MkdirAll(".rthealth", 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(".rthealth", "config.yaml"), []byte("output: json\nrunner:\n  timeout: 45s\n"), 0o600))

	run := executeWith(t, healthyNode(), "check", "node")
	require.NoError(t, run.err)

	assert.True(t, strings.HasPrefix(run.stdout, "{"), run.stdout)
	assert.Equal(t, 45*time.Second, run.timeout)
}

func TestCheck_TimeoutFlagWins(t *testing.T) {
	isolateEnv(t)
	t.Setenv("RTHEALTH_RUNNER_TIMEOUT", "45s")

	run := executeWith(t, healthyNode(), "--timeout", "3s", "check", "node")

	require.NoError(t, run.err)
	assert.Equal(t, 3*time.Second, run.timeout)
}

func TestCheck_HostProgramFromConfig(t *testing.T) {
	isolateEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "rthealth.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
checks:
  node:
    disabled: true
    host_prog: /opt/node/bin/node
`), 0o600))

	sr := testutil.NewScriptedRunner().On("/opt/node/bin/node -v", testutil.Success("v4.2.0"))
	run := executeWith(t, sr, "--config", cfgPath, "check", "node")

	require.NoError(t, run.err)
	assert.Equal(t, []string{"/opt/node/bin/node -v"}, sr.Commands())
	assert.Contains(t, run.stdout, "overridden")
}
