package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/rthealth/internal/errors"
)

func TestRootCmd_Help(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "test"})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, want := range []string{"rthealth", "--output", "--verbose", "--quiet", "--timeout", "--config", "check", "list", "hints"} {
		assert.Contains(t, output, want)
	}
}

func TestRootCmd_Version(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		info           BuildInfo
		expectContains []string
	}{
		{
			name:           "full version info",
			info:           BuildInfo{Version: "1.0.0", Commit: "abc1234", Date: "2026-01-01"},
			expectContains: []string{"1.0.0", "abc1234", "2026-01-01"},
		},
		{
			name:           "default dev version",
			info:           BuildInfo{},
			expectContains: []string{"dev", "none", "unknown"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cmd := newRootCmd(&GlobalFlags{}, tc.info)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs([]string{"--version"})

			require.NoError(t, cmd.Execute())
			for _, expected := range tc.expectContains {
				assert.Contains(t, buf.String(), expected)
			}
		})
	}
}

func TestRootCmd_InvalidOutputFormat(t *testing.T) {
	isolateEnv(t)

	run := executeWith(t, healthyNode(), "-o", "xml")

	require.Error(t, run.err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(run.err))
	assert.Empty(t, run.stdout)
}

func TestRootCmd_InvalidTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout string
	}{
		{name: "zero", timeout: "0s"},
		{name: "negative", timeout: "-5s"},
		{name: "below minimum", timeout: "50ms"},
		{name: "above maximum", timeout: "20m"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			isolateEnv(t)

			sr := healthyNode()
			run := executeWith(t, sr, "--timeout="+tc.timeout, "check", "node")

			require.ErrorIs(t, run.err, errors.ErrInvalidArgument)
			assert.Equal(t, ExitInvalidInput, ExitCodeForError(run.err))
			assert.Empty(t, sr.Calls())
		})
	}
}

func TestRootCmd_TimeoutAtBounds(t *testing.T) {
	for _, timeout := range []string{"100ms", "10m"} {
		t.Run(timeout, func(t *testing.T) {
			isolateEnv(t)

			run := executeWith(t, healthyNode(), "--timeout", timeout, "check", "node")

			require.NoError(t, run.err)
		})
	}
}

func TestRootCmd_MissingConfigFile(t *testing.T) {
	isolateEnv(t)

	run := executeWith(t, healthyNode(), "--config", "nope.yaml", "list")

	require.Error(t, run.err)
	assert.Equal(t, ExitError, ExitCodeForError(run.err))
}

func TestRootCmd_VerboseQuietExclusive(t *testing.T) {
	isolateEnv(t)

	run := executeWith(t, healthyNode(), "-v", "-q", "list")

	require.Error(t, run.err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(run.err))
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	isolateEnv(t)

	run := executeWith(t, healthyNode(), "frobnicate")

	require.Error(t, run.err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(run.err))
}

func TestPrintError_KnownSentinel(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer

	printError(&buf, fmt.Errorf("%w: %q (known: node, python, ruby, perl)", errors.ErrUnknownCheck, "lua"))

	got := buf.String()
	assert.Contains(t, got, "✗ Error: unknown check")
	assert.Contains(t, got, "  The specified check does not exist.\n")
	assert.Contains(t, got, "  ▸ Run 'rthealth list' to see available checks.\n")
}

func TestPrintError_UnknownError(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer

	printError(&buf, fmt.Errorf("unknown flag: --bogus"))

	assert.Equal(t, "✗ Error: unknown flag: --bogus\n", buf.String())
}

func TestPrintError_Interrupted(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer

	printError(&buf, errors.ErrInterrupted)

	got := buf.String()
	assert.Contains(t, got, "interrupted by signal")
	assert.Contains(t, got, "the probe in flight was stopped")
	assert.NotContains(t, got, "▸")
}
