package cli

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/rthealth/internal/runner"
	"github.com/mrz1836/rthealth/internal/testutil"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func useProgressOutput(t *testing.T, w io.Writer) {
	t.Helper()
	prev := progressOutput
	progressOutput = func() io.Writer { return w }
	t.Cleanup(func() { progressOutput = prev })
}

func TestWithProgress_NilWriterKeepsRunner(t *testing.T) {
	sr := testutil.NewScriptedRunner()
	assert.Same(t, runner.Runner(sr), withProgress(sr, nil))
}

func TestWithProgress_ShowsCommandAndDelegates(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var progress syncBuffer
	sr := testutil.NewScriptedRunner().On("node -v", testutil.Success("v16.14.0\n"))

	r := withProgress(sr, &progress)
	res := r.Run(context.Background(), runner.Argv("node", "-v"), nil, runner.Options{})

	require.True(t, res.Succeeded())
	assert.Equal(t, "v16.14.0\n", res.Output)
	assert.Contains(t, progress.String(), "node -v")
	assert.Equal(t, []string{"node -v"}, sr.Commands())

	path, err := r.LookPath("node")
	require.NoError(t, err)
	assert.NotEmpty(t, path)
}

func TestCheck_ProgressOnlyForPlainText(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{name: "text", args: []string{"check", "node"}, want: true},
		{name: "json", args: []string{"check", "node", "-o", "json"}, want: false},
		{name: "quiet", args: []string{"check", "node", "-q"}, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			isolateEnv(t)
			var progress syncBuffer
			useProgressOutput(t, &progress)

			run := executeWith(t, healthyNode(), tc.args...)

			require.NoError(t, run.err)
			if tc.want {
				assert.Contains(t, progress.String(), "npm info neovim version --json")
			} else {
				assert.Empty(t, progress.String())
			}
			assert.NotContains(t, run.stdout, "\r\033[K")
		})
	}
}
