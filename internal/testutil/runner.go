package testutil

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	rterrors "github.com/mrz1836/rthealth/internal/errors"
	"github.com/mrz1836/rthealth/internal/runner"
)

// Call records one invocation of ScriptedRunner.Run.
type Call struct {
	Command string
	Input   string
	Options runner.Options
}

// ScriptedRunner is a runner.Runner that answers from a table keyed by
// runner.Format of the command. Unscripted commands end in StatusLaunchFailed
// wrapping ErrCommandNotConfigured, so a test fails loudly on unexpected probes.
type ScriptedRunner struct {
	mu      sync.Mutex
	results map[string]*runner.Result
	inputs  map[string]*runner.Result
	missing map[string]bool
	calls   []Call
	seq     int
}

// NewScriptedRunner creates an empty ScriptedRunner.
func NewScriptedRunner() *ScriptedRunner {
	return &ScriptedRunner{
		results: make(map[string]*runner.Result),
		inputs:  make(map[string]*runner.Result),
		missing: make(map[string]bool),
	}
}

// On scripts the result returned for cmd (as rendered by runner.Format).
func (s *ScriptedRunner) On(cmd string, res *runner.Result) *ScriptedRunner {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[cmd] = res
	return s
}

// OnInput scripts the result for cmd when it is fed exactly input on stdin.
// It takes precedence over On for the same command.
func (s *ScriptedRunner) OnInput(cmd, input string, res *runner.Result) *ScriptedRunner {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs[inputKey(cmd, input)] = res
	return s
}

func inputKey(cmd, input string) string {
	return cmd + "\x00" + input
}

// Missing marks executables that LookPath must fail to resolve.
func (s *ScriptedRunner) Missing(names ...string) *ScriptedRunner {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range names {
		s.missing[n] = true
	}
	return s
}

// Run implements runner.Runner.
func (s *ScriptedRunner) Run(_ context.Context, cmd runner.Command, input []byte, opts runner.Options) *runner.Result {
	key := runner.Format(cmd)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.calls = append(s.calls, Call{Command: key, Input: string(input), Options: opts})

	scripted, ok := s.inputs[inputKey(key, string(input))]
	if !ok {
		scripted, ok = s.results[key]
	}
	if !ok {
		return &runner.Result{
			Status: runner.Status{Kind: runner.StatusLaunchFailed, Code: -1},
			RunID:  fmt.Sprintf("scripted-%d", s.seq),
			Err:    fmt.Errorf("%s: %w: %w", key, rterrors.ErrLaunchFailed, rterrors.ErrCommandNotConfigured),
		}
	}
	res := *scripted
	res.RunID = fmt.Sprintf("scripted-%d", s.seq)
	return &res
}

// LookPath implements runner.Runner. Every name resolves unless marked Missing.
// Names containing a path separator resolve to themselves.
func (s *ScriptedRunner) LookPath(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.missing[name] {
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	if strings.ContainsRune(name, '/') {
		return name, nil
	}
	return "/usr/bin/" + name, nil
}

// Calls returns a copy of the recorded invocations in order.
func (s *ScriptedRunner) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Commands returns the display strings of the recorded invocations in order.
func (s *ScriptedRunner) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	for i, c := range s.calls {
		out[i] = c.Command
	}
	return out
}

// Success builds a succeeded result with the given stdout.
func Success(output string) *runner.Result {
	return &runner.Result{Output: output, Status: runner.Status{Kind: runner.StatusSucceeded}}
}

// Failure builds a failed result with the given exit code and stderr.
func Failure(code int, stderr string) *runner.Result {
	return &runner.Result{
		Stderr: stderr,
		Status: runner.Status{Kind: runner.StatusFailed, Code: code},
		Err:    fmt.Errorf("%w: exit status %d", rterrors.ErrCommandFailed, code),
	}
}

// Timeout builds a timed-out result that kept partial output.
func Timeout(partial string) *runner.Result {
	return &runner.Result{
		Output: partial,
		Status: runner.Status{Kind: runner.StatusTimedOut, Code: -1},
		Err:    rterrors.ErrCommandTimeout,
	}
}

// Interrupted builds the result of a run killed because the caller was interrupted.
func Interrupted() *runner.Result {
	return &runner.Result{
		Status: runner.Status{Kind: runner.StatusTimedOut, Code: -1},
		Err:    fmt.Errorf("%w: %w", rterrors.ErrCommandTimeout, rterrors.ErrInterrupted),
	}
}

// LaunchFailure builds a launch-failed result.
func LaunchFailure() *runner.Result {
	return &runner.Result{
		Status: runner.Status{Kind: runner.StatusLaunchFailed, Code: -1},
		Err:    fmt.Errorf("%w: %w", rterrors.ErrLaunchFailed, ErrMockSpawn),
	}
}

var _ runner.Runner = (*ScriptedRunner)(nil)
