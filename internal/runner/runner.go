// Package runner launches short-lived external commands with an optional stdin
// payload, collects their stdout and stderr, and enforces a hard timeout.
//
// Every outcome, including a failure to start the program, is reported through
// a fully populated Result; Run never returns an error out of band.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/rthealth/internal/clock"
	"github.com/mrz1836/rthealth/internal/constants"
	"github.com/mrz1836/rthealth/internal/ctxutil"
	rterrors "github.com/mrz1836/rthealth/internal/errors"
	"github.com/mrz1836/rthealth/internal/logging"
)

// StatusKind is the closed set of ways a command run can end.
type StatusKind int

const (
	// StatusSucceeded means the process exited zero, or non-zero with IgnoreNonZeroExit.
	StatusSucceeded StatusKind = iota
	// StatusFailed means the process exited with a non-zero code.
	StatusFailed
	// StatusTimedOut means the process was still running when the timer fired and was killed.
	StatusTimedOut
	// StatusLaunchFailed means the process never started.
	StatusLaunchFailed
)

// String returns the lowercase name of the kind.
func (k StatusKind) String() string {
	switch k {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusTimedOut:
		return "timed_out"
	case StatusLaunchFailed:
		return "launch_failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler for JSON and YAML output.
func (k StatusKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Status is the exit status of a run. Code holds the process exit code whenever
// the process exited on its own; it is -1 for TimedOut and LaunchFailed.
type Status struct {
	Kind StatusKind `json:"kind" yaml:"kind"`
	Code int        `json:"code" yaml:"code"`
}

// String renders the status for logs and diagnostics.
func (s Status) String() string {
	if s.Kind == StatusFailed {
		return fmt.Sprintf("failed (exit %d)", s.Code)
	}
	return s.Kind.String()
}

// Options tunes a single Run call. The zero value runs with the runner's default
// timeout, separate stdout/stderr capture and non-zero exits reported as failures.
type Options struct {
	// CaptureStderrIntoOutput sends stderr into Output, interleaved as the child writes it.
	CaptureStderrIntoOutput bool
	// IgnoreNonZeroExit reports a non-zero exit as StatusSucceeded.
	IgnoreNonZeroExit bool
	// Timeout bounds the run. Zero or negative uses the runner default.
	Timeout time.Duration
	// Dir is the working directory; empty inherits the current one.
	Dir string
	// Env is appended to the inherited environment.
	Env []string
}

// Result is the complete outcome of one Run call.
type Result struct {
	Output   string        `json:"output" yaml:"output"`
	Stderr   string        `json:"stderr,omitempty" yaml:"stderr,omitempty"`
	Status   Status        `json:"status" yaml:"status"`
	RunID    string        `json:"run_id" yaml:"run_id"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	// Err describes non-success outcomes and wraps one of ErrLaunchFailed,
	// ErrCommandTimeout or ErrCommandFailed. Nil on success.
	Err error `json:"-" yaml:"-"`
}

// Succeeded reports whether the run ended with StatusSucceeded.
func (r *Result) Succeeded() bool {
	return r.Status.Kind == StatusSucceeded
}

// Runner executes commands. ExecRunner is the production implementation.
type Runner interface {
	// Run executes cmd, writes input to its stdin when non-empty, and blocks until the
	// process exits or the timeout elapses. It never returns nil.
	Run(ctx context.Context, cmd Command, input []byte, opts Options) *Result

	// LookPath resolves an executable name the way Run would.
	LookPath(name string) (string, error)
}

// ExecRunner implements Runner with os/exec. Each child gets its own process
// group so that a timeout kills everything it spawned.
type ExecRunner struct {
	logger         zerolog.Logger
	clock          clock.Clock
	defaultTimeout time.Duration
	drainTimeout   time.Duration
}

// Option configures an ExecRunner.
type Option func(*ExecRunner)

// WithLogger sets the logger used for per-run debug records.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *ExecRunner) { r.logger = logger }
}

// WithClock sets the clock used to measure Result.Duration.
func WithClock(c clock.Clock) Option {
	return func(r *ExecRunner) { r.clock = c }
}

// WithDefaultTimeout sets the timeout applied when Options.Timeout is zero.
func WithDefaultTimeout(d time.Duration) Option {
	return func(r *ExecRunner) {
		if d > 0 {
			r.defaultTimeout = d
		}
	}
}

// WithDrainTimeout bounds how long output is still read after the process ended.
func WithDrainTimeout(d time.Duration) Option {
	return func(r *ExecRunner) {
		if d > 0 {
			r.drainTimeout = d
		}
	}
}

// NewExecRunner creates an ExecRunner with a 30s default timeout.
func NewExecRunner(opts ...Option) *ExecRunner {
	r := &ExecRunner{
		logger:         zerolog.Nop(),
		clock:          clock.RealClock{},
		defaultTimeout: constants.DefaultCommandTimeout,
		drainTimeout:   constants.KillWaitDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LookPath resolves name through PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, cmd Command, input []byte, opts Options) *Result {
	res := &Result{RunID: uuid.NewString()}
	start := r.clock.Now()
	defer func() {
		res.Duration = r.clock.Now().Sub(start)
		r.logRun(cmd, opts, res)
	}()

	if err := cmd.Validate(); err != nil {
		r.launchFailed(res, cmd, err)
		return res
	}
	if ctxutil.Canceled(ctx) != nil {
		r.launchFailed(res, cmd, context.Cause(ctx))
		return res
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = r.defaultTimeout
	}
	runCtx, cancel := ctxutil.WithOptionalTimeout(ctx, timeout)
	defer cancel()

	r.execute(runCtx, cmd, input, opts, res)
	return res
}

// execute owns the process lifecycle: start, feed, drain, wait or kill, reap.
func (r *ExecRunner) execute(ctx context.Context, cmd Command, input []byte, opts Options, res *Result) {
	c := buildCmd(cmd)
	c.Dir = opts.Dir
	if len(opts.Env) > 0 {
		c.Env = append(os.Environ(), opts.Env...)
	}
	setProcessGroup(c)

	p, err := newPipes(c, opts.CaptureStderrIntoOutput, len(input) > 0)
	if err != nil {
		r.launchFailed(res, cmd, err)
		return
	}
	if err := c.Start(); err != nil {
		p.closeAll()
		r.launchFailed(res, cmd, err)
		return
	}
	p.closeChildEnds()

	var g errgroup.Group
	var stdout, stderr bytes.Buffer
	g.Go(func() error { return drain(&stdout, p.stdoutR) })
	if p.stderrR != nil {
		g.Go(func() error { return drain(&stderr, p.stderrR) })
	}
	if p.stdinW != nil {
		g.Go(func() error { return feed(p.stdinW, input) })
	}

	exited := make(chan error, 1)
	go func() { exited <- c.Wait() }()

	var waitErr error
	timedOut := false
	select {
	case waitErr = <-exited:
	case <-ctx.Done():
		timedOut = true
		r.logger.Debug().Bool("deadline", ctxutil.DeadlineHit(ctx)).Int("pid", c.Process.Pid).Msg("killing process group")
		if killErr := killProcessGroup(c); killErr != nil {
			r.logger.Debug().Err(killErr).Int("pid", c.Process.Pid).Msg("kill after timeout")
		}
		waitErr = <-exited
	}

	// Reap stragglers left in the group by a child that already exited.
	_ = killProcessGroup(c)
	r.awaitDrain(&g, p)

	res.Output = stdout.String()
	res.Stderr = stderr.String()

	switch {
	case timedOut:
		res.Status = Status{Kind: StatusTimedOut, Code: -1}
		res.Err = fmt.Errorf("%s: %w: %w", Format(cmd), rterrors.ErrCommandTimeout, context.Cause(ctx))
	case waitErr == nil:
		res.Status = Status{Kind: StatusSucceeded}
	default:
		code := exitCode(waitErr)
		if opts.IgnoreNonZeroExit && code > 0 {
			res.Status = Status{Kind: StatusSucceeded, Code: code}
			return
		}
		res.Status = Status{Kind: StatusFailed, Code: code}
		res.Err = fmt.Errorf("%s: %w: %w", Format(cmd), rterrors.ErrCommandFailed, waitErr)
	}
}

// awaitDrain waits for the stream readers. A grandchild that escaped the process
// group may hold a pipe open; after the drain timeout the read ends are closed.
func (r *ExecRunner) awaitDrain(g *errgroup.Group, p *pipes) {
	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	timer := time.NewTimer(r.drainTimeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			r.logger.Debug().Err(err).Msg("stream drain")
		}
	case <-timer.C:
		r.logger.Debug().Dur("drain_timeout", r.drainTimeout).Msg("output still open after exit, closing")
		p.closeParentEnds()
		<-done
	}
	p.closeParentEnds()
}

func (r *ExecRunner) launchFailed(res *Result, cmd Command, err error) {
	res.Status = Status{Kind: StatusLaunchFailed, Code: -1}
	res.Err = fmt.Errorf("%s: %w: %w", Format(cmd), rterrors.ErrLaunchFailed, err)
}

func (r *ExecRunner) logRun(cmd Command, opts Options, res *Result) {
	evt := r.logger.Debug().
		Str("run_id", res.RunID).
		Str("command", logging.RedactCommand(Format(cmd))).
		Str("status", res.Status.Kind.String()).
		Int("exit_code", res.Status.Code).
		Dur("duration", res.Duration).
		Int("output_bytes", len(res.Output))
	if len(opts.Env) > 0 {
		evt = evt.Strs("env", logging.RedactEnv(opts.Env))
	}
	if res.Err != nil {
		evt = evt.Str("error", logging.FilterSensitiveValue(res.Err.Error()))
	}
	evt.Msg("command finished")
}

func buildCmd(cmd Command) *exec.Cmd {
	if cmd.IsShell() {
		name, args := shellInvocation(cmd.Line())
		return exec.Command(name, args...) //nolint:gosec // probe commands are built from fixed templates
	}
	args := cmd.Args()
	return exec.Command(args[0], args[1:]...) //nolint:gosec // probe commands are built from fixed templates
}

// pipes holds both ends of the OS pipes wired to the child. Using *os.File
// for the child side keeps os/exec from spawning its own copy goroutines, so
// Wait returns as soon as the process exits.
type pipes struct {
	stdoutR, stdoutW *os.File
	stderrR, stderrW *os.File
	stdinR, stdinW   *os.File

	closeOnce sync.Once
}

func newPipes(c *exec.Cmd, merged, withInput bool) (*pipes, error) {
	p := &pipes{}
	var err error
	if p.stdoutR, p.stdoutW, err = os.Pipe(); err != nil {
		return nil, err
	}
	c.Stdout = p.stdoutW
	if merged {
		c.Stderr = p.stdoutW
	} else {
		if p.stderrR, p.stderrW, err = os.Pipe(); err != nil {
			p.closeAll()
			return nil, err
		}
		c.Stderr = p.stderrW
	}
	if withInput {
		if p.stdinR, p.stdinW, err = os.Pipe(); err != nil {
			p.closeAll()
			return nil, err
		}
		c.Stdin = p.stdinR
	}
	return p, nil
}

func (p *pipes) closeChildEnds() {
	closeFiles(p.stdoutW, p.stderrW, p.stdinR)
}

func (p *pipes) closeParentEnds() {
	p.closeOnce.Do(func() {
		closeFiles(p.stdoutR, p.stderrR, p.stdinW)
	})
}

func (p *pipes) closeAll() {
	p.closeChildEnds()
	p.closeParentEnds()
}

func closeFiles(files ...*os.File) {
	for _, f := range files {
		if f != nil {
			_ = f.Close()
		}
	}
}

// drain copies a stream into buf until EOF. Reading from a pipe closed by
// awaitDrain is a normal way to stop.
func drain(buf *bytes.Buffer, r io.Reader) error {
	_, err := io.Copy(buf, r)
	if err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}

// feed writes the whole payload to the child's stdin and closes it. A child
// that exits without reading leaves a broken pipe, which is not an error.
func feed(w *os.File, input []byte) error {
	_, err := w.Write(input)
	closeErr := w.Close()
	if err != nil {
		if errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed) {
			return nil
		}
		return err
	}
	if closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
		return closeErr
	}
	return nil
}

// exitCode extracts the process exit code, or -1 when it is not available.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

var _ Runner = (*ExecRunner)(nil)
