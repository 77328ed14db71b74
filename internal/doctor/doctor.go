package doctor

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/mrz1836/rthealth/internal/clock"
	rterrors "github.com/mrz1836/rthealth/internal/errors"
	"github.com/mrz1836/rthealth/internal/report"
	"github.com/mrz1836/rthealth/internal/runner"
	"github.com/mrz1836/rthealth/internal/semver"
)

// maxHintOutput caps how much raw command output is attached to a finding.
const maxHintOutput = 400

// SettingsFunc resolves the CheckContext for a check by name.
type SettingsFunc func(name string) CheckContext

// Doctor runs checks strictly one after another.
type Doctor struct {
	runner   runner.Runner
	reporter *report.Reporter
	checks   []Check
	settings SettingsFunc
	timeout  time.Duration
	clock    clock.Clock
	logger   zerolog.Logger
}

// Option configures a Doctor.
type Option func(*Doctor)

// WithSettings sets how per-check settings are resolved.
func WithSettings(fn SettingsFunc) Option {
	return func(d *Doctor) {
		if fn != nil {
			d.settings = fn
		}
	}
}

// WithTimeout sets the per-command timeout passed to the runner.
// Zero leaves the runner default in place.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Doctor) { d.timeout = timeout }
}

// WithClock sets the clock used to time checks.
func WithClock(c clock.Clock) Option {
	return func(d *Doctor) { d.clock = c }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Doctor) { d.logger = logger }
}

// New creates a Doctor that runs checks in the given order.
func New(r runner.Runner, rep *report.Reporter, checks []Check, opts ...Option) *Doctor {
	d := &Doctor{
		runner:   r,
		reporter: rep,
		checks:   append([]Check(nil), checks...),
		settings: func(string) CheckContext { return CheckContext{} },
		clock:    clock.RealClock{},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run executes every check and returns one Outcome per check.
// A failing check never prevents later checks. Cancellation of ctx stops the
// run before the next check starts.
func (d *Doctor) Run(ctx context.Context) *Report {
	rep := &Report{Outcomes: make([]Outcome, 0, len(d.checks))}
	for _, check := range d.checks {
		if ctx.Err() != nil {
			d.logger.Warn().Err(ctx.Err()).Str("check", check.Name).Msg("run canceled, skipping remaining checks")
			break
		}
		rep.Outcomes = append(rep.Outcomes, d.RunCheck(ctx, check, d.settings(check.Name)))
	}
	rep.Summary = d.reporter.Summary()
	return rep
}

// RunCheck drives a single check through its steps and returns its Outcome.
func (d *Doctor) RunCheck(ctx context.Context, check Check, cctx CheckContext) Outcome {
	mark := d.reporter.Len()
	start := d.clock.Now()

	run := &checkRun{d: d, ctx: ctx, check: check, cctx: cctx, pkg: check.packageFor(cctx)}
	out := Outcome{Check: check.Name}
	out.State = run.execute(&out)
	out.Events = d.reporter.EventsSince(mark)

	d.logger.Debug().
		Str("check", check.Name).
		Str("state", out.State.String()).
		Dur("duration", d.clock.Now().Sub(start)).
		Msg("check finished")
	return out
}

// checkRun holds the state of one RunCheck call.
type checkRun struct {
	d     *Doctor
	ctx   context.Context //nolint:containedctx // scoped to a single RunCheck call
	check Check
	cctx  CheckContext
	pkg   string
	path  string
}

func (c *checkRun) execute(out *Outcome) State {
	rep := c.d.reporter
	check := c.check

	rep.StartSection(check.Section)

	if c.cctx.IsDisabled() {
		if !c.overridden() {
			rep.Info(fmt.Sprintf("%s check is disabled (checks.%s.disabled)", check.Runtime, check.Name))
			return StateDisabled
		}
		rep.Info(fmt.Sprintf("checks.%s.disabled is set but overridden; running anyway", check.Name))
	}

	if !c.present() {
		return StateWarned
	}

	version, ok := c.probeVersion()
	if !ok {
		return StateErrored
	}
	out.Runtime = version.String()

	if version.Less(check.MinVersion) {
		rep.Warn(
			fmt.Sprintf("%s %s is too old; %s or newer is required", check.Runtime, version, check.MinVersion),
			check.RuntimeHints...,
		)
		return StateWarned
	}
	rep.Info(fmt.Sprintf("%s: %s (%s)", check.Runtime, version, c.path))

	for _, capability := range check.Capabilities {
		c.report(capability(version, c.cctx))
	}

	if state, ok := c.detectCompanion(); !ok {
		return state
	}

	latest, ok := c.lookup(check.RemoteLatest, "latest", rterrors.ConnectivityHints())
	if !ok {
		return StateErrored
	}
	out.Latest = latest.String()

	installed, ok := c.lookup(check.LocalInstalled, "installed", nil)
	if !ok {
		return StateErrored
	}
	out.Installed = installed.String()

	if installed.Less(latest) {
		var hints []string
		if check.UpgradeCommand != nil {
			hints = append(hints, "Run: "+check.UpgradeCommand(c.pkg))
		}
		rep.Warn(fmt.Sprintf("%s %s is installed; latest is %s", c.pkg, installed, latest), hints...)
		return StateWarned
	}
	rep.OK(fmt.Sprintf("%s %s is up to date", c.pkg, installed))
	return StateOK
}

// overridden reports whether a disabled check should run anyway.
func (c *checkRun) overridden() bool {
	if c.cctx.HostProgram != "" {
		return true
	}
	return c.check.Override != nil && c.check.Override(c.cctx)
}

// present resolves every executable, warning about the first missing one.
func (c *checkRun) present() bool {
	for i, name := range c.check.Executables {
		if i == 0 {
			name = c.check.program(c.cctx)
		}
		path, err := c.d.runner.LookPath(name)
		if err != nil {
			c.d.logger.Debug().Err(err).Str("executable", name).Msg("lookup failed")
			hints := c.check.RuntimeHints
			if i == 0 {
				hints = append(append([]string(nil), hints...),
					fmt.Sprintf("Set checks.%s.host_prog to the interpreter you want to use.", c.check.Name))
			}
			c.d.reporter.Warn(fmt.Sprintf("%s: %q not found", c.check.Runtime, name), hints...)
			return false
		}
		if i == 0 {
			c.path = path
		}
	}
	return true
}

func (c *checkRun) probeVersion() (semver.Version, bool) {
	cmd := c.check.bind(c.check.VersionCommand, c.cctx)
	res := c.d.runner.Run(c.ctx, cmd, nil, c.options(true))
	if !c.succeeded(cmd, res) {
		return semver.Version{}, false
	}

	version, err := semver.ExtractWith(c.check.VersionPattern, res.Output)
	if err != nil {
		c.d.reporter.Error(
			fmt.Sprintf("%s: unexpected output from `%s`", c.check.Runtime, runner.Format(cmd)),
			"Output: "+clip(res.Output),
		)
		return semver.Version{}, false
	}
	return version, true
}

// detectCompanion returns ok=false with the terminal state when the package is absent.
func (c *checkRun) detectCompanion() (State, bool) {
	if c.check.DetectCompanion == nil {
		return StateOK, true
	}
	probe := c.check.DetectCompanion(c.pkg)
	cmd := c.check.bind(probe.Command, c.cctx)
	res := c.d.runner.Run(c.ctx, cmd, probe.Input, c.options(true))

	switch res.Status.Kind {
	case runner.StatusSucceeded:
		return StateOK, true
	case runner.StatusFailed:
		var hints []string
		if c.check.InstallCommands != nil {
			for _, line := range c.check.InstallCommands(c.pkg) {
				hints = append(hints, "Run: "+line)
			}
		}
		c.d.reporter.Warn(fmt.Sprintf("%s %s package %q is not installed", c.check.Runtime, c.check.Manager, c.pkg), hints...)
		return StateWarned, false
	case runner.StatusTimedOut, runner.StatusLaunchFailed:
		c.succeeded(cmd, res)
		return StateErrored, false
	}
	return StateErrored, false
}

// lookup runs a version probe, reporting an Error on any failure.
// Empty and unparseable output are both treated as parse failures.
func (c *checkRun) lookup(fn ProbeFunc, what string, parseHints []string) (semver.Version, bool) {
	if fn == nil {
		c.d.reporter.Error(fmt.Sprintf("%s check has no %s version lookup configured", c.check.Name, what))
		return semver.Version{}, false
	}
	probe := fn(c.pkg)
	cmd := c.check.bind(probe.Command, c.cctx)
	res := c.d.runner.Run(c.ctx, cmd, probe.Input, c.options(false))
	if !c.succeeded(cmd, res) {
		return semver.Version{}, false
	}

	parse := probe.Parse
	if parse == nil {
		parse = semver.Extract
	}
	version, err := parse(res.Output)
	if err == nil && strings.TrimSpace(res.Output) == "" {
		err = rterrors.ErrParseFailure
	}
	if err != nil {
		c.d.logger.Debug().Err(err).Str("command", runner.Format(cmd)).Msg("version parse failed")
		hints := append([]string{"Output: " + clip(res.Output)}, parseHints...)
		c.d.reporter.Error(
			fmt.Sprintf("could not determine the %s version of %s from `%s`", what, c.pkg, runner.Format(cmd)),
			hints...,
		)
		return semver.Version{}, false
	}
	return version, true
}

// succeeded reports res as an Error unless the command succeeded.
func (c *checkRun) succeeded(cmd runner.Command, res *runner.Result) bool {
	display := runner.Format(cmd)
	if !res.Succeeded() && stderrors.Is(res.Err, rterrors.ErrInterrupted) {
		c.d.reporter.Error(fmt.Sprintf("`%s` was interrupted", display))
		return false
	}
	switch res.Status.Kind {
	case runner.StatusSucceeded:
		return true
	case runner.StatusTimedOut:
		c.d.reporter.Error(fmt.Sprintf("`%s` timed out", display), hintsFor(res.Err, rterrors.ErrCommandTimeout)...)
	case runner.StatusLaunchFailed:
		c.d.reporter.Error(fmt.Sprintf("`%s` could not be started", display), hintsFor(res.Err, rterrors.ErrLaunchFailed)...)
	case runner.StatusFailed:
		var hints []string
		if detail := strings.TrimSpace(res.Stderr); detail != "" {
			hints = append(hints, "stderr: "+clip(detail))
		} else if detail := strings.TrimSpace(res.Output); detail != "" {
			hints = append(hints, "Output: "+clip(detail))
		}
		c.d.reporter.Error(fmt.Sprintf("`%s` failed (exit %d)", display, res.Status.Code), hints...)
	}
	return false
}

func (c *checkRun) report(f *Finding) {
	if f == nil {
		return
	}
	switch f.Kind {
	case report.Warn:
		c.d.reporter.Warn(f.Message, f.Hints...)
	case report.OK:
		c.d.reporter.OK(f.Message)
	default:
		c.d.reporter.Info(f.Message)
	}
}

func (c *checkRun) options(mergeStderr bool) runner.Options {
	return runner.Options{
		CaptureStderrIntoOutput: mergeStderr,
		Timeout:                 c.d.timeout,
		Dir:                     c.cctx.WorkDir,
		Env:                     c.cctx.Env,
	}
}

// hintsFor returns the remediation hints for err, falling back to those of fallback.
func hintsFor(err, fallback error) []string {
	if hints := rterrors.Hints(err); len(hints) > 0 {
		return hints
	}
	return rterrors.Hints(fallback)
}

func clip(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(empty)"
	}
	if len(s) > maxHintOutput {
		cut := maxHintOutput
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	return s
}
