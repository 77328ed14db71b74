// Package doctor runs health checks for optional language runtimes and their
// companion host packages. Each check is a fixed sequence of probes executed
// through a runner.Runner, with findings written to a report.Reporter.
package doctor

import (
	"os"
	"regexp"
	"strings"

	"github.com/mrz1836/rthealth/internal/report"
	"github.com/mrz1836/rthealth/internal/runner"
	"github.com/mrz1836/rthealth/internal/semver"
)

// State is the terminal state a check ended in.
//
//nolint:recvcheck // UnmarshalText requires pointer receiver
type State int

const (
	// StateOK means every probe passed and the companion package is current.
	StateOK State = iota

	// StateDisabled means the check was turned off and launched no commands.
	StateDisabled

	// StateWarned means the check stopped at, or finished with, a warning.
	StateWarned

	// StateErrored means a probe failed hard.
	StateErrored
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateOK:
		return "ok"
	case StateDisabled:
		return "disabled"
	case StateWarned:
		return "warned"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode to StateErrored.
func (s *State) UnmarshalText(data []byte) error {
	switch string(data) {
	case "ok":
		*s = StateOK
	case "disabled":
		*s = StateDisabled
	case "warned":
		*s = StateWarned
	default:
		*s = StateErrored
	}
	return nil
}

// CheckContext carries the per-check settings resolved from configuration.
// A check treats it as read-only.
type CheckContext struct {
	// WorkDir is the directory probes run in. Empty means the current directory.
	WorkDir string

	// Disabled is the disabling signal. Nil means unset.
	Disabled *bool

	// HostProgram replaces the check's primary executable when non-empty.
	// It also overrides Disabled.
	HostProgram string

	// Package is the companion package name to look up.
	Package string

	// Env is appended to the inherited process environment of every probe.
	Env []string
}

// IsDisabled reports whether the disabling signal is set to true.
func (c CheckContext) IsDisabled() bool {
	return c.Disabled != nil && *c.Disabled
}

// Getenv returns key as a probe sees it: the last entry in Env wins, otherwise
// the inherited process environment.
func (c CheckContext) Getenv(key string) string {
	prefix := key + "="
	for i := len(c.Env) - 1; i >= 0; i-- {
		if v, ok := strings.CutPrefix(c.Env[i], prefix); ok {
			return v
		}
	}
	return os.Getenv(key)
}

// Probe is one command a check runs against a package manager or interpreter.
type Probe struct {
	// Command is the command line to run.
	Command runner.Command

	// Input is written to the command's stdin when non-empty.
	Input []byte

	// Parse extracts a version from the command's output. Nil for probes
	// that only care about the exit status.
	Parse func(output string) (semver.Version, error)
}

// ProbeFunc builds a Probe for the given companion package name.
type ProbeFunc func(pkg string) Probe

// Finding is an advisory produced by a capability probe.
type Finding struct {
	Kind    report.EventKind
	Message string
	Hints   []string
}

// Capability inspects a detected runtime and may return an advisory finding.
// Returning nil means nothing to report. Capabilities never stop a check.
type Capability func(version semver.Version, cctx CheckContext) *Finding

// Check describes the substitutions for one runtime. Doctor drives every check
// through the same steps: disabled gate, presence, version probe, minimum-version
// gate, capability probes, companion detection, remote latest lookup, local
// installed lookup and the final comparison.
type Check struct {
	// Name is the config key and CLI name of the check ("node").
	Name string

	// Section is the report section heading ("Node.js provider").
	Section string

	// Runtime is the display name of the runtime ("Node.js").
	Runtime string

	// Manager is the display name of the package manager ("npm").
	Manager string

	// DefaultPackage is used when the CheckContext names no package.
	DefaultPackage string

	// Executables must all resolve on PATH. The first one is the interpreter
	// and is replaced by a configured host program.
	Executables []string

	// VersionCommand prints the runtime version.
	VersionCommand runner.Command

	// VersionPattern extracts the version from VersionCommand output.
	// Its first capture group holds the version.
	VersionPattern *regexp.Regexp

	// MinVersion is the oldest supported runtime version.
	MinVersion semver.Version

	// Capabilities run after the minimum-version gate passed.
	Capabilities []Capability

	// Override may force a disabled check to run. Nil means no override.
	Override func(cctx CheckContext) bool

	// DetectCompanion succeeds when the companion package is installed.
	DetectCompanion ProbeFunc

	// RemoteLatest reports the newest published version of the package.
	RemoteLatest ProbeFunc

	// LocalInstalled reports the installed version of the package.
	LocalInstalled ProbeFunc

	// RuntimeHints explain how to install the runtime itself.
	RuntimeHints []string

	// InstallCommands returns one install command per known package manager.
	InstallCommands func(pkg string) []string

	// UpgradeCommand returns the command that upgrades the package.
	UpgradeCommand func(pkg string) string
}

// packageFor returns the package the check should look up.
func (c Check) packageFor(cctx CheckContext) string {
	if cctx.Package != "" {
		return cctx.Package
	}
	return c.DefaultPackage
}

// program returns the interpreter the check runs, honoring a host program.
func (c Check) program(cctx CheckContext) string {
	if cctx.HostProgram != "" {
		return cctx.HostProgram
	}
	if len(c.Executables) > 0 {
		return c.Executables[0]
	}
	return ""
}

// bind points cmd at the configured host program when cmd runs the interpreter.
func (c Check) bind(cmd runner.Command, cctx CheckContext) runner.Command {
	if cctx.HostProgram == "" || len(c.Executables) == 0 || cmd.IsShell() {
		return cmd
	}
	if cmd.Program() != c.Executables[0] {
		return cmd
	}
	return cmd.WithProgram(cctx.HostProgram)
}

// Outcome is the result of running one check.
type Outcome struct {
	Check     string         `json:"check" yaml:"check"`
	State     State          `json:"state" yaml:"state"`
	Runtime   string         `json:"runtime,omitempty" yaml:"runtime,omitempty"`
	Installed string         `json:"installed,omitempty" yaml:"installed,omitempty"`
	Latest    string         `json:"latest,omitempty" yaml:"latest,omitempty"`
	Events    []report.Event `json:"events" yaml:"events"`
}

// Report holds one Outcome per check that ran, in run order.
type Report struct {
	Outcomes []Outcome      `json:"outcomes" yaml:"outcomes"`
	Summary  report.Summary `json:"summary" yaml:"summary"`
}

// HasErrors reports whether any check emitted an Error event.
func (r *Report) HasErrors() bool {
	return r.Summary.HasErrors()
}

// Outcome returns the outcome of the named check.
func (r *Report) Outcome(name string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Check == name {
			return o, true
		}
	}
	return Outcome{}, false
}
