package doctor

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/mrz1836/rthealth/internal/constants"
	rterrors "github.com/mrz1836/rthealth/internal/errors"
	"github.com/mrz1836/rthealth/internal/report"
	"github.com/mrz1836/rthealth/internal/runner"
	"github.com/mrz1836/rthealth/internal/semver"
)

// Pre-compiled patterns for runtime and package-manager output.
//
//nolint:gochecknoglobals // Package-level compiled regexes
var (
	// "v16.14.0"
	nodeVersionRe = regexp.MustCompile(`v?(\d+\.\d+\.\d+)`)

	// "Python 3.11.4"
	pythonVersionRe = regexp.MustCompile(`Python (\d+\.\d+(?:\.\d+)?)`)

	// "ruby 3.2.2 (2023-03-30 revision e51014f9c0) [x86_64-linux]"
	rubyVersionRe = regexp.MustCompile(`ruby (\d+\.\d+\.\d+)`)

	// "v5.36.0"
	perlVersionRe = regexp.MustCompile(`v?(\d+\.\d+\.\d+)`)

	// "pynvim (0.5.0)" on the first line of pip index versions
	pipIndexRe = regexp.MustCompile(`(?m)^\S+\s+\(([^)\s]+)\)`)

	// "Version: 0.4.3" in pip show
	pipShowRe = regexp.MustCompile(`(?m)^Version:\s*(\S+)`)

	// "AUTHOR/Neovim-Ext-0.06.tar.gz" in cpanm --info
	cpanInfoRe = regexp.MustCompile(`-v?(\d+(?:\.\d+)+)\.tar\.gz`)
)

// Checks returns every built-in check in run order.
func Checks() []Check {
	return []Check{nodeCheck(), pythonCheck(), rubyCheck(), perlCheck()}
}

// Names returns the names of the built-in checks in run order.
func Names() []string {
	checks := Checks()
	names := make([]string, len(checks))
	for i, c := range checks {
		names[i] = c.Name
	}
	return names
}

// Lookup returns the built-in check with the given name.
func Lookup(name string) (Check, error) {
	for _, c := range Checks() {
		if c.Name == name {
			return c, nil
		}
	}
	return Check{}, rterrors.Wrapf(rterrors.ErrUnknownCheck, "%q (known: %s)", name, strings.Join(Names(), ", "))
}

// Select returns the named checks in run order, dropping duplicates.
// An empty selection returns every check.
func Select(names []string) ([]Check, error) {
	if len(names) == 0 {
		return Checks(), nil
	}
	want := make(map[string]bool, len(names))
	for _, name := range names {
		if _, err := Lookup(name); err != nil {
			return nil, err
		}
		want[name] = true
	}
	var selected []Check
	for _, c := range Checks() {
		if want[c.Name] {
			selected = append(selected, c)
		}
	}
	return selected, nil
}

func nodeCheck() Check {
	return Check{
		Name:           constants.CheckNode,
		Section:        "Node.js provider",
		Runtime:        "Node.js",
		Manager:        "npm",
		DefaultPackage: constants.DefaultNodePackage,
		Executables:    []string{constants.ToolNode, constants.ToolNPM},
		VersionCommand: runner.Argv(constants.ToolNode, constants.VersionFlagShort),
		VersionPattern: nodeVersionRe,
		MinVersion:     semver.MustParse(constants.MinVersionNode),
		Capabilities:   []Capability{nodeInspectBrk},
		DetectCompanion: func(pkg string) Probe {
			return Probe{Command: npmList(pkg)}
		},
		RemoteLatest: func(pkg string) Probe {
			return Probe{
				Command: runner.Argv(constants.ToolNPM, "info", pkg, "version", "--json"),
				Parse:   semver.Parse,
			}
		},
		LocalInstalled: func(pkg string) Probe {
			return Probe{Command: npmList(pkg), Parse: parseNPMList(pkg)}
		},
		RuntimeHints: []string{
			"Install Node.js " + constants.MinVersionNode + " or newer from https://nodejs.org/ or your system package manager.",
		},
		InstallCommands: func(pkg string) []string {
			return []string{
				"npm install -g " + pkg,
				"yarn global add " + pkg,
				"pnpm add -g " + pkg,
			}
		},
		UpgradeCommand: func(pkg string) string {
			return "npm install -g " + pkg + "@latest"
		},
	}
}

func npmList(pkg string) runner.Command {
	return runner.Argv(constants.ToolNPM, "ls", "--global", "--json", pkg)
}

// parseNPMList reads the version of pkg out of `npm ls --json` output.
func parseNPMList(pkg string) func(string) (semver.Version, error) {
	return func(output string) (semver.Version, error) {
		var tree struct {
			Dependencies map[string]struct {
				Version string `json:"version"`
			} `json:"dependencies"`
		}
		if err := json.Unmarshal([]byte(output), &tree); err != nil {
			return semver.Version{}, rterrors.Wrapf(rterrors.ErrParseFailure, "npm ls output: %v", err)
		}
		dep, ok := tree.Dependencies[pkg]
		if !ok || dep.Version == "" {
			return semver.Version{}, rterrors.Wrapf(rterrors.ErrParseFailure, "%s missing from npm ls output", pkg)
		}
		return semver.Parse(dep.Version)
	}
}

func nodeInspectBrk(version semver.Version, _ CheckContext) *Finding {
	minimum := semver.MustParse(constants.MinVersionNodeInspectBrk)
	if version.AtLeast(minimum) {
		return nil
	}
	return &Finding{
		Kind:    report.Warn,
		Message: fmt.Sprintf("Node.js %s does not support --inspect-brk; host debugging is unavailable", version),
		Hints:   []string{"Upgrade Node.js to " + constants.MinVersionNodeInspectBrk + " or newer."},
	}
}

func pythonCheck() Check {
	return Check{
		Name:           constants.CheckPython,
		Section:        "Python 3 provider",
		Runtime:        "Python",
		Manager:        "pip",
		DefaultPackage: constants.DefaultPythonPackage,
		Executables:    []string{constants.ToolPython},
		VersionCommand: runner.Argv(constants.ToolPython, constants.VersionFlagStandard),
		VersionPattern: pythonVersionRe,
		MinVersion:     semver.MustParse(constants.MinVersionPython),
		Capabilities:   []Capability{pythonVirtualenv},
		DetectCompanion: func(pkg string) Probe {
			return Probe{
				Command: runner.Argv(constants.ToolPython, "-"),
				Input:   []byte("import " + pkg + "\n"),
			}
		},
		RemoteLatest: func(pkg string) Probe {
			return Probe{
				Command: runner.Argv(constants.ToolPython, "-m", "pip", "index", "versions", pkg),
				Parse:   extractWith(pipIndexRe),
			}
		},
		LocalInstalled: func(pkg string) Probe {
			return Probe{
				Command: runner.Argv(constants.ToolPython, "-m", "pip", "show", pkg),
				Parse:   extractWith(pipShowRe),
			}
		},
		RuntimeHints: []string{
			"Install Python " + constants.MinVersionPython + " or newer from https://www.python.org/downloads/ or your system package manager.",
		},
		InstallCommands: func(pkg string) []string {
			return []string{
				"python3 -m pip install --user " + pkg,
				"uv pip install " + pkg,
			}
		},
		UpgradeCommand: func(pkg string) string {
			return "python3 -m pip install --user --upgrade " + pkg
		},
	}
}

func pythonVirtualenv(_ semver.Version, cctx CheckContext) *Finding {
	venv := cctx.Getenv("VIRTUAL_ENV")
	if venv == "" || cctx.HostProgram != "" {
		return nil
	}
	return &Finding{
		Kind:    report.Warn,
		Message: fmt.Sprintf("a virtualenv is active (%s); python3 resolves to its interpreter", venv),
		Hints: []string{
			"Set checks.python.host_prog to a python3 outside the virtualenv so the package lookup does not depend on the active project.",
		},
	}
}

func rubyCheck() Check {
	return Check{
		Name:           constants.CheckRuby,
		Section:        "Ruby provider",
		Runtime:        "Ruby",
		Manager:        "RubyGems",
		DefaultPackage: constants.DefaultRubyPackage,
		Executables:    []string{constants.ToolRuby, constants.ToolGem},
		VersionCommand: runner.Argv(constants.ToolRuby, constants.VersionFlagShort),
		VersionPattern: rubyVersionRe,
		MinVersion:     semver.MustParse(constants.MinVersionRuby),
		DetectCompanion: func(pkg string) Probe {
			return Probe{Command: runner.Argv(constants.ToolGem, "list", "-i", "^"+pkg+"$")}
		},
		RemoteLatest: func(pkg string) Probe {
			return Probe{
				Command: runner.Argv(constants.ToolGem, "list", "-r", "-e", pkg),
				Parse:   parseGemList(pkg),
			}
		},
		LocalInstalled: func(pkg string) Probe {
			return Probe{
				Command: runner.Argv(constants.ToolGem, "list", "-e", pkg),
				Parse:   parseGemList(pkg),
			}
		},
		RuntimeHints: []string{
			"Install Ruby " + constants.MinVersionRuby + " or newer from https://www.ruby-lang.org/en/downloads/ or a version manager such as rbenv.",
		},
		InstallCommands: func(pkg string) []string {
			return []string{
				"gem install " + pkg,
				"gem install --user-install " + pkg,
			}
		},
		UpgradeCommand: func(pkg string) string {
			return "gem update " + pkg
		},
	}
}

// parseGemList reads the newest version of pkg from `gem list` output such as
// "neovim (0.9.1, 0.8.0)" or "neovim (default: 0.9.1)".
func parseGemList(pkg string) func(string) (semver.Version, error) {
	re := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(pkg) + ` \((?:default: )?([^,)\s]+)`)
	return extractWith(re)
}

func perlCheck() Check {
	return Check{
		Name:           constants.CheckPerl,
		Section:        "Perl provider",
		Runtime:        "Perl",
		Manager:        "CPAN",
		DefaultPackage: constants.DefaultPerlPackage,
		Executables:    []string{constants.ToolPerl, constants.ToolCPANM},
		VersionCommand: runner.Argv(constants.ToolPerl, "-e", "print $^V"),
		VersionPattern: perlVersionRe,
		MinVersion:     semver.MustParse(constants.MinVersionPerl),
		DetectCompanion: func(pkg string) Probe {
			return Probe{
				Command: runner.Argv(constants.ToolPerl, "-"),
				Input:   []byte("use " + pkg + ";\n"),
			}
		},
		RemoteLatest: func(pkg string) Probe {
			return Probe{
				Command: runner.Argv(constants.ToolCPANM, "--info", pkg),
				Parse:   extractWith(cpanInfoRe),
			}
		},
		LocalInstalled: func(pkg string) Probe {
			return Probe{
				Command: runner.Argv(constants.ToolPerl, "-"),
				Input:   []byte("use " + pkg + "; print $" + pkg + "::VERSION;\n"),
				Parse:   semver.Parse,
			}
		},
		RuntimeHints: []string{
			"Install Perl " + constants.MinVersionPerl + " or newer from https://www.perl.org/get.html or your system package manager.",
			"Install cpanminus: curl -L https://cpanmin.us | perl - App::cpanminus",
		},
		InstallCommands: func(pkg string) []string {
			return []string{
				"cpanm -n " + pkg,
				"cpan " + pkg,
			}
		},
		UpgradeCommand: func(pkg string) string {
			return "cpanm -n " + pkg
		},
	}
}

func extractWith(re *regexp.Regexp) func(string) (semver.Version, error) {
	return func(output string) (semver.Version, error) {
		return semver.ExtractWith(re, output)
	}
}
