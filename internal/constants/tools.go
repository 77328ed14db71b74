// Package constants provides centralized constant values used throughout rthealth.
// This file contains the names, commands and version floors of the probed runtimes.
package constants

// Check names. These are also the keys under "checks" in the config file.
const (
	// CheckNode probes Node.js, npm and the node host package.
	CheckNode = "node"

	// CheckPython probes Python 3, pip and the python host package.
	CheckPython = "python"

	// CheckRuby probes Ruby, RubyGems and the ruby host gem.
	CheckRuby = "ruby"

	// CheckPerl probes Perl, cpanm and the perl host module.
	CheckPerl = "perl"
)

// Executables resolved on PATH by the presence probe.
const (
	ToolNode    = "node"
	ToolNPM     = "npm"
	ToolPython  = "python3"
	ToolRuby    = "ruby"
	ToolGem     = "gem"
	ToolPerl    = "perl"
	ToolCPANM   = "cpanm"
)

// Default companion packages, one per check.
const (
	DefaultNodePackage   = "neovim"
	DefaultPythonPackage = "pynvim"
	DefaultRubyPackage   = "neovim"
	DefaultPerlPackage   = "Neovim::Ext"
)

// Minimum runtime versions. Below these the companion package is not checked.
const (
	// MinVersionNode is the oldest Node.js the node host package supports.
	MinVersionNode = "6.0.0"

	// MinVersionNodeInspectBrk is the first Node.js release with --inspect-brk.
	MinVersionNodeInspectBrk = "7.6.0"

	// MinVersionPython is the oldest Python the python host package supports.
	MinVersionPython = "3.7.0"

	// MinVersionRuby is the oldest Ruby the ruby host gem supports.
	MinVersionRuby = "2.6.0"

	// MinVersionPerl is the oldest Perl the perl host module supports.
	MinVersionPerl = "5.22.0"
)

// Version command arguments.
const (
	// VersionFlagShort is used by node.
	VersionFlagShort = "-v"

	// VersionFlagStandard is the standard version flag used by most tools.
	VersionFlagStandard = "--version"
)
