// Package config provides layered configuration for rthealth.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (applied by the cli package after Load)
//  2. Environment variables (RTHEALTH_* prefix, e.g. RTHEALTH_CHECKS_NODE_DISABLED)
//  3. The file passed with --config
//  4. Project config (.rthealth/config.yaml)
//  5. Global config (~/.rthealth/config.yaml, or $RTHEALTH_HOME/config.yaml)
//  6. Built-in defaults
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import other internal packages.
package config

import (
	"time"

	"github.com/mrz1836/rthealth/internal/constants"
)

// Config is the root configuration structure for rthealth.
type Config struct {
	// Runner contains settings for probe command execution.
	Runner RunnerConfig `yaml:"runner" mapstructure:"runner"`

	// Checks holds per-check settings keyed by check name (node, python, ruby, perl).
	Checks map[string]CheckConfig `yaml:"checks" mapstructure:"checks"`

	// Output is the default output format: text, json or yaml.
	Output string `yaml:"output" mapstructure:"output"`
}

// RunnerConfig contains settings for probe command execution.
type RunnerConfig struct {
	// Timeout bounds every single probe command.
	// Default: 30 seconds, valid range: 100ms to 10 minutes.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// CheckConfig contains the settings of one check.
type CheckConfig struct {
	// Disabled turns the check off. Nil means the user expressed no preference.
	Disabled *bool `yaml:"disabled,omitempty" mapstructure:"disabled"`

	// HostProg is an explicit runtime executable. When set it replaces the PATH
	// lookup of the runtime and overrides Disabled.
	HostProg string `yaml:"host_prog,omitempty" mapstructure:"host_prog"`

	// Package is the companion host package whose version is compared.
	Package string `yaml:"package" mapstructure:"package"`
}

// IsDisabled reports whether Disabled is set to true.
func (c CheckConfig) IsDisabled() bool {
	return c.Disabled != nil && *c.Disabled
}

// KnownChecks returns the check names in the order they run.
func KnownChecks() []string {
	return []string{constants.CheckNode, constants.CheckPython, constants.CheckRuby, constants.CheckPerl}
}

// IsKnownCheck reports whether name is one of KnownChecks.
func IsKnownCheck(name string) bool {
	for _, k := range KnownChecks() {
		if k == name {
			return true
		}
	}
	return false
}

// CheckSettings returns the settings for name, filling an empty package with
// the check's default.
func (c *Config) CheckSettings(name string) CheckConfig {
	settings := c.Checks[name]
	if settings.Package == "" {
		settings.Package = defaultPackage(name)
	}
	return settings
}

func defaultPackage(name string) string {
	switch name {
	case constants.CheckNode:
		return constants.DefaultNodePackage
	case constants.CheckPython:
		return constants.DefaultPythonPackage
	case constants.CheckRuby:
		return constants.DefaultRubyPackage
	case constants.CheckPerl:
		return constants.DefaultPerlPackage
	default:
		return ""
	}
}
