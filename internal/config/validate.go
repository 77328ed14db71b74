package config

import (
	"strings"

	"github.com/mrz1836/rthealth/internal/constants"
	"github.com/mrz1836/rthealth/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - runner.timeout must be between 100ms and 10 minutes
//   - check names must be known
//   - check packages must not be blank once defaults are applied
//   - output must be text, json or yaml
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}
	if err := validateRunnerConfig(&cfg.Runner); err != nil {
		return err
	}
	if err := validateChecks(cfg); err != nil {
		return err
	}
	return validateOutput(cfg.Output)
}

func validateRunnerConfig(cfg *RunnerConfig) error {
	if cfg.Timeout < constants.MinCommandTimeout || cfg.Timeout > constants.MaxCommandTimeout {
		return errors.Wrapf(errors.ErrConfigInvalidRunner,
			"runner.timeout must be between %s and %s, got %s",
			constants.MinCommandTimeout, constants.MaxCommandTimeout, cfg.Timeout)
	}
	return nil
}

func validateChecks(cfg *Config) error {
	for name := range cfg.Checks {
		if !IsKnownCheck(name) {
			return errors.Wrapf(errors.ErrConfigInvalidCheck,
				"unknown check %q (known: %s)", name, strings.Join(KnownChecks(), ", "))
		}
		if strings.TrimSpace(cfg.CheckSettings(name).Package) == "" {
			return errors.Wrapf(errors.ErrConfigInvalidCheck, "checks.%s.package must not be blank", name)
		}
	}
	return nil
}

func validateOutput(output string) error {
	switch output {
	case constants.OutputText, constants.OutputJSON, constants.OutputYAML:
		return nil
	default:
		return errors.Wrapf(errors.ErrInvalidOutputFormat, "output %q", output)
	}
}
