package config

import (
	"github.com/spf13/viper"

	"github.com/mrz1836/rthealth/internal/constants"
)

// DefaultConfig returns a Config holding the built-in defaults.
// Every known check is enabled and probes its default companion package.
func DefaultConfig() *Config {
	checks := make(map[string]CheckConfig, len(KnownChecks()))
	for _, name := range KnownChecks() {
		checks[name] = CheckConfig{Package: defaultPackage(name)}
	}
	return &Config{
		Runner: RunnerConfig{Timeout: constants.DefaultCommandTimeout},
		Checks: checks,
		Output: constants.OutputText,
	}
}

// setDefaults registers defaults and environment bindings on v.
// Keys must match the mapstructure tags exactly. Check keys are bound
// explicitly so that RTHEALTH_CHECKS_<NAME>_<KEY> works without a config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("runner.timeout", constants.DefaultCommandTimeout.String())
	v.SetDefault("output", constants.OutputText)

	for _, name := range KnownChecks() {
		prefix := "checks." + name + "."
		v.SetDefault(prefix+"package", defaultPackage(name))
		_ = v.BindEnv(prefix + "disabled")
		_ = v.BindEnv(prefix + "host_prog")
	}
}
