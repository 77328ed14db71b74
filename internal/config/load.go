package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/rthealth/internal/constants"
	"github.com/mrz1836/rthealth/internal/errors"
)

// newViperInstance creates a Viper with defaults, the RTHEALTH_ env prefix and
// a key replacer mapping "checks.node.disabled" to RTHEALTH_CHECKS_NODE_DISABLED.
func newViperInstance() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load reads configuration from every source in precedence order.
// explicitPath is the --config value; when non-empty the file must exist.
// Missing global and project files are not errors.
func Load(ctx context.Context, explicitPath string) (*Config, error) {
	paths := make([]string, 0, 3)
	if global, err := GlobalConfigPath(); err == nil && fileExists(global) {
		paths = append(paths, global)
	}
	if project := ProjectConfigPath(); fileExists(project) {
		paths = append(paths, project)
	}
	if explicitPath != "" {
		if !fileExists(explicitPath) {
			return nil, errors.Wrapf(errors.ErrConfigNotFound, "%s", explicitPath)
		}
		paths = append(paths, explicitPath)
	}
	return LoadFromPaths(ctx, paths...)
}

// LoadFromPaths merges the given files in order (later wins) over the defaults,
// applies environment overrides, then validates. Nonexistent paths are skipped.
func LoadFromPaths(ctx context.Context, paths ...string) (*Config, error) {
	v := newViperInstance()
	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()

	for _, path := range paths {
		if path == "" || !fileExists(path) {
			continue
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read config: %s", path)
		}
		logger.Debug().Str("path", path).Msg("merged config file")
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Dur("runner.timeout", cfg.Runner.Timeout).
		Str("output", cfg.Output).
		Int("checks", len(cfg.Checks)).
		Msg("configuration loaded")
	return cfg, nil
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// viperDecoderOption lets durations be written as "30s" or "2m".
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
