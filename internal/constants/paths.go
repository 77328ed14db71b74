package constants

// Log file names.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.rthealth/logs/rthealth.log
	CLILogFileName = "rthealth.log"
)

// Configuration file names.
const (
	// GlobalConfigName is the name of the global configuration file.
	// This file is located in the rthealth home directory.
	GlobalConfigName = "config.yaml"

	// EnvPrefix is the prefix for environment variable overrides (RTHEALTH_*).
	EnvPrefix = "RTHEALTH"

	// EnvHome overrides the rthealth home directory.
	EnvHome = "RTHEALTH_HOME"
)
