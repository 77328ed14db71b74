package config

import (
	"os"
	"path/filepath"

	"github.com/mrz1836/rthealth/internal/constants"
	"github.com/mrz1836/rthealth/internal/errors"
)

// HomeDir returns the rthealth home directory: $RTHEALTH_HOME when set,
// otherwise ~/.rthealth.
func HomeDir() (string, error) {
	if dir := os.Getenv(constants.EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.AppHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// ProjectConfigPath returns the relative path to the project configuration file.
// This is always .rthealth/config.yaml relative to the working directory.
func ProjectConfigPath() string {
	return filepath.Join(constants.AppHome, constants.GlobalConfigName)
}

// LogFilePath returns the path of the rotating CLI log file.
func LogFilePath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.LogsDir, constants.CLILogFileName), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
