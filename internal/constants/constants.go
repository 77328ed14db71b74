// Package constants provides centralized constant values used throughout rthealth.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by rthealth.
const (
	// AppHome is the hidden directory name where rthealth stores its config and logs.
	// This directory is created in the user's home directory.
	AppHome = ".rthealth"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"
)

// Timeout configurations for command execution.
const (
	// DefaultCommandTimeout is how long a single probe command may run before it is
	// force-terminated and reported as timed out.
	DefaultCommandTimeout = 30 * time.Second

	// MinCommandTimeout is the smallest per-command timeout accepted from config.
	MinCommandTimeout = 100 * time.Millisecond

	// MaxCommandTimeout is the largest per-command timeout accepted from config.
	MaxCommandTimeout = 10 * time.Minute

	// KillWaitDelay bounds how long the runner keeps draining pipes after the
	// process was killed. Grandchildren holding the pipes open must not hang a run.
	KillWaitDelay = 2 * time.Second
)

// Log rotation settings for the CLI log file.
const (
	// LogMaxSizeMB is the maximum size in megabytes before the log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files to keep.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age in days of rotated log files.
	LogMaxAgeDays = 28

	// LogCompress enables gzip compression of rotated log files.
	LogCompress = true
)

// Output formats accepted by --output and the "output" config key.
const (
	// OutputText is the default human-readable output format.
	OutputText = "text"
	// OutputJSON emits one JSON object per finding.
	OutputJSON = "json"
	// OutputYAML emits one YAML document per finding.
	OutputYAML = "yaml"
)
