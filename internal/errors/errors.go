// Package errors provides centralized error handling for rthealth.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrLaunchFailed indicates that a probe command could not be started
	// (executable missing, permission denied, spawn error).
	ErrLaunchFailed = errors.New("command launch failed")

	// ErrCommandTimeout indicates a command exceeded its timeout and was killed.
	ErrCommandTimeout = errors.New("command timeout exceeded")

	// ErrCommandFailed indicates that a command ran and exited with a non-zero code.
	ErrCommandFailed = errors.New("command failed")

	// ErrParseFailure indicates that command output did not have the expected shape
	// (no version string, empty registry answer, malformed JSON).
	ErrParseFailure = errors.New("unexpected command output")

	// ErrEmptyCommand indicates that a command was built without any argument.
	ErrEmptyCommand = errors.New("command is empty")

	// ErrCommandNotConfigured indicates that a scripted command was not configured in tests.
	ErrCommandNotConfigured = errors.New("command not configured")

	// ErrUnknownCheck indicates that an unknown check name was specified.
	ErrUnknownCheck = errors.New("unknown check")

	// ErrChecksFailed indicates that at least one check reported an error.
	ErrChecksFailed = errors.New("health checks reported errors")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigNotFound indicates that an explicitly requested config file was not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrConfigInvalidRunner indicates an invalid runner configuration value.
	ErrConfigInvalidRunner = errors.New("invalid runner configuration")

	// ErrConfigInvalidCheck indicates an invalid per-check configuration value.
	ErrConfigInvalidCheck = errors.New("invalid check configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInvalidArgument indicates that an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInterrupted indicates the run was stopped by SIGINT or SIGTERM.
	ErrInterrupted = errors.New("interrupted by signal")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
