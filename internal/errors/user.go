package errors

import "errors"

// ErrorInfo holds user-facing message, suggested action and remediation hints for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
	// Hints are additional remediation steps shown under a diagnostic.
	Hints []string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// connectivityHints are shown whenever a probe could not reach a package registry
// or a tool did not answer in time.
//
//nolint:gochecknoglobals // Shared immutable hint list
var connectivityHints = []string{
	"Check your internet connection and that the package registry is reachable.",
	"A firewall or corporate proxy may be blocking the request; set HTTP_PROXY/HTTPS_PROXY if needed.",
	"Retry with a longer timeout: rthealth --timeout 2m",
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// Interrupted runs also wrap ErrCommandTimeout, so this entry must come first.
	{
		err: ErrInterrupted,
		info: ErrorInfo{
			Message: "The run was interrupted; the probe in flight was stopped.",
		},
	},

	// ===================
	// Command execution
	// ===================
	{
		err: ErrLaunchFailed,
		info: ErrorInfo{
			Message: "A probe command could not be started.",
			Action:  "Make sure the tool is installed and on your PATH.",
			Hints:   connectivityHints,
		},
	},
	{
		err: ErrCommandTimeout,
		info: ErrorInfo{
			Message: "A probe command did not finish in time and was stopped.",
			Action:  "Increase the timeout or check whether the tool is waiting on the network.",
			Hints:   connectivityHints,
		},
	},
	{
		err: ErrCommandFailed,
		info: ErrorInfo{
			Message: "A probe command exited with an error.",
			Action:  "Run the command shown above by hand to see its full output.",
		},
	},
	{
		err: ErrParseFailure,
		info: ErrorInfo{
			Message: "A probe command returned output in an unexpected format.",
			Action:  "Run the command shown above by hand and report the output if it looks correct.",
			Hints:   connectivityHints,
		},
	},
	{
		err: ErrChecksFailed,
		info: ErrorInfo{
			Message: "One or more health checks reported errors.",
			Action:  "Follow the hints printed under each error and run rthealth again.",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigNotFound,
		info: ErrorInfo{
			Message: "Configuration file not found.",
			Action:  "Check the path passed to --config.",
		},
	},
	{
		err: ErrConfigNil,
		info: ErrorInfo{
			Message: "Configuration is not loaded.",
			Action:  "Ensure config.yaml exists and is valid YAML.",
		},
	},
	{
		err: ErrConfigInvalidRunner,
		info: ErrorInfo{
			Message: "Invalid runner configuration.",
			Action:  "Check the 'runner' section in config.yaml; use durations like '30s' or '2m'.",
		},
	},
	{
		err: ErrConfigInvalidCheck,
		info: ErrorInfo{
			Message: "Invalid check configuration.",
			Action:  "Check the 'checks' section in config.yaml for unknown names or empty packages.",
		},
	},

	// ===================
	// User input
	// ===================
	{
		err: ErrUnknownCheck,
		info: ErrorInfo{
			Message: "The specified check does not exist.",
			Action:  "Run 'rthealth list' to see available checks.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format.",
			Action:  "Use one of: text, json, yaml.",
		},
	},
	{
		err: ErrInvalidArgument,
		info: ErrorInfo{
			Message: "An invalid argument was provided.",
			Action:  "Check the command help for valid arguments.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries a direct map lookup for unwrapped sentinel errors,
// then falls back to errors.Is() traversal for wrapped errors.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}
	return ErrorInfo{Message: err.Error()}
}

// Actionable returns a user-friendly error message along with a suggested action.
// For unrecognized errors the message is the error's own text. The action is
// empty for errors without a clear remedy.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}

// Hints returns the remediation hints for err, or nil when none are known.
// The returned slice is a copy and may be modified by the caller.
func Hints(err error) []string {
	if err == nil {
		return nil
	}
	hints := getErrorInfo(err).Hints
	if len(hints) == 0 {
		return nil
	}
	return append([]string(nil), hints...)
}

// ConnectivityHints returns the generic network and firewall troubleshooting steps.
func ConnectivityHints() []string {
	return append([]string(nil), connectivityHints...)
}
