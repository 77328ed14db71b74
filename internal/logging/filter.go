// Package logging keeps credentials out of rthealth's log file.
//
// Probe commands and their environment routinely carry registry tokens
// (npm, PyPI, RubyGems, CPAN mirrors) and proxy URLs with embedded passwords.
// Everything written to disk passes through FilteringWriter, and call sites
// that log command lines or environment use RedactCommand and RedactEnv.
package logging

import (
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// RedactedValue replaces every detected secret.
const RedactedValue = "[REDACTED]"

//nolint:gochecknoglobals // Package-level patterns for reuse
var sensitivePatterns = []*regexp.Regexp{
	// npm automation and granular tokens
	regexp.MustCompile(`npm_[A-Za-z0-9]{36}`),
	// PyPI API tokens
	regexp.MustCompile(`pypi-[A-Za-z0-9_-]{16,}`),
	// RubyGems API keys
	regexp.MustCompile(`rubygems_[a-f0-9]{48}`),
	// GitHub tokens, common in private registry setups
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]{20,}`),
	// .npmrc style auth entries: //registry/:_authToken=xxx, _auth=xxx, _password=xxx
	regexp.MustCompile(`(?i)(_authToken|_auth|_password)\s*=\s*\S+`),
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._~+/-]{20,}=*`),
	regexp.MustCompile(`(?i)(secret|password|passwd|token|api[_-]?key)\s*[:=]\s*["']?[^\s"']{8,}["']?`),
}

// urlCredentials matches user:password@ in proxy and private index URLs.
//
//nolint:gochecknoglobals // Package-level patterns for reuse
var urlCredentials = regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9+.-]*://)[^/\s:@]+:[^/\s@]+@`)

// sensitiveEnvKeys are substrings of environment variable names whose values are always hidden.
//
//nolint:gochecknoglobals // Package-level patterns for reuse
var sensitiveEnvKeys = []string{
	"token",
	"secret",
	"password",
	"passwd",
	"api_key",
	"apikey",
	"authtoken",
	"auth_token",
	"credential",
}

// SensitiveDataHook flags log events whose message looks like it carries a secret.
// zerolog does not let hooks rewrite the message, so the actual redaction happens
// in FilteringWriter.
type SensitiveDataHook struct{}

// NewSensitiveDataHook creates a SensitiveDataHook.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements zerolog.Hook.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// ContainsSensitiveData reports whether s matches any known secret pattern.
func ContainsSensitiveData(s string) bool {
	if urlCredentials.MatchString(s) {
		return true
	}
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue replaces every secret in value with RedactedValue.
// URL credentials keep their scheme so the log still shows which proxy was used.
func FilterSensitiveValue(value string) string {
	result := urlCredentials.ReplaceAllString(value, "${1}"+RedactedValue+"@")
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// IsSensitiveEnvKey reports whether an environment variable name indicates a secret.
func IsSensitiveEnvKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveEnvKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return strings.HasSuffix(lower, "_auth")
}

// RedactCommand filters a display form of a command line before it is logged.
func RedactCommand(cmdline string) string {
	return FilterSensitiveValue(cmdline)
}

// RedactEnv returns a copy of env (KEY=VALUE entries) with secret values hidden.
func RedactEnv(env []string) []string {
	if len(env) == 0 {
		return nil
	}
	out := make([]string, 0, len(env))
	for _, kv := range env {
		key, value, ok := strings.Cut(kv, "=")
		switch {
		case !ok:
			out = append(out, kv)
		case IsSensitiveEnvKey(key):
			out = append(out, key+"="+RedactedValue)
		default:
			out = append(out, key+"="+FilterSensitiveValue(value))
		}
	}
	return out
}

// FilteringWriter wraps an io.Writer and redacts secrets from everything written through it.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter creates a FilteringWriter around w.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer. It reports len(p) on success so callers never see a short write.
func (fw *FilteringWriter) Write(p []byte) (int, error) {
	if _, err := fw.w.Write([]byte(FilterSensitiveValue(string(p)))); err != nil {
		return 0, err
	}
	return len(p), nil
}
