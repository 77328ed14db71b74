// Package semver parses the loose version strings printed by language runtimes
// and package managers ("v16.14.0", "Python 3.11.4", "ruby 3.2.2p53", "v5.36.0")
// and compares them numerically per component.
package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	rterrors "github.com/mrz1836/rthealth/internal/errors"
)

// maxVersionSegments is the number of segments in a version (major.minor.patch).
const maxVersionSegments = 3

//nolint:gochecknoglobals // Package-level compiled regexes
var (
	// strictRe accepts a bare version with optional leading v and trailing pre-release/build text.
	strictRe = regexp.MustCompile(`^v?(\d+)(?:\.(\d+))?(?:\.(\d+))?(?:[-+._a-zA-Z].*)?$`)

	// embeddedRe finds the first dotted version inside free-form output.
	embeddedRe = regexp.MustCompile(`v?(\d+)\.(\d+)(?:\.(\d+))?`)
)

// Version is a numeric major.minor.patch triple. Missing components are zero.
type Version struct {
	Major int `json:"major" yaml:"major"`
	Minor int `json:"minor" yaml:"minor"`
	Patch int `json:"patch" yaml:"patch"`
}

// String renders the version as "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 when v is lower than, equal to or greater than o.
func (v Version) Compare(o Version) int {
	a := [maxVersionSegments]int{v.Major, v.Minor, v.Patch}
	b := [maxVersionSegments]int{o.Major, o.Minor, o.Patch}
	for i := 0; i < maxVersionSegments; i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// Less reports whether v sorts before o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// AtLeast reports whether v is greater than or equal to o.
func (v Version) AtLeast(o Version) bool {
	return v.Compare(o) >= 0
}

// Parse parses a bare version string such as "16.14.0", "v7.6" or "2.1.0.pre".
// Surrounding whitespace and one pair of double quotes are ignored.
func Parse(s string) (Version, error) {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	m := strictRe.FindStringSubmatch(s)
	if m == nil {
		return Version{}, rterrors.Wrapf(rterrors.ErrParseFailure, "parse version %q", s)
	}
	return fromMatch(m)
}

// MustParse is Parse for compile-time constants. It panics on malformed input.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Extract returns the first dotted version found anywhere in text.
func Extract(text string) (Version, error) {
	m := embeddedRe.FindStringSubmatch(text)
	if m == nil {
		return Version{}, rterrors.Wrapf(rterrors.ErrParseFailure, "no version in %q", truncate(text))
	}
	return fromMatch(m)
}

// ExtractWith applies pattern, whose first capture group must hold the version, and
// parses the capture.
func ExtractWith(pattern *regexp.Regexp, text string) (Version, error) {
	m := pattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return Version{}, rterrors.Wrapf(rterrors.ErrParseFailure, "no version in %q", truncate(text))
	}
	return Parse(m[1])
}

func fromMatch(m []string) (Version, error) {
	var parts [maxVersionSegments]int
	for i := 0; i < maxVersionSegments && i+1 < len(m); i++ {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Version{}, rterrors.Wrapf(rterrors.ErrParseFailure, "version component %q", m[i+1])
		}
		parts[i] = n
	}
	return Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}

const maxQuoted = 60

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxQuoted {
		return s
	}
	cut := maxQuoted
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
