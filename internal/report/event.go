package report

import (
	"encoding/json"
	"time"

	rterrors "github.com/mrz1836/rthealth/internal/errors"
)

// EventKind is the closed set of diagnostic event kinds.
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver per json.Unmarshaler interface
type EventKind int

const (
	// SectionStart opens a named group of findings.
	SectionStart EventKind = iota
	// Info is a neutral observation.
	Info
	// OK is a passed check.
	OK
	// Warn is a problem that does not break the runtime integration.
	Warn
	// Error is a problem that does.
	Error
)

// String returns the wire name of the kind.
func (k EventKind) String() string {
	switch k {
	case SectionStart:
		return "section"
	case Info:
		return "info"
	case OK:
		return "ok"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// ParseEventKind is the inverse of String.
func ParseEventKind(s string) (EventKind, error) {
	switch s {
	case "section":
		return SectionStart, nil
	case "info":
		return Info, nil
	case "ok":
		return OK, nil
	case "warn":
		return Warn, nil
	case "error":
		return Error, nil
	default:
		return 0, rterrors.Wrapf(rterrors.ErrInvalidArgument, "event kind %q", s)
	}
}

// MarshalJSON implements json.Marshaler.
func (k EventKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (k *EventKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseEventKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (k EventKind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// Event is one immutable diagnostic finding.
type Event struct {
	Kind    EventKind `json:"kind" yaml:"kind"`
	Section string    `json:"section,omitempty" yaml:"section,omitempty"`
	Message string    `json:"message" yaml:"message"`
	Hints   []string  `json:"hints,omitempty" yaml:"hints,omitempty"`
	Time    time.Time `json:"time" yaml:"time"`
}

// Counts tallies events by kind. Section starts are not counted.
type Counts struct {
	OK    int `json:"ok" yaml:"ok"`
	Info  int `json:"info" yaml:"info"`
	Warn  int `json:"warn" yaml:"warn"`
	Error int `json:"error" yaml:"error"`
}

func (c *Counts) add(k EventKind) {
	switch k {
	case OK:
		c.OK++
	case Info:
		c.Info++
	case Warn:
		c.Warn++
	case Error:
		c.Error++
	case SectionStart:
	}
}

// Section groups the events emitted while one section label was current.
type Section struct {
	Name   string  `json:"name" yaml:"name"`
	Events []Event `json:"events" yaml:"events"`
	Counts Counts  `json:"counts" yaml:"counts"`
}

// Summary is the per-kind tally of a whole run and of each section.
type Summary struct {
	Total    Counts          `json:"total" yaml:"total"`
	Sections []SectionCounts `json:"sections" yaml:"sections"`
}

// SectionCounts is the tally for one section.
type SectionCounts struct {
	Name   string `json:"name" yaml:"name"`
	Counts Counts `json:"counts" yaml:"counts"`
}

// HasErrors reports whether any Error event was emitted.
func (s Summary) HasErrors() bool {
	return s.Total.Error > 0
}
