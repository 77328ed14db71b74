package tui

import (
	"io"
	"strings"

	"github.com/mrz1836/rthealth/internal/constants"
	"github.com/mrz1836/rthealth/internal/report"
)

// Output formats.
const (
	FormatText = constants.OutputText
	FormatJSON = constants.OutputJSON
	FormatYAML = constants.OutputYAML
)

// Output renders findings. Every implementation also satisfies report.Renderer.
type Output interface {
	// Render displays one diagnostic event.
	Render(e report.Event)
	// Section starts a titled group of findings.
	Section(title string)
	// Success prints a passed finding.
	Success(msg string)
	// Info prints a neutral finding.
	Info(msg string)
	// Warning prints a warning with optional hints.
	Warning(msg string, hints ...string)
	// Error prints an error with optional hints.
	Error(msg string, hints ...string)
	// Table prints rows under headers.
	Table(headers []string, rows [][]string)
	// Encode writes v as a structured document.
	Encode(v any) error
}

// NewOutput creates the Output for format. Unknown formats fall back to text.
func NewOutput(w io.Writer, format string) Output {
	switch format {
	case FormatJSON:
		return NewJSONOutput(w)
	case FormatYAML:
		return NewYAMLOutput(w)
	default:
		return NewTTYOutput(w)
	}
}

// ValidFormats lists the accepted output formats.
func ValidFormats() []string {
	return []string{FormatText, FormatJSON, FormatYAML}
}

// IsValidFormat reports whether format is one of ValidFormats.
func IsValidFormat(format string) bool {
	for _, f := range ValidFormats() {
		if f == format {
			return true
		}
	}
	return false
}

// dispatch maps an event onto the Output methods.
func dispatch(o Output, e report.Event) {
	switch e.Kind {
	case report.SectionStart:
		o.Section(e.Message)
	case report.OK:
		o.Success(e.Message)
	case report.Info:
		o.Info(e.Message)
	case report.Warn:
		o.Warning(e.Message, e.Hints...)
	case report.Error:
		o.Error(e.Message, e.Hints...)
	}
}

// SummaryRows turns a summary into table rows: one per section plus a total.
func SummaryRows(s report.Summary) (headers []string, rows [][]string) {
	headers = []string{"Section", "OK", "Info", "Warn", "Error"}
	for _, sec := range s.Sections {
		if sec.Name == "" {
			continue
		}
		rows = append(rows, countsRow(sec.Name, sec.Counts))
	}
	rows = append(rows, countsRow("Total", s.Total))
	return headers, rows
}

func countsRow(name string, c report.Counts) []string {
	return []string{name, itoa(c.OK), itoa(c.Info), itoa(c.Warn), itoa(c.Error)}
}

// indentLines prefixes every line after the first with pad so multi-line
// hints such as raw command output stay aligned.
func indentLines(s, pad string) string {
	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n"+pad)
}
