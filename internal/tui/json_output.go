package tui

import (
	"encoding/json"
	"io"
	"time"

	"github.com/mrz1836/rthealth/internal/report"
)

// JSONOutput writes one JSON object per line, suitable for CI log parsers.
type JSONOutput struct {
	encoder *json.Encoder
}

// NewJSONOutput creates a JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{encoder: json.NewEncoder(w)}
}

// jsonMessage is the line format for findings.
// Format: {"type": "warn", "section": "...", "message": "...", "hints": [...]}
type jsonMessage struct {
	Type    string     `json:"type"`
	Section string     `json:"section,omitempty"`
	Message string     `json:"message"`
	Hints   []string   `json:"hints,omitempty"`
	Time    *time.Time `json:"time,omitempty"`
}

type jsonTable struct {
	Type string              `json:"type"`
	Rows []map[string]string `json:"rows"`
}

// Render implements report.Renderer, keeping the event's section and time.
func (o *JSONOutput) Render(e report.Event) {
	msg := jsonMessage{
		Type:    e.Kind.String(),
		Section: e.Section,
		Message: e.Message,
		Hints:   e.Hints,
	}
	if !e.Time.IsZero() {
		t := e.Time
		msg.Time = &t
	}
	o.write(msg)
}

// Section outputs {"type": "section", "message": title}.
func (o *JSONOutput) Section(title string) {
	o.write(jsonMessage{Type: report.SectionStart.String(), Message: title})
}

// Success outputs {"type": "ok", ...}.
func (o *JSONOutput) Success(msg string) {
	o.write(jsonMessage{Type: report.OK.String(), Message: msg})
}

// Info outputs {"type": "info", ...}.
func (o *JSONOutput) Info(msg string) {
	o.write(jsonMessage{Type: report.Info.String(), Message: msg})
}

// Warning outputs {"type": "warn", ...}.
func (o *JSONOutput) Warning(msg string, hints ...string) {
	o.write(jsonMessage{Type: report.Warn.String(), Message: msg, Hints: hints})
}

// Error outputs {"type": "error", ...}.
func (o *JSONOutput) Error(msg string, hints ...string) {
	o.write(jsonMessage{Type: report.Error.String(), Message: msg, Hints: hints})
}

// Table outputs {"type": "table", "rows": [{header: cell}]}.
func (o *JSONOutput) Table(headers []string, rows [][]string) {
	t := jsonTable{Type: "table", Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		m := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				m[h] = row[i]
			}
		}
		t.Rows = append(t.Rows, m)
	}
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(t)
}

// Encode writes v as one JSON line.
func (o *JSONOutput) Encode(v any) error {
	return o.encoder.Encode(v)
}

func (o *JSONOutput) write(m jsonMessage) {
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(m)
}

var _ Output = (*JSONOutput)(nil)
