package tui

import (
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/rthealth/internal/report"
)

// YAMLOutput writes a stream of YAML documents separated by "---".
type YAMLOutput struct {
	w    io.Writer
	mu   sync.Mutex
	docs int
}

// NewYAMLOutput creates a YAMLOutput.
func NewYAMLOutput(w io.Writer) *YAMLOutput {
	return &YAMLOutput{w: w}
}

type yamlMessage struct {
	Type    string   `yaml:"type"`
	Section string   `yaml:"section,omitempty"`
	Message string   `yaml:"message"`
	Hints   []string `yaml:"hints,omitempty"`
}

// Render implements report.Renderer.
func (o *YAMLOutput) Render(e report.Event) {
	_ = o.Encode(yamlMessage{Type: e.Kind.String(), Section: e.Section, Message: e.Message, Hints: e.Hints})
}

// Section writes a section document.
func (o *YAMLOutput) Section(title string) {
	_ = o.Encode(yamlMessage{Type: report.SectionStart.String(), Message: title})
}

// Success writes an ok document.
func (o *YAMLOutput) Success(msg string) {
	_ = o.Encode(yamlMessage{Type: report.OK.String(), Message: msg})
}

// Info writes an info document.
func (o *YAMLOutput) Info(msg string) {
	_ = o.Encode(yamlMessage{Type: report.Info.String(), Message: msg})
}

// Warning writes a warn document.
func (o *YAMLOutput) Warning(msg string, hints ...string) {
	_ = o.Encode(yamlMessage{Type: report.Warn.String(), Message: msg, Hints: hints})
}

// Error writes an error document.
func (o *YAMLOutput) Error(msg string, hints ...string) {
	_ = o.Encode(yamlMessage{Type: report.Error.String(), Message: msg, Hints: hints})
}

// Table writes the rows as a list of header-keyed mappings.
func (o *YAMLOutput) Table(headers []string, rows [][]string) {
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				m[h] = row[i]
			}
		}
		out = append(out, m)
	}
	_ = o.Encode(map[string]any{"type": "table", "rows": out})
}

// Encode writes v as the next document.
func (o *YAMLOutput) Encode(v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.docs > 0 {
		if _, err := io.WriteString(o.w, "---\n"); err != nil {
			return err
		}
	}
	o.docs++
	_, err = o.w.Write(data)
	return err
}

var _ Output = (*YAMLOutput)(nil)
