package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrz1836/rthealth/internal/report"
)

// TTYOutput provides styled terminal output using Lip Gloss.
type TTYOutput struct {
	w        io.Writer
	styles   *OutputStyles
	table    *TableStyles
	titler   cases.Caser
	sections int
}

// NewTTYOutput creates a TTYOutput. It respects NO_COLOR via CheckNoColor.
func NewTTYOutput(w io.Writer) *TTYOutput {
	CheckNoColor()

	return &TTYOutput{
		w:      w,
		styles: NewOutputStyles(),
		table:  NewTableStyles(),
		titler: cases.Title(language.English, cases.NoLower),
	}
}

// Render implements report.Renderer.
func (o *TTYOutput) Render(e report.Event) {
	dispatch(o, e)
}

// Section prints a title-cased header, separated from the previous section by a blank line.
func (o *TTYOutput) Section(title string) {
	if o.sections > 0 {
		_, _ = fmt.Fprintln(o.w)
	}
	o.sections++
	_, _ = fmt.Fprintln(o.w, o.styles.Section.Render(o.titler.String(title)))
}

// Success outputs a passed finding with green color and ✓ icon.
func (o *TTYOutput) Success(msg string) {
	o.line(o.styles.Success.Render(IconOK)+" "+msg, nil)
}

// Info outputs a neutral finding with blue color and ℹ icon.
func (o *TTYOutput) Info(msg string) {
	o.line(o.styles.Info.Render(IconInfo)+" "+msg, nil)
}

// Warning outputs a warning with yellow color and ⚠ icon, followed by its hints.
func (o *TTYOutput) Warning(msg string, hints ...string) {
	o.line(o.styles.Warning.Render(IconWarning+" "+msg), hints)
}

// Error outputs an error with red color and ✗ icon, followed by its hints.
func (o *TTYOutput) Error(msg string, hints ...string) {
	o.line(o.styles.Error.Render(IconError+" "+msg), hints)
}

// line prints one finding indented under its section, then each hint dimmed
// behind a ▸ marker. Hints carry their own lead-in ("Run:", "Output:").
func (o *TTYOutput) line(text string, hints []string) {
	_, _ = fmt.Fprintln(o.w, "  "+indentLines(text, "    "))
	for _, h := range hints {
		_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("    "+IconHint+" "+indentLines(h, "      ")))
	}
}

// Table outputs tabular data with columns aligned by display width.
func (o *TTYOutput) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = displayWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && displayWidth(cell) > widths[i] {
				widths[i] = displayWidth(cell)
			}
		}
	}

	headerParts := make([]string, 0, len(headers))
	for i, h := range headers {
		headerParts = append(headerParts, o.table.Header.Render(padRight(h, widths[i])))
	}
	_, _ = fmt.Fprintln(o.w, strings.TrimRight(strings.Join(headerParts, "  "), " "))

	for _, row := range rows {
		parts := make([]string, 0, len(headers))
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			parts = append(parts, o.table.Cell.Render(padRight(cell, widths[i])))
		}
		_, _ = fmt.Fprintln(o.w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}
}

// Encode writes v as indented JSON.
func (o *TTYOutput) Encode(v any) error {
	encoder := json.NewEncoder(o.w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

var _ Output = (*TTYOutput)(nil)
