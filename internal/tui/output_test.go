package tui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/rthealth/internal/report"
)

func TestNewOutput(t *testing.T) {
	var buf bytes.Buffer
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, FormatText))
	assert.IsType(t, &JSONOutput{}, NewOutput(&buf, FormatJSON))
	assert.IsType(t, &YAMLOutput{}, NewOutput(&buf, FormatYAML))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, "bogus"))
}

func TestIsValidFormat(t *testing.T) {
	for _, f := range ValidFormats() {
		assert.True(t, IsValidFormat(f))
	}
	assert.False(t, IsValidFormat("xml"))
	assert.False(t, IsValidFormat(""))
}

func TestTTYOutput_Findings(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	out.Section("python provider")
	out.Success("pynvim 0.5.0 is up to date")
	out.Info("using python3 from PATH")
	out.Warning("pynvim is outdated", "Run: python3 -m pip install --upgrade pynvim", "or use pipx")
	out.Error("version probe failed")
	out.Section("ruby provider")

	got := buf.String()
	assert.Contains(t, got, "Python Provider\n")
	assert.Contains(t, got, "  ✓ pynvim 0.5.0 is up to date\n")
	assert.Contains(t, got, "  ℹ using python3 from PATH\n")
	assert.Contains(t, got, "  ⚠ pynvim is outdated\n")
	assert.Contains(t, got, "    ▸ Run: python3 -m pip install --upgrade pynvim\n")
	assert.NotContains(t, got, "Try:")
	assert.Contains(t, got, "    ▸ or use pipx\n")
	assert.Contains(t, got, "  ✗ version probe failed\n")
	assert.Contains(t, got, "\n\nRuby Provider\n")
}

func TestTTYOutput_MultiLineHintIsIndented(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	out.Error("unexpected output", "line one\nline two\n")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "    ▸ line one", strings.TrimRight(lines[1], " "))
	assert.Equal(t, "      line two", strings.TrimRight(lines[2], " "))
}

func TestTTYOutput_Render(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	out.Render(report.Event{Kind: report.SectionStart, Message: "perl provider"})
	out.Render(report.Event{Kind: report.Warn, Message: "cpanm missing", Hints: []string{"install App::cpanminus"}})

	got := buf.String()
	assert.Contains(t, got, "Perl Provider")
	assert.Contains(t, got, "⚠ cpanm missing")
	assert.Contains(t, got, "    ▸ install App::cpanminus\n")
}

func TestTTYOutput_Table(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	out.Table([]string{"Check", "Status"}, [][]string{
		{"node", "enabled"},
		{"python", "disabled"},
		{"ruby"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Check   Status", lines[0])
	assert.Equal(t, "node    enabled", lines[1])
	assert.Equal(t, "python  disabled", lines[2])
	assert.Equal(t, "ruby", lines[3])
}

func TestTTYOutput_TableWideRunes(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	out.Table([]string{"Name", "X"}, [][]string{{"日本", "1"}, {"ab", "2"}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "日本  1", lines[1])
	assert.Equal(t, "ab    2", lines[2])
}

func TestTTYOutput_TableNoHeaders(t *testing.T) {
	var buf bytes.Buffer
	NewTTYOutput(&buf).Table(nil, [][]string{{"x"}})
	assert.Empty(t, buf.String())
}

func TestTTYOutput_Encode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTTYOutput(&buf).Encode(map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())

	require.Error(t, NewTTYOutput(&buf).Encode(make(chan int)))
}

func TestJSONOutput_Lines(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	out.Render(report.Event{Kind: report.Error, Section: "node", Message: "timed out", Hints: []string{"check proxy"}, Time: at})
	out.Success("ok")
	out.Warning("w")
	out.Info("i")
	out.Error("e", "h")
	out.Section("s")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "error", first["type"])
	assert.Equal(t, "node", first["section"])
	assert.Equal(t, "timed out", first["message"])
	assert.Equal(t, []any{"check proxy"}, first["hints"])
	assert.Equal(t, "2024-01-02T03:04:05Z", first["time"])

	assert.JSONEq(t, `{"type":"ok","message":"ok"}`, lines[1])
	assert.JSONEq(t, `{"type":"warn","message":"w"}`, lines[2])
	assert.JSONEq(t, `{"type":"info","message":"i"}`, lines[3])
	assert.JSONEq(t, `{"type":"error","message":"e","hints":["h"]}`, lines[4])
	assert.JSONEq(t, `{"type":"section","message":"s"}`, lines[5])
}

func TestJSONOutput_Table(t *testing.T) {
	var buf bytes.Buffer
	NewJSONOutput(&buf).Table([]string{"Check", "Disabled"}, [][]string{{"node", "false"}})
	assert.JSONEq(t, `{"type":"table","rows":[{"Check":"node","Disabled":"false"}]}`, buf.String())
}

func TestYAMLOutput_Documents(t *testing.T) {
	var buf bytes.Buffer
	out := NewYAMLOutput(&buf)

	out.Render(report.Event{Kind: report.Warn, Section: "ruby", Message: "outdated", Hints: []string{"gem update neovim"}})
	out.Success("fine")
	require.NoError(t, out.Encode(map[string]int{"total": 2}))

	dec := yaml.NewDecoder(strings.NewReader(buf.String()))
	var docs []map[string]any
	for {
		var d map[string]any
		if err := dec.Decode(&d); err != nil {
			break
		}
		docs = append(docs, d)
	}
	require.Len(t, docs, 3)
	assert.Equal(t, "warn", docs[0]["type"])
	assert.Equal(t, "ruby", docs[0]["section"])
	assert.Equal(t, []any{"gem update neovim"}, docs[0]["hints"])
	assert.Equal(t, "ok", docs[1]["type"])
	assert.Equal(t, 2, docs[2]["total"])
}

func TestYAMLOutput_Table(t *testing.T) {
	var buf bytes.Buffer
	NewYAMLOutput(&buf).Table([]string{"Check"}, [][]string{{"perl"}})
	assert.Contains(t, buf.String(), "Check: perl")
}

func TestSummaryRows(t *testing.T) {
	s := report.Summary{
		Total: report.Counts{OK: 2, Warn: 1, Error: 1},
		Sections: []report.SectionCounts{
			{Name: "", Counts: report.Counts{}},
			{Name: "node", Counts: report.Counts{OK: 2}},
			{Name: "ruby", Counts: report.Counts{Warn: 1, Error: 1}},
		},
	}

	headers, rows := SummaryRows(s)
	assert.Equal(t, []string{"Section", "OK", "Info", "Warn", "Error"}, headers)
	assert.Equal(t, [][]string{
		{"node", "2", "0", "0", "0"},
		{"ruby", "0", "0", "1", "1"},
		{"Total", "2", "0", "1", "1"},
	}, rows)
}

func TestKindIcon(t *testing.T) {
	assert.Equal(t, IconOK, KindIcon(report.OK))
	assert.Equal(t, IconWarning, KindIcon(report.Warn))
	assert.Equal(t, IconError, KindIcon(report.Error))
	assert.Equal(t, IconInfo, KindIcon(report.Info))
	assert.Empty(t, KindIcon(report.SectionStart))
	assert.Equal(t, "?", KindIcon(report.EventKind(42)))
}

func TestHasColorSupport(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("NO_COLOR", "")
	assert.False(t, HasColorSupport())
}

func TestHasColorSupport_DumbTerm(t *testing.T) {
	t.Setenv("TERM", "dumb")
	assert.False(t, HasColorSupport())
}

func TestPadRightAndStripANSI(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
	assert.Equal(t, "red", stripANSI("\x1b[31mred\x1b[0m"))
	assert.Equal(t, 3, displayWidth("\x1b[1mred\x1b[0m"))
	assert.Equal(t, 4, displayWidth("日本"))
}
