package report

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/rthealth/internal/clock"
	rterrors "github.com/mrz1836/rthealth/internal/errors"
)

var fixedTime = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC) //nolint:gochecknoglobals // test fixture

func newTestReporter(opts ...Option) *Reporter {
	return New(append([]Option{WithClock(clock.Fixed{At: fixedTime})}, opts...)...)
}

func TestReporter_StampsSectionAndTime(t *testing.T) {
	r := newTestReporter()

	r.Info("before any section")
	r.StartSection("Node.js provider")
	r.OK("node v16.14.0")
	r.Warn("neovim is outdated", "npm install -g neovim")

	events := r.Events()
	require.Len(t, events, 4)

	assert.Equal(t, Event{Kind: Info, Message: "before any section", Time: fixedTime}, events[0])
	assert.Equal(t, Event{Kind: SectionStart, Section: "Node.js provider", Message: "Node.js provider", Time: fixedTime}, events[1])
	assert.Equal(t, "Node.js provider", events[2].Section)
	assert.Equal(t, OK, events[2].Kind)
	assert.Equal(t, []string{"npm install -g neovim"}, events[3].Hints)
}

func TestReporter_SectionChangeOnlyAffectsLaterEvents(t *testing.T) {
	r := newTestReporter()

	r.StartSection("a")
	r.Error("broken")
	r.StartSection("b")
	r.OK("fine")

	events := r.Events()
	assert.Equal(t, "a", events[1].Section)
	assert.Equal(t, "b", events[3].Section)
}

func TestReporter_EventsAreCopies(t *testing.T) {
	r := newTestReporter()
	hints := []string{"first"}
	r.Warn("w", hints...)
	hints[0] = "caller mutated"

	got := r.Events()
	assert.Equal(t, "first", got[0].Hints[0])

	got[0].Hints[0] = "reader mutated"
	got[0].Message = "x"
	assert.Equal(t, "first", r.Events()[0].Hints[0])
	assert.Equal(t, "w", r.Events()[0].Message)
}

func TestReporter_NoHintsIsNil(t *testing.T) {
	r := newTestReporter()
	r.Error("no hints")
	assert.Nil(t, r.Events()[0].Hints)
}

func TestReporter_EventsSince(t *testing.T) {
	r := newTestReporter()
	r.StartSection("one")
	r.OK("a")
	mark := r.Len()
	r.StartSection("two")
	r.Warn("b")

	since := r.EventsSince(mark)
	require.Len(t, since, 2)
	assert.Equal(t, "two", since[0].Message)
	assert.Empty(t, r.EventsSince(100))
	assert.Len(t, r.EventsSince(-3), 4)
}

func TestReporter_ForwardsToRenderers(t *testing.T) {
	var got []Event
	r := newTestReporter(
		WithRenderer(RenderFunc(func(e Event) { got = append(got, e) })),
		WithRenderer(nil),
	)

	r.StartSection("Perl provider")
	r.Info("disabled")

	require.Len(t, got, 2)
	assert.Equal(t, SectionStart, got[0].Kind)
	assert.Equal(t, "Perl provider", got[1].Section)
}

func TestReporter_SummaryAndSections(t *testing.T) {
	r := newTestReporter()
	r.StartSection("node")
	r.OK("node ok")
	r.Warn("outdated")
	r.StartSection("python")
	r.Error("missing")
	r.Info("note")
	r.StartSection("node")
	r.OK("again")

	sections := r.Sections()
	require.Len(t, sections, 2)
	assert.Equal(t, "node", sections[0].Name)
	assert.Len(t, sections[0].Events, 5)
	assert.Equal(t, Counts{OK: 2, Warn: 1}, sections[0].Counts)
	assert.Equal(t, Counts{Error: 1, Info: 1}, sections[1].Counts)

	summary := r.Summary()
	assert.Equal(t, Counts{OK: 2, Info: 1, Warn: 1, Error: 1}, summary.Total)
	assert.Equal(t, []SectionCounts{
		{Name: "node", Counts: Counts{OK: 2, Warn: 1}},
		{Name: "python", Counts: Counts{Error: 1, Info: 1}},
	}, summary.Sections)
	assert.True(t, summary.HasErrors())
}

func TestReporter_EmptySummary(t *testing.T) {
	r := newTestReporter()
	s := r.Summary()
	assert.Equal(t, Counts{}, s.Total)
	assert.Empty(t, s.Sections)
	assert.False(t, s.HasErrors())
	assert.Empty(t, r.Events())
}

func TestReporter_Concurrent(t *testing.T) {
	r := newTestReporter()
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Info("x")
			_ = r.Summary()
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, r.Len())
}

func TestReporter_LogsEvents(t *testing.T) {
	var buf bytes.Buffer
	r := newTestReporter(WithLogger(zerolog.New(&buf)))
	r.StartSection("ruby")
	r.Error("gem failed", "check PATH")

	out := buf.String()
	assert.Contains(t, out, `"kind":"error"`)
	assert.Contains(t, out, `"section":"ruby"`)
	assert.Contains(t, out, "gem failed")
}

func TestEventKind_Strings(t *testing.T) {
	for _, k := range []EventKind{SectionStart, Info, OK, Warn, Error} {
		parsed, err := ParseEventKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	assert.Equal(t, "unknown", EventKind(99).String())

	_, err := ParseEventKind("fatal")
	require.ErrorIs(t, err, rterrors.ErrInvalidArgument)
}

func TestEventKind_JSON(t *testing.T) {
	data, err := json.Marshal(Event{Kind: Warn, Message: "m", Time: fixedTime})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"warn"`)
	assert.NotContains(t, string(data), "hints")

	var e Event
	require.NoError(t, json.Unmarshal(data, &e))
	assert.Equal(t, Warn, e.Kind)

	var k EventKind
	require.Error(t, json.Unmarshal([]byte(`"bogus"`), &k))
	require.Error(t, json.Unmarshal([]byte(`3`), &k))
}

func TestEventKind_YAML(t *testing.T) {
	data, err := yaml.Marshal(Event{Kind: OK, Message: "fine", Time: fixedTime})
	require.NoError(t, err)
	assert.Contains(t, string(data), "kind: ok")
}
