// Package report collects the diagnostic events produced by health checks.
//
// A Reporter is an append-only log of Events. Each event is stamped with the
// section that was current when it was emitted and forwarded to any number of
// Renderers as it happens.
package report

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/mrz1836/rthealth/internal/clock"
)

// Renderer displays events as they are emitted.
type Renderer interface {
	Render(e Event)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(e Event)

// Render calls f(e).
func (f RenderFunc) Render(e Event) { f(e) }

// Reporter accumulates events. It is safe for concurrent use.
type Reporter struct {
	mu        sync.Mutex
	events    []Event
	section   string
	clock     clock.Clock
	renderers []Renderer
	logger    zerolog.Logger
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithRenderer forwards every event to r.
func WithRenderer(r Renderer) Option {
	return func(rep *Reporter) {
		if r != nil {
			rep.renderers = append(rep.renderers, r)
		}
	}
}

// WithClock sets the clock used to stamp events.
func WithClock(c clock.Clock) Option {
	return func(rep *Reporter) { rep.clock = c }
}

// WithLogger mirrors events into the debug log.
func WithLogger(l zerolog.Logger) Option {
	return func(rep *Reporter) { rep.logger = l }
}

// New creates an empty Reporter.
func New(opts ...Option) *Reporter {
	r := &Reporter{clock: clock.RealClock{}, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StartSection makes name the current section label and emits a SectionStart event.
func (r *Reporter) StartSection(name string) {
	r.emit(SectionStart, name, nil, name)
}

// Info emits an Info event.
func (r *Reporter) Info(msg string) {
	r.emit(Info, msg, nil, "")
}

// OK emits an OK event.
func (r *Reporter) OK(msg string) {
	r.emit(OK, msg, nil, "")
}

// Warn emits a Warn event with optional remediation hints.
func (r *Reporter) Warn(msg string, hints ...string) {
	r.emit(Warn, msg, hints, "")
}

// Error emits an Error event with optional remediation hints.
func (r *Reporter) Error(msg string, hints ...string) {
	r.emit(Error, msg, hints, "")
}

func (r *Reporter) emit(kind EventKind, msg string, hints []string, newSection string) {
	r.mu.Lock()
	if kind == SectionStart {
		r.section = newSection
	}
	e := Event{
		Kind:    kind,
		Section: r.section,
		Message: msg,
		Time:    r.clock.Now(),
	}
	if len(hints) > 0 {
		e.Hints = append([]string(nil), hints...)
	}
	r.events = append(r.events, e)
	renderers := r.renderers
	r.mu.Unlock()

	r.logger.Debug().
		Str("kind", kind.String()).
		Str("section", e.Section).
		Int("hints", len(e.Hints)).
		Msg(msg)

	for _, rd := range renderers {
		rd.Render(cloneEvent(e))
	}
}

// Len returns the number of events emitted so far.
func (r *Reporter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Events returns a copy of all events in emission order.
func (r *Reporter) Events() []Event {
	return r.EventsSince(0)
}

// EventsSince returns a copy of the events emitted after the first mark events.
func (r *Reporter) EventsSince(mark int) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if mark < 0 {
		mark = 0
	}
	if mark >= len(r.events) {
		return []Event{}
	}
	out := make([]Event, 0, len(r.events)-mark)
	for _, e := range r.events[mark:] {
		out = append(out, cloneEvent(e))
	}
	return out
}

// Summary tallies events by kind, overall and per section in first-seen order.
func (r *Reporter) Summary() Summary {
	sections := r.Sections()
	s := Summary{Sections: make([]SectionCounts, 0, len(sections))}
	for _, sec := range sections {
		s.Sections = append(s.Sections, SectionCounts{Name: sec.Name, Counts: sec.Counts})
		s.Total.OK += sec.Counts.OK
		s.Total.Info += sec.Counts.Info
		s.Total.Warn += sec.Counts.Warn
		s.Total.Error += sec.Counts.Error
	}
	return s
}

// Sections groups events by section label in the order labels first appeared.
// Events emitted before any StartSection fall under the empty label.
func (r *Reporter) Sections() []Section {
	events := r.Events()
	var out []Section
	index := make(map[string]int)
	for _, e := range events {
		i, ok := index[e.Section]
		if !ok {
			i = len(out)
			index[e.Section] = i
			out = append(out, Section{Name: e.Section})
		}
		out[i].Events = append(out[i].Events, e)
		out[i].Counts.add(e.Kind)
	}
	return out
}

func cloneEvent(e Event) Event {
	if e.Hints != nil {
		e.Hints = append([]string(nil), e.Hints...)
	}
	return e
}
