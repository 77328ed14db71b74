package tui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
)

// spinnerFrames are the animation frames for the spinner.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"} //nolint:gochecknoglobals // Package-level constant for spinner animation

// SpinnerInterval is the default update interval for spinner animation.
const SpinnerInterval = 100 * time.Millisecond

// spinnerWidth bounds the message so the frame never wraps on narrow terminals.
const spinnerWidth = 76

// Spinner shows which probe is running while a check waits on a child process.
// It redraws a single line and clears it on Stop, so findings printed afterwards
// start on a clean line.
type Spinner struct {
	mu       sync.Mutex
	w        io.Writer
	styles   *OutputStyles
	interval time.Duration
	message  string
	done     chan struct{}
	stopped  chan struct{}
}

// NewSpinner creates a spinner that draws on w.
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{
		w:        w,
		styles:   NewOutputStyles(),
		interval: SpinnerInterval,
	}
}

// Start begins the animation with message. Calling Start on a running spinner
// only replaces the message.
func (s *Spinner) Start(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.message = runewidth.Truncate(message, spinnerWidth, "…")
	if s.done != nil {
		return
	}

	s.done = make(chan struct{})
	s.stopped = make(chan struct{})
	go s.animate(s.done, s.stopped)
}

// Stop ends the animation and clears the line. It is safe to call when the
// spinner is not running.
func (s *Spinner) Stop() {
	s.mu.Lock()
	done, stopped := s.done, s.stopped
	s.done, s.stopped = nil, nil
	s.mu.Unlock()

	if done == nil {
		return
	}
	close(done)
	<-stopped
}

func (s *Spinner) animate(done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	frame := 0
	s.draw(frame)
	for {
		select {
		case <-done:
			_, _ = fmt.Fprint(s.w, "\r\033[K")
			return
		case <-ticker.C:
			frame++
			s.draw(frame)
		}
	}
}

func (s *Spinner) draw(frame int) {
	s.mu.Lock()
	msg := s.message
	s.mu.Unlock()

	icon := s.styles.Info.Render(spinnerFrames[frame%len(spinnerFrames)])
	_, _ = fmt.Fprintf(s.w, "\r\033[K%s %s", icon, s.styles.Dim.Render(msg))
}
