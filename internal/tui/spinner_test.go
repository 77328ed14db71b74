package tui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// lockedBuffer lets the test read what the animation goroutine wrote.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_StartStop(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	CheckNoColor()

	var out lockedBuffer
	s := NewSpinner(&out)
	s.interval = 5 * time.Millisecond

	s.Start("npm info neovim version --json")
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "npm info neovim version --json")
	}, time.Second, 5*time.Millisecond)
	s.Stop()

	got := out.String()
	assert.Contains(t, got, spinnerFrames[0])
	assert.True(t, strings.HasSuffix(got, "\r\033[K"), "line must be cleared on stop")
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	var out lockedBuffer
	s := NewSpinner(&out)
	s.Stop()
	s.Stop()
	assert.Empty(t, out.String())
}

func TestSpinner_RestartReplacesMessage(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	CheckNoColor()

	var out lockedBuffer
	s := NewSpinner(&out)
	s.interval = 5 * time.Millisecond

	s.Start("node -v")
	s.Start("npm ls --global --json neovim")
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "npm ls --global --json neovim")
	}, time.Second, 5*time.Millisecond)
	s.Stop()

	s.Start("python3 --version")
	s.Stop()
	assert.Contains(t, out.String(), "python3 --version")
}

func TestSpinner_TruncatesLongMessages(t *testing.T) {
	s := NewSpinner(&lockedBuffer{})
	s.Start(strings.Repeat("x", 200))
	s.Stop()
	assert.LessOrEqual(t, len([]rune(s.message)), spinnerWidth)
	assert.True(t, strings.HasSuffix(s.message, "…"))
}
