// Package clock abstracts time so that event timestamps and command durations
// can be pinned in tests.
package clock

import (
	"sync"
	"time"
)

// Clock is an interface for time operations.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the actual system time.
type RealClock struct{}

// Now returns the current time from the system clock.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same instant.
type Fixed struct {
	At time.Time
}

// Now returns the fixed instant.
func (f Fixed) Now() time.Time {
	return f.At
}

// Step starts at Start and advances by Interval on every call to Now.
// It is safe for concurrent use.
type Step struct {
	Start    time.Time
	Interval time.Duration

	mu    sync.Mutex
	calls int
}

// Now returns Start plus Interval times the number of earlier calls.
func (s *Step) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.Start.Add(time.Duration(s.calls) * s.Interval)
	s.calls++
	return t
}

var (
	_ Clock = RealClock{}
	_ Clock = Fixed{}
	_ Clock = (*Step)(nil)
)
