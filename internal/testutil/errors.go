// Package testutil provides test doubles shared by rthealth's package tests.
//
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors used to simulate failures in tests.
var (
	// ErrMockNotFound simulates an executable missing from PATH.
	ErrMockNotFound = errors.New("executable file not found in $PATH")

	// ErrMockNetwork simulates a registry that cannot be reached.
	ErrMockNetwork = errors.New("network error")

	// ErrMockSpawn simulates a fork/exec failure.
	ErrMockSpawn = errors.New("fork/exec: resource temporarily unavailable")
)
