package testutil

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/rstedit/internal/render"
)

// StubPublisher implements render.Publisher for testing. It records every
// source it is asked to render.
type StubPublisher struct {
	// Fatal maps source text to a fatal diagnostic message
	Fatal map[string]string
	// Errors maps source text to a non-fatal failure
	Errors map[string]error

	Calls  []string
	Closed bool
}

// NewStubPublisher creates a stub publisher
func NewStubPublisher() *StubPublisher {
	return &StubPublisher{
		Fatal:  make(map[string]string),
		Errors: make(map[string]error),
	}
}

// Publish returns a predictable rendering of source
func (m *StubPublisher) Publish(source string) (string, error) {
	m.Calls = append(m.Calls, source)

	if msg, ok := m.Fatal[source]; ok {
		return "", &render.FatalError{Message: msg}
	}
	if err, ok := m.Errors[source]; ok {
		return "", err
	}

	return StubHTML(source), nil
}

// CallCount returns how many times Publish ran
func (m *StubPublisher) CallCount() int {
	return len(m.Calls)
}

// Name returns the publisher name
func (m *StubPublisher) Name() string {
	return "stub"
}

// Close records the call
func (m *StubPublisher) Close() error {
	m.Closed = true
	return nil
}

// StubHTML is the output StubPublisher produces for source
func StubHTML(source string) string {
	lines := strings.Split(strings.TrimSpace(source), "\n")
	return fmt.Sprintf("<html><body><h1>%s</h1><p>%d lines</p></body></html>", lines[0], len(lines))
}
