package nats

import (
	"strings"
	"sync"
)

// MockSubscriber is an in-memory Subscriber for tests. Emit delivers an event
// to every handler whose subject matches.
type MockSubscriber struct {
	mu             sync.RWMutex
	handlers       map[string][]Handler
	subscribeError error
	closed         bool
}

// NewMockSubscriber creates a new mock subscriber for testing.
func NewMockSubscriber() *MockSubscriber {
	return &MockSubscriber{handlers: make(map[string][]Handler)}
}

// Subscribe records the handler and returns any configured error.
func (m *MockSubscriber) Subscribe(subject string, handler Handler) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.subscribeError != nil {
		return m.subscribeError
	}

	m.handlers[subject] = append(m.handlers[subject], handler)
	return nil
}

// Emit delivers event synchronously and returns the number of handlers called.
func (m *MockSubscriber) Emit(event *TransactionEvent) int {
	m.mu.RLock()
	var matched []Handler
	if !m.closed {
		for subject, handlers := range m.handlers {
			if subjectMatches(subject, event.Subject()) {
				matched = append(matched, handlers...)
			}
		}
	}
	m.mu.RUnlock()

	for _, h := range matched {
		h(event)
	}
	return len(matched)
}

// Subjects returns the subjects subscribed so far.
func (m *MockSubscriber) Subjects() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	subjects := make([]string, 0, len(m.handlers))
	for s := range m.handlers {
		subjects = append(subjects, s)
	}
	return subjects
}

// SetSubscribeError configures the mock to fail Subscribe.
func (m *MockSubscriber) SetSubscribeError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribeError = err
}

// Close drops every handler.
func (m *MockSubscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.handlers = make(map[string][]Handler)
	return nil
}

// IsClosed returns whether the subscriber has been closed.
func (m *MockSubscriber) IsClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// subjectMatches applies NATS wildcard rules: "*" matches one token, ">" the rest.
func subjectMatches(pattern, subject string) bool {
	p := strings.Split(pattern, ".")
	s := strings.Split(subject, ".")
	for i, tok := range p {
		if tok == ">" {
			return len(s) > i
		}
		if i >= len(s) {
			return false
		}
		if tok != "*" && tok != s[i] {
			return false
		}
	}
	return len(p) == len(s)
}
