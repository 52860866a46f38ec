package tui

import (
	"sync"
	"time"
)

// ToastDuration is how long an error stays on screen.
const ToastDuration = 4 * time.Second

// Toast is the notifier of the interactive page: the latest message is shown
// until it expires or is replaced.
type Toast struct {
	mu      sync.Mutex
	message string
	id      int
}

// NewToast creates an empty toast.
func NewToast() *Toast {
	return &Toast{}
}

// ReportError implements txpage.Notifier.
func (t *Toast) ReportError(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.message = message
	t.id++
}

// Current returns the visible message and its id. The id changes on every report.
func (t *Toast) Current() (string, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.message, t.id
}

// Expire clears the message if id is still the one shown.
func (t *Toast) Expire(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id != t.id || t.message == "" {
		return false
	}
	t.message = ""
	return true
}
