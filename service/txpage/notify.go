package txpage

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// FetchErrorMessage is the only message shown when a fetch fails, whatever the cause.
const FetchErrorMessage = "Error fetching transactions"

// Notifier surfaces a user-visible error. It is fire-and-forget.
type Notifier interface {
	ReportError(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// ReportError implements Notifier.
func (f NotifierFunc) ReportError(message string) { f(message) }

// LogNotifier prints messages to a writer (stderr for the CLI) and logs them.
type LogNotifier struct {
	mu     sync.Mutex
	w      io.Writer
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger uses slog.Default().
func NewLogNotifier(w io.Writer, logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{w: w, logger: logger}
}

// ReportError implements Notifier.
func (n *LogNotifier) ReportError(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "✗ %s\n", message)
	n.logger.Error("user notified", "message", message)
}
