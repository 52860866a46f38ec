package nats

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// Handler receives decoded transaction events.
type Handler func(event *TransactionEvent)

// Subscriber delivers transaction events for a subject.
type Subscriber interface {
	// Subscribe registers handler for subject (wildcards allowed). Messages that
	// fail to decode are logged and skipped.
	Subscribe(subject string, handler Handler) error

	// Close unsubscribes everything and closes the connection.
	Close() error
}

// CoreSubscriber subscribes with core NATS. Events are refresh hints, so
// at-most-once delivery is enough and no stream is required.
type CoreSubscriber struct {
	nc     *nats.Conn
	logger *slog.Logger

	mu   sync.Mutex
	subs []*nats.Subscription
}

// NewSubscriber connects to natsURL. The connection reconnects forever.
func NewSubscriber(natsURL string, logger *slog.Logger) (*CoreSubscriber, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	nc, err := nats.Connect(natsURL,
		nats.Name("compte"),
		nats.Timeout(10*time.Second),
		nats.ReconnectWait(1*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Debug("NATS subscriber connected", "url", natsURL)
	return &CoreSubscriber{nc: nc, logger: logger}, nil
}

// Subscribe implements Subscriber.
func (s *CoreSubscriber) Subscribe(subject string, handler Handler) error {
	sub, err := s.nc.Subscribe(subject, func(msg *nats.Msg) {
		event, err := DecodeEvent(msg.Data)
		if err != nil {
			s.logger.Warn("skipping transaction event", "subject", msg.Subject, "error", err)
			return
		}
		s.logger.Debug("transaction event received", "subject", msg.Subject, "id", event.ID)
		handler(event)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
	return nil
}

// Close implements Subscriber.
func (s *CoreSubscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		if err := sub.Unsubscribe(); err != nil {
			s.logger.Debug("failed to unsubscribe", "subject", sub.Subject, "error", err)
		}
	}
	s.subs = nil
	if s.nc != nil {
		s.nc.Close()
		s.logger.Debug("NATS subscriber closed")
	}
	return nil
}
