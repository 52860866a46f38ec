package nats

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/brojonat/compte/client"
)

// SubjectPrefix is the subject root for transaction events. Events for an
// account are published to "txns.{iban}".
const SubjectPrefix = "txns"

// TransactionEvent announces that a transaction was recorded on an account.
// Subscribers use it as a signal to refresh, the page always re-reads the API.
type TransactionEvent struct {
	ID     int64   `json:"id"`
	IBAN   string  `json:"iban"`
	Type   string  `json:"type"`
	Amount float64 `json:"montant"`

	PublishedAt time.Time `json:"published_at"`
}

// Category derives the event's direction from its type label.
func (e *TransactionEvent) Category() client.Category {
	return client.CategoryFromLabel(e.Type)
}

// Subject is the subject the event is published on.
func (e *TransactionEvent) Subject() string {
	return SubjectForIBAN(e.IBAN)
}

// SubjectForIBAN returns "txns.{iban}". Whitespace inside IBANs is dropped since
// subjects cannot contain it.
func SubjectForIBAN(iban string) string {
	return SubjectPrefix + "." + strings.Join(strings.Fields(iban), "")
}

// SubjectFor returns the subject matching every event relevant to f: one
// account for account scope, all accounts for user scope.
func SubjectFor(f client.Filter) string {
	if f.Scope == client.ScopeUser {
		return SubjectPrefix + ".*"
	}
	return SubjectForIBAN(f.IBAN)
}

// DecodeEvent parses a message payload.
func DecodeEvent(data []byte) (*TransactionEvent, error) {
	var event TransactionEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to decode transaction event: %w", err)
	}
	if event.IBAN == "" {
		return nil, fmt.Errorf("transaction event has no iban")
	}
	return &event, nil
}

// Matches reports whether event affects the list selected by f.
func Matches(f client.Filter, event *TransactionEvent) bool {
	if f.Scope == client.ScopeUser {
		return true
	}
	return SubjectForIBAN(f.IBAN) == event.Subject()
}
