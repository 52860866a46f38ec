package nats

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brojonat/compte/client"
)

func TestSubjectFor(t *testing.T) {
	assert.Equal(t, "txns.FR7612345", SubjectFor(client.Filter{Scope: client.ScopeAccount, IBAN: "FR7612345"}))
	assert.Equal(t, "txns.FR7612345", SubjectFor(client.Filter{Scope: client.ScopeAccount, IBAN: "FR76 1234 5"}))
	assert.Equal(t, "txns.*", SubjectFor(client.Filter{Scope: client.ScopeUser, IBAN: "FR7612345"}))
}

func TestDecodeEvent(t *testing.T) {
	event, err := DecodeEvent([]byte(`{"id":4,"iban":"FR7612345","type":"Dépenses","montant":12.5,"published_at":"2024-03-01T10:00:00Z"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(4), event.ID)
	assert.Equal(t, "FR7612345", event.IBAN)
	assert.Equal(t, 12.5, event.Amount)
	assert.Equal(t, client.CategoryExpense, event.Category())
	assert.Equal(t, "txns.FR7612345", event.Subject())

	_, err = DecodeEvent([]byte(`not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode transaction event")

	_, err = DecodeEvent([]byte(`{"id":1}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no iban")
}

func TestSubjectMatches(t *testing.T) {
	tests := []struct {
		pattern, subject string
		want             bool
	}{
		{"txns.FR1", "txns.FR1", true},
		{"txns.FR1", "txns.FR2", false},
		{"txns.*", "txns.FR2", true},
		{"txns.*", "txns", false},
		{"txns.*", "txns.FR2.extra", false},
		{"txns.>", "txns.FR2.extra", true},
		{"txns.>", "txns", false},
		{"other.*", "txns.FR2", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, subjectMatches(tt.pattern, tt.subject), "%s vs %s", tt.pattern, tt.subject)
	}
}

func TestMockSubscriber(t *testing.T) {
	m := NewMockSubscriber()

	var mu sync.Mutex
	var account, user []int64
	require.NoError(t, m.Subscribe("txns.FR7612345", func(e *TransactionEvent) {
		mu.Lock()
		defer mu.Unlock()
		account = append(account, e.ID)
	}))
	require.NoError(t, m.Subscribe("txns.*", func(e *TransactionEvent) {
		mu.Lock()
		defer mu.Unlock()
		user = append(user, e.ID)
	}))
	assert.ElementsMatch(t, []string{"txns.FR7612345", "txns.*"}, m.Subjects())

	assert.Equal(t, 2, m.Emit(&TransactionEvent{ID: 1, IBAN: "FR7612345"}))
	assert.Equal(t, 1, m.Emit(&TransactionEvent{ID: 2, IBAN: "FR7699999"}))

	assert.Equal(t, []int64{1}, account)
	assert.Equal(t, []int64{1, 2}, user)

	require.NoError(t, m.Close())
	assert.True(t, m.IsClosed())
	assert.Equal(t, 0, m.Emit(&TransactionEvent{ID: 3, IBAN: "FR7612345"}))
}

func TestMockSubscriber_SubscribeError(t *testing.T) {
	m := NewMockSubscriber()
	m.SetSubscribeError(errors.New("nope"))
	err := m.Subscribe("txns.*", func(*TransactionEvent) {})
	require.Error(t, err)
	assert.Empty(t, m.Subjects())
}

func TestNewSubscriber_Unreachable(t *testing.T) {
	_, err := NewSubscriber("nats://127.0.0.1:1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

var _ Subscriber = (*CoreSubscriber)(nil)
var _ Subscriber = (*MockSubscriber)(nil)

func TestMatches(t *testing.T) {
	event := &TransactionEvent{ID: 1, IBAN: "FR7612345"}
	assert.True(t, Matches(client.Filter{Scope: client.ScopeAccount, IBAN: "FR7612345"}, event))
	assert.False(t, Matches(client.Filter{Scope: client.ScopeAccount, IBAN: "FR7699999"}, event))
	assert.True(t, Matches(client.Filter{Scope: client.ScopeUser, IBAN: "FR7699999"}, event))
}
