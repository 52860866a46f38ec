package client

import (
	"context"
	"fmt"
)

// Transaction is one transaction record as returned by the API.
type Transaction struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"montant"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date"`
	IBAN        string  `json:"iban,omitempty"`
}

// Category derives the transaction's direction from its server-provided type label.
func (t Transaction) Category() Category {
	return CategoryFromLabel(t.Type)
}

// ListTransactions fetches the transactions selected by f.
func (c *Client) ListTransactions(ctx context.Context, f Filter) ([]Transaction, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}

	var transactions []Transaction
	if err := c.Get(ctx, f.Path(), &transactions); err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []Transaction{}
	}

	c.logger.Debug("transactions fetched", "filter", f.String(), "count", len(transactions))
	return transactions, nil
}
