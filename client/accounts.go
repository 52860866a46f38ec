package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ErrAccountNotFound is returned when the IBAN does not belong to the authenticated user.
var ErrAccountNotFound = errors.New("account not found")

// Account is a bank account owned by the authenticated user.
type Account struct {
	ID           int64   `json:"id,omitempty"`
	Name         string  `json:"nom"`
	IBAN         string  `json:"iban"`
	UserID       int64   `json:"userId,omitempty"`
	Balance      float64 `json:"solde"`
	DateCreation string  `json:"dateCreation,omitempty"`
}

// HistoryEntry is one line of an account's booked history.
type HistoryEntry struct {
	Date   string  `json:"date"`
	Amount float64 `json:"montant"`
	Type   string  `json:"type"`
}

// AccountDetail is the full view of one account.
type AccountDetail struct {
	Name         string         `json:"name"`
	DateCreation string         `json:"date_creation"`
	IBAN         string         `json:"iban"`
	UserID       int64          `json:"user"`
	Balance      float64        `json:"solde"`
	OnGoing      []HistoryEntry `json:"transactions_on_going"`
	History      []HistoryEntry `json:"transactions_historique"`
	Message      string         `json:"message,omitempty"`
}

// ListAccounts retrieves every account of the authenticated user.
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := c.Get(ctx, "/accounts", &accounts); err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []Account{}
	}
	return accounts, nil
}

// AddAccount opens a new account for the authenticated user.
func (c *Client) AddAccount(ctx context.Context, name, iban string) (*Account, error) {
	if name == "" || iban == "" {
		return nil, errors.New("account name and iban are required")
	}

	body := map[string]string{
		"nom":  name,
		"iban": iban,
	}

	var account Account
	if err := c.do(ctx, http.MethodPost, "/account_add/", body, &account); err != nil {
		return nil, err
	}

	c.logger.Debug("account added", "iban", account.IBAN)
	return &account, nil
}

// GetAccount retrieves one account with its history.
func (c *Client) GetAccount(ctx context.Context, iban string) (*AccountDetail, error) {
	var detail AccountDetail
	if err := c.Get(ctx, "/compte/"+url.PathEscape(iban), &detail); err != nil {
		return nil, err
	}
	// Unknown IBANs come back as 200 with only a message.
	if detail.IBAN == "" {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, iban)
	}
	return &detail, nil
}

// Deposit credits amount to one of the user's accounts and returns the server message.
func (c *Client) Deposit(ctx context.Context, iban string, amount float64) (string, error) {
	if amount <= 0 {
		return "", errors.New("amount must be greater than zero")
	}

	q := url.Values{}
	q.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	q.Set("iban_dest", iban)

	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/deposit?"+q.Encode(), nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
