package txpage

import (
	"fmt"
	"strings"

	"github.com/brojonat/compte/client"
)

// TransactionView presents one transaction in the context of the account being viewed.
type TransactionView struct {
	Transaction client.Transaction
	IBAN        string
}

// NewTransactionView pairs a transaction with the viewed account.
func NewTransactionView(t client.Transaction, iban string) TransactionView {
	return TransactionView{Transaction: t, IBAN: iban}
}

// Category of the underlying transaction.
func (v TransactionView) Category() client.Category {
	return v.Transaction.Category()
}

// SignedAmount formats the amount with a sign derived from the category.
// Transactions whose type is neither income nor expense are left unsigned.
func (v TransactionView) SignedAmount() string {
	amount := v.Transaction.Amount
	if amount < 0 {
		amount = -amount
	}
	switch v.Category() {
	case client.CategoryIncome:
		return fmt.Sprintf("+%.2f", amount)
	case client.CategoryExpense:
		return fmt.Sprintf("-%.2f", amount)
	default:
		return fmt.Sprintf("%.2f", v.Transaction.Amount)
	}
}

// Label is the description, falling back to the server type label.
func (v TransactionView) Label() string {
	if d := strings.TrimSpace(v.Transaction.Description); d != "" {
		return d
	}
	if v.Transaction.Type != "" {
		return v.Transaction.Type
	}
	return "-"
}

// OtherAccount returns the transaction's own IBAN when it belongs to a
// different account than the one viewed (user scope lists every account).
func (v TransactionView) OtherAccount() (string, bool) {
	if v.Transaction.IBAN == "" || v.Transaction.IBAN == v.IBAN {
		return "", false
	}
	return v.Transaction.IBAN, true
}

func (v TransactionView) String() string {
	date := v.Transaction.Date
	if date == "" {
		date = "-"
	}
	line := fmt.Sprintf("#%-6d %-19s %12s  %s", v.Transaction.ID, date, v.SignedAmount(), v.Label())
	if other, ok := v.OtherAccount(); ok {
		line += fmt.Sprintf("  (%s)", other)
	}
	return line
}
