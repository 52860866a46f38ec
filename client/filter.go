package client

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Scope bounds a transaction query to one account or to every account of the
// authenticated user.
type Scope string

const (
	ScopeAccount Scope = "account"
	ScopeUser    Scope = "user"
)

// Toggle returns the other scope.
func (s Scope) Toggle() Scope {
	if s == ScopeUser {
		return ScopeAccount
	}
	return ScopeUser
}

// Category classifies transactions as income, expense or both.
// The values are stable codes; the API sees Label().
type Category string

const (
	CategoryAll     Category = "all"
	CategoryIncome  Category = "income"
	CategoryExpense Category = "expense"
)

// Wire labels understood by the API. These are display strings the server
// happens to use as filter values; keep them byte-exact.
const (
	LabelAll     = "all"
	LabelIncome  = "Revenue"
	LabelExpense = "Dépenses"
)

// CategoryFromLabel maps an API/route label to a Category.
// Only the exact income and expense labels are recognized, anything else is CategoryAll.
func CategoryFromLabel(label string) Category {
	switch label {
	case LabelIncome:
		return CategoryIncome
	case LabelExpense:
		return CategoryExpense
	default:
		return CategoryAll
	}
}

// ParseCategory parses user input: a stable code (any case) or an exact wire label.
func ParseCategory(s string) (Category, error) {
	switch s {
	case LabelIncome:
		return CategoryIncome, nil
	case LabelExpense:
		return CategoryExpense, nil
	}
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case "", CategoryAll:
		return CategoryAll, nil
	case CategoryIncome:
		return CategoryIncome, nil
	case CategoryExpense:
		return CategoryExpense, nil
	}
	return "", fmt.Errorf("unknown category %q (want all, income or expense)", s)
}

// Label returns the wire value for c.
func (c Category) Label() string {
	switch c {
	case CategoryIncome:
		return LabelIncome
	case CategoryExpense:
		return LabelExpense
	default:
		return LabelAll
	}
}

// Filter selects which transactions to fetch.
type Filter struct {
	Scope    Scope
	Category Category
	IBAN     string
}

// Validate checks that the filter can be turned into an endpoint.
func (f Filter) Validate() error {
	switch f.Scope {
	case ScopeAccount:
		if f.IBAN == "" {
			return errors.New("iban is required for account scope")
		}
	case ScopeUser:
	default:
		return fmt.Errorf("unknown scope %q", f.Scope)
	}
	return nil
}

// Path returns the endpoint for the filter. User scope ignores the IBAN.
func (f Filter) Path() string {
	label := url.PathEscape(f.Category.Label())
	if f.Scope == ScopeUser {
		return "/transactionsUserFilter/" + label
	}
	return "/transactionsFilter/" + url.PathEscape(f.IBAN) + "/" + label
}

func (f Filter) String() string {
	if f.Scope == ScopeUser {
		return fmt.Sprintf("user/%s", f.Category)
	}
	return fmt.Sprintf("%s/%s", f.IBAN, f.Category)
}
