package client_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brojonat/compte/client"
)

func TestCategoryFromLabel(t *testing.T) {
	tests := []struct {
		label string
		want  client.Category
	}{
		{"Revenue", client.CategoryIncome},
		{"Dépenses", client.CategoryExpense},
		{"all", client.CategoryAll},
		{"", client.CategoryAll},
		{"revenue", client.CategoryAll},
		{"Depenses", client.CategoryAll},
		{"dépenses", client.CategoryAll},
		{"income", client.CategoryAll},
		{"expense", client.CategoryAll},
		{" Revenue", client.CategoryAll},
		{"Crédit", client.CategoryAll},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, client.CategoryFromLabel(tt.label))
		})
	}
}

func TestCategoryLabel_RoundTrip(t *testing.T) {
	for _, c := range []client.Category{client.CategoryAll, client.CategoryIncome, client.CategoryExpense} {
		assert.Equal(t, c, client.CategoryFromLabel(c.Label()))
	}
	assert.Equal(t, "all", client.Category("bogus").Label())
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    client.Category
		wantErr bool
	}{
		{input: "", want: client.CategoryAll},
		{input: "all", want: client.CategoryAll},
		{input: "INCOME", want: client.CategoryIncome},
		{input: "expense", want: client.CategoryExpense},
		{input: "Revenue", want: client.CategoryIncome},
		{input: "Dépenses", want: client.CategoryExpense},
		{input: "credit", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := client.ParseCategory(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown category")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScopeToggle(t *testing.T) {
	assert.Equal(t, client.ScopeUser, client.ScopeAccount.Toggle())
	assert.Equal(t, client.ScopeAccount, client.ScopeUser.Toggle())
	assert.Equal(t, client.ScopeAccount, client.ScopeAccount.Toggle().Toggle())
}

func TestFilterPath(t *testing.T) {
	tests := []struct {
		name   string
		filter client.Filter
		want   string
	}{
		{
			name:   "account income",
			filter: client.Filter{Scope: client.ScopeAccount, Category: client.CategoryIncome, IBAN: "FR7612345"},
			want:   "/transactionsFilter/FR7612345/Revenue",
		},
		{
			name:   "account expense is escaped",
			filter: client.Filter{Scope: client.ScopeAccount, Category: client.CategoryExpense, IBAN: "FR7612345"},
			want:   "/transactionsFilter/FR7612345/D%C3%A9penses",
		},
		{
			name:   "user scope ignores iban",
			filter: client.Filter{Scope: client.ScopeUser, Category: client.CategoryAll, IBAN: "FR7612345"},
			want:   "/transactionsUserFilter/all",
		},
		{
			name:   "iban with separator is escaped",
			filter: client.Filter{Scope: client.ScopeAccount, Category: client.CategoryAll, IBAN: "FR76 123/45"},
			want:   "/transactionsFilter/FR76%20123%2F45/all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Path())
		})
	}
}

func TestFilterValidate(t *testing.T) {
	assert.NoError(t, client.Filter{Scope: client.ScopeUser}.Validate())
	assert.NoError(t, client.Filter{Scope: client.ScopeAccount, IBAN: "FR76"}.Validate())

	err := client.Filter{Scope: client.ScopeAccount}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iban is required")

	err = client.Filter{Scope: "bank", IBAN: "FR76"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scope")
}

func TestTransactionCategory(t *testing.T) {
	assert.Equal(t, client.CategoryIncome, client.Transaction{Type: "Revenue"}.Category())
	assert.Equal(t, client.CategoryExpense, client.Transaction{Type: "Dépenses"}.Category())
	assert.Equal(t, client.CategoryAll, client.Transaction{Type: "Virement"}.Category())
}
