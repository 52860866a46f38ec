package txpage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brojonat/compte/client"
	"github.com/brojonat/compte/service/txpage"
)

func TestParseRoute(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		want     txpage.Route
		category client.Category
	}{
		{
			name:     "income label",
			path:     "/compte/FR7612345/Revenue",
			want:     txpage.Route{IBAN: "FR7612345", Param: "Revenue"},
			category: client.CategoryIncome,
		},
		{
			name:     "expense label",
			path:     "/compte/FR7612345/Dépenses",
			want:     txpage.Route{IBAN: "FR7612345", Param: "Dépenses"},
			category: client.CategoryExpense,
		},
		{
			name:     "escaped expense label",
			path:     "/compte/FR7612345/D%C3%A9penses",
			want:     txpage.Route{IBAN: "FR7612345", Param: "Dépenses"},
			category: client.CategoryExpense,
		},
		{
			name:     "missing param",
			path:     "/compte/FR7612345",
			want:     txpage.Route{IBAN: "FR7612345", Param: "all"},
			category: client.CategoryAll,
		},
		{
			name:     "bare iban",
			path:     "FR7612345",
			want:     txpage.Route{IBAN: "FR7612345", Param: "all"},
			category: client.CategoryAll,
		},
		{
			name:     "bare iban with param",
			path:     "FR7612345/Revenue",
			want:     txpage.Route{IBAN: "FR7612345", Param: "Revenue"},
			category: client.CategoryIncome,
		},
		{
			name:     "unrecognized param kept but means all",
			path:     "/compte/FR7612345/revenue",
			want:     txpage.Route{IBAN: "FR7612345", Param: "revenue"},
			category: client.CategoryAll,
		},
		{
			name:     "trailing slash",
			path:     "/compte/FR7612345/all/",
			want:     txpage.Route{IBAN: "FR7612345", Param: "all"},
			category: client.CategoryAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := txpage.ParseRoute(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.category, got.Category())
		})
	}
}

func TestParseRoute_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "empty", path: "", want: "route is empty"},
		{name: "only slashes", path: "///", want: "route is empty"},
		{name: "wrong prefix", path: "/account/FR7612345/all", want: "does not start with"},
		{name: "too many segments", path: "/compte/FR7612345/all/extra", want: "must look like"},
		{name: "prefix only", path: "/compte", want: "must look like"},
		{name: "bad escape", path: "/compte/FR%zz/all", want: "invalid iban segment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := txpage.ParseRoute(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

// Any param other than the two exact labels resolves to all.
func TestRouteCategory_FallsBackToAll(t *testing.T) {
	for _, param := range []string{"", "all", "ALL", "Revenues", "revenue", "Depenses", "dépenses", " Revenue", "income", "expense", "Dépenses "} {
		r := txpage.Route{IBAN: "FR7612345", Param: param}
		assert.Equal(t, client.CategoryAll, r.Category(), "param %q", param)
	}
}

func TestRoute_WithCategoryAndPath(t *testing.T) {
	r := txpage.Route{IBAN: "FR7612345", Param: "all"}

	expense := r.WithCategory(client.CategoryExpense)
	assert.Equal(t, "Dépenses", expense.Param)
	assert.Equal(t, "/compte/FR7612345/D%C3%A9penses", expense.Path())

	parsed, err := txpage.ParseRoute(expense.Path())
	require.NoError(t, err)
	assert.Equal(t, expense, parsed)

	assert.Equal(t, "/compte/FR7612345/Revenue", r.WithCategory(client.CategoryIncome).Path())
	assert.Equal(t, "/compte/FR7612345/all", r.WithCategory(client.CategoryAll).Path())
}
