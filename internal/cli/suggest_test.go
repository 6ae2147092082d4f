package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/propsel/internal/testutil"
)

func TestSuggest(t *testing.T) {
	candidates := []string{"shop.Book", "shop.Product", "shop.Entity", "orders.Order"}

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"typo", "shop.Bok", []string{"shop.Book"}},
		{"case_insensitive", "SHOP.BOOK", []string{"shop.Book"}},
		{"transposition", "shop.Prodcut", []string{"shop.Product"}},
		{"nothing_close", "inventory.Widget", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggest(tt.in, candidates, maxSuggestions))
		})
	}
}

func TestSuggest_ClosestFirstAndCapped(t *testing.T) {
	candidates := []string{"abcd", "abce", "abc", "abcf", "abcg"}

	got := Suggest("abc", candidates, 2)
	assert.Equal(t, []string{"abc", "abcd"}, got)
}

func TestSuggest_NameLists(t *testing.T) {
	reg := testutil.MustBuild(t, testutil.ShopSchema())

	types := typeNames(reg)
	require.NotEmpty(t, types)
	assert.Contains(t, types, "shop.Book")

	assert.Contains(t, moduleNames(reg), "shop")
}
