package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCartMergesSameVariant(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)

	first := s.AddToCart("ring-solitaire-001", "size-7", 1)
	second := s.AddToCart("ring-solitaire-001", "size-7", 2)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Quantity)
	assert.Len(t, s.CartItems(), 1)

	// A different variant of the same product is its own line.
	s.AddToCart("ring-solitaire-001", "size-8", 1)
	assert.Len(t, s.CartItems(), 2)
}

func TestRemoveAndUpdateCart(t *testing.T) {
	s, _ := Open("")
	line := s.AddToCart("p1", "", 1)

	s.UpdateCartQuantity(line.ID, 5)
	assert.Equal(t, 5, s.CartItems()[0].Quantity)

	s.RemoveFromCart("not-there") // no-op
	assert.Len(t, s.CartItems(), 1)

	s.RemoveFromCart(line.ID)
	assert.Empty(t, s.CartItems())
}

func TestWishlistIsASet(t *testing.T) {
	s, _ := Open("")
	s.AddToWishlist("p1")
	s.AddToWishlist("p1")
	s.AddToWishlist("p2")
	assert.Len(t, s.WishlistItems(), 2)

	s.RemoveFromWishlist("p1")
	items := s.WishlistItems()
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)
}

func TestSearchHistoryDedupAndCap(t *testing.T) {
	s, _ := Open("")
	s.AddToSearchHistory("Ring")
	s.AddToSearchHistory("necklace")
	s.AddToSearchHistory("ring") // case-insensitive dup moves to front

	assert.Equal(t, []string{"ring", "necklace"}, s.SearchHistory())

	for i := 0; i < 15; i++ {
		s.AddToSearchHistory(string(rune('a' + i)))
	}
	assert.Len(t, s.SearchHistory(), maxSearchHistory)
	assert.Equal(t, "o", s.SearchHistory()[0])
}

func TestRecentlyViewedCap(t *testing.T) {
	s, _ := Open("")
	for i := 0; i < 25; i++ {
		s.AddToRecentlyViewed(string(rune('a' + i)))
	}
	got := s.RecentlyViewed()
	assert.Len(t, got, maxRecentlyViewed)
	assert.Equal(t, "y", got[0]) // most recent first
}

func TestFiltersMergeAndClear(t *testing.T) {
	s, _ := Open("")
	metal := "GOLD"
	min := 100.0
	s.SetFilters(FilterPatch{Metal: &metal, MinPrice: &min})

	gem := "DIAMOND"
	s.SetFilters(FilterPatch{Gemstone: &gem})

	f := s.Filters()
	assert.Equal(t, "GOLD", f.Metal)
	assert.Equal(t, "DIAMOND", f.Gemstone)
	assert.Equal(t, 100.0, f.MinPrice)

	s.ClearFilters()
	assert.Equal(t, Filters{}, s.Filters())
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	s, err := Open(path)
	require.NoError(t, err)
	s.AddToCart("p1", "", 2)
	s.AddToWishlist("p2")
	s.AddToSearchHistory("emerald")
	s.AddToRecentlyViewed("p3")
	metal := "SILVER"
	s.SetFilters(FilterPatch{Metal: &metal})
	s.SetQuery("pearl")
	require.NoError(t, s.Save())

	re, err := Open(path)
	require.NoError(t, err)
	assert.Len(t, re.CartItems(), 1)
	assert.Len(t, re.WishlistItems(), 1)
	assert.Equal(t, []string{"emerald"}, re.SearchHistory())
	assert.Equal(t, []string{"p3"}, re.RecentlyViewed())

	// Filters and the live query are per-session only.
	assert.Equal(t, Filters{}, re.Filters())
	assert.Equal(t, "", re.Query())
}

func TestOpenMissingFileIsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Empty(t, s.CartItems())
}

func TestOpenCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	_, err := Open(path)
	assert.Error(t, err)
}
