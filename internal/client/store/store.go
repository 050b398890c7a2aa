// Package store holds the client-side shopping state (cart, wishlist,
// search history, recently viewed, filters) with an explicit load/save
// boundary. The server stays authoritative once synced; this is the
// advisory local mirror that survives restarts.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	maxSearchHistory  = 10
	maxRecentlyViewed = 20
)

type CartLine struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	VariantID string    `json:"variantId,omitempty"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

type WishlistEntry struct {
	ProductID string    `json:"productId"`
	AddedAt   time.Time `json:"addedAt"`
}

type Filters struct {
	Category string  `json:"category,omitempty"`
	Metal    string  `json:"metal,omitempty"`
	Gemstone string  `json:"gemstone,omitempty"`
	MinPrice float64 `json:"minPrice,omitempty"`
	MaxPrice float64 `json:"maxPrice,omitempty"`
}

// FilterPatch shallow-merges into the current filters; nil fields are
// left untouched.
type FilterPatch struct {
	Category *string
	Metal    *string
	Gemstone *string
	MinPrice *float64
	MaxPrice *float64
}

// snapshot is the on-disk shape. Filters and the live query are
// deliberately absent: they reset every session.
type snapshot struct {
	CartItems      []CartLine      `json:"cartItems"`
	WishlistItems  []WishlistEntry `json:"wishlistItems"`
	SearchHistory  []string        `json:"searchHistory"`
	RecentlyViewed []string        `json:"recentlyViewed"`
}

type Store struct {
	mu             sync.Mutex
	path           string // empty means memory-only
	cart           []CartLine
	wishlist       []WishlistEntry
	searchHistory  []string
	recentlyViewed []string
	filters        Filters
	query          string
}

// Open loads the snapshot at path (an absent file is an empty store).
// An empty path gives a memory-only store.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if path == "" {
		return s, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	s.cart = snap.CartItems
	s.wishlist = snap.WishlistItems
	s.searchHistory = snap.SearchHistory
	s.recentlyViewed = snap.RecentlyViewed
	return s, nil
}

// Save persists the durable fields. Memory-only stores no-op.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return nil
	}
	snap := snapshot{
		CartItems:      s.cart,
		WishlistItems:  s.wishlist,
		SearchHistory:  s.searchHistory,
		RecentlyViewed: s.recentlyViewed,
	}
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0600)
}

// AddToCart increments an existing (productId, variantId) line or appends
// a new one. Quantity bounds are the caller's concern, not clamped here.
func (s *Store) AddToCart(productID, variantID string, quantity int) CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].ProductID == productID && s.cart[i].VariantID == variantID {
			s.cart[i].Quantity += quantity
			return s.cart[i]
		}
	}
	line := CartLine{
		ID:        uuid.NewString(),
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
		AddedAt:   time.Now(),
	}
	s.cart = append(s.cart, line)
	return line
}

// RemoveFromCart deletes a line by id; absent ids are a no-op.
func (s *Store) RemoveFromCart(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].ID == id {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			return
		}
	}
}

// UpdateCartQuantity replaces the quantity in place, no validation.
func (s *Store) UpdateCartQuantity(id string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].ID == id {
			s.cart[i].Quantity = quantity
			return
		}
	}
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
}

func (s *Store) CartItems() []CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CartLine, len(s.cart))
	copy(out, s.cart)
	return out
}

// AddToWishlist has set semantics: re-adding is a no-op.
func (s *Store) AddToWishlist(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.wishlist {
		if e.ProductID == productID {
			return
		}
	}
	s.wishlist = append(s.wishlist, WishlistEntry{ProductID: productID, AddedAt: time.Now()})
}

func (s *Store) RemoveFromWishlist(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.wishlist {
		if s.wishlist[i].ProductID == productID {
			s.wishlist = append(s.wishlist[:i], s.wishlist[i+1:]...)
			return
		}
	}
}

func (s *Store) WishlistItems() []WishlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]WishlistEntry, len(s.wishlist))
	copy(out, s.wishlist)
	return out
}

// AddToSearchHistory front-inserts after dropping any case-insensitive
// duplicate, then truncates to the most recent entries.
func (s *Store) AddToSearchHistory(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchHistory = frontInsert(s.searchHistory, query, maxSearchHistory)
}

func (s *Store) SearchHistory() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.searchHistory))
	copy(out, s.searchHistory)
	return out
}

// AddToRecentlyViewed mirrors the search-history pattern with a larger cap.
func (s *Store) AddToRecentlyViewed(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recentlyViewed = frontInsert(s.recentlyViewed, productID, maxRecentlyViewed)
}

func (s *Store) RecentlyViewed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.recentlyViewed))
	copy(out, s.recentlyViewed)
	return out
}

func frontInsert(list []string, v string, max int) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, v)
	for _, e := range list {
		if !strings.EqualFold(e, v) {
			out = append(out, e)
		}
	}
	if len(out) > max {
		out = out[:max]
	}
	return out
}

// SetFilters shallow-merges the patch into the active filters.
func (s *Store) SetFilters(p FilterPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Category != nil {
		s.filters.Category = *p.Category
	}
	if p.Metal != nil {
		s.filters.Metal = *p.Metal
	}
	if p.Gemstone != nil {
		s.filters.Gemstone = *p.Gemstone
	}
	if p.MinPrice != nil {
		s.filters.MinPrice = *p.MinPrice
	}
	if p.MaxPrice != nil {
		s.filters.MaxPrice = *p.MaxPrice
	}
}

func (s *Store) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = Filters{}
}

func (s *Store) Filters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// SetQuery tracks the live search box; never persisted.
func (s *Store) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

func (s *Store) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}
