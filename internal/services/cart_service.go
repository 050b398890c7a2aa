package services

import (
	"gemlight/internal/repos"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// Add upserts a (product, variant) line: an existing pair gains quantity,
// a new pair gets a fresh line. Returns the line id.
func (s *CartService) Add(sessionID, productID, variantID string, qty int) (string, error) {
	if qty < 1 {
		qty = 1
	}
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return "", err
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		return "", err
	}
	return s.Carts.UpsertItem(cartID, productID, variantID, qty, p.BasePrice)
}

// UpdateQty replaces a line's quantity. Missing lines report found=false.
func (s *CartService) UpdateQty(sessionID, itemID string, qty int) (bool, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return false, err
	}
	return s.Carts.UpdateQty(cartID, itemID, qty)
}

// Remove deletes a line; an already-absent line is a benign no-op.
func (s *CartService) Remove(sessionID, itemID string) (bool, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return false, err
	}
	return s.Carts.RemoveItem(cartID, itemID)
}

type CartView struct {
	Items []repos.CartItemRow `json:"items"`
	Total float64             `json:"total"`
}

func (s *CartService) View(sessionID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return CartView{}, err
	}
	items, total, err := s.Carts.View(cartID)
	if err != nil {
		return CartView{}, err
	}
	return CartView{Items: items, Total: total}, nil
}
