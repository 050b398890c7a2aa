package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"gemlight/internal/repos"
)

var (
	ErrCartEmpty         = errors.New("cart empty")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Contact struct {
	Name  string
	Email string
}

type OrderService struct {
	Carts  *repos.CartRepo
	Inv    *repos.InventoryRepo
	Orders *repos.OrderRepo
}

func NewOrderService(carts *repos.CartRepo, inv *repos.InventoryRepo, orders *repos.OrderRepo) *OrderService {
	return &OrderService{Carts: carts, Inv: inv, Orders: orders}
}

// Place checks stock for every line, decrements, writes the order rows and
// clears the cart. Stock pre-check failures surface ErrInsufficientStock.
func (s *OrderService) Place(sessionID string, contact Contact) (string, float64, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return "", 0, err
	}

	items, err := s.Carts.Items(cartID)
	if err != nil {
		return "", 0, err
	}
	if len(items) == 0 {
		return "", 0, ErrCartEmpty
	}

	// Quantities can span variants of the same product; stock is per product.
	need := map[string]int{}
	for _, it := range items {
		need[it.ProductID] += it.Qty
	}
	for pid, n := range need {
		stock, err := s.Inv.Stock(pid)
		if err != nil && err != sql.ErrNoRows {
			return "", 0, err
		}
		if stock < n {
			return "", 0, fmt.Errorf("%w for %s (need %d, have %d)", ErrInsufficientStock, pid, n, stock)
		}
	}

	for pid, n := range need {
		if err := s.Inv.Decrement(pid, n); err != nil {
			return "", 0, err
		}
	}

	total := 0.0
	for _, it := range items {
		total += it.Price * float64(it.Qty)
	}

	orderID := uuid.NewString()
	if err := s.Orders.Create(orderID, sessionID, contact.Name, contact.Email, "USD", total); err != nil {
		return "", 0, err
	}
	for _, it := range items {
		if err := s.Orders.InsertItem(orderID, it.ProductID, it.VariantID, it.Qty, it.Price); err != nil {
			return "", 0, err
		}
	}
	_ = s.Carts.Clear(cartID)
	return orderID, total, nil
}
