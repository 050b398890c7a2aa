package repos

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

type CartItemRow struct {
	ID         string  `db:"id" json:"id"`
	ProductID  string  `db:"product_id" json:"productId"`
	VariantID  string  `db:"variant_id" json:"variantId,omitempty"`
	Title      string  `db:"title" json:"title"`
	Qty        int     `db:"qty" json:"quantity"`
	PriceAtAdd float64 `db:"price_at_add" json:"priceAtAdd"`
	Subtotal   float64 `db:"subtotal" json:"subtotal"`
}

func (r *CartRepo) EnsureCart(sessionID string) (string, error) {
	var cartID string
	if err := r.db.Get(&cartID, `SELECT id FROM carts WHERE session_id = ?`, sessionID); err == nil {
		return cartID, nil
	}
	_, err := r.db.Exec(`INSERT INTO carts(id,session_id,updated_at) VALUES(?,?,?)`,
		sessionID, sessionID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

// UpsertItem adds qty to an existing (product, variant) line or inserts a
// fresh one; the line id is stable across increments.
func (r *CartRepo) UpsertItem(cartID, productID, variantID string, qty int, price float64) (string, error) {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(id,cart_id,product_id,variant_id,qty,price_at_add,created_at)
		VALUES(?,?,?,?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(cart_id,product_id,variant_id) DO UPDATE
		SET qty = cart_items.qty + excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, uuid.NewString(), cartID, productID, variantID, qty, price)
	if err != nil {
		return "", err
	}
	var id string
	err = r.db.Get(&id, `SELECT id FROM cart_items WHERE cart_id=? AND product_id=? AND variant_id=?`,
		cartID, productID, variantID)
	return id, err
}

// UpdateQty replaces a line's quantity in place. Returns false when the
// line does not exist (callers treat that as a benign no-op).
func (r *CartRepo) UpdateQty(cartID, itemID string, qty int) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE cart_items SET qty=?, updated_at=CURRENT_TIMESTAMP
		WHERE id=? AND cart_id=?
	`, qty, itemID, cartID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// RemoveItem deletes a line; deleting an absent line is not an error.
func (r *CartRepo) RemoveItem(cartID, itemID string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM cart_items WHERE id=? AND cart_id=?`, itemID, cartID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *CartRepo) View(cartID string) ([]CartItemRow, float64, error) {
	rows := []CartItemRow{}
	if err := r.db.Select(&rows, `
	  SELECT ci.id, ci.product_id, ci.variant_id, p.title, ci.qty, ci.price_at_add,
	         (ci.qty*ci.price_at_add) AS subtotal
	  FROM cart_items ci JOIN products p ON p.id=ci.product_id
	  WHERE ci.cart_id = ?
	  ORDER BY ci.created_at, ci.id
	`, cartID); err != nil {
		return nil, 0, err
	}
	total := 0.0
	for _, it := range rows {
		total += it.Subtotal
	}
	return rows, total, nil
}

type CartItem struct {
	ProductID string  `db:"product_id"`
	VariantID string  `db:"variant_id"`
	Qty       int     `db:"qty"`
	Price     float64 `db:"price"`
	Title     string  `db:"title"`
}

func (r *CartRepo) Items(cartID string) ([]CartItem, error) {
	var out []CartItem
	err := r.db.Select(&out, `
	  SELECT ci.product_id, ci.variant_id, ci.qty, ci.price_at_add AS price, p.title
	  FROM cart_items ci JOIN products p ON p.id=ci.product_id
	  WHERE ci.cart_id = ?
	`, cartID)
	return out, err
}

func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}
