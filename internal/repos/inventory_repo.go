package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

type InventoryRepo struct{ db *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// Row used by admin stock views
type InventoryRow struct {
	ProductID string `db:"product_id"`
	Title     string `db:"title"`
	Stock     int    `db:"stock"`
}

// ListAll returns stock for every active product (for /admin).
func (r *InventoryRepo) ListAll() ([]InventoryRow, error) {
	var rows []InventoryRow
	err := r.db.Select(&rows, `
		SELECT id AS product_id, title, stock
		FROM products
		WHERE active = 1
		ORDER BY title
	`)
	return rows, err
}

// Stock returns current stock for a product.
// Returns sql.ErrNoRows if the product does not exist.
func (r *InventoryRepo) Stock(productID string) (int, error) {
	var stock int
	err := r.db.Get(&stock, `SELECT stock FROM products WHERE id = ?`, productID)
	if err != nil {
		return 0, err
	}
	return stock, nil
}

// Decrement atomically subtracts "by" units if enough stock exists.
// Returns an error if there isn't sufficient stock.
func (r *InventoryRepo) Decrement(productID string, by int) error {
	res, err := r.db.Exec(`
		UPDATE products
		SET stock = stock - ?
		WHERE id = ? AND stock >= ?
	`, by, productID, by)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("insufficient stock for %s", productID)
	}
	return nil
}

// SetStock sets the absolute stock level for a product (admin).
func (r *InventoryRepo) SetStock(productID string, stock int) error {
	res, err := r.db.Exec(`
		UPDATE products SET stock = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, stock, productID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("no such product %s", productID)
	}
	return nil
}

// CountLowStock counts active products at or below the given threshold.
func (r *InventoryRepo) CountLowStock(threshold int) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE active = 1 AND stock <= ?`, threshold)
	return n, err
}
