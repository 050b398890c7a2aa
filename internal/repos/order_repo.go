package repos

import "github.com/jmoiron/sqlx"

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// ---------- Admin list summary ----------
type OrderSummary struct {
	ID            string  `db:"id" json:"id"`
	SessionID     string  `db:"session_id" json:"-"`
	CustomerName  string  `db:"customer_name" json:"customerName"`
	CustomerEmail string  `db:"customer_email" json:"customerEmail"`
	Total         float64 `db:"total" json:"total"`
	Currency      string  `db:"currency" json:"currency"`
	Status        string  `db:"status" json:"status"`
	CreatedAt     string  `db:"created_at" json:"createdAt"`
}

// ---------- Order detail ----------
type OrderRow struct {
	ID        string  `db:"id" json:"id"`
	SessionID string  `db:"session_id" json:"-"`
	UserID    string  `db:"user_id" json:"-"`
	Customer  string  `db:"customer_name" json:"customerName"`
	Email     string  `db:"customer_email" json:"customerEmail"`
	Total     float64 `db:"total" json:"total"`
	Currency  string  `db:"currency" json:"currency"`
	Status    string  `db:"status" json:"status"`
	CreatedAt string  `db:"created_at" json:"createdAt"`
}

type OrderItemRow struct {
	ProductID string  `db:"product_id" json:"productId"`
	VariantID string  `db:"variant_id" json:"variantId,omitempty"`
	Title     string  `db:"title" json:"title"`
	Qty       int     `db:"qty" json:"quantity"`
	Price     float64 `db:"price" json:"price"`
	Subtotal  float64 `db:"subtotal" json:"subtotal"`
}

// Create inserts a new order header.
func (r *OrderRepo) Create(orderID, sessionID, name, email, currency string, total float64) error {
	_, err := r.db.Exec(`
	  INSERT INTO orders(id, session_id, customer_name, customer_email, total, currency, status, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, 'PLACED', CURRENT_TIMESTAMP)
	`, orderID, sessionID, name, email, total, currency)
	return err
}

// InsertItem inserts a single line item.
func (r *OrderRepo) InsertItem(orderID, productID, variantID string, qty int, price float64) error {
	_, err := r.db.Exec(`
	  INSERT INTO order_items(order_id, product_id, variant_id, qty, price)
	  VALUES(?, ?, ?, ?, ?)
	`, orderID, productID, variantID, qty, price)
	return err
}

func (r *OrderRepo) Get(orderID string) (OrderRow, []OrderItemRow, error) {
	var o OrderRow
	if err := r.db.Get(&o, `
		SELECT o.id, o.session_id, COALESCE(s.user_id,'') AS user_id, o.customer_name, o.customer_email,
		       o.total, o.currency, o.status, o.created_at
		FROM orders o
		LEFT JOIN sessions s ON s.id = o.session_id
		WHERE o.id = ?
	`, orderID); err != nil {
		return OrderRow{}, nil, err
	}

	var items []OrderItemRow
	if err := r.db.Select(&items, `
		SELECT oi.product_id, oi.variant_id, p.title, oi.qty, oi.price, (oi.qty * oi.price) AS subtotal
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?
		ORDER BY p.title
	`, orderID); err != nil {
		return OrderRow{}, nil, err
	}

	return o, items, nil
}

func (r *OrderRepo) ListLatest(limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT id, session_id, customer_name, customer_email, total, currency, status, created_at
		FROM orders
		ORDER BY datetime(created_at) DESC
		LIMIT ?
	`, limit)
	return out, err
}

// ListByUser returns orders for a given user via session linkage.
func (r *OrderRepo) ListByUser(userID string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT o.id, o.session_id, o.customer_name, o.customer_email, o.total, o.currency, o.status, o.created_at
		FROM orders o
		JOIN sessions s ON s.id = o.session_id
		WHERE s.user_id = ?
		ORDER BY datetime(o.created_at) DESC
	`, userID)
	return out, err
}

// ListBySession returns orders tied to a session id (anon or pre-login).
func (r *OrderRepo) ListBySession(sessionID string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT id, session_id, customer_name, customer_email, total, currency, status, created_at
		FROM orders
		WHERE session_id = ?
		ORDER BY datetime(created_at) DESC
	`, sessionID)
	return out, err
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return err
}

// Stats powers the admin dashboard.
type OrderStats struct {
	Orders  int     `db:"orders" json:"orders"`
	Revenue float64 `db:"revenue" json:"revenue"`
}

func (r *OrderRepo) Stats() (OrderStats, error) {
	var st OrderStats
	err := r.db.Get(&st, `
		SELECT COUNT(*) AS orders, COALESCE(SUM(total),0) AS revenue
		FROM orders WHERE status != 'CANCELED'
	`)
	return st, err
}
