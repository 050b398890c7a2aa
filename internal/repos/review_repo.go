package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

type ReviewRow struct {
	ID        string `db:"id" json:"id"`
	ProductID string `db:"product_id" json:"productId"`
	UserID    string `db:"user_id" json:"-"`
	UserName  string `db:"user_name" json:"userName"`
	Rating    int    `db:"rating" json:"rating"`
	Body      string `db:"body" json:"body,omitempty"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}

// Upsert writes a user's review; re-reviewing the same product replaces
// the earlier rating/body.
func (r *ReviewRepo) Upsert(productID, userID string, rating int, body string) error {
	_, err := r.db.Exec(`
	  INSERT INTO reviews(id, product_id, user_id, rating, body, created_at)
	  VALUES(?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(product_id, user_id) DO UPDATE
	  SET rating = excluded.rating, body = excluded.body, created_at = CURRENT_TIMESTAMP
	`, uuid.NewString(), productID, userID, rating, body)
	return err
}

func (r *ReviewRepo) ListByProduct(productID string) ([]ReviewRow, error) {
	var out []ReviewRow
	err := r.db.Select(&out, `
	  SELECT rv.id, rv.product_id, rv.user_id, u.name AS user_name, rv.rating,
	         COALESCE(rv.body,'') AS body, rv.created_at
	  FROM reviews rv
	  JOIN users u ON u.id = rv.user_id
	  WHERE rv.product_id = ?
	  ORDER BY datetime(rv.created_at) DESC
	`, productID)
	return out, err
}
