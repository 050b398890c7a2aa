package repos

import "github.com/jmoiron/sqlx"

type NewsletterRepo struct{ db *sqlx.DB }

func NewNewsletterRepo(db *sqlx.DB) *NewsletterRepo { return &NewsletterRepo{db: db} }

// Subscribe records an email; duplicates are a no-op. Returns whether a
// new row was created.
func (r *NewsletterRepo) Subscribe(email string) (bool, error) {
	res, err := r.db.Exec(`
	  INSERT INTO newsletter_subscribers(email, created_at)
	  VALUES(LOWER(?), CURRENT_TIMESTAMP)
	  ON CONFLICT(email) DO NOTHING
	`, email)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *NewsletterRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM newsletter_subscribers`)
	return n, err
}
