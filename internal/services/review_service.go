package services

import (
	"errors"

	"gemlight/internal/repos"
	"gemlight/internal/validate"
)

var ErrBadRating = errors.New("rating must be between 1 and 5")

type ReviewService struct {
	Repo  *repos.ReviewRepo
	Prods *repos.ProductRepo
}

func NewReviewService(r *repos.ReviewRepo, prods *repos.ProductRepo) *ReviewService {
	return &ReviewService{Repo: r, Prods: prods}
}

// Post writes or replaces the user's review for a product.
func (s *ReviewService) Post(productID, userID string, rating int, body string) error {
	if !validate.Rating(rating) {
		return ErrBadRating
	}
	if _, err := s.Prods.Get(productID); err != nil {
		return err
	}
	return s.Repo.Upsert(productID, userID, rating, body)
}

func (s *ReviewService) List(productID string) ([]repos.ReviewRow, error) {
	return s.Repo.ListByProduct(productID)
}
