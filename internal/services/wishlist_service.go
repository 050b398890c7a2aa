package services

import "gemlight/internal/repos"

type WishlistService struct {
	Repo  *repos.WishlistRepo
	Prods *repos.ProductRepo
}

func NewWishlistService(r *repos.WishlistRepo, prods *repos.ProductRepo) *WishlistService {
	return &WishlistService{Repo: r, Prods: prods}
}

// Save adds a product to the session's wishlist; re-adding is a no-op.
func (s *WishlistService) Save(sessionID, productID string) error {
	if _, err := s.Prods.Get(productID); err != nil {
		return err
	}
	id, err := s.Repo.Ensure(sessionID)
	if err != nil {
		return err
	}
	return s.Repo.Add(id, productID)
}

func (s *WishlistService) Unsave(sessionID, productID string) (bool, error) {
	id, err := s.Repo.Ensure(sessionID)
	if err != nil {
		return false, err
	}
	return s.Repo.Remove(id, productID)
}

func (s *WishlistService) List(sessionID string) ([]repos.WishlistRow, error) {
	id, err := s.Repo.Ensure(sessionID)
	if err != nil {
		return nil, err
	}
	return s.Repo.List(id)
}
