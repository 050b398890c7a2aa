package services

import (
	"context"
	"encoding/json"

	"gemlight/internal/cache"
	"gemlight/internal/domain"
	"gemlight/internal/repos"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
	Cache *cache.ProductCache // nil-safe; disabled without redis
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo, pc *cache.ProductCache) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods, Cache: pc}
}

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Cats.List()
}

// ListProducts serves the polled listing endpoint; results are cached per
// query shape for a short TTL so watcher traffic doesn't hammer sqlite.
func (s *CatalogService) ListProducts(ctx context.Context, q repos.ProductQuery) ([]domain.Product, error) {
	key := cache.ListKey(q)
	if hit, ok := s.Cache.GetList(ctx, key); ok {
		return decorate(hit), nil
	}
	out, err := s.Prods.List(q)
	if err != nil {
		return nil, err
	}
	s.Cache.SetList(ctx, key, out)
	return decorate(out), nil
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		return domain.Product{}, err
	}
	decodeImages(&p)
	return p, nil
}

// Invalidate drops cached listings after an admin write.
func (s *CatalogService) Invalidate(ctx context.Context) {
	s.Cache.Flush(ctx)
}

func decorate(ps []domain.Product) []domain.Product {
	for i := range ps {
		decodeImages(&ps[i])
	}
	return ps
}

func decodeImages(p *domain.Product) {
	p.Images = []string{}
	if p.ImagesJSON != "" {
		_ = json.Unmarshal([]byte(p.ImagesJSON), &p.Images)
	}
}
