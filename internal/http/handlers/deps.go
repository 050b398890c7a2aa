package handlers

import (
	"github.com/jmoiron/sqlx"

	"gemlight/internal/cache"
	"gemlight/internal/config"
	"gemlight/internal/repos"
	"gemlight/internal/services"
)

type Deps struct {
	CatalogHandler    *CatalogHandler
	CartHandler       *CartHandler
	WishlistHandler   *WishlistHandler
	OrderHandler      *OrderHandler
	ReviewHandler     *ReviewHandler
	NewsletterHandler *NewsletterHandler
	AdminHandler      *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService, pc *cache.ProductCache) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	wishRepo := repos.NewWishlistRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	newsRepo := repos.NewNewsletterRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(catRepo, prodRepo, pc)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(cartRepo, invRepo, orderRepo)
	wishSvc := services.NewWishlistService(wishRepo, prodRepo)
	reviewSvc := services.NewReviewService(reviewRepo, prodRepo)

	return &Deps{
		CatalogHandler:    &CatalogHandler{Catalog: catalogSvc},
		CartHandler:       &CartHandler{Cart: cartSvc},
		WishlistHandler:   &WishlistHandler{Wish: wishSvc},
		OrderHandler:      &OrderHandler{Cart: cartSvc, Order: orderSvc, Repo: orderRepo, Auth: auth},
		ReviewHandler:     &ReviewHandler{Reviews: reviewSvc},
		NewsletterHandler: &NewsletterHandler{Repo: newsRepo},
		AdminHandler: &AdminHandler{
			OrderRepo: orderRepo,
			Inv:       invRepo,
			Users:     userRepo,
			Prods:     prodRepo,
			News:      newsRepo,
			Catalog:   catalogSvc,
		},
	}
}
