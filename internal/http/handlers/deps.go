package handlers

import (
	"github.com/jmoiron/sqlx"

	"storefront/internal/repos"
	"storefront/internal/services"
)

type Deps struct {
	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	PaymentHandler *PaymentHandler
	ReviewHandler  *ReviewHandler
	AdminHandler   *AdminHandler
}

// NewDeps wires repos, services, and handlers explicitly from one DB handle.
// The gateway may be nil, which selects the offline payment provider.
func NewDeps(db *sqlx.DB, auth *services.AuthService, gw services.IntentCreator) *Deps {
	userRepo := repos.NewUserRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	reviewRepo := repos.NewReviewRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo)
	invSvc := services.NewInventoryService(prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(cartRepo, prodRepo, orderRepo)
	paySvc := services.NewPaymentService(orderRepo, gw)
	reviewSvc := services.NewReviewService(reviewRepo, prodRepo)

	return &Deps{
		AuthHandler:    &AuthHandler{Auth: auth},
		ProductHandler: &ProductHandler{Catalog: catalogSvc, Inv: invSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		OrderHandler:   &OrderHandler{Order: orderSvc, Payment: paySvc},
		PaymentHandler: &PaymentHandler{Payment: paySvc, Order: orderSvc},
		ReviewHandler:  &ReviewHandler{Reviews: reviewSvc},
		AdminHandler:   &AdminHandler{Users: userRepo, Orders: orderRepo, Inv: invSvc},
	}
}
