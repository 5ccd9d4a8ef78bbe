package handlers

import (
	"simplestore/internal/repos"
	"simplestore/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Auth    *services.AuthService
	Flash   *FlashStore
	AuthH   *AuthHandler
	Product *ProductHandler
	Cart    *CartHandler
	Search  *SearchHandler
}

func NewDeps(db *sqlx.DB) *Deps {
	userRepo := repos.NewUserRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)

	authSvc := &services.AuthService{Users: userRepo}
	catalogSvc := services.NewCatalogService(prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)

	flash := &FlashStore{Users: userRepo}

	return &Deps{
		Auth:    authSvc,
		Flash:   flash,
		AuthH:   &AuthHandler{Auth: authSvc, Flash: flash},
		Product: &ProductHandler{Catalog: catalogSvc, Flash: flash},
		Cart:    &CartHandler{Cart: cartSvc, Flash: flash},
		Search:  &SearchHandler{Catalog: catalogSvc},
	}
}
