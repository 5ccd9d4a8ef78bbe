package services

import (
	"database/sql"
	"errors"
	"strings"

	"simplestore/internal/domain"
	"simplestore/internal/repos"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateName   = errors.New("a product with that name already exists")
	ErrNotOwner        = errors.New("not the owner of this product")
)

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

func (s *CatalogService) AllProducts() ([]domain.Product, error) {
	return s.Prods.All()
}

func (s *CatalogService) ListMine(ownerID string) ([]domain.Product, error) {
	return s.Prods.ListByOwner(ownerID)
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if err == sql.ErrNoRows {
		return domain.Product{}, ErrProductNotFound
	}
	return p, err
}

// Create rejects names that substring-collide with one of the owner's
// existing products. Loose by design: "chair" collides with "red chair".
func (s *CatalogService) Create(ownerID, name, description string, price float64, totalStock int, imageLink string) (*domain.Product, error) {
	dup, err := s.Prods.OwnerHasLikeName(ownerID, name)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrDuplicateName
	}
	p := &domain.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Price:       price,
		TotalStock:  totalStock,
		ImageLink:   imageLink,
		OwnerID:     ownerID,
	}
	if err := s.Prods.Insert(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update assigns only the fields that actually changed, then commits.
// Only the owner may edit.
func (s *CatalogService) Update(requesterID, productID, name, description string, price float64, totalStock int, imageLink string) error {
	p, err := s.Prods.Get(productID)
	if err == sql.ErrNoRows {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}
	if p.OwnerID != requesterID {
		return ErrNotOwner
	}

	if name != p.Name {
		p.Name = name
	}
	if description != p.Description {
		p.Description = description
	}
	if price != p.Price {
		p.Price = price
	}
	if totalStock != p.TotalStock {
		p.TotalStock = totalStock
	}
	if imageLink != p.ImageLink {
		p.ImageLink = imageLink
	}
	return s.Prods.Update(&p)
}

// Search is a best-effort AND over whitespace-separated tokens: the first
// token seeds the candidate set, and each later token narrows it only when
// the narrowed set is non-empty; otherwise the token is dropped and the
// previous set kept.
func (s *CatalogService) Search(query string) ([]domain.Product, error) {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	products, err := s.Prods.MatchName(tokens[0])
	if err != nil {
		return nil, err
	}
	for _, tok := range tokens[1:] {
		narrowed := narrow(products, tok)
		if len(narrowed) > 0 {
			products = narrowed
		}
	}
	return products, nil
}

func narrow(products []domain.Product, token string) []domain.Product {
	token = strings.ToLower(token)
	var out []domain.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), token) {
			out = append(out, p)
		}
	}
	return out
}
