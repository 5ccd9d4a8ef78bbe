package services

import (
	"database/sql"
	"fmt"

	"simplestore/internal/repos"
)

// OutOfStockError carries the product name so the cart API can surface it
// verbatim in the JSON "message" field.
type OutOfStockError struct{ Name string }

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("Product %q is out of STOCK!", e.Name)
}

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// Add puts one unit of the product in the user's cart. Stock only gates the
// add when it is zero; it is not decremented (cart membership and
// total_stock are independent counters).
func (s *CartService) Add(ownerID, productID string) error {
	p, err := s.Prods.Get(productID)
	if err == sql.ErrNoRows {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}
	if p.TotalStock == 0 {
		return &OutOfStockError{Name: p.Name}
	}
	return s.Carts.AddOne(ownerID, productID)
}

// Remove takes one unit back out; repos.ErrNotInCart when the product has no
// line in the cart.
func (s *CartService) Remove(ownerID, productID string) error {
	return s.Carts.RemoveOne(ownerID, productID)
}

func (s *CartService) Exists(ownerID, productID string) (bool, error) {
	return s.Carts.Contains(ownerID, productID)
}

func (s *CartService) Clear(ownerID string) error {
	return s.Carts.Clear(ownerID)
}

func (s *CartService) Amount(ownerID string) (int, error) {
	return s.Carts.Amount(ownerID)
}

func (s *CartService) Lines(ownerID string) ([]repos.CartLine, error) {
	return s.Carts.Lines(ownerID)
}
