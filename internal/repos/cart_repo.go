package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrNotInCart = errors.New("product not in cart")

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

type CartLine struct {
	ProductID string  `db:"product_id"`
	Name      string  `db:"name"`
	Price     float64 `db:"price"`
	ImageLink string  `db:"image_link"`
	Qty       int     `db:"qty"`
}

func (r *CartRepo) IDByOwner(ownerID string) (string, error) {
	var cartID string
	err := r.db.Get(&cartID, `SELECT id FROM carts WHERE owner_id = ?`, ownerID)
	return cartID, err
}

// Amount is the running unit counter, not a count over cart_items. The two
// agree only because every mutation moves both.
func (r *CartRepo) Amount(ownerID string) (int, error) {
	var amount int
	err := r.db.Get(&amount, `SELECT amount FROM carts WHERE owner_id = ?`, ownerID)
	return amount, err
}

// AddOne appends one unit of the product to the owner's cart and bumps the
// counter, as a single transaction.
func (r *CartRepo) AddOne(ownerID, productID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var cartID string
	if err := tx.Get(&cartID, `SELECT id FROM carts WHERE owner_id = ?`, ownerID); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO cart_items(cart_id,product_id,qty)
		VALUES(?,?,1)
		ON CONFLICT(cart_id,product_id) DO UPDATE SET qty = qty + 1
	`, cartID, productID); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE carts SET amount = amount + 1 WHERE id = ?`, cartID); err != nil {
		return err
	}
	return tx.Commit()
}

// RemoveOne takes one unit of the product out of the cart, dropping the line
// when it hits zero, and decrements the counter. Any failure abandons the
// whole unit of work.
func (r *CartRepo) RemoveOne(ownerID, productID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var cartID string
	if err := tx.Get(&cartID, `SELECT id FROM carts WHERE owner_id = ?`, ownerID); err != nil {
		return err
	}
	var qty int
	err = tx.Get(&qty, `SELECT qty FROM cart_items WHERE cart_id = ? AND product_id = ?`, cartID, productID)
	if err == sql.ErrNoRows {
		return ErrNotInCart
	}
	if err != nil {
		return err
	}
	if qty <= 1 {
		if _, err := tx.Exec(`DELETE FROM cart_items WHERE cart_id = ? AND product_id = ?`, cartID, productID); err != nil {
			return err
		}
	} else {
		if _, err := tx.Exec(`UPDATE cart_items SET qty = qty - 1 WHERE cart_id = ? AND product_id = ?`, cartID, productID); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`UPDATE carts SET amount = amount - 1 WHERE id = ?`, cartID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *CartRepo) Contains(ownerID, productID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `
		SELECT COUNT(*) FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		WHERE c.owner_id = ? AND ci.product_id = ?
	`, ownerID, productID)
	return n > 0, err
}

// Clear empties the cart and resets the counter in one transaction.
func (r *CartRepo) Clear(ownerID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var cartID string
	if err := tx.Get(&cartID, `SELECT id FROM carts WHERE owner_id = ?`, ownerID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE carts SET amount = 0 WHERE id = ?`, cartID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *CartRepo) Lines(ownerID string) ([]CartLine, error) {
	lines := []CartLine{}
	err := r.db.Select(&lines, `
	  SELECT ci.product_id, p.name, p.price, p.image_link, ci.qty
	  FROM cart_items ci
	  JOIN carts c ON c.id = ci.cart_id
	  JOIN products p ON p.id = ci.product_id
	  WHERE c.owner_id = ?
	  ORDER BY ci.created_at
	`, ownerID)
	return lines, err
}
