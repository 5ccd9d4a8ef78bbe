package repos

import (
	"simplestore/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, name, description, price, total_stock, image_link, owner_id, created_at`

func (r *ProductRepo) All() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products ORDER BY created_at DESC`)
	return out, err
}

func (r *ProductRepo) ListByOwner(ownerID string) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE owner_id = ?
	  ORDER BY created_at DESC
	`, ownerID)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

// OwnerHasLikeName reports whether the owner already has a product whose
// name contains the given name as a substring. Deliberately loose: "chair"
// collides with "red chair".
func (r *ProductRepo) OwnerHasLikeName(ownerID, name string) (bool, error) {
	var n int
	err := r.db.Get(&n, `
	  SELECT COUNT(*) FROM products
	  WHERE owner_id = ? AND name LIKE ?
	`, ownerID, "%"+name+"%")
	return n > 0, err
}

func (r *ProductRepo) Insert(p *domain.Product) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO products(id,name,description,price,total_stock,image_link,owner_id)
	  VALUES(?,?,?,?,?,?,?)
	`, p.ID, p.Name, p.Description, p.Price, p.TotalStock, p.ImageLink, p.OwnerID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *ProductRepo) Update(p *domain.Product) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  UPDATE products SET name=?, description=?, price=?, total_stock=?, image_link=?
	  WHERE id=?
	`, p.Name, p.Description, p.Price, p.TotalStock, p.ImageLink, p.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// MatchName returns products whose name contains the token,
// case-insensitively.
func (r *ProductRepo) MatchName(token string) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE LOWER(name) LIKE LOWER(?)
	  ORDER BY created_at DESC
	`, "%"+token+"%")
	return out, err
}
