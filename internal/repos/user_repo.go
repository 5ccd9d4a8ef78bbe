package repos

import (
	"simplestore/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

// ByUsername does an exact, case-sensitive lookup.
func (r *UserRepo) ByUsername(username string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,username,password_hash,created_at FROM users WHERE username=?`, username)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,username,password_hash,created_at FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts the user row and their empty cart in one transaction.
func (r *UserRepo) Create(u *domain.User, cartID string) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT INTO users(id,username,password_hash) VALUES(?,?,?)`,
		u.ID, u.Username, u.Hash); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO carts(id,owner_id,amount) VALUES(?,?,0)`,
		cartID, u.ID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *UserRepo) BindSession(sid, userID, username string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,username,last_seen)
                          VALUES(?,?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,username=excluded.username,last_seen=CURRENT_TIMESTAMP`,
		sid, userID, username)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
      SELECT u.id,u.username,u.password_hash,u.created_at
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,username=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

// PutFlash stores a one-shot notice on the session, creating the row if the
// visitor has never had one bound.
func (r *UserRepo) PutFlash(sid, kind, msg string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,flash_kind,flash_msg,last_seen)
                          VALUES(?,?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET flash_kind=excluded.flash_kind,flash_msg=excluded.flash_msg,last_seen=CURRENT_TIMESTAMP`,
		sid, kind, msg)
	return err
}

// TakeFlash returns the pending notice and clears it.
func (r *UserRepo) TakeFlash(sid string) (kind, msg string, err error) {
	var row struct {
		Kind *string `db:"flash_kind"`
		Msg  *string `db:"flash_msg"`
	}
	if err = r.DB.Get(&row, `SELECT flash_kind,flash_msg FROM sessions WHERE id=?`, sid); err != nil {
		return "", "", err
	}
	if row.Msg == nil {
		return "", "", nil
	}
	if _, err = r.DB.Exec(`UPDATE sessions SET flash_kind=NULL,flash_msg=NULL WHERE id=?`, sid); err != nil {
		return "", "", err
	}
	if row.Kind != nil {
		kind = *row.Kind
	}
	return kind, *row.Msg, nil
}

// DeleteCascade removes the user and everything hanging off them: products,
// cart (lines cascade), and any sessions bound to the account.
func (r *UserRepo) DeleteCascade(userID string) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM products WHERE owner_id=?`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM carts WHERE owner_id=?`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM sessions WHERE user_id=?`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM users WHERE id=?`, userID); err != nil {
		return err
	}
	return tx.Commit()
}
