package repos

import (
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo accounts/products if DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Products, each owned by exactly one user
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT 'An item you can buy',
  price NUMERIC NOT NULL DEFAULT 5.0 CHECK (price >= 0),
  total_stock INTEGER NOT NULL DEFAULT 1 CHECK (total_stock >= 0),
  image_link TEXT NOT NULL,
  owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_products_owner ON products(owner_id);
CREATE INDEX IF NOT EXISTS idx_products_name  ON products(LOWER(name));

-- Carts: one per user, amount tracks total units in the cart
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
  amount INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS cart_items(
  cart_id    TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (cart_id, product_id)
);

-- Sessions (sid cookie) with a one-shot flash slot
CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,
  user_id TEXT NULL REFERENCES users(id) ON DELETE CASCADE,
  username TEXT,
  flash_kind TEXT,
  flash_msg TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

// seedIfEmpty inserts two demo users (password "Passw0rd!") with a few
// products each, so a fresh checkout has something to browse.
func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo users/products/carts")

	hash := func(raw string) string {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return string(h)
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	aliceID, bobID := uuid.NewString(), uuid.NewString()
	tx.MustExec(`INSERT INTO users(id,username,password_hash) VALUES
	  (?, 'alice', ?),
	  (?, 'bob', ?)`, aliceID, hash("Passw0rd!"), bobID, hash("Passw0rd!"))

	tx.MustExec(`INSERT INTO carts(id,owner_id,amount) VALUES (?,?,0),(?,?,0)`,
		uuid.NewString(), aliceID, uuid.NewString(), bobID)

	tx.MustExec(`INSERT INTO products(id,name,description,price,total_stock,image_link,owner_id) VALUES
	  (?, 'red chair', 'A sturdy red chair', 24.99, 4, '/static/img/red-chair.jpg', ?),
	  (?, 'red table', 'Matches the red chair', 89.00, 2, '/static/img/red-table.jpg', ?),
	  (?, 'blue chair', 'A calm blue chair', 19.50, 0, '/static/img/blue-chair.jpg', ?)`,
		uuid.NewString(), aliceID, uuid.NewString(), aliceID, uuid.NewString(), bobID)

	return tx.Commit()
}
