package domain

type User struct {
	ID        string `db:"id"`
	Username  string `db:"username"`
	Hash      string `db:"password_hash"`
	CreatedAt string `db:"created_at"`
}
