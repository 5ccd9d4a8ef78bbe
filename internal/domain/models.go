package domain

type Product struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Price       float64 `db:"price"`
	TotalStock  int     `db:"total_stock"`
	ImageLink   string  `db:"image_link"`
	OwnerID     string  `db:"owner_id"`
	CreatedAt   string  `db:"created_at"`
}

type Cart struct {
	ID      string `db:"id"`
	OwnerID string `db:"owner_id"`
	Amount  int    `db:"amount"`
}
