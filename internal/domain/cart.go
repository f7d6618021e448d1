package domain

type Cart struct {
	ID        string     `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"userId"`
	Items     []CartItem `json:"items"`
	SubTotal  float64    `json:"subTotal"`
	CreatedAt string     `db:"created_at" json:"createdAt"`
	UpdatedAt string     `db:"updated_at" json:"updatedAt"`
}

// CartItem snapshots the product price at the moment it was added; LineTotal
// is always Qty*Price.
type CartItem struct {
	ID        string  `db:"id" json:"id"`
	ProductID string  `db:"product_id" json:"productId"`
	Name      string  `db:"name" json:"name"`
	Qty       int     `db:"qty" json:"quantity"`
	Price     float64 `db:"price" json:"price"`
	LineTotal float64 `db:"line_total" json:"total"`
}
