package domain

// Categories accepted for products.
var Categories = []string{
	"Electronics", "Clothing", "Home", "Books", "Toys", "Beauty", "Sports", "Other",
}

type Product struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Slug        string  `db:"slug" json:"slug"`
	Description string  `db:"description" json:"description"`
	Price       float64 `db:"price" json:"price"`
	Cost        float64 `db:"cost" json:"-"`
	Category    string  `db:"category" json:"category"`
	Brand       string  `db:"brand" json:"brand"`
	SKU         string  `db:"sku" json:"sku"`
	Quantity    int     `db:"quantity" json:"quantity"`
	Sold        int     `db:"sold" json:"sold"`
	ImagesJSON  string  `db:"images_json" json:"images"`
	Rating      float64 `db:"rating" json:"rating"`
	NumReviews  int     `db:"num_reviews" json:"numReviews"`
	Active      bool    `db:"active" json:"active"`
	CreatedAt   string  `db:"created_at" json:"createdAt"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}

type Review struct {
	ID        string `db:"id" json:"id"`
	ProductID string `db:"product_id" json:"productId"`
	UserID    string `db:"user_id" json:"userId"`
	UserName  string `db:"user_name" json:"userName"`
	Rating    int    `db:"rating" json:"rating"`
	Comment   string `db:"comment" json:"comment"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}
