package domain

const (
	OrderStatusCreated   = "created"
	OrderStatusPaid      = "paid"
	OrderStatusDelivered = "delivered"
)

// PaymentMethods accepted at checkout.
var PaymentMethods = []string{"stripe", "paypal", "razorpay"}

type Address struct {
	Address    string `db:"address" json:"address"`
	City       string `db:"city" json:"city"`
	PostalCode string `db:"postal_code" json:"postalCode"`
	Country    string `db:"country" json:"country"`
}

func (a Address) Complete() bool {
	return a.Address != "" && a.City != "" && a.PostalCode != "" && a.Country != ""
}

// PaymentResult records what the payment collaborator reported for an order.
type PaymentResult struct {
	ID     string `db:"id" json:"id"`
	Status string `db:"status" json:"status"`
	Email  string `db:"email" json:"email"`
}

type Order struct {
	ID            string        `db:"id" json:"id"`
	UserID        string        `db:"user_id" json:"userId"`
	Shipping      Address       `db:"shipping" json:"shippingAddress"`
	PaymentMethod string        `db:"payment_method" json:"paymentMethod"`
	Items         []OrderItem   `json:"items"`
	ItemsPrice    float64       `db:"items_price" json:"itemsPrice"`
	TaxPrice      float64       `db:"tax_price" json:"taxPrice"`
	ShippingPrice float64       `db:"shipping_price" json:"shippingPrice"`
	TotalPrice    float64       `db:"total_price" json:"totalPrice"`
	Status        string        `db:"status" json:"status"`
	IsPaid        bool          `db:"is_paid" json:"isPaid"`
	PaidAt        string        `db:"paid_at" json:"paidAt,omitempty"`
	IsDelivered   bool          `db:"is_delivered" json:"isDelivered"`
	DeliveredAt   string        `db:"delivered_at" json:"deliveredAt,omitempty"`
	Payment       PaymentResult `db:"payment" json:"paymentResult"`
	CreatedAt     string        `db:"created_at" json:"createdAt"`
}

// OrderItem is an immutable snapshot of a cart line; it never changes after
// the order is created, whatever happens to the product later.
type OrderItem struct {
	ProductID string  `db:"product_id" json:"productId"`
	Name      string  `db:"name" json:"name"`
	Qty       int     `db:"qty" json:"quantity"`
	Price     float64 `db:"price" json:"price"`
}
