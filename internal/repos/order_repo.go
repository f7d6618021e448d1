package repos

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) Begin() (*sqlx.Tx, error) { return r.db.Beginx() }

// Dotted aliases scan the flat ship_*/payment_* columns into the nested
// Shipping and Payment structs.
const orderCols = `
  id, user_id,
  ship_address     AS "shipping.address",
  ship_city        AS "shipping.city",
  ship_postal_code AS "shipping.postal_code",
  ship_country     AS "shipping.country",
  payment_method, items_price, tax_price, shipping_price, total_price, status,
  is_paid, COALESCE(paid_at,'') AS paid_at,
  is_delivered, COALESCE(delivered_at,'') AS delivered_at,
  COALESCE(payment_id,'')     AS "payment.id",
  COALESCE(payment_status,'') AS "payment.status",
  COALESCE(payment_email,'')  AS "payment.email",
  created_at`

// Insert writes a new order header inside the placement transaction.
func (r *OrderRepo) Insert(e sqlx.Execer, o domain.Order) error {
	_, err := e.Exec(`
	  INSERT INTO orders
	    (id, user_id, ship_address, ship_city, ship_postal_code, ship_country,
	     payment_method, items_price, tax_price, shipping_price, total_price,
	     status, created_at)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, o.ID, o.UserID, o.Shipping.Address, o.Shipping.City, o.Shipping.PostalCode,
		o.Shipping.Country, o.PaymentMethod, o.ItemsPrice, o.TaxPrice,
		o.ShippingPrice, o.TotalPrice, o.Status)
	return err
}

// InsertItem writes one immutable line item inside the placement transaction.
func (r *OrderRepo) InsertItem(e sqlx.Execer, orderID string, it domain.OrderItem) error {
	_, err := e.Exec(`
	  INSERT INTO order_items(order_id, product_id, name, qty, price)
	  VALUES(?,?,?,?,?)
	`, orderID, it.ProductID, it.Name, it.Qty, it.Price)
	return err
}

func (r *OrderRepo) Get(orderID string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return o, &domain.OrderNotFoundError{ID: orderID}
	}
	if err != nil {
		return o, err
	}

	items := []domain.OrderItem{}
	if err := r.db.Select(&items, `
		SELECT product_id, name, qty, price
		FROM order_items
		WHERE order_id = ?
		ORDER BY name
	`, orderID); err != nil {
		return o, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepo) ListByUser(userID string) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.Select(&out, `
		SELECT `+orderCols+`
		FROM orders
		WHERE user_id = ?
		ORDER BY datetime(created_at) DESC
	`, userID)
	return out, err
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.Order{}
	err := r.db.Select(&out, `
		SELECT `+orderCols+`
		FROM orders
		ORDER BY datetime(created_at) DESC
		LIMIT ?
	`, limit)
	return out, err
}

// MarkPaid applies the paid transition exactly once. The is_paid guard in the
// WHERE clause makes replayed confirmations no-ops; the first confirmation's
// timestamp and payment result win. Returns whether this call applied the
// transition.
func (r *OrderRepo) MarkPaid(orderID string, res domain.PaymentResult) (bool, error) {
	out, err := r.db.Exec(`
		UPDATE orders
		SET is_paid = 1, paid_at = ?, status = 'paid',
		    payment_id = ?, payment_status = ?, payment_email = ?
		WHERE id = ? AND is_paid = 0
	`, time.Now().UTC().Format(time.RFC3339), res.ID, res.Status, res.Email, orderID)
	if err != nil {
		return false, err
	}
	n, _ := out.RowsAffected()
	if n > 0 {
		return true, nil
	}
	// Distinguish a replay from a missing order.
	var exists int
	if err := r.db.Get(&exists, `SELECT COUNT(*) FROM orders WHERE id = ?`, orderID); err != nil {
		return false, err
	}
	if exists == 0 {
		return false, &domain.OrderNotFoundError{ID: orderID}
	}
	return false, nil
}

// MarkDelivered applies the delivered transition. Orders move forward only:
// the transition requires is_paid and is itself idempotent.
func (r *OrderRepo) MarkDelivered(orderID string) (bool, error) {
	out, err := r.db.Exec(`
		UPDATE orders
		SET is_delivered = 1, delivered_at = ?, status = 'delivered'
		WHERE id = ? AND is_paid = 1 AND is_delivered = 0
	`, time.Now().UTC().Format(time.RFC3339), orderID)
	if err != nil {
		return false, err
	}
	n, _ := out.RowsAffected()
	if n > 0 {
		return true, nil
	}
	var o domain.Order
	err = r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, &domain.OrderNotFoundError{ID: orderID}
	}
	if err != nil {
		return false, err
	}
	if !o.IsPaid {
		return false, domain.ErrOrderUnpaid
	}
	return false, nil // already delivered
}

// Stats aggregates admin dashboard counters.
type Stats struct {
	Users      int     `db:"users"`
	Products   int     `db:"products"`
	Orders     int     `db:"orders"`
	TotalSales float64 `db:"total_sales"`
}

func (r *OrderRepo) DashboardStats() (Stats, error) {
	var s Stats
	err := r.db.Get(&s, `
		SELECT
		  (SELECT COUNT(*) FROM users) AS users,
		  (SELECT COUNT(*) FROM products) AS products,
		  (SELECT COUNT(*) FROM orders) AS orders,
		  (SELECT COALESCE(SUM(total_price),0) FROM orders WHERE is_paid = 1) AS total_sales
	`)
	return s, err
}
