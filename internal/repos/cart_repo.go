package repos

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// IDForUser resolves the user's cart id, or domain.ErrCartNotFound.
func (r *CartRepo) IDForUser(q sqlx.Queryer, userID string) (string, error) {
	var cartID string
	err := sqlx.Get(q, &cartID, `SELECT id FROM carts WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrCartNotFound
	}
	return cartID, err
}

// IDFor is IDForUser against the live DB.
func (r *CartRepo) IDFor(userID string) (string, error) {
	return r.IDForUser(r.db, userID)
}

// EnsureCart returns the user's cart id, creating the cart on first use.
func (r *CartRepo) EnsureCart(userID string) (string, error) {
	cartID, err := r.IDForUser(r.db, userID)
	if err == nil {
		return cartID, nil
	}
	if !errors.Is(err, domain.ErrCartNotFound) {
		return "", err
	}
	cartID = uuid.NewString()
	_, err = r.db.Exec(`INSERT INTO carts(id,user_id,updated_at) VALUES(?,?,CURRENT_TIMESTAMP)`,
		cartID, userID)
	return cartID, err
}

// UpsertItem merges qty into an existing line for the same product,
// recomputing line_total from the snapshotted price; otherwise appends a new
// line snapshotting the current price.
func (r *CartRepo) UpsertItem(cartID, productID string, qty int, price float64) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(id,cart_id,product_id,qty,price,line_total,created_at)
		VALUES(?,?,?,?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(cart_id,product_id) DO UPDATE
		SET qty = cart_items.qty + excluded.qty,
		    line_total = (cart_items.qty + excluded.qty) * cart_items.price,
		    updated_at = CURRENT_TIMESTAMP
	`, uuid.NewString(), cartID, productID, qty, price, float64(qty)*price)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`UPDATE carts SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, cartID)
	return err
}

// ItemProduct resolves a cart line to its product, or ItemNotFoundError.
func (r *CartRepo) ItemProduct(cartID, itemID string) (string, error) {
	var productID string
	err := r.db.Get(&productID,
		`SELECT product_id FROM cart_items WHERE cart_id = ? AND id = ?`, cartID, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &domain.ItemNotFoundError{ID: itemID}
	}
	return productID, err
}

// SetItemQty replaces a line's quantity, recomputing line_total from the
// snapshotted price.
func (r *CartRepo) SetItemQty(cartID, itemID string, qty int) error {
	res, err := r.db.Exec(`
		UPDATE cart_items
		SET qty = ?, line_total = ? * price, updated_at = CURRENT_TIMESTAMP
		WHERE cart_id = ? AND id = ?
	`, qty, qty, cartID, itemID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.ItemNotFoundError{ID: itemID}
	}
	return nil
}

func (r *CartRepo) RemoveItem(cartID, itemID string) error {
	res, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ? AND id = ?`, cartID, itemID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.ItemNotFoundError{ID: itemID}
	}
	return nil
}

// Clear removes the user's cart entirely. Idempotent: clearing a missing cart
// is not an error. Items are deleted explicitly rather than relying on the
// foreign-key cascade, which needs PRAGMA foreign_keys on every pooled
// connection.
func (r *CartRepo) Clear(userID string) error {
	if _, err := r.db.Exec(
		`DELETE FROM cart_items WHERE cart_id IN (SELECT id FROM carts WHERE user_id = ?)`, userID); err != nil {
		return err
	}
	_, err := r.db.Exec(`DELETE FROM carts WHERE user_id = ?`, userID)
	return err
}

func (r *CartRepo) Items(cartID string) ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	err := r.db.Select(&out, `
	  SELECT ci.id, ci.product_id, p.name, ci.qty, ci.price, ci.line_total
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.cart_id = ?
	  ORDER BY ci.created_at
	`, cartID)
	return out, err
}

// CartLine pairs a cart line with the product's current available quantity,
// read in the same snapshot the placement transaction validates against.
type CartLine struct {
	ProductID string  `db:"product_id"`
	Name      string  `db:"name"`
	Qty       int     `db:"qty"`
	Price     float64 `db:"price"`
	Available int     `db:"available"`
}

// LinesWithStock loads cart lines joined with current stock, for the order
// placement workflow.
func (r *CartRepo) LinesWithStock(q sqlx.Queryer, cartID string) ([]CartLine, error) {
	out := []CartLine{}
	err := sqlx.Select(q, &out, `
	  SELECT ci.product_id, p.name, ci.qty, ci.price, p.quantity AS available
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.cart_id = ?
	  ORDER BY ci.created_at
	`, cartID)
	return out, err
}

// DeleteByID drops a cart and its items inside the placement transaction.
func (r *CartRepo) DeleteByID(e sqlx.Execer, cartID string) error {
	if _, err := e.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID); err != nil {
		return err
	}
	_, err := e.Exec(`DELETE FROM carts WHERE id = ?`, cartID)
	return err
}
