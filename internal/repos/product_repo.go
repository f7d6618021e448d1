package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, name, slug, COALESCE(description,'') AS description, price, cost, category,
  COALESCE(brand,'') AS brand, sku,
  quantity, sold, COALESCE(images_json,'[]') AS images_json, rating, num_reviews, active,
  created_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return p, &domain.ProductNotFoundError{ID: id}
	}
	return p, err
}

func (r *ProductRepo) GetBySlug(slug string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE slug = ?`, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return p, &domain.ProductNotFoundError{ID: slug}
	}
	return p, err
}

func (r *ProductRepo) List(category, q string, limit, offset int) ([]domain.Product, error) {
	where := `active = 1`
	args := []any{}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}
	if q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}

	query := `SELECT ` + productCols + ` FROM products WHERE ` + where + `
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	out := []domain.Product{}
	err := r.db.Select(&out, query, args...)
	return out, err
}

func (r *ProductRepo) Insert(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id,name,slug,description,price,cost,category,brand,sku,quantity,images_json,active)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?,?)
	`, p.ID, p.Name, p.Slug, p.Description, p.Price, p.Cost, p.Category, p.Brand, p.SKU, p.Quantity, p.ImagesJSON, p.Active)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	res, err := r.db.Exec(`
	  UPDATE products
	  SET name=?, slug=?, description=?, price=?, cost=?, category=?, brand=?, images_json=?, active=?
	  WHERE id=?
	`, p.Name, p.Slug, p.Description, p.Price, p.Cost, p.Category, p.Brand, p.ImagesJSON, p.Active, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.ProductNotFoundError{ID: p.ID}
	}
	return nil
}

func (r *ProductRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.ProductNotFoundError{ID: id}
	}
	return nil
}

// Qty returns current available stock for a product.
func (r *ProductRepo) Qty(productID string) (int, error) {
	var qty int
	err := r.db.Get(&qty, `SELECT quantity FROM products WHERE id = ?`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &domain.ProductNotFoundError{ID: productID}
	}
	return qty, err
}

// AdjustInventory applies the ledger operation quantity -= delta, sold += delta
// in one statement. The qty floor in the WHERE clause re-validates stock at
// application time, so a concurrent order cannot drive quantity negative.
// Works against the live DB or an open transaction.
func (r *ProductRepo) AdjustInventory(e sqlx.Ext, productID string, delta int) error {
	res, err := e.Exec(`
		UPDATE products
		SET quantity = quantity - ?, sold = sold + ?
		WHERE id = ? AND quantity >= ?
	`, delta, delta, productID, delta)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		var avail int
		err := sqlx.Get(e, &avail, `SELECT quantity FROM products WHERE id = ?`, productID)
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.ProductNotFoundError{ID: productID}
		}
		if err != nil {
			return err
		}
		return &domain.InsufficientStockError{ProductID: productID, Available: avail}
	}
	return nil
}

// SetQty overwrites available stock for a product (admin correction).
func (r *ProductRepo) SetQty(productID string, qty int) error {
	res, err := r.db.Exec(`UPDATE products SET quantity = ? WHERE id = ?`, qty, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.ProductNotFoundError{ID: productID}
	}
	return nil
}

// SetRating stores the recomputed review aggregate.
func (r *ProductRepo) SetRating(productID string, rating float64, numReviews int) error {
	_, err := r.db.Exec(`UPDATE products SET rating = ?, num_reviews = ? WHERE id = ?`,
		rating, numReviews, productID)
	return err
}
