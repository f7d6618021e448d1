package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// ErrDuplicateReview reports a second review from the same user for the same
// product.
var ErrDuplicateReview = errors.New("product already reviewed by this user")

func (r *ReviewRepo) Insert(rev domain.Review) error {
	_, err := r.db.Exec(`
	  INSERT INTO reviews(id,product_id,user_id,rating,comment)
	  VALUES(?,?,?,?,?)
	`, rev.ID, rev.ProductID, rev.UserID, rev.Rating, rev.Comment)
	return err
}

func (r *ReviewRepo) Get(id string) (domain.Review, error) {
	var rev domain.Review
	err := r.db.Get(&rev, `
	  SELECT r.id, r.product_id, r.user_id, u.name AS user_name, r.rating, r.comment, r.created_at
	  FROM reviews r JOIN users u ON u.id = r.user_id
	  WHERE r.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return rev, &domain.ItemNotFoundError{ID: id}
	}
	return rev, err
}

func (r *ReviewRepo) Exists(productID, userID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM reviews WHERE product_id=? AND user_id=?`,
		productID, userID)
	return n > 0, err
}

func (r *ReviewRepo) ListByProduct(productID string) ([]domain.Review, error) {
	out := []domain.Review{}
	err := r.db.Select(&out, `
	  SELECT r.id, r.product_id, r.user_id, u.name AS user_name, r.rating, r.comment, r.created_at
	  FROM reviews r JOIN users u ON u.id = r.user_id
	  WHERE r.product_id = ?
	  ORDER BY datetime(r.created_at) DESC
	`, productID)
	return out, err
}

func (r *ReviewRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.ItemNotFoundError{ID: id}
	}
	return nil
}

// Aggregate recomputes the review average for a product.
func (r *ReviewRepo) Aggregate(productID string) (avg float64, count int, err error) {
	row := struct {
		Avg   float64 `db:"avg"`
		Count int     `db:"count"`
	}{}
	err = r.db.Get(&row, `
	  SELECT COALESCE(AVG(rating),0) AS avg, COUNT(*) AS count
	  FROM reviews WHERE product_id = ?`, productID)
	return row.Avg, row.Count, err
}
