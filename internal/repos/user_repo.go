package repos

import (
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
	  SELECT id,email,name,password_hash,role,created_at
	  FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
	  SELECT id,email,name,password_hash,role,created_at
	  FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Insert(u domain.User) error {
	_, err := r.DB.Exec(`
	  INSERT INTO users(id,email,name,password_hash,role)
	  VALUES(?,?,?,?,?)`, u.ID, u.Email, u.Name, u.Hash, u.Role)
	// Ids are random UUIDs, so a unique violation here is the email index;
	// it means a concurrent register won the race.
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicateEmail
	}
	return err
}

func (r *UserRepo) List() ([]domain.User, error) {
	out := []domain.User{}
	err := r.DB.Select(&out, `
	  SELECT id,email,name,password_hash,role,created_at
	  FROM users ORDER BY created_at`)
	return out, err
}

// DeleteCascade removes a user and their transient data (cart, reviews).
// Orders are retained for audit.
func (r *UserRepo) DeleteCascade(userID string) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`DELETE FROM cart_items WHERE cart_id IN (SELECT id FROM carts WHERE user_id=?)`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM carts WHERE user_id=?`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM reviews WHERE user_id=?`, userID); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM users WHERE id=?`, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.UserNotFoundError{ID: userID}
	}

	return tx.Commit()
}

// ErrDuplicateEmail reports a register attempt with an email already in use.
var ErrDuplicateEmail = errors.New("email already registered")
