package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart    = errors.New("no items in cart")
	ErrCartNotFound = errors.New("no cart found for this user")
	ErrForbidden    = errors.New("not authorized to access this resource")
	ErrOrderUnpaid  = errors.New("order has not been paid")
)

// InsufficientStockError names the offending product and how many units are
// actually available.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	n := e.Name
	if n == "" {
		n = e.ProductID
	}
	return fmt.Sprintf("product %s only has %d items in stock", n, e.Available)
}

type ProductNotFoundError struct{ ID string }

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("no product found with id %s", e.ID)
}

type ItemNotFoundError struct{ ID string }

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("no item found with id %s", e.ID)
}

type OrderNotFoundError struct{ ID string }

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("no order found with id %s", e.ID)
}

type UserNotFoundError struct{ ID string }

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("no user found with id %s", e.ID)
}
