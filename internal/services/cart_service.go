package services

import (
	"storefront/internal/domain"
	"storefront/internal/repos"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// Add puts qty units of a product into the user's cart, creating the cart on
// first use and merging into an existing line for the same product. The
// snapshotted price is the product's current price at add time.
func (s *CartService) Add(userID, productID string, qty int) (domain.Cart, error) {
	p, err := s.Prods.Get(productID)
	if err != nil {
		return domain.Cart{}, err
	}
	if p.Quantity < qty {
		return domain.Cart{}, &domain.InsufficientStockError{
			ProductID: p.ID, Name: p.Name, Available: p.Quantity,
		}
	}
	cartID, err := s.Carts.EnsureCart(userID)
	if err != nil {
		return domain.Cart{}, err
	}
	if err := s.Carts.UpsertItem(cartID, productID, qty, p.Price); err != nil {
		return domain.Cart{}, err
	}
	return s.Get(userID)
}

// UpdateItem replaces a line's quantity, re-validated against current stock.
func (s *CartService) UpdateItem(userID, itemID string, qty int) (domain.Cart, error) {
	cartID, err := s.Carts.IDFor(userID)
	if err != nil {
		return domain.Cart{}, err
	}
	productID, err := s.Carts.ItemProduct(cartID, itemID)
	if err != nil {
		return domain.Cart{}, err
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		return domain.Cart{}, err
	}
	if p.Quantity < qty {
		return domain.Cart{}, &domain.InsufficientStockError{
			ProductID: p.ID, Name: p.Name, Available: p.Quantity,
		}
	}
	if err := s.Carts.SetItemQty(cartID, itemID, qty); err != nil {
		return domain.Cart{}, err
	}
	return s.Get(userID)
}

func (s *CartService) RemoveItem(userID, itemID string) (domain.Cart, error) {
	cartID, err := s.Carts.IDFor(userID)
	if err != nil {
		return domain.Cart{}, err
	}
	if err := s.Carts.RemoveItem(cartID, itemID); err != nil {
		return domain.Cart{}, err
	}
	return s.Get(userID)
}

// Clear is idempotent: clearing when no cart exists succeeds.
func (s *CartService) Clear(userID string) error {
	return s.Carts.Clear(userID)
}

// Get returns the user's cart with its derived subtotal, or
// domain.ErrCartNotFound.
func (s *CartService) Get(userID string) (domain.Cart, error) {
	cartID, err := s.Carts.IDFor(userID)
	if err != nil {
		return domain.Cart{}, err
	}
	items, err := s.Carts.Items(cartID)
	if err != nil {
		return domain.Cart{}, err
	}
	cart := domain.Cart{ID: cartID, UserID: userID, Items: items}
	for _, it := range items {
		cart.SubTotal += it.LineTotal
	}
	return cart, nil
}
