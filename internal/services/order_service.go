package services

import (
	"errors"

	"github.com/google/uuid"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/repos"
)

type OrderService struct {
	Carts  *repos.CartRepo
	Prods  *repos.ProductRepo
	Orders *repos.OrderRepo
}

func NewOrderService(carts *repos.CartRepo, prods *repos.ProductRepo, orders *repos.OrderRepo) *OrderService {
	return &OrderService{Carts: carts, Prods: prods, Orders: orders}
}

type PlaceOrderInput struct {
	Shipping      domain.Address
	PaymentMethod string
	TaxPrice      float64
	ShippingPrice float64
}

// Place turns the user's cart into a durable order, or fails leaving all
// state unchanged. Every step runs in one transaction: the stock snapshot,
// the order insert, the per-product inventory decrement, and the cart
// deletion commit together or not at all.
func (s *OrderService) Place(userID string, in PlaceOrderInput) (domain.Order, error) {
	var zero domain.Order

	tx, err := s.Orders.Begin()
	if err != nil {
		return zero, err
	}
	defer func() { _ = tx.Rollback() }()

	cartID, err := s.Carts.IDForUser(tx, userID)
	if errors.Is(err, domain.ErrCartNotFound) {
		return zero, domain.ErrEmptyCart
	}
	if err != nil {
		return zero, err
	}

	lines, err := s.Carts.LinesWithStock(tx, cartID)
	if err != nil {
		return zero, err
	}
	if len(lines) == 0 {
		return zero, domain.ErrEmptyCart
	}

	// Validate every line against the snapshot before any mutation; the first
	// violation aborts the whole placement.
	for _, ln := range lines {
		if ln.Available < ln.Qty {
			return zero, &domain.InsufficientStockError{
				ProductID: ln.ProductID, Name: ln.Name, Available: ln.Available,
			}
		}
	}

	order := domain.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Shipping:      in.Shipping,
		PaymentMethod: in.PaymentMethod,
		TaxPrice:      in.TaxPrice,
		ShippingPrice: in.ShippingPrice,
		Status:        domain.OrderStatusCreated,
	}
	for _, ln := range lines {
		// Price comes from the cart line, not the product row, so the customer
		// pays what they saw.
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: ln.ProductID, Name: ln.Name, Qty: ln.Qty, Price: ln.Price,
		})
		order.ItemsPrice += ln.Price * float64(ln.Qty)
	}
	order.TotalPrice = order.ItemsPrice + order.TaxPrice + order.ShippingPrice

	if err := s.Orders.Insert(tx, order); err != nil {
		return zero, err
	}
	for _, it := range order.Items {
		if err := s.Orders.InsertItem(tx, order.ID, it); err != nil {
			return zero, err
		}
	}

	for _, ln := range lines {
		if err := s.Prods.AdjustInventory(tx, ln.ProductID, ln.Qty); err != nil {
			// The floor guard re-validates at application time; a concurrent
			// order for the same product can still win the race here. The
			// rollback keeps state consistent, but log with full context.
			applog.Error(nil, "order.inventory.adjust", err, map[string]any{
				"order_id":   order.ID,
				"product_id": ln.ProductID,
				"delta":      ln.Qty,
			})
			var short *domain.InsufficientStockError
			if errors.As(err, &short) && short.Name == "" {
				short.Name = ln.Name
			}
			return zero, err
		}
	}

	if err := s.Carts.DeleteByID(tx, cartID); err != nil {
		return zero, err
	}

	if err := tx.Commit(); err != nil {
		return zero, err
	}
	return order, nil
}

func (s *OrderService) Get(orderID string) (domain.Order, error) {
	return s.Orders.Get(orderID)
}

// GetForUser loads an order, enforcing that only the owner or an admin sees
// it.
func (s *OrderService) GetForUser(orderID string, u *domain.User) (domain.Order, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return o, err
	}
	if o.UserID != u.ID && !u.IsAdmin() {
		return domain.Order{}, domain.ErrForbidden
	}
	return o, nil
}

func (s *OrderService) History(userID string) ([]domain.Order, error) {
	return s.Orders.ListByUser(userID)
}

// MarkDelivered moves a paid order to delivered. Admin only at the handler
// boundary.
func (s *OrderService) MarkDelivered(orderID string) (domain.Order, error) {
	if _, err := s.Orders.MarkDelivered(orderID); err != nil {
		return domain.Order{}, err
	}
	return s.Orders.Get(orderID)
}
