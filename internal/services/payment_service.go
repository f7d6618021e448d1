package services

import (
	"math"

	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/repos"
)

// PaymentIntent is what the payment collaborator hands back for a charge.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	AmountCents  int64  `json:"amount"`
	Currency     string `json:"currency"`
	OrderID      string `json:"orderId"`
}

// IntentCreator is the boundary to the external payment gateway. The order
// workflow never blocks on it beyond intent creation; confirmations arrive
// later through the webhook.
type IntentCreator interface {
	CreateIntent(orderID string, amountCents int64) (PaymentIntent, error)
}

// OfflineGateway issues locally generated intents, for development and tests.
type OfflineGateway struct{}

func (OfflineGateway) CreateIntent(orderID string, amountCents int64) (PaymentIntent, error) {
	id := "pi_" + uuid.NewString()
	return PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret_" + uuid.NewString(),
		AmountCents:  amountCents,
		Currency:     "usd",
		OrderID:      orderID,
	}, nil
}

type PaymentService struct {
	Orders  *repos.OrderRepo
	Gateway IntentCreator
}

func NewPaymentService(orders *repos.OrderRepo, gw IntentCreator) *PaymentService {
	if gw == nil {
		gw = OfflineGateway{}
	}
	return &PaymentService{Orders: orders, Gateway: gw}
}

// CreateIntent asks the gateway to charge an order's grand total, in cents.
func (s *PaymentService) CreateIntent(orderID string) (PaymentIntent, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return PaymentIntent{}, err
	}
	cents := int64(math.Round(o.TotalPrice * 100))
	return s.Gateway.CreateIntent(o.ID, cents)
}

// ConfirmPaid marks an order paid exactly once. Replayed confirmations return
// applied=false and change nothing; the first confirmation's timestamp and
// payment result are preserved.
func (s *PaymentService) ConfirmPaid(orderID string, res domain.PaymentResult) (domain.Order, bool, error) {
	applied, err := s.Orders.MarkPaid(orderID, res)
	if err != nil {
		return domain.Order{}, false, err
	}
	o, err := s.Orders.Get(orderID)
	return o, applied, err
}
