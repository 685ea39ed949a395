package service

import (
	"context"

	"petonrent-backend/internal/domain"
	"petonrent-backend/internal/pricing"

	"github.com/shopspring/decimal"
)

// PlaceOrderInput is what a customer submits at checkout. Totals are never
// taken from the client; CouponCode is re-validated before it is honoured.
type PlaceOrderInput struct {
	Items         []domain.CartLineItem `json:"items"`
	ContactInfo   domain.ContactInfo    `json:"userInfo"`
	PaymentMethod domain.PaymentMethod  `json:"paymentMethod"`
	CouponCode    string                `json:"couponCode,omitempty"`
}

type Quote struct {
	Breakdown  pricing.Breakdown `json:"breakdown"`
	CouponCode string            `json:"couponCode,omitempty"`
}

// PaymentOrder is handed to the client to open the gateway checkout widget
type PaymentOrder struct {
	OrderID      string                 `json:"orderId"`
	GatewayOrder domain.GatewayOrderRef `json:"order"`
	KeyID        string                 `json:"keyId"`
}

type CheckoutService interface {
	Quote(ctx context.Context, items []domain.CartLineItem, couponCode string) (*Quote, error)
	ApplyCoupon(ctx context.Context, code string, subtotal, activeDiscount decimal.Decimal) (decimal.Decimal, error)
}

type OrderService interface {
	BuildOrder(ctx context.Context, userID string, input PlaceOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)
}

type PaymentService interface {
	CreateGatewayOrder(ctx context.Context, userID, orderID string) (*PaymentOrder, error)
	Reconcile(ctx context.Context, gatewayOrderID, paymentID, signature string) (*domain.Order, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

// Notifier sends customer and back-office emails. Failures are logged by callers and never fail a request.
type Notifier interface {
	OrderPlaced(ctx context.Context, order *domain.Order) error
	PaymentConfirmed(ctx context.Context, order *domain.Order) error
	PendingPaymentsDigest(ctx context.Context, orders []domain.Order) error
}
