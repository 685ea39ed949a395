package repository

import (
	"context"
	"time"

	"petonrent-backend/internal/domain"
)

// OrderRepository persists checkout orders.
// Lookups that find nothing return domain.ErrOrderNotFound.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByIDForUser(ctx context.Context, id, userID string) (*domain.Order, error)
	// GetByGatewayOrderID also matches gateway orders superseded by a later AttachGatewayOrder
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)

	// AttachGatewayOrder records the remote order id and resets a failed payment to pending
	AttachGatewayOrder(ctx context.Context, id, gatewayOrderID string) error

	// MarkPaid applies the paid transition only if the order is not completed yet.
	// It reports whether this call performed the transition.
	MarkPaid(ctx context.Context, gatewayOrderID, paymentID, signature string) (bool, error)

	// MarkPaymentFailed moves a pending payment to failed; completed payments are left alone
	MarkPaymentFailed(ctx context.Context, gatewayOrderID, paymentID string) (bool, error)

	// ListPendingOnline returns online orders still awaiting payment that were created before the cutoff
	ListPendingOnline(ctx context.Context, createdBefore time.Time) ([]domain.Order, error)
}
