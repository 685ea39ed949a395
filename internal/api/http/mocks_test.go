package http

import (
	"context"

	"petonrent-backend/internal/domain"
	"petonrent-backend/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockOrderService
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) BuildOrder(ctx context.Context, userID string, input service.PlaceOrderInput) (*domain.Order, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderService) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Order), args.Error(1)
}

// MockPaymentService
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreateGatewayOrder(ctx context.Context, userID, orderID string) (*service.PaymentOrder, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PaymentOrder), args.Error(1)
}
func (m *MockPaymentService) Reconcile(ctx context.Context, gatewayOrderID, paymentID, signature string) (*domain.Order, error) {
	args := m.Called(ctx, gatewayOrderID, paymentID, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockPaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	args := m.Called(ctx, body, signature)
	return args.Error(0)
}

// MockCheckoutService
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Quote(ctx context.Context, items []domain.CartLineItem, couponCode string) (*service.Quote, error) {
	args := m.Called(ctx, items, couponCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Quote), args.Error(1)
}
func (m *MockCheckoutService) ApplyCoupon(ctx context.Context, code string, subtotal, activeDiscount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, code, subtotal, activeDiscount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
