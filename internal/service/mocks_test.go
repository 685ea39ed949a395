package service

import (
	"context"
	"time"

	"petonrent-backend/internal/domain"
	"petonrent-backend/internal/gateway"

	"github.com/stretchr/testify/mock"
)

// MockOrderRepo
type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}
func (m *MockOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderRepo) GetByIDForUser(ctx context.Context, id, userID string) (*domain.Order, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderRepo) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error) {
	args := m.Called(ctx, gatewayOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Order), args.Error(1)
}
func (m *MockOrderRepo) AttachGatewayOrder(ctx context.Context, id, gatewayOrderID string) error {
	args := m.Called(ctx, id, gatewayOrderID)
	return args.Error(0)
}
func (m *MockOrderRepo) MarkPaid(ctx context.Context, gatewayOrderID, paymentID, signature string) (bool, error) {
	args := m.Called(ctx, gatewayOrderID, paymentID, signature)
	return args.Bool(0), args.Error(1)
}
func (m *MockOrderRepo) MarkPaymentFailed(ctx context.Context, gatewayOrderID, paymentID string) (bool, error) {
	args := m.Called(ctx, gatewayOrderID, paymentID)
	return args.Bool(0), args.Error(1)
}
func (m *MockOrderRepo) ListPendingOnline(ctx context.Context, createdBefore time.Time) ([]domain.Order, error) {
	args := m.Called(ctx, createdBefore)
	return args.Get(0).([]domain.Order), args.Error(1)
}

// MockGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (domain.GatewayOrderRef, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.GatewayOrderRef), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) OrderPlaced(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}
func (m *MockNotifier) PaymentConfirmed(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}
func (m *MockNotifier) PendingPaymentsDigest(ctx context.Context, orders []domain.Order) error {
	args := m.Called(ctx, orders)
	return args.Error(0)
}

// MockLocker
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, key string) (func(), error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func()), args.Error(1)
}
