package service

import (
	"context"
	"errors"
	"fmt"

	"petonrent-backend/internal/domain"
	"petonrent-backend/internal/logger"
	"petonrent-backend/internal/pricing"
	"petonrent-backend/internal/repository"

	"github.com/google/uuid"
)

type orderService struct {
	orderRepo repository.OrderRepository
	coupons   *pricing.CouponBook
	notifier  Notifier
	validator *orderValidator
	currency  string
}

func NewOrderService(orderRepo repository.OrderRepository, coupons *pricing.CouponBook, notifier Notifier, currency string) OrderService {
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &orderService{
		orderRepo: orderRepo,
		coupons:   coupons,
		notifier:  notifier,
		validator: newOrderValidator(),
		currency:  currency,
	}
}

// BuildOrder validates a checkout, prices it server side and persists exactly one order.
// Nothing is written when validation or pricing fails.
func (s *orderService) BuildOrder(ctx context.Context, userID string, input PlaceOrderInput) (*domain.Order, error) {
	logger.EnterMethod("orderService.BuildOrder", "userID", userID, "items", len(input.Items), "paymentMethod", input.PaymentMethod)

	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	normalizeInput(&input)
	if verr := s.validator.Validate(&input); verr != nil {
		logger.ExitMethodWithError("orderService.BuildOrder", verr, true, "userID", userID)
		return nil, verr
	}

	quote, err := priceCart(s.coupons, input.Items, input.CouponCode)
	if err != nil {
		logger.ExitMethodWithError("orderService.BuildOrder", err, true, "userID", userID, "coupon", input.CouponCode)
		return nil, err
	}
	if quote.Breakdown.Total.GreaterThan(pricing.MaxOrderTotal) {
		verr := &domain.ValidationError{}
		verr.Add("items", "order total must not exceed "+pricing.MaxOrderTotal.StringFixed(2))
		logger.ExitMethodWithError("orderService.BuildOrder", verr, true, "userID", userID, "total", quote.Breakdown.Total.String())
		return nil, verr
	}

	order := &domain.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Items:         input.Items,
		ContactInfo:   input.ContactInfo,
		PaymentMethod: input.PaymentMethod,
		Totals:        quote.Breakdown.Totals(quote.CouponCode),
		Currency:      s.currency,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		logger.ExitMethodWithError("orderService.BuildOrder", err, false, "userID", userID)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.OrderPlaced(ctx, order); err != nil {
			logger.Warn("Failed to send order confirmation", "orderID", order.ID, "error", err)
		}
	}

	logger.ExitMethod("orderService.BuildOrder", "orderID", order.ID, "amount", order.Totals.Amount)
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, domain.ErrOrderNotFound
	}

	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrOrderNotFound) {
			logger.Error("Failed to load order", "orderID", orderID, "error", err)
		}
		return nil, err
	}
	return order, nil
}

// ListOrders returns the caller's orders, newest first
func (s *orderService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.orderRepo.ListByUser(ctx, userID)
}
