package service

import (
	"context"
	"strings"

	"petonrent-backend/internal/domain"
	"petonrent-backend/internal/pricing"

	"github.com/shopspring/decimal"
)

type checkoutService struct {
	coupons *pricing.CouponBook
}

func NewCheckoutService(coupons *pricing.CouponBook) CheckoutService {
	return &checkoutService{coupons: coupons}
}

func (s *checkoutService) Quote(ctx context.Context, items []domain.CartLineItem, couponCode string) (*Quote, error) {
	return priceCart(s.coupons, items, couponCode)
}

func (s *checkoutService) ApplyCoupon(ctx context.Context, code string, subtotal, activeDiscount decimal.Decimal) (decimal.Decimal, error) {
	return s.coupons.Apply(code, subtotal, activeDiscount)
}

// priceCart prices the cart undiscounted, then re-validates the coupon
// against that subtotal and prices it again with the granted discount.
func priceCart(coupons *pricing.CouponBook, items []domain.CartLineItem, couponCode string) (*Quote, error) {
	b, err := pricing.ComputeBreakdown(items, decimal.Zero)
	if err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(couponCode))
	if code == "" {
		return &Quote{Breakdown: b}, nil
	}

	pct, err := coupons.Apply(code, b.Subtotal, decimal.Zero)
	if err != nil {
		return nil, err
	}

	b, err = pricing.ComputeBreakdown(items, pct)
	if err != nil {
		return nil, err
	}
	return &Quote{Breakdown: b, CouponCode: code}, nil
}
