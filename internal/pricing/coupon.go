package pricing

import (
	"strings"

	"petonrent-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// CouponBook holds the static offers available at checkout, keyed by upper-case code
type CouponBook struct {
	coupons map[string]domain.Coupon
}

func NewCouponBook(coupons []domain.Coupon) *CouponBook {
	book := &CouponBook{coupons: make(map[string]domain.Coupon, len(coupons))}
	for _, c := range coupons {
		c.Code = normalizeCode(c.Code)
		book.coupons[c.Code] = c
	}
	return book
}

// Lookup finds a coupon by code, ignoring case and surrounding spaces
func (b *CouponBook) Lookup(code string) (domain.Coupon, bool) {
	c, ok := b.coupons[normalizeCode(code)]
	return c, ok
}

// Apply returns the discount percent a coupon grants for the given subtotal.
// Only one coupon may be active: a positive activeDiscount is rejected before the
// code is even looked up.
func (b *CouponBook) Apply(code string, subtotal, activeDiscount decimal.Decimal) (decimal.Decimal, error) {
	if activeDiscount.IsPositive() {
		return decimal.Zero, domain.ErrCouponAlreadyApplied
	}

	coupon, ok := b.Lookup(code)
	if !ok {
		return decimal.Zero, domain.ErrUnknownCoupon
	}

	if subtotal.LessThan(decimal.NewFromFloat(coupon.MinSubtotal)) {
		return decimal.Zero, &domain.ThresholdNotMetError{Code: coupon.Code, Threshold: coupon.MinSubtotal}
	}

	return decimal.NewFromFloat(coupon.DiscountPercent), nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
