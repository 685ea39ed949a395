package domain

// Coupon is a static checkout offer
type Coupon struct {
	Code            string  `json:"code" yaml:"code"`
	MinSubtotal     float64 `json:"minSubtotal" yaml:"min_subtotal"`
	DiscountPercent float64 `json:"discountPercent" yaml:"discount_percent"`
}

// DefaultCoupons are the offers available when none are configured
func DefaultCoupons() []Coupon {
	return []Coupon{
		{Code: "SAVE10", MinSubtotal: 3000, DiscountPercent: 10},
		{Code: "SAVE15", MinSubtotal: 5000, DiscountPercent: 15},
		{Code: "SAVE20", MinSubtotal: 10000, DiscountPercent: 20},
	}
}
