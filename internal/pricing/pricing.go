package pricing

import (
	"petonrent-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// GSTRate is the flat goods and services tax applied to the discounted subtotal
var GSTRate = decimal.RequireFromString("0.18")

var hundred = decimal.NewFromInt(100)

// MaxOrderTotal is the largest total the orders.amount NUMERIC(12, 2) column holds
var MaxOrderTotal = decimal.RequireFromString("9999999999.99")

// Breakdown figures are sent to clients as JSON numbers
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Breakdown is the price summary of a cart. It is derived on every request and
// never stored on its own; orders keep a copy as domain.OrderTotals.
type Breakdown struct {
	TotalRent       decimal.Decimal `json:"totalRent"`
	TotalBuy        decimal.Decimal `json:"totalBuy"`
	TotalDeposit    decimal.Decimal `json:"totalDeposit"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	TaxableAmount   decimal.Decimal `json:"taxableAmount"`
	GST             decimal.Decimal `json:"gst"`
	Total           decimal.Decimal `json:"total"`
}

// ComputeBreakdown prices a cart.
//
// rent items extend to rentPrice * days, buy and product items contribute their
// buy price. Deposits are summed separately and stay out of the tax base. The
// discount applies to the subtotal and GST applies to what remains. Every figure is
// computed exactly and rounded to 2 places once at the end; Total is derived from the
// rounded components so Total == Subtotal - DiscountAmount + GST always holds.
func ComputeBreakdown(items []domain.CartLineItem, discountPercent decimal.Decimal) (Breakdown, error) {
	if len(items) == 0 {
		return Breakdown{}, domain.ErrInvalidCart
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
		return Breakdown{}, domain.ErrInvalidDiscount
	}

	rent := decimal.Zero
	buy := decimal.Zero
	deposit := decimal.Zero

	for _, item := range items {
		switch item.Kind {
		case domain.ItemKindRent:
			rent = rent.Add(amount(item.UnitRentPrice).Mul(decimal.NewFromInt(int64(item.RentalDays))))
			deposit = deposit.Add(amount(item.DepositAmount))
		case domain.ItemKindBuy, domain.ItemKindProduct:
			buy = buy.Add(amount(item.UnitBuyPrice))
		}
	}

	subtotal := rent.Add(buy)
	discount := decimal.Zero
	if discountPercent.IsPositive() {
		discount = subtotal.Mul(discountPercent).Div(hundred)
	}
	taxable := subtotal.Sub(discount)
	gst := taxable.Mul(GSTRate)

	b := Breakdown{
		TotalRent:       rent.Round(2),
		TotalBuy:        buy.Round(2),
		TotalDeposit:    deposit.Round(2),
		Subtotal:        subtotal.Round(2),
		DiscountPercent: discountPercent,
		DiscountAmount:  discount.Round(2),
		GST:             gst.Round(2),
	}
	b.TaxableAmount = b.Subtotal.Sub(b.DiscountAmount)
	b.Total = b.TaxableAmount.Add(b.GST).Round(2)
	return b, nil
}

// RemoveCoupon recomputes the breakdown with the discount stripped, including the
// GST that had been computed on the discounted base.
func RemoveCoupon(items []domain.CartLineItem) (Breakdown, error) {
	return ComputeBreakdown(items, decimal.Zero)
}

// Totals converts the breakdown into the figures stamped on an order
func (b Breakdown) Totals(couponCode string) domain.OrderTotals {
	return domain.OrderTotals{
		TotalRent:       b.TotalRent.InexactFloat64(),
		TotalBuy:        b.TotalBuy.InexactFloat64(),
		TotalDeposit:    b.TotalDeposit.InexactFloat64(),
		Subtotal:        b.Subtotal.InexactFloat64(),
		CouponCode:      couponCode,
		DiscountPercent: b.DiscountPercent.InexactFloat64(),
		DiscountAmount:  b.DiscountAmount.InexactFloat64(),
		GST:             b.GST.InexactFloat64(),
		Amount:          b.Total.InexactFloat64(),
	}
}

// ToMinorUnits converts a rupee amount into paise
func ToMinorUnits(v decimal.Decimal) int64 {
	return v.Shift(2).Round(0).IntPart()
}

// FromFloat builds a decimal from a stored float value rounded to 2 places
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func amount(a domain.Amount) decimal.Decimal {
	return decimal.NewFromFloat(a.Float64())
}
