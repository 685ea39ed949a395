package http

import (
	"net/http"

	"petonrent-backend/internal/domain"
	"petonrent-backend/internal/pricing"
	"petonrent-backend/internal/service"
)

type CartHandler struct {
	svc service.CheckoutService
}

func NewCartHandler(svc service.CheckoutService) *CartHandler {
	return &CartHandler{svc: svc}
}

type quoteRequest struct {
	Items      []domain.CartLineItem `json:"items"`
	CouponCode string                `json:"couponCode"`
}

// Quote handles POST /api/cart/quote
func (h *CartHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	q, err := h.svc.Quote(r.Context(), req.Items, req.CouponCode)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"breakdown":  q.Breakdown,
		"couponCode": q.CouponCode,
	})
}

type applyCouponRequest struct {
	Code           string        `json:"code"`
	Subtotal       domain.Amount `json:"subtotal"`
	ActiveDiscount domain.Amount `json:"activeDiscount"`
}

// ApplyCoupon handles POST /api/cart/coupon
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req applyCouponRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	pct, err := h.svc.ApplyCoupon(r.Context(), req.Code,
		pricing.FromFloat(req.Subtotal.Float64()), pricing.FromFloat(req.ActiveDiscount.Float64()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"message":         "Coupon applied",
		"discountPercent": pct,
	})
}
