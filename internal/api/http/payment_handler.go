package http

import (
	"io"
	"net/http"

	"petonrent-backend/internal/service"
)

const webhookSignatureHeader = "X-Razorpay-Signature"

type PaymentHandler struct {
	svc service.PaymentService
}

func NewPaymentHandler(svc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type createPaymentOrderRequest struct {
	OrderID string `json:"orderId"`
}

// CreateOrder handles POST /api/payment/create-order
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req createPaymentOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	po, err := h.svc.CreateGatewayOrder(r.Context(), userID, req.OrderID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"orderId": po.OrderID,
		"order":   po.GatewayOrder,
		"keyId":   po.KeyID,
	})
}

// verifyPaymentRequest accepts both the checkout widget's razorpay_* keys and
// the short keys older clients send. The razorpay_* value wins when both are set.
type verifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`

	ShortOrderID   string `json:"order_id"`
	ShortPaymentID string `json:"payment_id"`
	ShortSignature string `json:"signature"`
}

func (req verifyPaymentRequest) fields() (orderID, paymentID, signature string) {
	return firstNonEmpty(req.OrderID, req.ShortOrderID),
		firstNonEmpty(req.PaymentID, req.ShortPaymentID),
		firstNonEmpty(req.Signature, req.ShortSignature)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// VerifyPayment handles POST /api/payment/verify-payment
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	orderID, paymentID, signature := req.fields()
	order, err := h.svc.Reconcile(r.Context(), orderID, paymentID, signature)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"message": "Payment verified successfully",
		"order":   order,
	})
}

// Webhook handles POST /api/payment/webhook. The signature covers the raw body,
// so it is read before any decoding.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "Unable to read request body")
		return
	}

	// Non-2xx responses are retried by the gateway
	if err := h.svc.HandleWebhook(r.Context(), body, r.Header.Get(webhookSignatureHeader)); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}
