package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"petonrent-backend/internal/domain"
	"petonrent-backend/internal/logger"
	"petonrent-backend/internal/security"
)

// maxBodyBytes caps request bodies read by the handlers
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeSuccess writes {"success": true, ...fields}
func writeSuccess(w http.ResponseWriter, status int, fields map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	writeJSON(w, status, body)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// writeError maps service errors to HTTP status codes. Unexpected errors are
// logged and reported with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Validation failed", Errors: verr.Fields})
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidCart),
		errors.Is(err, domain.ErrCoupon),
		errors.Is(err, domain.ErrPaymentNotRequired):
		writeFailure(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrSignatureMismatch):
		writeFailure(w, http.StatusBadRequest, "Invalid payment signature")
	case errors.Is(err, domain.ErrOrderNotFound):
		writeFailure(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, domain.ErrOrderAlreadyPaid),
		errors.Is(err, domain.ErrVerificationInProgress):
		writeFailure(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, security.ErrInvalidToken):
		writeFailure(w, http.StatusUnauthorized, "Not authorized")
	case errors.Is(err, security.ErrExpiredToken):
		writeFailure(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrGatewayUnavailable):
		logger.Error("Payment gateway failure", "path", r.URL.Path, "error", err)
		writeFailure(w, http.StatusBadGateway, "Payment gateway unavailable, please try again")
	default:
		logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeFailure(w, http.StatusInternalServerError, "Something went wrong")
	}
}

// decodeJSON reads a JSON request body into dst. Malformed bodies become a
// validation error on "body".
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		verr := &domain.ValidationError{}
		verr.Add("body", "malformed JSON request body")
		return verr
	}
	return nil
}
