package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCart   = errors.New("cart must contain at least one item")
	ErrInvalidAmount = errors.New("invalid amount: must be a positive number of minor units within the allowed limit")

	// ErrCoupon matches every coupon failure via errors.Is
	ErrCoupon                     = errors.New("coupon error")
	ErrCouponAlreadyApplied error = couponError("a coupon is already applied, remove it first to apply a new one")
	ErrUnknownCoupon        error = couponError("invalid coupon code")
	ErrInvalidDiscount      error = couponError("discount percent must be between 0 and 100")

	ErrOrderNotFound      = errors.New("order not found")
	ErrSignatureMismatch  = errors.New("invalid payment signature")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	ErrPaymentNotRequired     = errors.New("order does not use online payment")
	ErrOrderAlreadyPaid       = errors.New("order has already been paid")
	ErrVerificationInProgress = errors.New("payment verification already in progress")
	ErrUnauthenticated        = errors.New("unauthenticated")
)

type couponError string

func (e couponError) Error() string { return string(e) }

func (e couponError) Is(target error) bool { return target == ErrCoupon }

// ThresholdNotMetError is returned when a coupon's minimum subtotal is not reached
type ThresholdNotMetError struct {
	Code      string
	Threshold float64
}

func (e *ThresholdNotMetError) Error() string {
	return fmt.Sprintf("minimum order value of ₹%.2f required for coupon %s", e.Threshold, e.Code)
}

func (e *ThresholdNotMetError) Is(target error) bool {
	return target == ErrCoupon
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field failure found while validating a request
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Messages returns one human readable message per failed field
func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return msgs
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}
