package gateway

import (
	"context"
	"time"

	"petonrent-backend/internal/domain"
)

const (
	DefaultBaseURL        = "https://api.razorpay.com"
	DefaultMaxAmountMinor = int64(50_000_000)
	DefaultTimeout        = 10 * time.Second
)

// CreateOrderRequest describes a remote order to open on the gateway.
// AmountMinor is expressed in the currency's minor unit (paise for INR).
type CreateOrderRequest struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// Client opens payment orders on the remote gateway.
// Every call creates a new remote order; callers own idempotency.
type Client interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (domain.GatewayOrderRef, error)
}

type Config struct {
	BaseURL        string
	KeyID          string
	KeySecret      string
	MaxAmountMinor int64
	Timeout        time.Duration

	// Breaker trips after BreakerFailures consecutive failures and stays open for BreakerOpenFor
	BreakerFailures uint32
	BreakerOpenFor  time.Duration
}
