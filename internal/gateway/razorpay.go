package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"petonrent-backend/internal/domain"
	"petonrent-backend/internal/logger"

	"github.com/sony/gobreaker/v2"
)

type razorpayOrderRequest struct {
	Amount         int64             `json:"amount"`
	Currency       string            `json:"currency"`
	Receipt        string            `json:"receipt,omitempty"`
	Notes          map[string]string `json:"notes,omitempty"`
	PaymentCapture int               `json:"payment_capture"`
}

type razorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

type RazorpayClient struct {
	baseURL   string
	keyID     string
	keySecret string
	maxAmount int64
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[domain.GatewayOrderRef]
}

func NewRazorpayClient(cfg Config) *RazorpayClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxAmountMinor <= 0 {
		cfg.MaxAmountMinor = DefaultMaxAmountMinor
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerOpenFor <= 0 {
		cfg.BreakerOpenFor = 30 * time.Second
	}

	failures := cfg.BreakerFailures
	breaker := gobreaker.NewCircuitBreaker[domain.GatewayOrderRef](gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &RazorpayClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		maxAmount: cfg.MaxAmountMinor,
		client:    &http.Client{Timeout: cfg.Timeout},
		breaker:   breaker,
	}
}

// CreateOrder opens a remote order with automatic capture.
// The amount is checked against the configured ceiling before any network call.
func (c *RazorpayClient) CreateOrder(ctx context.Context, req CreateOrderRequest) (domain.GatewayOrderRef, error) {
	if req.AmountMinor <= 0 || req.AmountMinor > c.maxAmount {
		return domain.GatewayOrderRef{}, fmt.Errorf("%w: got %d", domain.ErrInvalidAmount, req.AmountMinor)
	}
	if req.Currency == "" {
		req.Currency = domain.DefaultCurrency
	}

	logger.GatewayCall("CreateOrder", "amount", req.AmountMinor, "currency", req.Currency, "receipt", req.Receipt, "key_id", logger.Mask(c.keyID))
	ref, err := c.breaker.Execute(func() (domain.GatewayOrderRef, error) {
		return c.createOrder(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	logger.GatewayResult("CreateOrder", err, "gateway_order_id", ref.ID)
	return ref, err
}

func (c *RazorpayClient) createOrder(ctx context.Context, req CreateOrderRequest) (domain.GatewayOrderRef, error) {
	body, err := json.Marshal(razorpayOrderRequest{
		Amount:         req.AmountMinor,
		Currency:       req.Currency,
		Receipt:        req.Receipt,
		Notes:          req.Notes,
		PaymentCapture: 1,
	})
	if err != nil {
		return domain.GatewayOrderRef{}, fmt.Errorf("marshal gateway order: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return domain.GatewayOrderRef{}, fmt.Errorf("build gateway request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return domain.GatewayOrderRef{}, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.GatewayOrderRef{}, fmt.Errorf("%w: reading response: %v", domain.ErrGatewayUnavailable, err)
	}

	if resp.StatusCode >= 300 {
		var gwErr razorpayError
		_ = json.Unmarshal(respBody, &gwErr)
		return domain.GatewayOrderRef{}, fmt.Errorf("%w: status %d %s %s", domain.ErrGatewayUnavailable,
			resp.StatusCode, gwErr.Error.Code, gwErr.Error.Description)
	}

	var order razorpayOrder
	if err := json.Unmarshal(respBody, &order); err != nil || order.ID == "" {
		return domain.GatewayOrderRef{}, fmt.Errorf("%w: malformed order response", domain.ErrGatewayUnavailable)
	}

	return domain.GatewayOrderRef{
		ID:       order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
		Status:   order.Status,
	}, nil
}
