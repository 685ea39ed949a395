package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"petonrent-backend/internal/domain"
	"petonrent-backend/internal/gateway"
	"petonrent-backend/internal/lock"
	"petonrent-backend/internal/logger"
	"petonrent-backend/internal/pricing"
	"petonrent-backend/internal/repository"
)

const orderTypeNote = "pet_rental"

type PaymentConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	Currency      string
}

type paymentService struct {
	orderRepo repository.OrderRepository
	gateway   gateway.Client
	locker    lock.Locker
	notifier  Notifier
	cfg       PaymentConfig
	now       func() time.Time
}

func NewPaymentService(
	orderRepo repository.OrderRepository,
	gw gateway.Client,
	locker lock.Locker,
	notifier Notifier,
	cfg PaymentConfig,
) PaymentService {
	if locker == nil {
		locker = lock.NopLocker{}
	}
	if cfg.Currency == "" {
		cfg.Currency = domain.DefaultCurrency
	}
	return &paymentService{
		orderRepo: orderRepo,
		gateway:   gw,
		locker:    locker,
		notifier:  notifier,
		cfg:       cfg,
		now:       time.Now,
	}
}

// CreateGatewayOrder opens a remote order for the stored order total and links it
// to the local order. Calling it again re-targets the order at a fresh remote order.
func (s *paymentService) CreateGatewayOrder(ctx context.Context, userID, orderID string) (*PaymentOrder, error) {
	logger.EnterMethod("paymentService.CreateGatewayOrder", "userID", userID, "orderID", orderID)

	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if strings.TrimSpace(orderID) == "" {
		verr := &domain.ValidationError{}
		verr.Add("orderId", "is required")
		return nil, verr
	}

	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != domain.PaymentMethodOnline {
		return nil, domain.ErrPaymentNotRequired
	}
	if order.IsPaid() {
		return nil, domain.ErrOrderAlreadyPaid
	}

	currency := order.Currency
	if currency == "" {
		currency = s.cfg.Currency
	}

	ref, err := s.gateway.CreateOrder(ctx, gateway.CreateOrderRequest{
		AmountMinor: pricing.ToMinorUnits(pricing.FromFloat(order.Totals.Amount)),
		Currency:    currency,
		Receipt:     receiptFor(order.ID, s.now()),
		Notes: map[string]string{
			"userId":    userID,
			"orderId":   order.ID,
			"orderType": orderTypeNote,
		},
	})
	if err != nil {
		logger.ExitMethodWithError("paymentService.CreateGatewayOrder", err, errors.Is(err, domain.ErrInvalidAmount), "orderID", order.ID)
		return nil, err
	}

	if err := s.orderRepo.AttachGatewayOrder(ctx, order.ID, ref.ID); err != nil {
		logger.ExitMethodWithError("paymentService.CreateGatewayOrder", err, false, "orderID", order.ID, "gatewayOrderID", ref.ID)
		if errors.Is(err, domain.ErrOrderAlreadyPaid) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to link gateway order: %w", err)
	}

	logger.ExitMethod("paymentService.CreateGatewayOrder", "orderID", order.ID, "gatewayOrderID", ref.ID, "amount", ref.Amount)
	return &PaymentOrder{OrderID: order.ID, GatewayOrder: ref, KeyID: s.cfg.KeyID}, nil
}

// Reconcile verifies a checkout callback and marks the order paid.
// A mismatched signature writes nothing. Reconciling an order that is already
// paid returns it unchanged.
func (s *paymentService) Reconcile(ctx context.Context, gatewayOrderID, paymentID, signature string) (*domain.Order, error) {
	log := logger.WithOrder("", gatewayOrderID)

	verr := &domain.ValidationError{}
	if gatewayOrderID == "" {
		verr.Add("razorpay_order_id", "is required")
	}
	if paymentID == "" {
		verr.Add("razorpay_payment_id", "is required")
	}
	if signature == "" {
		verr.Add("razorpay_signature", "is required")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	release, err := s.acquire(ctx, gatewayOrderID)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := s.orderRepo.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return nil, err
	}

	if !gateway.VerifySignature(gatewayOrderID, paymentID, signature, s.cfg.KeySecret) {
		log.Warn("Payment signature mismatch", "order_id", order.ID, "payment_id", paymentID)
		return nil, domain.ErrSignatureMismatch
	}

	if order.IsPaid() {
		log.Info("Payment already reconciled", "order_id", order.ID)
		return order, nil
	}

	return s.markPaid(ctx, order, gatewayOrderID, paymentID, signature)
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID               string `json:"id"`
				OrderID          string `json:"order_id"`
				Status           string `json:"status"`
				ErrorDescription string `json:"error_description"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook applies gateway payment events. Events for unknown orders and
// unhandled event types are acknowledged and ignored.
func (s *paymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if s.cfg.WebhookSecret == "" {
		logger.Error("Webhook received but no webhook secret is configured")
		return domain.ErrSignatureMismatch
	}
	if !gateway.VerifyWebhookSignature(body, signature, s.cfg.WebhookSecret) {
		logger.Warn("Webhook signature mismatch")
		return domain.ErrSignatureMismatch
	}

	var evt webhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		verr := &domain.ValidationError{}
		verr.Add("body", "malformed webhook payload")
		return verr
	}

	payment := evt.Payload.Payment.Entity
	log := logger.WithOrder("", payment.OrderID).With("event", evt.Event, "payment_id", payment.ID)

	if payment.OrderID == "" {
		log.Debug("Ignoring webhook without order reference")
		return nil
	}

	switch evt.Event {
	case "payment.captured":
		release, err := s.acquire(ctx, payment.OrderID)
		if err != nil {
			return err
		}
		defer release()

		order, err := s.orderRepo.GetByGatewayOrderID(ctx, payment.OrderID)
		if errors.Is(err, domain.ErrOrderNotFound) {
			// Money was captured but nothing can be credited; needs manual follow-up.
			log.Error("Captured payment for unknown gateway order")
			return nil
		}
		if err != nil {
			return err
		}
		if order.IsPaid() {
			return nil
		}
		_, err = s.markPaid(ctx, order, payment.OrderID, payment.ID, "")
		return err

	case "payment.failed":
		updated, err := s.orderRepo.MarkPaymentFailed(ctx, payment.OrderID, payment.ID)
		if err != nil {
			return err
		}
		log.Info("Payment failed", "updated", updated, "reason", payment.ErrorDescription)
		return nil

	default:
		log.Debug("Ignoring webhook event")
		return nil
	}
}

// markPaid performs the conditional paid transition against the gateway order the
// payment was made on, which may be one superseded by a later CreateGatewayOrder.
// If another caller won the race the stored order is returned as is.
func (s *paymentService) markPaid(ctx context.Context, order *domain.Order, gatewayOrderID, paymentID, signature string) (*domain.Order, error) {
	log := logger.WithOrder(order.ID, gatewayOrderID)
	if gatewayOrderID != order.GatewayOrderID {
		log.Warn("Payment captured on superseded gateway order", "current_gateway_order_id", order.GatewayOrderID, "payment_id", paymentID)
	}

	updated, err := s.orderRepo.MarkPaid(ctx, gatewayOrderID, paymentID, signature)
	if err != nil {
		log.Error("Failed to mark order paid", "error", err)
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	if !updated {
		log.Info("Order was paid concurrently")
		return s.orderRepo.GetByGatewayOrderID(ctx, gatewayOrderID)
	}

	order.GatewayOrderID = gatewayOrderID
	order.MarkPaid(paymentID, signature)
	log.Info("Payment verified", "payment_id", paymentID)

	if s.notifier != nil {
		if err := s.notifier.PaymentConfirmed(ctx, order); err != nil {
			log.Warn("Failed to send payment confirmation", "error", err)
		}
	}
	return order, nil
}

// acquire takes the per gateway order verification lock. When the lock store is
// unreachable verification continues, since MarkPaid is conditional.
func (s *paymentService) acquire(ctx context.Context, gatewayOrderID string) (func(), error) {
	release, err := s.locker.Acquire(ctx, "payment:verify:"+gatewayOrderID)
	if errors.Is(err, lock.ErrLocked) {
		return nil, domain.ErrVerificationInProgress
	}
	if err != nil {
		logger.Warn("Verification lock unavailable, continuing without it", "gatewayOrderID", gatewayOrderID, "error", err)
		return func() {}, nil
	}
	return release, nil
}

// receiptFor builds the gateway receipt: rcpt_<first 8 of order id>_<last 6 digits of the unix time>
func receiptFor(orderID string, now time.Time) string {
	short := strings.ReplaceAll(orderID, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	ts := strconv.FormatInt(now.Unix(), 10)
	if len(ts) > 6 {
		ts = ts[len(ts)-6:]
	}
	return "rcpt_" + short + "_" + ts
}
