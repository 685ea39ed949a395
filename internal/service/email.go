package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"petonrent-backend/internal/domain"
	"petonrent-backend/internal/logger"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type mailSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridNotifier struct {
	client     mailSender
	fromEmail  string
	fromName   string
	adminEmail string
}

func NewSendGridNotifier(apiKey, fromEmail, fromName, adminEmail string) Notifier {
	return &sendGridNotifier{
		client:     sendgrid.NewSendClient(apiKey),
		fromEmail:  fromEmail,
		fromName:   fromName,
		adminEmail: adminEmail,
	}
}

func (n *sendGridNotifier) OrderPlaced(ctx context.Context, order *domain.Order) error {
	if order.ContactInfo.Email == "" {
		return nil
	}
	subject := fmt.Sprintf("We received your order #%s", shortID(order.ID))
	plain := fmt.Sprintf("Hi %s,\n\nThanks for your order. Total payable: %s %.2f (%s).\n\n%s\nWe will be in touch at %s.\n\nPetOnRent",
		order.ContactInfo.Name, order.Currency, order.Totals.Amount, paymentLabel(order.PaymentMethod), itemLines(order), order.ContactInfo.Phone)
	return n.send(order.ContactInfo.Email, order.ContactInfo.Name, subject, plain)
}

func (n *sendGridNotifier) PaymentConfirmed(ctx context.Context, order *domain.Order) error {
	if order.ContactInfo.Email == "" {
		return nil
	}
	subject := fmt.Sprintf("Payment received for order #%s", shortID(order.ID))
	plain := fmt.Sprintf("Hi %s,\n\nWe received your payment of %s %.2f (payment id %s). Your order is now being processed.\n\nPetOnRent",
		order.ContactInfo.Name, order.Currency, order.Totals.Amount, order.GatewayPaymentID)
	return n.send(order.ContactInfo.Email, order.ContactInfo.Name, subject, plain)
}

func (n *sendGridNotifier) PendingPaymentsDigest(ctx context.Context, orders []domain.Order) error {
	if n.adminEmail == "" || len(orders) == 0 {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d online orders are still awaiting payment:\n\n", len(orders))
	for _, o := range orders {
		fmt.Fprintf(&b, "- %s  %s %.2f  gateway order %s  placed %s\n",
			o.ID, o.Currency, o.Totals.Amount, orDash(o.GatewayOrderID), o.CreatedAt.Format("2006-01-02 15:04 MST"))
	}
	subject := fmt.Sprintf("[PetOnRent] %d orders pending payment", len(orders))
	return n.send(n.adminEmail, "", subject, b.String())
}

func (n *sendGridNotifier) send(to, toName, subject, plain string) error {
	msg := mail.NewSingleEmail(
		mail.NewEmail(n.fromName, n.fromEmail),
		subject,
		mail.NewEmail(toName, to),
		plain,
		"<pre>"+html.EscapeString(plain)+"</pre>",
	)

	resp, err := n.client.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", resp.StatusCode, resp.Body)
	}
	logger.Debug("Email sent", "subject", subject, "status", resp.StatusCode)
	return nil
}

// nopNotifier is used when no SendGrid key is configured
type nopNotifier struct{}

func NewNopNotifier() Notifier { return nopNotifier{} }

func (nopNotifier) OrderPlaced(context.Context, *domain.Order) error { return nil }

func (nopNotifier) PaymentConfirmed(context.Context, *domain.Order) error { return nil }

func (nopNotifier) PendingPaymentsDigest(context.Context, []domain.Order) error { return nil }

func itemLines(order *domain.Order) string {
	var b strings.Builder
	for _, item := range order.Items {
		switch item.Kind {
		case domain.ItemKindRent:
			fmt.Fprintf(&b, "- %s: rent for %d days from %s\n", item.Name, item.RentalDays, item.FromDate.Format("02 Jan 2006"))
		default:
			fmt.Fprintf(&b, "- %s\n", item.Name)
		}
	}
	return b.String()
}

func paymentLabel(m domain.PaymentMethod) string {
	if m == domain.PaymentMethodCOD {
		return "cash on delivery"
	}
	return "online payment"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
