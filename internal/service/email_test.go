package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"petonrent-backend/internal/domain"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailSender struct {
	sent   []*mail.SGMailV3
	status int
	err    error
}

func (f *fakeMailSender) Send(email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, email)
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status, Body: `{"errors":[{"message":"bad"}]}`}, nil
}

func newTestNotifier(sender *fakeMailSender) *sendGridNotifier {
	return &sendGridNotifier{client: sender, fromEmail: "orders@petonrent.in", fromName: "PetOnRent", adminEmail: "ops@petonrent.in"}
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:            "5f8e3c5e-9a7b-4a53-8d43-0d8f0b0e6f11",
		Items:         []domain.CartLineItem{{Name: "Bruno", Kind: domain.ItemKindRent, RentalDays: 3, FromDate: domain.NewDate(2026, time.May, 1)}, {Name: "Dog bed", Kind: domain.ItemKindBuy}},
		ContactInfo:   domain.ContactInfo{Name: "Asha Rao", Email: "asha@example.com", Phone: "9876543210"},
		PaymentMethod: domain.PaymentMethodOnline,
		Totals:        domain.OrderTotals{Amount: 1298},
		Currency:      "INR",
	}
}

func TestSendGridNotifier_OrderPlaced(t *testing.T) {
	sender := &fakeMailSender{status: 202}
	n := newTestNotifier(sender)

	require.NoError(t, n.OrderPlaced(context.Background(), sampleOrder()))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "We received your order #5f8e3c5e", msg.Subject)
	assert.Equal(t, "orders@petonrent.in", msg.From.Address)
	require.Len(t, msg.Personalizations, 1)
	assert.Equal(t, "asha@example.com", msg.Personalizations[0].To[0].Address)
	require.Len(t, msg.Content, 2)
	assert.Contains(t, msg.Content[0].Value, "INR 1298.00")
	assert.Contains(t, msg.Content[0].Value, "Bruno: rent for 3 days from 01 May 2026")
}

func TestSendGridNotifier_SkipsOrdersWithoutEmail(t *testing.T) {
	sender := &fakeMailSender{status: 202}
	n := newTestNotifier(sender)
	o := sampleOrder()
	o.ContactInfo.Email = ""

	require.NoError(t, n.OrderPlaced(context.Background(), o))
	require.NoError(t, n.PaymentConfirmed(context.Background(), o))
	assert.Empty(t, sender.sent)
}

func TestSendGridNotifier_PaymentConfirmed(t *testing.T) {
	sender := &fakeMailSender{status: 202}
	n := newTestNotifier(sender)
	o := sampleOrder()
	o.MarkPaid("pay_1", "sig")

	require.NoError(t, n.PaymentConfirmed(context.Background(), o))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Content[0].Value, "payment id pay_1")
}

func TestSendGridNotifier_PendingPaymentsDigest(t *testing.T) {
	sender := &fakeMailSender{status: 202}
	n := newTestNotifier(sender)

	require.NoError(t, n.PendingPaymentsDigest(context.Background(), nil))
	assert.Empty(t, sender.sent)

	require.NoError(t, n.PendingPaymentsDigest(context.Background(), []domain.Order{*sampleOrder()}))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "[PetOnRent] 1 orders pending payment", sender.sent[0].Subject)
	assert.Equal(t, "ops@petonrent.in", sender.sent[0].Personalizations[0].To[0].Address)
	assert.Contains(t, sender.sent[0].Content[0].Value, "gateway order -")
}

func TestSendGridNotifier_Errors(t *testing.T) {
	n := newTestNotifier(&fakeMailSender{status: 401})
	err := n.OrderPlaced(context.Background(), sampleOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")

	n = newTestNotifier(&fakeMailSender{err: errors.New("connection reset")})
	err = n.OrderPlaced(context.Background(), sampleOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send email")
}
