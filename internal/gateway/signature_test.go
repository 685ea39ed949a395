package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	const (
		orderID   = "order_Nx1"
		paymentID = "pay_29QQoUBi66xm2f"
		secret    = "webhook-secret"
	)
	sig := PaymentSignature(orderID, paymentID, secret)

	t.Run("Valid", func(t *testing.T) {
		assert.True(t, VerifySignature(orderID, paymentID, sig, secret))
		assert.True(t, VerifySignature(orderID, paymentID, sig, secret), "verification must be deterministic")
	})

	t.Run("Signs order and payment joined by a pipe", func(t *testing.T) {
		assert.Len(t, sig, 64)
		assert.Equal(t, Sign([]byte("order_Nx1|pay_29QQoUBi66xm2f"), secret), sig)
	})

	flip := func(s string) string {
		b := []byte(s)
		if b[0] == 'a' {
			b[0] = 'b'
		} else {
			b[0] = 'a'
		}
		return string(b)
	}

	tests := []struct {
		name                           string
		orderID, paymentID, sig, secret string
	}{
		{"Altered order id", flip(orderID), paymentID, sig, secret},
		{"Altered payment id", orderID, flip(paymentID), sig, secret},
		{"Altered signature", orderID, paymentID, flip(sig), secret},
		{"Altered secret", orderID, paymentID, sig, flip(secret)},
		{"Empty signature", orderID, paymentID, "", secret},
		{"Empty secret", orderID, paymentID, sig, ""},
		{"Uppercase signature", orderID, paymentID, "ABC" + sig[3:], secret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, VerifySignature(tt.orderID, tt.paymentID, tt.sig, tt.secret))
		})
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)
	sig := Sign(body, "whsec")

	assert.True(t, VerifyWebhookSignature(body, sig, "whsec"))
	assert.False(t, VerifyWebhookSignature(append(body, ' '), sig, "whsec"))
	assert.False(t, VerifyWebhookSignature(body, sig, "other"))
	assert.False(t, VerifyWebhookSignature(body, "", "whsec"))
}
