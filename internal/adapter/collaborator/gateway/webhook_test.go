package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/chitledger/internal/domain"
)

const testSecret = "whsec_test"

func TestParseWebhook(t *testing.T) {
	body := []byte(`{"event":"payment.captured","order_id":"order_1","payment_id":"pay_1"}`)

	ev, err := ParseWebhook(body, Sign(body, testSecret), testSecret)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentCaptured, ev.Event)
	assert.Equal(t, "order_1", ev.OrderID)
	assert.Equal(t, "pay_1", ev.PaymentID)
}

func TestParseWebhookRejects(t *testing.T) {
	captured := []byte(`{"event":"payment.captured","order_id":"order_1","payment_id":"pay_1"}`)

	tests := []struct {
		name      string
		body      []byte
		signature string
		wantErr   error
	}{
		{name: "tampered body", body: []byte(`{"event":"payment.captured","order_id":"order_2","payment_id":"pay_1"}`), signature: Sign(captured, testSecret), wantErr: ErrInvalidSignature},
		{name: "wrong secret", body: captured, signature: Sign(captured, "other"), wantErr: ErrInvalidSignature},
		{name: "not hex", body: captured, signature: "zz", wantErr: ErrInvalidSignature},
		{name: "missing signature", body: captured, signature: "", wantErr: ErrInvalidSignature},
		{name: "missing event", body: []byte(`{"order_id":"order_1"}`), wantErr: domain.ErrMalformedResponse},
		{name: "capture without payment", body: []byte(`{"event":"payment.captured","order_id":"order_1"}`), wantErr: domain.ErrMalformedResponse},
		{name: "missing order", body: []byte(`{"event":"payment.failed"}`), wantErr: domain.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := tt.signature
			if sig == "" && tt.wantErr != ErrInvalidSignature {
				sig = Sign(tt.body, testSecret)
			}
			_, err := ParseWebhook(tt.body, sig, testSecret)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestVerifySignatureRequiresSecret(t *testing.T) {
	body := []byte(`{}`)
	assert.False(t, VerifySignature(body, Sign(body, ""), ""))
}
