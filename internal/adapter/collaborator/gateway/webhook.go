package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iho/chitledger/internal/domain"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "X-Gateway-Signature"

// Webhook event types.
const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
)

// ErrInvalidSignature is returned when a webhook body fails verification.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// WebhookEvent is an asynchronous payment notification.
type WebhookEvent struct {
	Event     string `json:"event"`
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Reason    string `json:"reason"`
}

// Sign returns the signature the gateway would send for body.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares signature against the body's HMAC in constant time.
func VerifySignature(body []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), expected)
}

// ParseWebhook verifies and decodes a webhook delivery. Event types other
// than captured and failed are returned as-is for the caller to ignore.
func ParseWebhook(body []byte, signature, secret string) (*WebhookEvent, error) {
	if !VerifySignature(body, signature, secret) {
		return nil, ErrInvalidSignature
	}

	var ev WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	if ev.OrderID == "" {
		return nil, fmt.Errorf("%w: order_id is required", domain.ErrMalformedResponse)
	}
	switch ev.Event {
	case EventPaymentCaptured:
		if ev.PaymentID == "" {
			return nil, fmt.Errorf("%w: payment_id is required", domain.ErrMalformedResponse)
		}
	case "":
		return nil, fmt.Errorf("%w: event is required", domain.ErrMalformedResponse)
	}

	return &ev, nil
}
