package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/iho/chitledger/internal/adapter/collaborator/gateway"
	"github.com/iho/chitledger/internal/domain"
)

const webhookSecret = "whsec"

func signedRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewBufferString(body))
	req.Header.Set(gateway.SignatureHeader, gateway.Sign([]byte(body), webhookSecret))
	return req
}

func TestWebhookHandler_Payments(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		confirmErr error
		failErr    error
		wantStatus int
		wantCall   string
	}{
		{name: "captured", body: `{"event":"payment.captured","order_id":"order-1","payment_id":"pay-1"}`, wantStatus: http.StatusOK, wantCall: "confirm"},
		{name: "failed", body: `{"event":"payment.failed","order_id":"order-1","reason":"card declined"}`, wantStatus: http.StatusOK, wantCall: "fail"},
		{name: "rejection acknowledged", body: `{"event":"payment.captured","order_id":"order-1","payment_id":"pay-1"}`, confirmErr: domain.ErrGatewayVerificationFailed, wantStatus: http.StatusOK, wantCall: "confirm"},
		{name: "unknown order acknowledged", body: `{"event":"payment.failed","order_id":"order-x"}`, failErr: domain.ErrContributionNotFound, wantStatus: http.StatusOK, wantCall: "fail"},
		{name: "gateway down retried", body: `{"event":"payment.captured","order_id":"order-1","payment_id":"pay-1"}`, confirmErr: domain.ErrGatewayUnavailable, wantStatus: http.StatusBadGateway, wantCall: "confirm"},
		{name: "storage failure retried", body: `{"event":"payment.captured","order_id":"order-1","payment_id":"pay-1"}`, confirmErr: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantCall: "confirm"},
		{name: "ignored event", body: `{"event":"refund.created","order_id":"order-1"}`, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called string
			h := NewWebhookHandler(&settlementServiceStub{
				confirmFn: func(ctx context.Context, orderID, paymentRef string) (*domain.Contribution, error) {
					called = "confirm"
					if orderID != "order-1" || paymentRef != "pay-1" {
						t.Fatalf("unexpected confirm args %s %s", orderID, paymentRef)
					}
					return &domain.Contribution{ID: "c-1"}, tt.confirmErr
				},
				failFn: func(ctx context.Context, orderID, reason string) (*domain.Contribution, error) {
					called = "fail"
					if reason == "" {
						t.Fatal("fail reason must not be empty")
					}
					return &domain.Contribution{ID: "c-1"}, tt.failErr
				},
			}, webhookSecret, zerolog.Nop())

			rec := httptest.NewRecorder()
			h.Payments(rec, signedRequest(tt.body))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if called != tt.wantCall {
				t.Fatalf("expected %q call, got %q", tt.wantCall, called)
			}
		})
	}
}

func TestWebhookHandler_RejectsBadSignature(t *testing.T) {
	h := NewWebhookHandler(&settlementServiceStub{
		confirmFn: func(ctx context.Context, orderID, paymentRef string) (*domain.Contribution, error) {
			t.Fatal("unsigned webhook must not settle")
			return nil, nil
		},
	}, webhookSecret, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments",
		bytes.NewBufferString(`{"event":"payment.captured","order_id":"order-1","payment_id":"pay-1"}`))
	req.Header.Set(gateway.SignatureHeader, "deadbeef")
	rec := httptest.NewRecorder()
	h.Payments(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
