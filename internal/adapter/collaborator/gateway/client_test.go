package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/chitledger/internal/adapter/collaborator/httpjson"
	"github.com/iho/chitledger/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, KeyID: "rzp_key", KeySecret: "rzp_secret", Timeout: time.Second})
}

func TestClientCreateOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, _, _ := r.BasicAuth()
		assert.Equal(t, "rzp_key", user)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "5000", req["amount"])
		assert.Equal(t, "INR", req["currency"])

		_, _ = w.Write([]byte(`{"id":"order_abc","amount":"5000","currency":"INR","status":"created"}`))
	})

	order, err := c.CreateOrder(context.Background(), decimal.NewFromInt(5000), "INR")
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.OrderID)
	assert.True(t, order.Amount.Equal(decimal.NewFromInt(5000)))
}

func TestClientCreateOrderMalformed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"amount":"5000","currency":"INR"}`))
	})

	_, err := c.CreateOrder(context.Background(), decimal.NewFromInt(5000), "INR")
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestClientVerifyPayment(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    bool
		wantErr error
	}{
		{name: "verified", body: `{"verified":true}`, want: true},
		{name: "rejected", body: `{"verified":false}`, want: false},
		{name: "missing flag", body: `{}`, wantErr: domain.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				var req verifyRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "order_1", req.OrderID)
				assert.Equal(t, "pay_1", req.PaymentID)
				_, _ = w.Write([]byte(tt.body))
			})

			got, err := c.VerifyPayment(context.Background(), "order_1", "pay_1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClientVerifyPaymentUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.VerifyPayment(context.Background(), "order_1", "pay_1")
	assert.ErrorIs(t, err, httpjson.ErrUnavailable)
}
