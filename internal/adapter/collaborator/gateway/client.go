// Package gateway adapts the external payment processor.
package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/chitledger/internal/adapter/collaborator/httpjson"
	"github.com/iho/chitledger/internal/usecase"
)

// Config holds gateway credentials and endpoints.
type Config struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Timeout   time.Duration
}

// Client implements usecase.PaymentGateway over the gateway's REST API.
type Client struct {
	http *httpjson.Client
}

// NewClient creates a new gateway Client.
func NewClient(cfg Config, opts ...httpjson.Option) *Client {
	opts = append([]httpjson.Option{httpjson.WithBasicAuth(cfg.KeyID, cfg.KeySecret)}, opts...)
	return &Client{http: httpjson.New(cfg.BaseURL, cfg.Timeout, opts...)}
}

type createOrderRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type orderResponse struct {
	ID       string           `json:"id"`
	Amount   *decimal.Decimal `json:"amount"`
	Currency string           `json:"currency"`
	Status   string           `json:"status"`
}

func (r *orderResponse) Validate() error {
	if r.ID == "" {
		return errors.New("order id is required")
	}
	if r.Amount == nil {
		return errors.New("order amount is required")
	}
	if r.Currency == "" {
		return errors.New("order currency is required")
	}
	return nil
}

// CreateOrder opens a gateway order for amount.
func (c *Client) CreateOrder(ctx context.Context, amount decimal.Decimal, currency string) (*usecase.GatewayOrder, error) {
	var resp orderResponse
	err := c.http.Do(ctx, http.MethodPost, "/v1/orders", createOrderRequest{
		Amount:   amount,
		Currency: currency,
	}, &resp)
	if err != nil {
		return nil, err
	}

	return &usecase.GatewayOrder{
		OrderID:  resp.ID,
		Amount:   *resp.Amount,
		Currency: resp.Currency,
	}, nil
}

type verifyRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
}

type verifyResponse struct {
	Verified *bool `json:"verified"`
}

func (r *verifyResponse) Validate() error {
	if r.Verified == nil {
		return errors.New("verified flag is required")
	}
	return nil
}

// VerifyPayment asks the gateway whether paymentRef settled orderID.
func (c *Client) VerifyPayment(ctx context.Context, orderID, paymentRef string) (bool, error) {
	var resp verifyResponse
	err := c.http.Do(ctx, http.MethodPost, "/v1/payments/verify", verifyRequest{
		OrderID:   orderID,
		PaymentID: paymentRef,
	}, &resp)
	if err != nil {
		return false, err
	}

	return *resp.Verified, nil
}
