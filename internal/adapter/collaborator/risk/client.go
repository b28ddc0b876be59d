// Package risk provides payout risk scorers.
package risk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/chitledger/internal/adapter/collaborator/httpjson"
	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/usecase"
)

// Client implements usecase.RiskScorer against the scoring service.
type Client struct {
	http *httpjson.Client
}

// NewClient creates a new risk scoring Client.
func NewClient(baseURL, token string, timeout time.Duration, opts ...httpjson.Option) *Client {
	opts = append([]httpjson.Option{httpjson.WithBearerToken(token)}, opts...)
	return &Client{http: httpjson.New(baseURL, timeout, opts...)}
}

type scoreRequest struct {
	WinnerUserID    string          `json:"winner_user_id"`
	EscrowAccountID string          `json:"escrow_account_id"`
	GrossPoolAmount decimal.Decimal `json:"gross_pool_amount"`
	CycleMonth      int             `json:"cycle_month"`
}

type scoreResponse struct {
	RiskScore *int `json:"risk_score"`
}

func (r *scoreResponse) Validate() error {
	if r.RiskScore == nil {
		return errors.New("risk_score is required")
	}
	if *r.RiskScore < 0 || *r.RiskScore > domain.MaxRiskScore {
		return fmt.Errorf("risk_score %d outside [0, %d]", *r.RiskScore, domain.MaxRiskScore)
	}
	return nil
}

// Score asks the service to score a release.
func (c *Client) Score(ctx context.Context, rc usecase.RiskContext) (int, error) {
	var resp scoreResponse
	err := c.http.Do(ctx, http.MethodPost, "/v1/score", scoreRequest{
		WinnerUserID:    rc.WinnerUserID,
		EscrowAccountID: rc.EscrowAccountID,
		GrossPoolAmount: rc.GrossPoolAmount,
		CycleMonth:      rc.CycleMonth,
	}, &resp)
	if err != nil {
		return 0, err
	}

	return *resp.RiskScore, nil
}
