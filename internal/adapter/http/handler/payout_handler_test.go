package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/usecase"
)

func TestPayoutHandler_Release(t *testing.T) {
	var captured usecase.ReleasePayoutInput
	h := NewPayoutHandler(&payoutServiceStub{
		releaseFn: func(ctx context.Context, input usecase.ReleasePayoutInput) (*domain.Payout, error) {
			captured = input
			return &domain.Payout{
				ID:              "p-1",
				EscrowAccountID: input.EscrowAccountID,
				CycleMonth:      input.CycleMonth,
				GrossPoolAmount: decimal.NewFromInt(100000),
				CommissionAmt:   decimal.NewFromInt(5000),
				NetPayoutAmount: decimal.NewFromInt(95000),
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/escrow-accounts/acc-1/payouts", bytes.NewBufferString(`{"winner_user_id":"user-7","cycle_month":1}`))
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()
	h.Release(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.EscrowAccountID != "acc-1" || captured.WinnerUserID != "user-7" || captured.CycleMonth != 1 {
		t.Fatalf("unexpected input: %+v", captured)
	}
}

func TestPayoutHandler_ReleaseBlockedByRisk(t *testing.T) {
	h := NewPayoutHandler(&payoutServiceStub{
		releaseFn: func(ctx context.Context, input usecase.ReleasePayoutInput) (*domain.Payout, error) {
			return nil, &domain.RiskBlockedError{Score: 85, Threshold: 70}
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/escrow-accounts/acc-1/payouts", bytes.NewBufferString(`{"winner_user_id":"user-7","cycle_month":2}`))
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()
	h.Release(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var resp riskBlockedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Score != 85 || resp.Threshold != 70 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestPayoutHandler_ReleaseInsufficientFunds(t *testing.T) {
	h := NewPayoutHandler(&payoutServiceStub{
		releaseFn: func(ctx context.Context, input usecase.ReleasePayoutInput) (*domain.Payout, error) {
			return nil, domain.ErrInsufficientFunds
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/escrow-accounts/acc-1/payouts", bytes.NewBufferString(`{"winner_user_id":"user-7","cycle_month":1}`))
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()
	h.Release(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}
