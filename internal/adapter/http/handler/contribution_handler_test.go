package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/chitledger/internal/adapter/http/dto"
	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/usecase"
)

func TestContributionHandler_Initiate(t *testing.T) {
	var captured usecase.InitiateContributionInput
	h := NewContributionHandler(&settlementServiceStub{
		initiateFn: func(ctx context.Context, input usecase.InitiateContributionInput) (*domain.Contribution, error) {
			captured = input
			return &domain.Contribution{
				ID:             "c-1",
				Amount:         input.Amount,
				GatewayOrderID: "order-1",
				Status:         domain.ContributionStatusInitiated,
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/contributions", bytes.NewBufferString(`{"chit_group_id":"grp-1","user_id":"user-1","amount":"5000"}`))
	rec := httptest.NewRecorder()
	h.Initiate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !captured.Amount.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("amount = %s", captured.Amount)
	}

	var resp dto.ContributionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "INITIATED" || resp.GatewayOrderID != "order-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestContributionHandler_InitiateErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "bad amount", body: `{"chit_group_id":"grp-1","user_id":"u","amount":"x"}`, status: http.StatusBadRequest},
		{name: "kyc", body: `{"chit_group_id":"grp-1","user_id":"u","amount":"10"}`, err: domain.ErrMemberNotVerified, status: http.StatusForbidden},
		{name: "gateway down", body: `{"chit_group_id":"grp-1","user_id":"u","amount":"10"}`, err: domain.ErrGatewayUnavailable, status: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewContributionHandler(&settlementServiceStub{
				initiateFn: func(ctx context.Context, input usecase.InitiateContributionInput) (*domain.Contribution, error) {
					return nil, tt.err
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/contributions", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			h.Initiate(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestContributionHandler_ConfirmReturnsFailedRecord(t *testing.T) {
	h := NewContributionHandler(&settlementServiceStub{
		confirmFn: func(ctx context.Context, orderID, paymentRef string) (*domain.Contribution, error) {
			return &domain.Contribution{
				ID:             "c-1",
				GatewayOrderID: orderID,
				Status:         domain.ContributionStatusFailed,
				FailureReason:  domain.FailureReasonVerification,
			}, domain.ErrGatewayVerificationFailed
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/contributions/confirm", bytes.NewBufferString(`{"gateway_order_id":"order-1","payment_ref":"pay-1"}`))
	rec := httptest.NewRecorder()
	h.Confirm(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var resp dto.ContributionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "FAILED" {
		t.Fatalf("expected FAILED record, got %+v", resp)
	}
}

func TestContributionHandler_ConfirmInfrastructureError(t *testing.T) {
	h := NewContributionHandler(&settlementServiceStub{
		confirmFn: func(ctx context.Context, orderID, paymentRef string) (*domain.Contribution, error) {
			return nil, errors.New("connection reset")
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/contributions/confirm", bytes.NewBufferString(`{"gateway_order_id":"order-1","payment_ref":"pay-1"}`))
	rec := httptest.NewRecorder()
	h.Confirm(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestContributionHandler_ListByAccount(t *testing.T) {
	var gotLimit, gotOffset int
	h := NewContributionHandler(&settlementServiceStub{
		listFn: func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Contribution, error) {
			gotLimit, gotOffset = limit, offset
			return []*domain.Contribution{{ID: "c-1"}, {ID: "c-2"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/escrow-accounts/acc-1/contributions?limit=2&offset=4", nil)
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()
	h.ListByAccount(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotLimit != 2 || gotOffset != 4 {
		t.Fatalf("pagination not forwarded: %d %d", gotLimit, gotOffset)
	}
	var resp []dto.ContributionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 contributions, got %d", len(resp))
	}
}
