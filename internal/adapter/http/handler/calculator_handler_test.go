package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/chitledger/internal/adapter/http/dto"
	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/usecase"
)

func TestCalculatorHandler_Estimate(t *testing.T) {
	h := NewCalculatorHandler(usecase.NewCalculatorUseCase(nil, domain.DefaultGroupLimits()))

	body := `{"total_chit_amount":"100000","duration_months":12,"number_of_members":10,` +
		`"commission_rate_pct":"5","interest_rate_pct":"12"}`
	req := httptest.NewRequest(http.MethodPost, "/estimate", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.Estimate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.EstimateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got := resp.ContributionPerMember.StringFixed(2); got != "10000.00" {
		t.Fatalf("contribution per member = %s", got)
	}
	if got := resp.FinalAmount.StringFixed(2); got != "106400.00" {
		t.Fatalf("final amount = %s", got)
	}
}

func TestCalculatorHandler_EstimateOutOfBounds(t *testing.T) {
	h := NewCalculatorHandler(usecase.NewCalculatorUseCase(nil, domain.DefaultGroupLimits()))

	body := `{"total_chit_amount":"500","duration_months":12,"number_of_members":10,` +
		`"commission_rate_pct":"5","interest_rate_pct":"12"}`
	req := httptest.NewRequest(http.MethodPost, "/estimate", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.Estimate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCalculatorHandler_EstimateFractionalMembers(t *testing.T) {
	h := NewCalculatorHandler(usecase.NewCalculatorUseCase(nil, domain.DefaultGroupLimits()))

	body := `{"total_chit_amount":"100000","duration_months":12,"number_of_members":2.5,` +
		`"commission_rate_pct":"5","interest_rate_pct":"12"}`
	req := httptest.NewRequest(http.MethodPost, "/estimate", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.Estimate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Fields) != 1 || resp.Fields[0].Field != "number_of_members" {
		t.Fatalf("expected a number_of_members field error, got %+v", resp)
	}
	if resp.Fields[0].Message != "must be a positive integer" {
		t.Fatalf("unexpected message %q", resp.Fields[0].Message)
	}
}
