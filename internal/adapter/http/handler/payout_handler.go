package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/chitledger/internal/adapter/http/dto"
	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/usecase"
)

// PayoutService defines the behavior needed by PayoutHandler.
type PayoutService interface {
	ReleasePayout(ctx context.Context, input usecase.ReleasePayoutInput) (*domain.Payout, error)
	GetPayout(ctx context.Context, id string) (*domain.Payout, error)
	ListPayouts(ctx context.Context, accountID string, limit, offset int) ([]*domain.Payout, error)
}

// PayoutHandler handles payout release requests.
type PayoutHandler struct {
	payoutUC PayoutService
}

// NewPayoutHandler creates a new PayoutHandler.
func NewPayoutHandler(payoutUC PayoutService) *PayoutHandler {
	return &PayoutHandler{payoutUC: payoutUC}
}

type riskBlockedResponse struct {
	Error     string `json:"error"`
	Score     int    `json:"risk_score"`
	Threshold int    `json:"threshold"`
}

// Release pays a cycle's winner from the escrow account.
func (h *PayoutHandler) Release(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	var req dto.ReleasePayoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	payout, err := h.payoutUC.ReleasePayout(r.Context(), req.ToUseCaseInput(accountID))
	if err != nil {
		var blocked *domain.RiskBlockedError
		if errors.As(err, &blocked) {
			writeJSON(w, http.StatusUnprocessableEntity, riskBlockedResponse{
				Error:     domain.ErrPayoutBlockedByRisk.Error(),
				Score:     blocked.Score,
				Threshold: blocked.Threshold,
			})
			return
		}
		writeDomainError(w, "failed to release payout", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PayoutFromDomain(payout))
}

// Get returns a payout.
func (h *PayoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	payout, err := h.payoutUC.GetPayout(r.Context(), chi.URLParam(r, "payoutID"))
	if err != nil {
		writeDomainError(w, "failed to get payout", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PayoutFromDomain(payout))
}

// ListByAccount lists payouts released from an account.
func (h *PayoutHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	limit, offset := pagination(r)

	payouts, err := h.payoutUC.ListPayouts(r.Context(), accountID, limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list payouts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PayoutsFromDomain(payouts))
}
