package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/chitledger/internal/adapter/http/dto"
	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/usecase"
)

// SettlementService defines the behavior needed by ContributionHandler.
type SettlementService interface {
	InitiateContribution(ctx context.Context, input usecase.InitiateContributionInput) (*domain.Contribution, error)
	ConfirmContribution(ctx context.Context, gatewayOrderID, paymentRef string) (*domain.Contribution, error)
	FailContribution(ctx context.Context, gatewayOrderID, reason string) (*domain.Contribution, error)
	GetContribution(ctx context.Context, id string) (*domain.Contribution, error)
	ListContributions(ctx context.Context, accountID string, limit, offset int) ([]*domain.Contribution, error)
}

// ContributionHandler handles member contribution requests.
type ContributionHandler struct {
	settlementUC SettlementService
}

// NewContributionHandler creates a new ContributionHandler.
func NewContributionHandler(settlementUC SettlementService) *ContributionHandler {
	return &ContributionHandler{settlementUC: settlementUC}
}

// Initiate opens a gateway order and records it as INITIATED.
func (h *ContributionHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	var req dto.InitiateContributionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid amount", err)
		return
	}

	contribution, err := h.settlementUC.InitiateContribution(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to initiate contribution", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ContributionFromDomain(contribution))
}

// Confirm settles an order against the gateway. A rejected settlement is
// answered with the FAILED record under the rejection's status code.
func (h *ContributionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req dto.ConfirmContributionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	contribution, err := h.settlementUC.ConfirmContribution(r.Context(), req.GatewayOrderID, req.PaymentRef)
	if err != nil {
		if contribution != nil && usecase.IsSettlementRejection(err) {
			writeJSON(w, mapDomainError(err), dto.ContributionFromDomain(contribution))
			return
		}
		writeDomainError(w, "failed to confirm contribution", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ContributionFromDomain(contribution))
}

// Fail marks a pending order failed.
func (h *ContributionHandler) Fail(w http.ResponseWriter, r *http.Request) {
	var req dto.FailContributionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	contribution, err := h.settlementUC.FailContribution(r.Context(), req.GatewayOrderID, req.Reason)
	if err != nil {
		writeDomainError(w, "failed to fail contribution", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ContributionFromDomain(contribution))
}

// Get returns a contribution's authoritative state.
func (h *ContributionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	contribution, err := h.settlementUC.GetContribution(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get contribution", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ContributionFromDomain(contribution))
}

// ListByAccount lists contributions into an escrow account.
func (h *ContributionHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	limit, offset := pagination(r)

	contributions, err := h.settlementUC.ListContributions(r.Context(), accountID, limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list contributions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ContributionsFromDomain(contributions))
}
